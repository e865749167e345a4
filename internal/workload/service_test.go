package workload_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/workforce-management/internal"
	initiativeDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/initiative"
	projectDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/project"
	userDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/user"
	"github.com/frahmantamala/workforce-management/internal/workload"
)

// Mock readers for testing
type mockUserReader struct {
	users    map[int64]*userDatamodel.User
	getError error
}

func (m *mockUserReader) GetByID(id int64) (*userDatamodel.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	return m.users[id], nil
}

type mockProjectReader struct {
	projects  []*projectDatamodel.Project
	listError error
}

func (m *mockProjectReader) ListActiveForEmployee(employeeID int64) ([]*projectDatamodel.Project, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	var out []*projectDatamodel.Project
	for _, p := range m.projects {
		if p.Status != projectDatamodel.StatusActive {
			continue
		}
		for _, a := range p.Assignments {
			if a.EmployeeID == employeeID {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

type mockInitiativeReader struct {
	initiatives []*initiativeDatamodel.Initiative
	listError   error
}

func (m *mockInitiativeReader) ListActiveForEmployee(employeeID int64) ([]*initiativeDatamodel.Initiative, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	var out []*initiativeDatamodel.Initiative
	for _, i := range m.initiatives {
		if i.Status == initiativeDatamodel.StatusActive && i.AssignedTo != nil && *i.AssignedTo == employeeID {
			out = append(out, i)
		}
	}
	return out, nil
}

func ptr[T any](v T) *T { return &v }

func TestWorkloadService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Workload Service Suite")
}

var _ = Describe("WorkloadService", func() {
	var (
		service     *workload.Service
		users       *mockUserReader
		projects    *mockProjectReader
		initiatives *mockInitiativeReader
		logger      *slog.Logger
	)

	BeforeEach(func() {
		users = &mockUserReader{users: map[int64]*userDatamodel.User{
			1: {ID: 1, Email: "dev@mail.com", Role: userDatamodel.RoleEmployee, WorkloadCap: 100, OverBeyondCap: 20, IsActive: true},
		}}
		projects = &mockProjectReader{}
		initiatives = &mockInitiativeReader{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = workload.NewService(users, projects, initiatives, logger)
	})

	Describe("Snapshot", func() {
		Context("when the employee has no work", func() {
			It("should report full availability", func() {
				snap, err := service.Snapshot(1)

				Expect(err).ToNot(HaveOccurred())
				Expect(snap.ProjectWorkload).To(Equal(0))
				Expect(snap.OverBeyondWorkload).To(Equal(0))
				Expect(snap.AvailableCapacity).To(Equal(100))
				Expect(snap.OverBeyondAvailable).To(Equal(20))
			})
		})

		Context("when the employee is assigned across active projects", func() {
			BeforeEach(func() {
				projects.projects = []*projectDatamodel.Project{
					{
						ID: 10, Status: projectDatamodel.StatusActive,
						Assignments: []projectDatamodel.Assignment{
							{ProjectID: 10, EmployeeID: 1, InvolvementPercentage: 40},
							{ProjectID: 10, EmployeeID: 2, InvolvementPercentage: 50},
						},
					},
					{
						ID: 11, Status: projectDatamodel.StatusActive,
						Assignments: []projectDatamodel.Assignment{
							{ProjectID: 11, EmployeeID: 1, InvolvementPercentage: 30},
						},
					},
				}
			})

			It("should sum only this employee's involvement", func() {
				snap, err := service.Snapshot(1)

				Expect(err).ToNot(HaveOccurred())
				Expect(snap.ProjectWorkload).To(Equal(70))
				Expect(snap.AvailableCapacity).To(Equal(30))
			})
		})

		Context("when assignments sit on a non-active project", func() {
			BeforeEach(func() {
				projects.projects = []*projectDatamodel.Project{
					{
						ID: 10, Status: projectDatamodel.StatusPending,
						Assignments: []projectDatamodel.Assignment{
							{ProjectID: 10, EmployeeID: 1, InvolvementPercentage: 60},
						},
					},
				}
			})

			It("should not count them against the project pool", func() {
				snap, err := service.Snapshot(1)

				Expect(err).ToNot(HaveOccurred())
				Expect(snap.ProjectWorkload).To(Equal(0))
				Expect(snap.AvailableCapacity).To(Equal(100))
			})
		})

		Context("when initiatives are active", func() {
			BeforeEach(func() {
				initiatives.initiatives = []*initiativeDatamodel.Initiative{
					{ID: 1, AssignedTo: ptr(int64(1)), Status: initiativeDatamodel.StatusActive, WorkloadPercentage: 10},
					{ID: 2, AssignedTo: ptr(int64(1)), Status: initiativeDatamodel.StatusPending, WorkloadPercentage: 15},
					{ID: 3, AssignedTo: ptr(int64(1)), Status: initiativeDatamodel.StatusActive, WorkloadPercentage: 5},
				}
			})

			It("should count only active initiatives in the over-beyond pool", func() {
				snap, err := service.Snapshot(1)

				Expect(err).ToNot(HaveOccurred())
				Expect(snap.OverBeyondWorkload).To(Equal(15))
				Expect(snap.OverBeyondAvailable).To(Equal(5))
			})

			It("should not subtract over-beyond work from project availability", func() {
				snap, err := service.Snapshot(1)

				Expect(err).ToNot(HaveOccurred())
				Expect(snap.AvailableCapacity).To(Equal(100))
			})
		})

		Context("when workload exceeds the cap", func() {
			BeforeEach(func() {
				users.users[1].WorkloadCap = 50
				projects.projects = []*projectDatamodel.Project{
					{
						ID: 10, Status: projectDatamodel.StatusActive,
						Assignments: []projectDatamodel.Assignment{
							{ProjectID: 10, EmployeeID: 1, InvolvementPercentage: 80},
						},
					},
				}
			})

			It("should clamp available capacity at zero", func() {
				snap, err := service.Snapshot(1)

				Expect(err).ToNot(HaveOccurred())
				Expect(snap.ProjectWorkload).To(Equal(80))
				Expect(snap.AvailableCapacity).To(Equal(0))
			})
		})

		Context("when the employee does not exist", func() {
			It("should fail with unknown employee instead of an all-zero snapshot", func() {
				snap, err := service.Snapshot(999)

				Expect(snap).To(BeNil())
				Expect(errors.Is(err, internal.ErrUnknownEmployee)).To(BeTrue())
			})
		})

		Context("when the user lookup fails", func() {
			BeforeEach(func() {
				users.getError = errors.New("connection refused")
			})

			It("should propagate the error", func() {
				_, err := service.Snapshot(1)
				Expect(err).To(HaveOccurred())
			})
		})
	})
})
