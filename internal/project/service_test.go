package project_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/workforce-management/internal"
	projectDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/project"
	"github.com/frahmantamala/workforce-management/internal/project"
)

func TestProjectService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Project Service Suite")
}

// Mock repository for testing. SaveVersioned enforces the conditional write
// the same way the real repository does: the stored version must still match
// what the caller read.
type mockProjectRepository struct {
	projects map[int64]*projectDatamodel.Project
	nextID   int64

	saveCalls     int
	conflictUntil int
	createError   error
	saveError     error
}

func newMockProjectRepository() *mockProjectRepository {
	return &mockProjectRepository{
		projects: make(map[int64]*projectDatamodel.Project),
		nextID:   1,
	}
}

func (m *mockProjectRepository) Create(p *projectDatamodel.Project) error {
	if m.createError != nil {
		return m.createError
	}
	p.ID = m.nextID
	m.nextID++
	stored := *p
	m.projects[p.ID] = &stored
	return nil
}

func (m *mockProjectRepository) GetByID(id int64) (*projectDatamodel.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, internal.ErrProjectNotFound
	}
	copied := *p
	copied.Assignments = append([]projectDatamodel.Assignment(nil), p.Assignments...)
	copied.Milestones = append([]projectDatamodel.Milestone(nil), p.Milestones...)
	return &copied, nil
}

func (m *mockProjectRepository) GetAll(limit, offset int) ([]*projectDatamodel.Project, error) {
	var out []*projectDatamodel.Project
	for _, p := range m.projects {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockProjectRepository) ListAll() ([]*projectDatamodel.Project, error) {
	return m.GetAll(0, 0)
}

func (m *mockProjectRepository) ListActiveForEmployee(employeeID int64) ([]*projectDatamodel.Project, error) {
	return nil, nil
}

func (m *mockProjectRepository) SaveVersioned(p *projectDatamodel.Project, expectedVersion int64) error {
	m.saveCalls++
	if m.saveError != nil {
		return m.saveError
	}
	if m.saveCalls <= m.conflictUntil {
		return internal.ErrConcurrentModification
	}
	stored, ok := m.projects[p.ID]
	if !ok || stored.Version != expectedVersion {
		return internal.ErrConcurrentModification
	}
	copied := *p
	m.projects[p.ID] = &copied
	return nil
}

func (m *mockProjectRepository) Delete(id int64) error {
	delete(m.projects, id)
	return nil
}

var _ = Describe("ProjectService", func() {
	var (
		service *project.Service
		repo    *mockProjectRepository
		logger  *slog.Logger
	)

	BeforeEach(func() {
		repo = newMockProjectRepository()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = project.NewService(repo, logger)
	})

	seedProject := func() *projectDatamodel.Project {
		p := &projectDatamodel.Project{
			Name:      "Platform Revamp",
			Status:    projectDatamodel.StatusActive,
			ManagerID: 7,
			Version:   1,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		Expect(repo.Create(p)).To(Succeed())
		return p
	}

	Describe("CreateProject", func() {
		It("should create a project at version 1 with pending status by default", func() {
			result, err := service.CreateProject(project.CreateProjectDTO{Name: "New Project"}, 7)

			Expect(err).ToNot(HaveOccurred())
			Expect(result.ID).To(BeNumerically(">", 0))
			Expect(result.Version).To(Equal(int64(1)))
			Expect(result.Status).To(Equal(project.StatusPending))
			Expect(result.ManagerID).To(Equal(int64(7)))
		})

		It("should reject an empty name", func() {
			_, err := service.CreateProject(project.CreateProjectDTO{}, 7)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ApplyMutation", func() {
		It("should bump the version by exactly one per mutation", func() {
			seeded := seedProject()

			result, err := service.ApplyMutation(seeded.ID, func(p *project.Project) error {
				p.Description = "first edit"
				return nil
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Version).To(Equal(int64(2)))

			result, err = service.ApplyMutation(seeded.ID, func(p *project.Project) error {
				p.Description = "second edit"
				return nil
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Version).To(Equal(int64(3)))
		})

		It("should not persist anything when the mutation rejects", func() {
			seeded := seedProject()
			rejection := errors.New("not allowed")

			_, err := service.ApplyMutation(seeded.ID, func(p *project.Project) error {
				return rejection
			})

			Expect(err).To(MatchError(rejection))
			Expect(repo.saveCalls).To(Equal(0))
			stored, _ := repo.GetByID(seeded.ID)
			Expect(stored.Version).To(Equal(int64(1)))
		})

		Context("when a concurrent writer wins the first attempt", func() {
			It("should re-read and retry until the write lands", func() {
				seeded := seedProject()
				repo.conflictUntil = 2

				result, err := service.ApplyMutation(seeded.ID, func(p *project.Project) error {
					p.Description = "edited"
					return nil
				})

				Expect(err).ToNot(HaveOccurred())
				Expect(repo.saveCalls).To(Equal(3))
				Expect(result.Version).To(Equal(int64(2)))
			})
		})

		Context("when every retry hits a conflict", func() {
			It("should surface the concurrency error after the retry budget", func() {
				seeded := seedProject()
				repo.conflictUntil = project.MaxMutationRetries + 1

				_, err := service.ApplyMutation(seeded.ID, func(p *project.Project) error {
					p.Description = "edited"
					return nil
				})

				Expect(errors.Is(err, internal.ErrConcurrentModification)).To(BeTrue())
				Expect(repo.saveCalls).To(Equal(project.MaxMutationRetries))
			})
		})

		It("should fail for a missing project", func() {
			_, err := service.ApplyMutation(999, func(p *project.Project) error { return nil })
			Expect(errors.Is(err, internal.ErrProjectNotFound)).To(BeTrue())
		})
	})

	Describe("UpdateProject", func() {
		It("should apply batched field edits as a single version bump", func() {
			seeded := seedProject()
			name := "Renamed"
			status := project.StatusOnHold
			budget := 75000.0

			result, err := service.UpdateProject(seeded.ID, project.UpdateProjectDTO{
				Name:   &name,
				Status: &status,
				Budget: &budget,
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Name).To(Equal("Renamed"))
			Expect(result.Status).To(Equal(project.StatusOnHold))
			Expect(result.Version).To(Equal(int64(2)))
		})

		It("should reject an invalid status", func() {
			seeded := seedProject()
			status := "archived"

			_, err := service.UpdateProject(seeded.ID, project.UpdateProjectDTO{Status: &status})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("AddMilestone", func() {
		It("should append the milestone and bump the version", func() {
			seeded := seedProject()

			result, err := service.AddMilestone(seeded.ID, project.CreateMilestoneDTO{
				Title:   "Alpha release",
				DueDate: time.Now().AddDate(0, 0, 14),
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Milestones).To(HaveLen(1))
			Expect(result.Milestones[0].Completed).To(BeFalse())
			Expect(result.Version).To(Equal(int64(2)))
		})
	})

	Describe("CompleteMilestone", func() {
		It("should mark the milestone completed with a timestamp", func() {
			seeded := seedProject()
			seeded.Milestones = []projectDatamodel.Milestone{
				{ID: 42, ProjectID: seeded.ID, Title: "Alpha", DueDate: time.Now()},
			}
			repo.projects[seeded.ID] = seeded

			result, err := service.CompleteMilestone(seeded.ID, 42)

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Milestones[0].Completed).To(BeTrue())
			Expect(result.Milestones[0].CompletedAt).ToNot(BeNil())
		})

		It("should fail for an unknown milestone", func() {
			seeded := seedProject()

			_, err := service.CompleteMilestone(seeded.ID, 999)
			Expect(errors.Is(err, internal.ErrMilestoneNotFound)).To(BeTrue())
		})
	})

	Describe("DeleteProject", func() {
		It("should remove the project", func() {
			seeded := seedProject()

			Expect(service.DeleteProject(seeded.ID)).To(Succeed())
			_, err := service.GetProjectByID(seeded.ID)
			Expect(errors.Is(err, internal.ErrProjectNotFound)).To(BeTrue())
		})

		It("should fail for a missing project", func() {
			err := service.DeleteProject(999)
			Expect(errors.Is(err, internal.ErrProjectNotFound)).To(BeTrue())
		})
	})
})
