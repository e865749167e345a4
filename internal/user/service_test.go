package user_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/workforce-management/internal"
	userDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/user"
	"github.com/frahmantamala/workforce-management/internal/user"
)

func TestUserService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Service Suite")
}

// Mock repository for testing
type mockUserRepository struct {
	users       map[int64]*userDatamodel.User
	nextID      int64
	createError error
	updateError error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:  make(map[int64]*userDatamodel.User),
		nextID: 1,
	}
}

func (m *mockUserRepository) Create(u *userDatamodel.User) error {
	if m.createError != nil {
		return m.createError
	}
	u.ID = m.nextID
	m.nextID++
	stored := *u
	m.users[u.ID] = &stored
	return nil
}

func (m *mockUserRepository) GetByID(id int64) (*userDatamodel.User, error) {
	return m.users[id], nil
}

func (m *mockUserRepository) GetByEmail(email string) (*userDatamodel.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepository) ListAll() ([]*userDatamodel.User, error) {
	var out []*userDatamodel.User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *mockUserRepository) Update(u *userDatamodel.User) error {
	if m.updateError != nil {
		return m.updateError
	}
	stored := *u
	m.users[u.ID] = &stored
	return nil
}

type plainHasher struct{}

func (plainHasher) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

var _ = Describe("UserService", func() {
	var (
		service *user.Service
		repo    *mockUserRepository
		logger  *slog.Logger
	)

	BeforeEach(func() {
		repo = newMockUserRepository()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = user.NewService(repo, plainHasher{}, logger)
	})

	validDTO := func() user.CreateUserDTO {
		return user.CreateUserDTO{
			Email:    "dev@mail.com",
			Name:     "Dev",
			Password: "long-enough-password",
			Role:     userDatamodel.RoleEmployee,
		}
	}

	Describe("CreateUser", func() {
		It("should create an active user with the default caps", func() {
			created, err := service.CreateUser(validDTO())

			Expect(err).ToNot(HaveOccurred())
			Expect(created.ID).To(BeNumerically(">", 0))
			Expect(created.IsActive).To(BeTrue())
			Expect(created.WorkloadCap).To(Equal(userDatamodel.DefaultWorkloadCap))
			Expect(created.OverBeyondCap).To(Equal(userDatamodel.DefaultOverBeyondCap))
		})

		It("should honor explicit caps", func() {
			dto := validDTO()
			workloadCap := 80
			overBeyondCap := 10
			dto.WorkloadCap = &workloadCap
			dto.OverBeyondCap = &overBeyondCap

			created, err := service.CreateUser(dto)

			Expect(err).ToNot(HaveOccurred())
			Expect(created.WorkloadCap).To(Equal(80))
			Expect(created.OverBeyondCap).To(Equal(10))
		})

		It("should store the hash, never the raw password", func() {
			created, err := service.CreateUser(validDTO())

			Expect(err).ToNot(HaveOccurred())
			Expect(repo.users[created.ID].PasswordHash).To(Equal("hashed:long-enough-password"))
		})

		It("should reject a duplicate email", func() {
			_, err := service.CreateUser(validDTO())
			Expect(err).ToNot(HaveOccurred())

			_, err = service.CreateUser(validDTO())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeEmailExists))
		})

		It("should reject an unknown role", func() {
			dto := validDTO()
			dto.Role = "superuser"

			_, err := service.CreateUser(dto)
			Expect(err).To(HaveOccurred())
		})

		It("should reject a short password", func() {
			dto := validDTO()
			dto.Password = "short"

			_, err := service.CreateUser(dto)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("GetByID", func() {
		It("should fail with unknown employee for a missing id", func() {
			_, err := service.GetByID(999)
			Expect(errors.Is(err, internal.ErrUnknownEmployee)).To(BeTrue())
		})
	})

	Describe("UpdateProfile", func() {
		It("should apply only the provided fields", func() {
			created, err := service.CreateUser(validDTO())
			Expect(err).ToNot(HaveOccurred())

			name := "Renamed"
			workloadCap := 60
			updated, err := service.UpdateProfile(created.ID, user.UpdateProfileDTO{
				Name:        &name,
				WorkloadCap: &workloadCap,
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(updated.Name).To(Equal("Renamed"))
			Expect(updated.WorkloadCap).To(Equal(60))
			Expect(updated.Email).To(Equal("dev@mail.com"))
			Expect(updated.Role).To(Equal(userDatamodel.RoleEmployee))
		})

		It("should deactivate instead of delete", func() {
			created, err := service.CreateUser(validDTO())
			Expect(err).ToNot(HaveOccurred())

			inactive := false
			updated, err := service.UpdateProfile(created.ID, user.UpdateProfileDTO{IsActive: &inactive})

			Expect(err).ToNot(HaveOccurred())
			Expect(updated.IsActive).To(BeFalse())

			// Still retrievable.
			fetched, err := service.GetByID(created.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(fetched.IsActive).To(BeFalse())
		})

		It("should fail for a missing user", func() {
			name := "ghost"
			_, err := service.UpdateProfile(999, user.UpdateProfileDTO{Name: &name})
			Expect(errors.Is(err, internal.ErrUnknownEmployee)).To(BeTrue())
		})
	})
})
