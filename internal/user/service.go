package user

import (
	"log/slog"
	"time"

	"github.com/frahmantamala/workforce-management/internal"
	userDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/user"
)

type RepositoryAPI interface {
	Create(u *userDatamodel.User) error
	// GetByID returns (nil, nil) when no such user exists.
	GetByID(id int64) (*userDatamodel.User, error)
	GetByEmail(email string) (*userDatamodel.User, error)
	ListAll() ([]*userDatamodel.User, error)
	Update(u *userDatamodel.User) error
}

type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type Service struct {
	repo   RepositoryAPI
	hasher PasswordHasher
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, hasher PasswordHasher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		logger: logger,
	}
}

// CreateUser provisions an account. Caps default to the product values when
// not set explicitly.
func (s *Service) CreateUser(dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByEmail(dto.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, internal.NewConflictError("user with this email already exists", internal.ErrCodeEmailExists)
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, err
	}

	workloadCap := userDatamodel.DefaultWorkloadCap
	if dto.WorkloadCap != nil {
		workloadCap = *dto.WorkloadCap
	}
	overBeyondCap := userDatamodel.DefaultOverBeyondCap
	if dto.OverBeyondCap != nil {
		overBeyondCap = *dto.OverBeyondCap
	}

	now := time.Now()
	u := &User{
		Email:         dto.Email,
		Name:          dto.Name,
		PasswordHash:  hash,
		Role:          dto.Role,
		Department:    dto.Department,
		WorkloadCap:   workloadCap,
		OverBeyondCap: overBeyondCap,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	dm := ToDataModel(u)
	if err := s.repo.Create(dm); err != nil {
		s.logger.Error("failed to create user", "error", err, "email", dto.Email)
		return nil, err
	}
	u.ID = dm.ID

	s.logger.Info("user created", "user_id", u.ID, "role", u.Role)
	return u, nil
}

func (s *Service) GetByID(id int64) (*User, error) {
	dm, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if dm == nil {
		return nil, internal.ErrUnknownEmployee
	}
	return FromDataModel(dm), nil
}

func (s *Service) GetAllUsers() ([]*User, error) {
	dms, err := s.repo.ListAll()
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, err
	}
	return FromDataModelSlice(dms), nil
}

// UpdateProfile applies the mutable profile fields. Deactivation goes
// through here too; accounts are never deleted.
func (s *Service) UpdateProfile(id int64, dto UpdateProfileDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	dm, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if dm == nil {
		return nil, internal.ErrUnknownEmployee
	}
	u := FromDataModel(dm)

	if dto.Name != nil {
		u.Name = *dto.Name
	}
	if dto.Department != nil {
		u.Department = *dto.Department
	}
	if dto.Role != nil {
		u.Role = *dto.Role
	}
	if dto.WorkloadCap != nil {
		u.WorkloadCap = *dto.WorkloadCap
	}
	if dto.OverBeyondCap != nil {
		u.OverBeyondCap = *dto.OverBeyondCap
	}
	if dto.IsActive != nil {
		u.IsActive = *dto.IsActive
	}
	u.UpdatedAt = time.Now()

	if err := s.repo.Update(ToDataModel(u)); err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", id)
		return nil, err
	}

	s.logger.Info("user profile updated", "user_id", id,
		"workload_cap", u.WorkloadCap, "over_beyond_cap", u.OverBeyondCap)
	return u, nil
}
