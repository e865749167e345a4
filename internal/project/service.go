package project

import (
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/workforce-management/internal"
	projectDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/project"
)

// MaxMutationRetries bounds the internal optimistic-concurrency retry loop.
// After that the conflict surfaces to the caller, who can re-fetch and retry.
const MaxMutationRetries = 3

// RepositoryAPI is the persistence contract for the project aggregate.
// SaveVersioned must persist assignments, milestones, version and updated_at
// atomically, and fail with ErrConcurrentModification when the stored
// version no longer matches expectedVersion.
type RepositoryAPI interface {
	Create(p *projectDatamodel.Project) error
	GetByID(id int64) (*projectDatamodel.Project, error)
	GetAll(limit, offset int) ([]*projectDatamodel.Project, error)
	ListAll() ([]*projectDatamodel.Project, error)
	ListActiveForEmployee(employeeID int64) ([]*projectDatamodel.Project, error)
	SaveVersioned(p *projectDatamodel.Project, expectedVersion int64) error
	Delete(id int64) error
}

// Service is the mutation ledger: every structural change to a project goes
// through ApplyMutation so version numbers are never skipped, reused, or
// silently omitted.
type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ApplyMutation loads the current project, applies mutate, bumps the version
// by exactly one and persists the whole aggregate. The write is conditional
// on the version read; a concurrent writer forces a re-read and reapply.
func (s *Service) ApplyMutation(projectID int64, mutate func(*Project) error) (*Project, error) {
	for attempt := 1; attempt <= MaxMutationRetries; attempt++ {
		dm, err := s.repo.GetByID(projectID)
		if err != nil {
			return nil, err
		}

		p := FromDataModel(dm)
		expected := p.Version

		if err := mutate(p); err != nil {
			return nil, err
		}

		p.Version = expected + 1
		p.UpdatedAt = time.Now()

		err = s.repo.SaveVersioned(ToDataModel(p), expected)
		if errors.Is(err, internal.ErrConcurrentModification) {
			s.logger.Warn("project version conflict, retrying mutation",
				"project_id", projectID,
				"expected_version", expected,
				"attempt", attempt)
			continue
		}
		if err != nil {
			s.logger.Error("failed to persist project mutation", "error", err, "project_id", projectID)
			return nil, err
		}

		return p, nil
	}

	s.logger.Warn("project mutation exhausted retries", "project_id", projectID)
	return nil, internal.ErrConcurrentModification
}

func (s *Service) CreateProject(dto CreateProjectDTO, managerID int64) (*Project, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("project validation failed", "error", err, "manager_id", managerID)
		return nil, err
	}

	status := dto.Status
	if status == "" {
		status = StatusPending
	}

	now := time.Now()
	p := &Project{
		Name:           dto.Name,
		Description:    dto.Description,
		Status:         status,
		ManagerID:      managerID,
		Budget:         dto.Budget,
		EstimatedHours: dto.EstimatedHours,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	dm := ToDataModel(p)
	if err := s.repo.Create(dm); err != nil {
		s.logger.Error("failed to create project", "error", err, "manager_id", managerID)
		return nil, err
	}
	p.ID = dm.ID

	s.logger.Info("project created",
		"project_id", p.ID,
		"manager_id", managerID,
		"status", p.Status)

	return p, nil
}

func (s *Service) GetProjectByID(id int64) (*Project, error) {
	dm, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(dm), nil
}

func (s *Service) GetAllProjects(limit, offset int) ([]*Project, error) {
	dms, err := s.repo.GetAll(limit, offset)
	if err != nil {
		s.logger.Error("failed to list projects", "error", err)
		return nil, err
	}
	return FromDataModelSlice(dms), nil
}

func (s *Service) UpdateProject(id int64, dto UpdateProjectDTO) (*Project, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("project update validation failed", "error", err, "project_id", id)
		return nil, err
	}

	// Batched field edits are one logical mutation: one version bump.
	return s.ApplyMutation(id, func(p *Project) error {
		dto.apply(p)
		return nil
	})
}

// DeleteProject is a hard remove, no tombstone.
func (s *Service) DeleteProject(id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete project", "error", err, "project_id", id)
		return err
	}
	s.logger.Info("project deleted", "project_id", id)
	return nil
}

func (s *Service) AddMilestone(projectID int64, dto CreateMilestoneDTO) (*Project, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("milestone validation failed", "error", err, "project_id", projectID)
		return nil, err
	}

	return s.ApplyMutation(projectID, func(p *Project) error {
		p.Milestones = append(p.Milestones, Milestone{
			ProjectID: p.ID,
			Title:     dto.Title,
			DueDate:   dto.DueDate,
		})
		return nil
	})
}

func (s *Service) CompleteMilestone(projectID, milestoneID int64) (*Project, error) {
	return s.ApplyMutation(projectID, func(p *Project) error {
		m := p.MilestoneByID(milestoneID)
		if m == nil {
			return internal.ErrMilestoneNotFound
		}
		m.Complete()
		return nil
	})
}
