package initiative

import (
	"log/slog"
	"time"

	initiativeDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/initiative"
)

type RepositoryAPI interface {
	Create(i *initiativeDatamodel.Initiative) error
	GetByID(id int64) (*initiativeDatamodel.Initiative, error)
	GetAll(limit, offset int) ([]*initiativeDatamodel.Initiative, error)
	ListAll() ([]*initiativeDatamodel.Initiative, error)
	ListActiveForEmployee(employeeID int64) ([]*initiativeDatamodel.Initiative, error)
	Update(i *initiativeDatamodel.Initiative) error
	Delete(id int64) error
}

// Service handles Over & Beyond initiative lifecycle. There is no hard
// capacity gate here: the over-beyond pool may overrun its cap, which the
// rule engine reports instead of rejecting.
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

func (s *Service) CreateInitiative(dto CreateInitiativeDTO, createdBy int64) (*Initiative, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("initiative validation failed", "error", err, "created_by", createdBy)
		return nil, err
	}

	now := time.Now()
	init := &Initiative{
		Title:              dto.Title,
		Description:        dto.Description,
		CreatedBy:          createdBy,
		AssignedTo:         dto.AssignedTo,
		Status:             StatusPending,
		WorkloadPercentage: dto.WorkloadPercentage,
		EstimatedHours:     dto.EstimatedHours,
		DueDate:            dto.DueDate,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	dm := ToDataModel(init)
	if err := s.repo.Create(dm); err != nil {
		s.logger.Error("failed to create initiative", "error", err, "created_by", createdBy)
		return nil, err
	}
	init.ID = dm.ID

	s.logger.Info("initiative created",
		"initiative_id", init.ID,
		"created_by", createdBy,
		"workload_percentage", init.WorkloadPercentage)

	return init, nil
}

func (s *Service) GetInitiativeByID(id int64) (*Initiative, error) {
	dm, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(dm), nil
}

func (s *Service) GetAllInitiatives(limit, offset int) ([]*Initiative, error) {
	dms, err := s.repo.GetAll(limit, offset)
	if err != nil {
		s.logger.Error("failed to list initiatives", "error", err)
		return nil, err
	}
	return FromDataModelSlice(dms), nil
}

func (s *Service) UpdateInitiative(id int64, dto UpdateInitiativeDTO) (*Initiative, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("initiative update validation failed", "error", err, "initiative_id", id)
		return nil, err
	}

	dm, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	init := FromDataModel(dm)

	if dto.Title != nil {
		init.Title = *dto.Title
	}
	if dto.Description != nil {
		init.Description = *dto.Description
	}
	if dto.AssignedTo != nil {
		init.AssignedTo = dto.AssignedTo
	}
	if dto.Status != nil {
		init.Status = *dto.Status
	}
	if dto.WorkloadPercentage != nil {
		init.WorkloadPercentage = *dto.WorkloadPercentage
	}
	if dto.EstimatedHours != nil {
		init.EstimatedHours = *dto.EstimatedHours
	}
	if dto.ActualHours != nil {
		init.ActualHours = dto.ActualHours
	}
	if dto.DueDate != nil {
		init.DueDate = dto.DueDate
	}
	init.UpdatedAt = time.Now()

	if err := s.repo.Update(ToDataModel(init)); err != nil {
		s.logger.Error("failed to update initiative", "error", err, "initiative_id", id)
		return nil, err
	}

	s.logger.Info("initiative updated", "initiative_id", id, "status", init.Status)
	return init, nil
}

func (s *Service) DeleteInitiative(id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete initiative", "error", err, "initiative_id", id)
		return err
	}
	s.logger.Info("initiative deleted", "initiative_id", id)
	return nil
}
