package assignment

import (
	"log/slog"
	"sync"

	"github.com/frahmantamala/workforce-management/internal"
	"github.com/frahmantamala/workforce-management/internal/project"
	"github.com/frahmantamala/workforce-management/internal/workload"
)

// Ledger routes the accepted assignment change through the project mutation
// ledger, which owns versioning and atomic aggregate persistence.
type Ledger interface {
	ApplyMutation(projectID int64, mutate func(*project.Project) error) (*project.Project, error)
}

// WorkloadAPI supplies the always-recomputed capacity snapshot the gate
// checks against.
type WorkloadAPI interface {
	Snapshot(employeeID int64) (*workload.Snapshot, error)
}

// Service is the assignment validator: the only write path for assignments.
// The capacity check-and-write runs under a per-employee mutex so two
// concurrent calls cannot both pass the check against a stale snapshot.
type Service struct {
	ledger   Ledger
	workload WorkloadAPI
	logger   *slog.Logger

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewService(ledger Ledger, workloadSvc WorkloadAPI, logger *slog.Logger) *Service {
	return &Service{
		ledger:   ledger,
		workload: workloadSvc,
		logger:   logger,
		locks:    make(map[int64]*sync.Mutex),
	}
}

func (s *Service) employeeLock(employeeID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[employeeID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[employeeID] = lock
	}
	return lock
}

// Assign binds an employee to a project. Order of checks: duplicate first,
// then capacity against the fresh snapshot.
func (s *Service) Assign(projectID int64, dto AssignDTO) (*project.Assignment, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("assignment validation failed", "error", err, "project_id", projectID)
		return nil, err
	}

	lock := s.employeeLock(dto.EmployeeID)
	lock.Lock()
	defer lock.Unlock()

	snapshot, err := s.workload.Snapshot(dto.EmployeeID)
	if err != nil {
		return nil, err
	}

	var created *project.Assignment
	_, err = s.ledger.ApplyMutation(projectID, func(p *project.Project) error {
		if p.AssignmentFor(dto.EmployeeID) != nil {
			return internal.ErrDuplicateAssignment
		}
		if dto.InvolvementPercentage > snapshot.AvailableCapacity {
			return internal.NewCapacityExceededError(snapshot.AvailableCapacity)
		}

		if err := p.AddAssignment(project.Assignment{
			EmployeeID:            dto.EmployeeID,
			Role:                  dto.Role,
			InvolvementPercentage: dto.InvolvementPercentage,
		}); err != nil {
			return err
		}
		created = p.AssignmentFor(dto.EmployeeID)
		return nil
	})
	if err != nil {
		s.logger.Warn("assignment rejected",
			"project_id", projectID,
			"employee_id", dto.EmployeeID,
			"involvement", dto.InvolvementPercentage,
			"error", err)
		return nil, err
	}

	s.logger.Info("employee assigned to project",
		"project_id", projectID,
		"employee_id", dto.EmployeeID,
		"involvement", dto.InvolvementPercentage,
		"remaining_capacity", snapshot.AvailableCapacity-dto.InvolvementPercentage)

	return created, nil
}

// UpdateInvolvement replaces the existing commitment, so the current
// percentage is handed back before comparing against the proposed one.
func (s *Service) UpdateInvolvement(projectID, employeeID int64, dto UpdateInvolvementDTO) (*project.Assignment, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("involvement validation failed", "error", err,
			"project_id", projectID, "employee_id", employeeID)
		return nil, err
	}

	lock := s.employeeLock(employeeID)
	lock.Lock()
	defer lock.Unlock()

	snapshot, err := s.workload.Snapshot(employeeID)
	if err != nil {
		return nil, err
	}

	var updated *project.Assignment
	_, err = s.ledger.ApplyMutation(projectID, func(p *project.Project) error {
		current := p.AssignmentFor(employeeID)
		if current == nil {
			return internal.ErrAssignmentNotFound
		}

		effectiveAvailable := snapshot.AvailableCapacity
		if p.IsActive() {
			// The current commitment only counts toward the snapshot when
			// the project is active, so only then is it given back.
			effectiveAvailable += current.InvolvementPercentage
		}
		if dto.InvolvementPercentage > effectiveAvailable {
			return internal.NewCapacityExceededError(effectiveAvailable)
		}

		current.InvolvementPercentage = dto.InvolvementPercentage
		updated = current
		return nil
	})
	if err != nil {
		s.logger.Warn("involvement update rejected",
			"project_id", projectID,
			"employee_id", employeeID,
			"new_involvement", dto.InvolvementPercentage,
			"error", err)
		return nil, err
	}

	s.logger.Info("assignment involvement updated",
		"project_id", projectID,
		"employee_id", employeeID,
		"involvement", dto.InvolvementPercentage)

	return updated, nil
}

// Remove has no capacity precondition; it fails only when the assignment
// does not exist.
func (s *Service) Remove(projectID, employeeID int64) error {
	lock := s.employeeLock(employeeID)
	lock.Lock()
	defer lock.Unlock()

	_, err := s.ledger.ApplyMutation(projectID, func(p *project.Project) error {
		if !p.RemoveAssignment(employeeID) {
			return internal.ErrAssignmentNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("assignment removed", "project_id", projectID, "employee_id", employeeID)
	return nil
}
