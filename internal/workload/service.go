package workload

import (
	"log/slog"

	"github.com/frahmantamala/workforce-management/internal"
	initiativeDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/initiative"
	projectDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/project"
	userDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/user"
)

type UserReader interface {
	GetByID(id int64) (*userDatamodel.User, error)
}

type ProjectReader interface {
	ListActiveForEmployee(employeeID int64) ([]*projectDatamodel.Project, error)
}

type InitiativeReader interface {
	ListActiveForEmployee(employeeID int64) ([]*initiativeDatamodel.Initiative, error)
}

// Service derives workload snapshots. Read-only: it never mutates the store.
type Service struct {
	users       UserReader
	projects    ProjectReader
	initiatives InitiativeReader
	logger      *slog.Logger
}

func NewService(users UserReader, projects ProjectReader, initiatives InitiativeReader, logger *slog.Logger) *Service {
	return &Service{
		users:       users,
		projects:    projects,
		initiatives: initiatives,
		logger:      logger,
	}
}

// Snapshot computes the employee's current workload breakdown.
// An unknown employee is rejected here rather than yielding a silent
// all-zero snapshot.
func (s *Service) Snapshot(employeeID int64) (*Snapshot, error) {
	user, err := s.users.GetByID(employeeID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.logger.Warn("workload requested for unknown employee", "employee_id", employeeID)
		return nil, internal.ErrUnknownEmployee
	}

	projects, err := s.projects.ListActiveForEmployee(employeeID)
	if err != nil {
		s.logger.Error("failed to load active projects", "error", err, "employee_id", employeeID)
		return nil, err
	}

	projectWorkload := 0
	for _, p := range projects {
		// The repository only returns active projects; the status check
		// guards the invariant against a loosened query.
		if p.Status != projectDatamodel.StatusActive {
			continue
		}
		for _, a := range p.Assignments {
			if a.EmployeeID == employeeID {
				projectWorkload += a.InvolvementPercentage
			}
		}
	}

	initiatives, err := s.initiatives.ListActiveForEmployee(employeeID)
	if err != nil {
		s.logger.Error("failed to load active initiatives", "error", err, "employee_id", employeeID)
		return nil, err
	}

	overBeyond := 0
	for _, i := range initiatives {
		if i.Status == initiativeDatamodel.StatusActive {
			overBeyond += i.WorkloadPercentage
		}
	}

	return &Snapshot{
		EmployeeID:          employeeID,
		ProjectWorkload:     projectWorkload,
		OverBeyondWorkload:  overBeyond,
		TotalWorkload:       projectWorkload + overBeyond,
		AvailableCapacity:   clampZero(user.WorkloadCap - projectWorkload),
		OverBeyondAvailable: clampZero(user.OverBeyondCap - overBeyond),
	}, nil
}

func clampZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
