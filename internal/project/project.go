package project

import (
	"time"

	"github.com/frahmantamala/workforce-management/internal"
	projectDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/project"
)

const (
	StatusPending   = projectDatamodel.StatusPending
	StatusActive    = projectDatamodel.StatusActive
	StatusCompleted = projectDatamodel.StatusCompleted
	StatusOnHold    = projectDatamodel.StatusOnHold
	StatusCancelled = projectDatamodel.StatusCancelled
)

type Assignment struct {
	ID                    int64     `json:"id"`
	ProjectID             int64     `json:"project_id"`
	EmployeeID            int64     `json:"employee_id"`
	Role                  string    `json:"role"`
	InvolvementPercentage int       `json:"involvement_percentage"`
	AssignedDate          time.Time `json:"assigned_date"`
}

type Milestone struct {
	ID          int64      `json:"id"`
	ProjectID   int64      `json:"project_id"`
	Title       string     `json:"title"`
	DueDate     time.Time  `json:"due_date"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Complete marks the milestone done. CompletedAt is set only on the first
// transition; milestones never un-complete in this model.
func (m *Milestone) Complete() {
	if m.Completed {
		return
	}
	m.Completed = true
	now := time.Now()
	m.CompletedAt = &now
}

func (m *Milestone) IsOverdue(now time.Time) bool {
	return !m.Completed && m.DueDate.Before(now)
}

func (m *Milestone) IsUpcoming(now time.Time, window time.Duration) bool {
	return !m.Completed && m.DueDate.After(now) && !m.DueDate.After(now.Add(window))
}

type Project struct {
	ID             int64        `json:"id"`
	Name           string       `json:"name"`
	Description    string       `json:"description"`
	Status         string       `json:"status"`
	ManagerID      int64        `json:"manager_id"`
	Budget         *float64     `json:"budget,omitempty"`
	EstimatedHours *float64     `json:"estimated_hours,omitempty"`
	ActualHours    *float64     `json:"actual_hours,omitempty"`
	Version        int64        `json:"version"`
	Assignments    []Assignment `json:"assignments"`
	Milestones     []Milestone  `json:"milestones"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func (p *Project) IsActive() bool {
	return p.Status == StatusActive
}

// AssignmentFor returns the employee's assignment on this project, or nil.
// At most one exists per (project, employee) pair.
func (p *Project) AssignmentFor(employeeID int64) *Assignment {
	for i := range p.Assignments {
		if p.Assignments[i].EmployeeID == employeeID {
			return &p.Assignments[i]
		}
	}
	return nil
}

func (p *Project) AddAssignment(a Assignment) error {
	if p.AssignmentFor(a.EmployeeID) != nil {
		return internal.ErrDuplicateAssignment
	}
	a.ProjectID = p.ID
	if a.AssignedDate.IsZero() {
		a.AssignedDate = time.Now()
	}
	p.Assignments = append(p.Assignments, a)
	return nil
}

func (p *Project) RemoveAssignment(employeeID int64) bool {
	for i := range p.Assignments {
		if p.Assignments[i].EmployeeID == employeeID {
			p.Assignments = append(p.Assignments[:i], p.Assignments[i+1:]...)
			return true
		}
	}
	return false
}

func (p *Project) MilestoneByID(id int64) *Milestone {
	for i := range p.Milestones {
		if p.Milestones[i].ID == id {
			return &p.Milestones[i]
		}
	}
	return nil
}

// HoursRatio returns actual/estimated hours and whether both are tracked.
func (p *Project) HoursRatio() (float64, bool) {
	if p.EstimatedHours == nil || p.ActualHours == nil || *p.EstimatedHours <= 0 {
		return 0, false
	}
	return *p.ActualHours / *p.EstimatedHours, true
}

func ToDataModel(p *Project) *projectDatamodel.Project {
	dm := &projectDatamodel.Project{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Status:         p.Status,
		ManagerID:      p.ManagerID,
		Budget:         p.Budget,
		EstimatedHours: p.EstimatedHours,
		ActualHours:    p.ActualHours,
		Version:        p.Version,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	for _, a := range p.Assignments {
		dm.Assignments = append(dm.Assignments, projectDatamodel.Assignment{
			ID:                    a.ID,
			ProjectID:             a.ProjectID,
			EmployeeID:            a.EmployeeID,
			Role:                  a.Role,
			InvolvementPercentage: a.InvolvementPercentage,
			AssignedDate:          a.AssignedDate,
		})
	}
	for _, m := range p.Milestones {
		dm.Milestones = append(dm.Milestones, projectDatamodel.Milestone{
			ID:          m.ID,
			ProjectID:   m.ProjectID,
			Title:       m.Title,
			DueDate:     m.DueDate,
			Completed:   m.Completed,
			CompletedAt: m.CompletedAt,
		})
	}
	return dm
}

func FromDataModel(dm *projectDatamodel.Project) *Project {
	p := &Project{
		ID:             dm.ID,
		Name:           dm.Name,
		Description:    dm.Description,
		Status:         dm.Status,
		ManagerID:      dm.ManagerID,
		Budget:         dm.Budget,
		EstimatedHours: dm.EstimatedHours,
		ActualHours:    dm.ActualHours,
		Version:        dm.Version,
		CreatedAt:      dm.CreatedAt,
		UpdatedAt:      dm.UpdatedAt,
	}
	for _, a := range dm.Assignments {
		p.Assignments = append(p.Assignments, Assignment{
			ID:                    a.ID,
			ProjectID:             a.ProjectID,
			EmployeeID:            a.EmployeeID,
			Role:                  a.Role,
			InvolvementPercentage: a.InvolvementPercentage,
			AssignedDate:          a.AssignedDate,
		})
	}
	for _, m := range dm.Milestones {
		p.Milestones = append(p.Milestones, Milestone{
			ID:          m.ID,
			ProjectID:   m.ProjectID,
			Title:       m.Title,
			DueDate:     m.DueDate,
			Completed:   m.Completed,
			CompletedAt: m.CompletedAt,
		})
	}
	return p
}

func FromDataModelSlice(projects []*projectDatamodel.Project) []*Project {
	result := make([]*Project, len(projects))
	for i, p := range projects {
		result[i] = FromDataModel(p)
	}
	return result
}
