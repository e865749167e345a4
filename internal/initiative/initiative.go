package initiative

import (
	"time"

	initiativeDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/initiative"
)

const (
	StatusPending   = initiativeDatamodel.StatusPending
	StatusActive    = initiativeDatamodel.StatusActive
	StatusCompleted = initiativeDatamodel.StatusCompleted
)

// Initiative is Over & Beyond work: its workload percentage counts against
// the employee's secondary pool only.
type Initiative struct {
	ID                 int64      `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	CreatedBy          int64      `json:"created_by"`
	AssignedTo         *int64     `json:"assigned_to,omitempty"`
	Status             string     `json:"status"`
	WorkloadPercentage int        `json:"workload_percentage"`
	EstimatedHours     float64    `json:"estimated_hours"`
	ActualHours        *float64   `json:"actual_hours,omitempty"`
	DueDate            *time.Time `json:"due_date,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (i *Initiative) IsActive() bool {
	return i.Status == StatusActive
}

func (i *Initiative) DeadlineApproaching(now time.Time, window time.Duration) bool {
	if i.Status == StatusCompleted || i.DueDate == nil {
		return false
	}
	return i.DueDate.After(now) && !i.DueDate.After(now.Add(window))
}

func ToDataModel(i *Initiative) *initiativeDatamodel.Initiative {
	return &initiativeDatamodel.Initiative{
		ID:                 i.ID,
		Title:              i.Title,
		Description:        i.Description,
		CreatedBy:          i.CreatedBy,
		AssignedTo:         i.AssignedTo,
		Status:             i.Status,
		WorkloadPercentage: i.WorkloadPercentage,
		EstimatedHours:     i.EstimatedHours,
		ActualHours:        i.ActualHours,
		DueDate:            i.DueDate,
		CreatedAt:          i.CreatedAt,
		UpdatedAt:          i.UpdatedAt,
	}
}

func FromDataModel(i *initiativeDatamodel.Initiative) *Initiative {
	return &Initiative{
		ID:                 i.ID,
		Title:              i.Title,
		Description:        i.Description,
		CreatedBy:          i.CreatedBy,
		AssignedTo:         i.AssignedTo,
		Status:             i.Status,
		WorkloadPercentage: i.WorkloadPercentage,
		EstimatedHours:     i.EstimatedHours,
		ActualHours:        i.ActualHours,
		DueDate:            i.DueDate,
		CreatedAt:          i.CreatedAt,
		UpdatedAt:          i.UpdatedAt,
	}
}

func FromDataModelSlice(initiatives []*initiativeDatamodel.Initiative) []*Initiative {
	result := make([]*Initiative, len(initiatives))
	for i, item := range initiatives {
		result[i] = FromDataModel(item)
	}
	return result
}
