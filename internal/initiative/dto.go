package initiative

import (
	"time"

	"github.com/frahmantamala/workforce-management/internal"
	"github.com/frahmantamala/workforce-management/internal/core/common/validation"
)

type CreateInitiativeDTO struct {
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	AssignedTo         *int64     `json:"assigned_to,omitempty"`
	WorkloadPercentage int        `json:"workload_percentage"`
	EstimatedHours     float64    `json:"estimated_hours"`
	DueDate            *time.Time `json:"due_date,omitempty"`
}

func (dto CreateInitiativeDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("title", dto.Title).Required().MaxLength(200)
	v.Field("description", dto.Description).MaxLength(2000)
	v.Field("workload_percentage", dto.WorkloadPercentage).Required().Percentage()
	return v.Validate()
}

type UpdateInitiativeDTO struct {
	Title              *string    `json:"title,omitempty"`
	Description        *string    `json:"description,omitempty"`
	AssignedTo         *int64     `json:"assigned_to,omitempty"`
	Status             *string    `json:"status,omitempty"`
	WorkloadPercentage *int       `json:"workload_percentage,omitempty"`
	EstimatedHours     *float64   `json:"estimated_hours,omitempty"`
	ActualHours        *float64   `json:"actual_hours,omitempty"`
	DueDate            *time.Time `json:"due_date,omitempty"`
}

func (dto UpdateInitiativeDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	if dto.Title != nil {
		v.Field("title", *dto.Title).Required().MaxLength(200)
	}
	if dto.Status != nil {
		v.Field("status", *dto.Status).OneOf([]string{
			StatusPending, StatusActive, StatusCompleted,
		}, internal.ErrCodeInvalidStatus)
	}
	if dto.WorkloadPercentage != nil {
		v.Field("workload_percentage", *dto.WorkloadPercentage).Percentage()
	}
	return v.Validate()
}
