package project

import (
	"time"

	"github.com/frahmantamala/workforce-management/internal"
	"github.com/frahmantamala/workforce-management/internal/core/common/validation"
)

type CreateProjectDTO struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Status         string   `json:"status,omitempty"`
	Budget         *float64 `json:"budget,omitempty"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty"`
}

func (dto CreateProjectDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLength(200)
	v.Field("description", dto.Description).MaxLength(2000)
	if dto.Status != "" {
		v.Field("status", dto.Status).OneOf([]string{
			StatusPending, StatusActive, StatusCompleted, StatusOnHold, StatusCancelled,
		}, internal.ErrCodeInvalidStatus)
	}
	return v.Validate()
}

// UpdateProjectDTO carries only the fields to change; nil means untouched.
// A single call is one logical mutation and one version bump, no matter how
// many fields it sets.
type UpdateProjectDTO struct {
	Name           *string  `json:"name,omitempty"`
	Description    *string  `json:"description,omitempty"`
	Status         *string  `json:"status,omitempty"`
	Budget         *float64 `json:"budget,omitempty"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty"`
	ActualHours    *float64 `json:"actual_hours,omitempty"`
}

func (dto UpdateProjectDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	if dto.Name != nil {
		v.Field("name", *dto.Name).Required().MaxLength(200)
	}
	if dto.Status != nil {
		v.Field("status", *dto.Status).OneOf([]string{
			StatusPending, StatusActive, StatusCompleted, StatusOnHold, StatusCancelled,
		}, internal.ErrCodeInvalidStatus)
	}
	return v.Validate()
}

func (dto UpdateProjectDTO) apply(p *Project) {
	if dto.Name != nil {
		p.Name = *dto.Name
	}
	if dto.Description != nil {
		p.Description = *dto.Description
	}
	if dto.Status != nil {
		p.Status = *dto.Status
	}
	if dto.Budget != nil {
		p.Budget = dto.Budget
	}
	if dto.EstimatedHours != nil {
		p.EstimatedHours = dto.EstimatedHours
	}
	if dto.ActualHours != nil {
		p.ActualHours = dto.ActualHours
	}
}

type CreateMilestoneDTO struct {
	Title   string    `json:"title"`
	DueDate time.Time `json:"due_date"`
}

func (dto CreateMilestoneDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("title", dto.Title).Required().MaxLength(200)
	v.Field("due_date", dto.DueDate).Required()
	return v.Validate()
}
