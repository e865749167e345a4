package assignment

import (
	"github.com/frahmantamala/workforce-management/internal"
	"github.com/frahmantamala/workforce-management/internal/core/common/validation"
)

type AssignDTO struct {
	EmployeeID            int64  `json:"employee_id"`
	Role                  string `json:"role"`
	InvolvementPercentage int    `json:"involvement_percentage"`
}

func (dto AssignDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("employee_id", dto.EmployeeID).Required()
	v.Field("involvement_percentage", dto.InvolvementPercentage).Required().Percentage()
	v.Field("role", dto.Role).MaxLength(100)
	return v.Validate()
}

type UpdateInvolvementDTO struct {
	InvolvementPercentage int `json:"involvement_percentage"`
}

func (dto UpdateInvolvementDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("involvement_percentage", dto.InvolvementPercentage).Required().Percentage()
	return v.Validate()
}
