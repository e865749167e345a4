package user

import (
	"github.com/frahmantamala/workforce-management/internal"
	"github.com/frahmantamala/workforce-management/internal/core/common/validation"
	userDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/user"
)

func validRole(field string) func(interface{}) *internal.AppError {
	return func(value interface{}) *internal.AppError {
		if r, ok := value.(string); ok && !userDatamodel.ValidRole(r) {
			return internal.NewValidationFieldError(field, "invalid role", internal.ErrCodeInvalidRole)
		}
		return nil
	}
}

type CreateUserDTO struct {
	Email         string `json:"email"`
	Name          string `json:"name"`
	Password      string `json:"password"`
	Role          string `json:"role"`
	Department    string `json:"department"`
	WorkloadCap   *int   `json:"workload_cap,omitempty"`
	OverBeyondCap *int   `json:"over_beyond_cap,omitempty"`
}

func (dto CreateUserDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("email", dto.Email).Required().MaxLength(254)
	v.Field("name", dto.Name).Required().MaxLength(200)
	v.Field("password", dto.Password).Required().MinLength(8)
	v.Field("role", dto.Role).Required().Custom(validRole("role"))
	if dto.WorkloadCap != nil {
		v.Field("workload_cap", *dto.WorkloadCap).Percentage()
	}
	if dto.OverBeyondCap != nil {
		v.Field("over_beyond_cap", *dto.OverBeyondCap).Percentage()
	}
	return v.Validate()
}

// UpdateProfileDTO carries the mutable profile fields, capacity caps
// included. Users are never deleted, only deactivated.
type UpdateProfileDTO struct {
	Name          *string `json:"name,omitempty"`
	Department    *string `json:"department,omitempty"`
	Role          *string `json:"role,omitempty"`
	WorkloadCap   *int    `json:"workload_cap,omitempty"`
	OverBeyondCap *int    `json:"over_beyond_cap,omitempty"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

func (dto UpdateProfileDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	if dto.Name != nil {
		v.Field("name", *dto.Name).Required().MaxLength(200)
	}
	if dto.Role != nil {
		v.Field("role", *dto.Role).Custom(validRole("role"))
	}
	if dto.WorkloadCap != nil {
		v.Field("workload_cap", *dto.WorkloadCap).Percentage()
	}
	if dto.OverBeyondCap != nil {
		v.Field("over_beyond_cap", *dto.OverBeyondCap).Percentage()
	}
	return v.Validate()
}
