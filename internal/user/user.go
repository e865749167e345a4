package user

import (
	"time"

	userDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/user"
)

const (
	RoleAdmin          = userDatamodel.RoleAdmin
	RoleProgramManager = userDatamodel.RoleProgramManager
	RoleRDManager      = userDatamodel.RoleRDManager
	RoleManager        = userDatamodel.RoleManager
	RoleEmployee       = userDatamodel.RoleEmployee
)

type User struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	PasswordHash  string    `json:"-"`
	Role          string    `json:"role"`
	Department    string    `json:"department"`
	WorkloadCap   int       `json:"workload_cap"`
	OverBeyondCap int       `json:"over_beyond_cap"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsManagerClass() bool {
	switch u.Role {
	case RoleProgramManager, RoleRDManager, RoleManager:
		return true
	}
	return false
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		PasswordHash:  u.PasswordHash,
		Role:          u.Role,
		Department:    u.Department,
		WorkloadCap:   u.WorkloadCap,
		OverBeyondCap: u.OverBeyondCap,
		IsActive:      u.IsActive,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		PasswordHash:  u.PasswordHash,
		Role:          u.Role,
		Department:    u.Department,
		WorkloadCap:   u.WorkloadCap,
		OverBeyondCap: u.OverBeyondCap,
		IsActive:      u.IsActive,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func FromDataModelSlice(users []*userDatamodel.User) []*User {
	result := make([]*User, len(users))
	for i, u := range users {
		result[i] = FromDataModel(u)
	}
	return result
}
