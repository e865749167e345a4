package user

import "time"

const (
	RoleAdmin          = "admin"
	RoleProgramManager = "program_manager"
	RoleRDManager      = "rd_manager"
	RoleManager        = "manager"
	RoleEmployee       = "employee"
)

const (
	DefaultWorkloadCap   = 100
	DefaultOverBeyondCap = 20
)

type User struct {
	ID            int64     `gorm:"primaryKey"`
	Email         string    `gorm:"column:email;uniqueIndex;not null"`
	Name          string    `gorm:"column:name;not null"`
	PasswordHash  string    `gorm:"column:password_hash;not null"`
	Role          string    `gorm:"column:role;not null;default:employee"`
	Department    string    `gorm:"column:department"`
	WorkloadCap   int       `gorm:"column:workload_cap;not null;default:100"`
	OverBeyondCap int       `gorm:"column:over_beyond_cap;not null;default:20"`
	IsActive      bool      `gorm:"column:is_active;default:true"`
	CreatedAt     time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt     time.Time `gorm:"column:updated_at;default:now()"`
}

func (User) TableName() string {
	return "users"
}

// IsManagerClass reports whether the role may own projects.
func (u *User) IsManagerClass() bool {
	switch u.Role {
	case RoleProgramManager, RoleRDManager, RoleManager:
		return true
	}
	return false
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleProgramManager, RoleRDManager, RoleManager, RoleEmployee:
		return true
	}
	return false
}
