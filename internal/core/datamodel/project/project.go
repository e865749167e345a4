package project

import "time"

const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusOnHold    = "on-hold"
	StatusCancelled = "cancelled"
)

// Project is the aggregate root: assignments and milestones are always
// loaded and persisted together with the version and updated_at.
type Project struct {
	ID             int64        `gorm:"primaryKey"`
	Name           string       `gorm:"column:name;not null"`
	Description    string       `gorm:"column:description"`
	Status         string       `gorm:"column:status;not null;default:pending"`
	ManagerID      int64        `gorm:"column:manager_id;index;not null"`
	Budget         *float64     `gorm:"column:budget"`
	EstimatedHours *float64     `gorm:"column:estimated_hours"`
	ActualHours    *float64     `gorm:"column:actual_hours"`
	Version        int64        `gorm:"column:version;not null;default:1"`
	Assignments    []Assignment `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Milestones     []Milestone  `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time    `gorm:"column:created_at;default:now()"`
	UpdatedAt      time.Time    `gorm:"column:updated_at;default:now()"`
}

func (Project) TableName() string {
	return "projects"
}

type Assignment struct {
	ID                    int64     `gorm:"primaryKey"`
	ProjectID             int64     `gorm:"column:project_id;not null;uniqueIndex:idx_assignments_project_employee"`
	EmployeeID            int64     `gorm:"column:employee_id;not null;index;uniqueIndex:idx_assignments_project_employee"`
	Role                  string    `gorm:"column:role"`
	InvolvementPercentage int       `gorm:"column:involvement_percentage;not null"`
	AssignedDate          time.Time `gorm:"column:assigned_date;default:now()"`
}

func (Assignment) TableName() string {
	return "assignments"
}

type Milestone struct {
	ID          int64      `gorm:"primaryKey"`
	ProjectID   int64      `gorm:"column:project_id;not null;index"`
	Title       string     `gorm:"column:title;not null"`
	DueDate     time.Time  `gorm:"column:due_date;not null"`
	Completed   bool       `gorm:"column:completed;default:false"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
}

func (Milestone) TableName() string {
	return "milestones"
}

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusActive, StatusCompleted, StatusOnHold, StatusCancelled:
		return true
	}
	return false
}
