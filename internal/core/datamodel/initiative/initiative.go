package initiative

import "time"

const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// Initiative is "Over & Beyond" work: it feeds the secondary capacity pool,
// never the primary project pool.
type Initiative struct {
	ID                 int64      `gorm:"primaryKey"`
	Title              string     `gorm:"column:title;not null"`
	Description        string     `gorm:"column:description"`
	CreatedBy          int64      `gorm:"column:created_by;not null"`
	AssignedTo         *int64     `gorm:"column:assigned_to;index"`
	Status             string     `gorm:"column:status;not null;default:pending"`
	WorkloadPercentage int        `gorm:"column:workload_percentage;not null"`
	EstimatedHours     float64    `gorm:"column:estimated_hours"`
	ActualHours        *float64   `gorm:"column:actual_hours"`
	DueDate            *time.Time `gorm:"column:due_date"`
	CreatedAt          time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;default:now()"`
}

func (Initiative) TableName() string {
	return "initiatives"
}

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusActive, StatusCompleted:
		return true
	}
	return false
}
