package notification

import "time"

// Notification persists the derived feed plus its read-state. ID is the
// stable rule+subject hash, so a re-evaluated condition maps onto the same
// row instead of creating a duplicate.
type Notification struct {
	ID          string    `gorm:"primaryKey;column:id"`
	RecipientID int64     `gorm:"column:recipient_id;index;not null"`
	Type        string    `gorm:"column:type;not null"`
	Priority    string    `gorm:"column:priority;not null"`
	Title       string    `gorm:"column:title;not null"`
	Message     string    `gorm:"column:message"`
	Read        bool      `gorm:"column:read;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;default:now()"`
}

func (Notification) TableName() string {
	return "notifications"
}
