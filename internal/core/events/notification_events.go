package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	// EventTypeNotificationAlert fires once per newly materialized high or
	// critical notification; re-evaluations of the same identity do not
	// publish again.
	EventTypeNotificationAlert = "notification.alert"
)

type NotificationAlertEvent struct {
	BaseEvent
	NotificationID string `json:"notification_id"`
	RecipientID    int64  `json:"recipient_id"`
	AlertType      string `json:"alert_type"`
	Priority       string `json:"priority"`
	Title          string `json:"title"`
}

func NewNotificationAlertEvent(notificationID string, recipientID int64, alertType, priority, title string) *NotificationAlertEvent {
	return &NotificationAlertEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeNotificationAlert,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"notification_id": notificationID,
				"recipient_id":    recipientID,
				"alert_type":      alertType,
				"priority":        priority,
				"title":           title,
			},
		},
		NotificationID: notificationID,
		RecipientID:    recipientID,
		AlertType:      alertType,
		Priority:       priority,
		Title:          title,
	}
}
