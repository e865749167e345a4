package notification

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	notificationDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/notification"
)

const (
	TypeMilestoneOverdue   = "milestone_overdue"
	TypeMilestoneUpcoming  = "milestone_upcoming"
	TypeWorkloadExceeded   = "workload_exceeded"
	TypeOverBeyondNearCap  = "over_beyond_near_cap"
	TypeOverBeyondExceeded = "over_beyond_exceeded"
	TypeProjectUnresourced = "project_unresourced"
	TypeBudgetAlert        = "budget_alert"
	TypeInitiativeDeadline = "initiative_deadline"
)

const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

type Notification struct {
	ID          string    `json:"id"`
	RecipientID int64     `json:"recipient_id"`
	Type        string    `json:"type"`
	Priority    string    `json:"priority"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

// Identity derives the stable id for a rule firing on a subject. The same
// rule and subject always hash to the same id, so re-evaluation recognizes
// repeats instead of materializing duplicates.
func Identity(rule string, subjectIDs ...int64) string {
	parts := make([]string, 0, len(subjectIDs)+1)
	parts = append(parts, rule)
	for _, id := range subjectIDs {
		parts = append(parts, fmt.Sprintf("%d", id))
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, ":")))
	return hex.EncodeToString(sum[:16])
}

// IsAlertWorthy reports whether a freshly materialized notification must also
// fire an immediate push alert.
func (n *Notification) IsAlertWorthy() bool {
	return n.Priority == PriorityHigh || n.Priority == PriorityCritical
}

func ToDataModel(n *Notification) *notificationDatamodel.Notification {
	return &notificationDatamodel.Notification{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		Type:        n.Type,
		Priority:    n.Priority,
		Title:       n.Title,
		Message:     n.Message,
		Read:        n.Read,
		CreatedAt:   n.CreatedAt,
	}
}

func FromDataModel(n *notificationDatamodel.Notification) *Notification {
	return &Notification{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		Type:        n.Type,
		Priority:    n.Priority,
		Title:       n.Title,
		Message:     n.Message,
		Read:        n.Read,
		CreatedAt:   n.CreatedAt,
	}
}

func FromDataModelSlice(notifications []*notificationDatamodel.Notification) []*Notification {
	result := make([]*Notification, len(notifications))
	for i, n := range notifications {
		result[i] = FromDataModel(n)
	}
	return result
}
