package postgres

import (
	"github.com/frahmantamala/workforce-management/internal"
	notificationDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/notification"
	"github.com/frahmantamala/workforce-management/internal/notification"
	"gorm.io/gorm"
)

// NotificationRepository implements notification.RepositoryAPI using GORM.
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) notification.RepositoryAPI {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) ListAll() ([]*notificationDatamodel.Notification, error) {
	var notifications []*notificationDatamodel.Notification
	err := r.db.Order("created_at DESC, id").Find(&notifications).Error
	return notifications, err
}

func (r *NotificationRepository) ListForRecipient(recipientID int64) ([]*notificationDatamodel.Notification, error) {
	var notifications []*notificationDatamodel.Notification
	err := r.db.Where("recipient_id = ?", recipientID).
		Order("created_at DESC, id").
		Find(&notifications).Error
	return notifications, err
}

// Sync applies one reconciliation result: insert the newly materialized rows
// and drop rows in neither set. Kept rows are not rewritten, so a read flag
// set between the scan's load and this call survives.
func (r *NotificationRepository) Sync(keepIDs []string, created []*notificationDatamodel.Notification) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		allIDs := make([]string, 0, len(keepIDs)+len(created))
		allIDs = append(allIDs, keepIDs...)
		for _, c := range created {
			allIDs = append(allIDs, c.ID)
		}

		del := tx.Model(&notificationDatamodel.Notification{})
		if len(allIDs) > 0 {
			del = del.Where("id NOT IN ?", allIDs)
		} else {
			// An empty reconciliation result clears the table; GORM refuses
			// an unconditioned delete.
			del = del.Where("1 = 1")
		}
		if err := del.Delete(&notificationDatamodel.Notification{}).Error; err != nil {
			return err
		}

		for _, c := range created {
			if err := tx.Create(c).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *NotificationRepository) MarkRead(id string, recipientID int64) error {
	result := r.db.Model(&notificationDatamodel.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(recipientID int64) error {
	return r.db.Model(&notificationDatamodel.Notification{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Update("read", true).Error
}

func (r *NotificationRepository) Delete(id string, recipientID int64) error {
	result := r.db.Where("id = ? AND recipient_id = ?", id, recipientID).
		Delete(&notificationDatamodel.Notification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrNotificationNotFound
	}
	return nil
}
