package notification

import (
	"context"
	"log/slog"
	"sort"
	"time"

	initiativeDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/initiative"
	notificationDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/notification"
	projectDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/project"
	userDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/user"
	"github.com/frahmantamala/workforce-management/internal/core/events"
	"github.com/frahmantamala/workforce-management/internal/initiative"
	"github.com/frahmantamala/workforce-management/internal/project"
)

type RepositoryAPI interface {
	ListAll() ([]*notificationDatamodel.Notification, error)
	ListForRecipient(recipientID int64) ([]*notificationDatamodel.Notification, error)
	// Sync inserts the created rows and removes every row whose id is in
	// neither keepIDs nor created. Kept rows are untouched so a concurrent
	// mark-read is never lost.
	Sync(keepIDs []string, created []*notificationDatamodel.Notification) error
	MarkRead(id string, recipientID int64) error
	MarkAllRead(recipientID int64) error
	Delete(id string, recipientID int64) error
}

type UserLister interface {
	ListAll() ([]*userDatamodel.User, error)
}

type ProjectLister interface {
	ListAll() ([]*projectDatamodel.Project, error)
}

type InitiativeLister interface {
	ListAll() ([]*initiativeDatamodel.Initiative, error)
}

type Service struct {
	engine      *Engine
	repo        RepositoryAPI
	users       UserLister
	projects    ProjectLister
	initiatives InitiativeLister
	eventBus    *events.EventBus
	logger      *slog.Logger
}

func NewService(
	engine *Engine,
	repo RepositoryAPI,
	users UserLister,
	projects ProjectLister,
	initiatives InitiativeLister,
	eventBus *events.EventBus,
	logger *slog.Logger,
) *Service {
	return &Service{
		engine:      engine,
		repo:        repo,
		users:       users,
		projects:    projects,
		initiatives: initiatives,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// Reconcile merges the previous notification set with freshly evaluated
// candidates:
//
//  1. previous entries whose condition still holds are kept as-is,
//  2. read entries are kept regardless of current truth (history),
//  3. candidates not already present materialize as new unread entries.
//
// A (rule, subject) pair therefore surfaces as unread exactly once per
// becomes-true transition, and a read entry survives until the consumer
// deletes it. Pure function; the returned created slice is the subset of
// next that was newly materialized.
func Reconcile(previous, candidates []*Notification, now time.Time) (next, created []*Notification) {
	candidateByID := make(map[string]*Notification, len(candidates))
	for _, c := range candidates {
		candidateByID[c.ID] = c
	}

	keptIDs := make(map[string]bool, len(previous))
	for _, prev := range previous {
		if _, stillTrue := candidateByID[prev.ID]; stillTrue || prev.Read {
			next = append(next, prev)
			keptIDs[prev.ID] = true
		}
	}

	for _, c := range candidates {
		if keptIDs[c.ID] {
			continue
		}
		materialized := *c
		materialized.Read = false
		materialized.CreatedAt = now
		next = append(next, &materialized)
		created = append(created, &materialized)
	}

	sort.SliceStable(next, func(i, j int) bool {
		if !next[i].CreatedAt.Equal(next[j].CreatedAt) {
			return next[i].CreatedAt.After(next[j].CreatedAt)
		}
		return next[i].ID < next[j].ID
	})
	return next, created
}

// Evaluate runs the rule catalog against the current store state and
// reconciles against the given previous set without persisting anything.
func (s *Service) Evaluate(previous []*Notification) ([]*Notification, error) {
	snap, err := s.loadSnapshot()
	if err != nil {
		return nil, err
	}
	next, _ := Reconcile(previous, s.engine.Candidates(snap), snap.Now)
	return next, nil
}

// Scan is one full pass: evaluate, reconcile against the persisted set,
// persist the delta, and publish a fire-once alert event for every newly
// materialized high or critical notification.
func (s *Service) Scan() error {
	snap, err := s.loadSnapshot()
	if err != nil {
		s.logger.Error("notification scan: failed to load store snapshot", "error", err)
		return err
	}

	prevDMs, err := s.repo.ListAll()
	if err != nil {
		s.logger.Error("notification scan: failed to load previous set", "error", err)
		return err
	}

	next, created := Reconcile(FromDataModelSlice(prevDMs), s.engine.Candidates(snap), snap.Now)

	keepIDs := make([]string, 0, len(next)-len(created))
	createdIDs := make(map[string]bool, len(created))
	for _, c := range created {
		createdIDs[c.ID] = true
	}
	for _, n := range next {
		if !createdIDs[n.ID] {
			keepIDs = append(keepIDs, n.ID)
		}
	}

	createdDMs := make([]*notificationDatamodel.Notification, len(created))
	for i, c := range created {
		createdDMs[i] = ToDataModel(c)
	}
	if err := s.repo.Sync(keepIDs, createdDMs); err != nil {
		s.logger.Error("notification scan: failed to persist result", "error", err)
		return err
	}

	ctx := context.Background()
	for _, c := range created {
		if !c.IsAlertWorthy() {
			continue
		}
		if err := s.eventBus.Publish(ctx, events.NewNotificationAlertEvent(
			c.ID, c.RecipientID, c.Type, c.Priority, c.Title)); err != nil {
			s.logger.Error("failed to publish alert event", "error", err, "notification_id", c.ID)
		}
	}

	s.logger.Info("notification scan completed",
		"total", len(next),
		"created", len(created))
	return nil
}

func (s *Service) loadSnapshot() (*StoreSnapshot, error) {
	users, err := s.users.ListAll()
	if err != nil {
		return nil, err
	}
	projectDMs, err := s.projects.ListAll()
	if err != nil {
		return nil, err
	}
	initiativeDMs, err := s.initiatives.ListAll()
	if err != nil {
		return nil, err
	}
	return &StoreSnapshot{
		Now:         time.Now(),
		Users:       users,
		Projects:    project.FromDataModelSlice(projectDMs),
		Initiatives: initiative.FromDataModelSlice(initiativeDMs),
	}, nil
}

// ListForRecipient returns the recipient's feed, newest first.
func (s *Service) ListForRecipient(recipientID int64) ([]*Notification, error) {
	dms, err := s.repo.ListForRecipient(recipientID)
	if err != nil {
		s.logger.Error("failed to list notifications", "error", err, "recipient_id", recipientID)
		return nil, err
	}
	return FromDataModelSlice(dms), nil
}

func (s *Service) MarkRead(id string, recipientID int64) error {
	if err := s.repo.MarkRead(id, recipientID); err != nil {
		s.logger.Error("failed to mark notification read", "error", err,
			"notification_id", id, "recipient_id", recipientID)
		return err
	}
	return nil
}

func (s *Service) MarkAllRead(recipientID int64) error {
	return s.repo.MarkAllRead(recipientID)
}

func (s *Service) DeleteNotification(id string, recipientID int64) error {
	if err := s.repo.Delete(id, recipientID); err != nil {
		s.logger.Error("failed to delete notification", "error", err,
			"notification_id", id, "recipient_id", recipientID)
		return err
	}
	return nil
}
