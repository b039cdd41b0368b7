package services

import (
	"context"
	"fmt"

	"github.com/anonto42/petconnect/backend/internal/async"
	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/repositories"
)

// NotificationService stores and serves activity notifications
type NotificationService struct {
	repo   repositories.NotificationRepository
	writer *async.Writer
}

// NewNotificationService creates a NotificationService
func NewNotificationService(repo repositories.NotificationRepository, writer *async.Writer) *NotificationService {
	return &NotificationService{repo: repo, writer: writer}
}

// Notify records note without blocking the caller. Self-notifications are dropped and yield a nil task.
func (s *NotificationService) Notify(ctx context.Context, note models.Notification) *async.Task {
	if note.RecipientID == "" || note.ActorID == note.RecipientID {
		return nil
	}
	return s.writer.Submit(ctx, "notify_"+note.Type, func(ctx context.Context) error {
		return s.repo.CreateNotification(ctx, &note)
	})
}

// List returns a page of the actor's notifications, newest first
func (s *NotificationService) List(ctx context.Context, actor models.Identity, page, limit int) ([]models.Notification, models.PageMeta, error) {
	if err := requireActor(actor); err != nil {
		return nil, models.PageMeta{}, err
	}
	page, limit = normalizePage(page, limit)
	items, total, err := s.repo.GetByRecipientID(ctx, actor.UserID, page, limit)
	if err != nil {
		return nil, models.PageMeta{}, err
	}
	if items == nil {
		items = []models.Notification{}
	}
	return items, models.NewPageMeta(page, limit, total), nil
}

// UnreadCount returns how many notifications the actor has not read
func (s *NotificationService) UnreadCount(ctx context.Context, actor models.Identity) (int64, error) {
	if err := requireActor(actor); err != nil {
		return 0, err
	}
	return s.repo.GetUnreadCount(ctx, actor.UserID)
}

// MarkRead marks one notification read. Only its recipient may do so.
func (s *NotificationService) MarkRead(ctx context.Context, actor models.Identity, id uint) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	n, err := s.repo.GetNotificationByID(ctx, id)
	if err != nil {
		return err
	}
	if n.RecipientID != actor.UserID {
		return fmt.Errorf("%w: notification belongs to another user", ErrForbidden)
	}
	return s.repo.MarkAsRead(ctx, id)
}

// MarkAllRead marks every notification of the actor read
func (s *NotificationService) MarkAllRead(ctx context.Context, actor models.Identity) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	return s.repo.MarkAllAsRead(ctx, actor.UserID)
}
