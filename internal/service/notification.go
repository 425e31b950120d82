package service

import (
	"context"

	"chirper/internal/model"
	"chirper/internal/repository"
)

// Notifier creates notifications as a side effect of follows and likes.
// Other services depend on this rather than on NotificationService directly.
type Notifier interface {
	Notify(ctx context.Context, fromID, toID int64, notifType string) error
}

type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// Notify records a notification for the recipient. Acting on your own
// content never notifies.
func (s *NotificationService) Notify(ctx context.Context, fromID, toID int64, notifType string) error {
	if fromID == toID {
		return nil
	}
	return s.notificationRepo.Create(ctx, fromID, toID, notifType)
}

// List returns the user's notifications newest first and marks them all
// read. Reading the list is what clears the unread state.
func (s *NotificationService) List(ctx context.Context, userID int64) ([]model.Notification, error) {
	notifications, err := s.notificationRepo.ListByRecipient(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.notificationRepo.MarkAllRead(ctx, userID); err != nil {
		return nil, err
	}

	return notifications, nil
}

// Clear deletes all of the user's notifications.
func (s *NotificationService) Clear(ctx context.Context, userID int64) error {
	return s.notificationRepo.DeleteAllForRecipient(ctx, userID)
}
