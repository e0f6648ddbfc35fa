package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"studycloud/internal/model"
	"studycloud/internal/repository"
)

// NotificationService exposes a user's in-app notification feed.
type NotificationService struct {
	notifications *repository.NotificationRepository
}

func NewNotificationService(notifications *repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

func (s *NotificationService) List(ctx context.Context, user *model.User, unreadOnly bool) ([]model.Notification, error) {
	return s.notifications.ListByUser(ctx, user.ID, unreadOnly)
}

// MarkRead acknowledges one of the acting user's notifications.
func (s *NotificationService) MarkRead(ctx context.Context, user *model.User, id uint) (*model.Notification, error) {
	n, err := s.notifications.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("notification %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("find notification: %w", err)
	}
	if n.UserID != user.ID {
		return nil, fmt.Errorf("notification %d: %w", id, ErrNotOwner)
	}
	if err := s.notifications.MarkRead(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}
