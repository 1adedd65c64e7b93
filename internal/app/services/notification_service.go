package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yigit/skillshare/internal/app/models"
	"github.com/yigit/skillshare/internal/app/models/dto"
	"github.com/yigit/skillshare/internal/pkg/helpers"
)

// Pusher sends live events to connected users.
type Pusher interface {
	SendToUser(userID, eventType string, payload interface{})
}

// NotificationService defines the interface for the notification inbox
type NotificationService interface {
	Notifier
	List(ctx context.Context, userID string, unreadOnly bool, page, size int) (*dto.NotificationListResponse, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

// notificationServiceImpl implements NotificationService
type notificationServiceImpl struct {
	store  NotificationStore
	pusher Pusher
	logger zerolog.Logger
}

// NewNotificationService creates a new NotificationService. pusher may be nil.
func NewNotificationService(store NotificationStore, pusher Pusher, logger zerolog.Logger) NotificationService {
	return &notificationServiceImpl{
		store:  store,
		pusher: pusher,
		logger: logger,
	}
}

// Notify stores the notification and pushes it to the user's live connections
func (s *notificationServiceImpl) Notify(ctx context.Context, userID string, kind models.NotificationType, message, link string) {
	n := &models.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      kind,
		Message:   message,
		Link:      link,
		CreatedAt: helpers.Now(),
	}
	if err := s.store.Create(ctx, n); err != nil {
		s.logger.Error().Err(err).Str("userID", userID).Str("type", string(kind)).Msg("Failed to store notification")
		return
	}
	if s.pusher != nil {
		s.pusher.SendToUser(userID, "notification", dto.NewNotificationResponse(n))
	}
}

// List returns one page of the inbox
func (s *notificationServiceImpl) List(ctx context.Context, userID string, unreadOnly bool, page, size int) (*dto.NotificationListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	items, total, err := s.store.ListForUser(ctx, userID, unreadOnly, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing notifications: %w", err)
	}
	unread, err := s.store.CountUnread(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error counting unread notifications: %w", err)
	}

	resp := &dto.NotificationListResponse{
		Items:       make([]dto.NotificationResponse, 0, len(items)),
		UnreadCount: unread,
		Pagination:  helpers.NewPaginationInfo(total, page, size),
	}
	for i := range items {
		resp.Items = append(resp.Items, dto.NewNotificationResponse(&items[i]))
	}
	return resp, nil
}

// MarkRead marks one notification of the user as read
func (s *notificationServiceImpl) MarkRead(ctx context.Context, userID, id string) error {
	return s.store.MarkRead(ctx, id, userID)
}

// MarkAllRead marks the whole inbox as read
func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.store.MarkAllRead(ctx, userID)
}
