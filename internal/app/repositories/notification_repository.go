package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/yigit/skillshare/internal/app/models"
	"github.com/yigit/skillshare/internal/db"
	"github.com/yigit/skillshare/internal/pkg/apperrors"
)

// NotificationRepository handles notification database operations
type NotificationRepository struct {
	store
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(database *db.DB) *NotificationRepository {
	return &NotificationRepository{store: newStore(database)}
}

// WithTx returns a copy bound to tx.
func (r *NotificationRepository) WithTx(tx *sqlx.Tx) *NotificationRepository {
	return &NotificationRepository{store: r.withTx(tx)}
}

// Create stores a notification
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	stmt := r.sb().Insert("notifications").
		Columns("id", "user_id", "type", "message", "link", "is_read", "created_at").
		Values(n.ID, n.UserID, n.Type, n.Message, n.Link, n.IsRead, n.CreatedAt)

	if _, err := r.exec(ctx, stmt); err != nil {
		return fmt.Errorf("error creating notification: %w", err)
	}
	return nil
}

// ListForUser returns one page of the user's notifications, newest first, and the total matching.
func (r *NotificationRepository) ListForUser(ctx context.Context, userID string, unreadOnly bool, offset, limit uint64) ([]models.Notification, int64, error) {
	where := squirrel.Eq{"user_id": userID}
	if unreadOnly {
		where["is_read"] = false
	}

	var total int64
	if err := r.get(ctx, &total, r.sb().Select("COUNT(*)").From("notifications").Where(where), nil); err != nil {
		return nil, 0, fmt.Errorf("error counting notifications: %w", err)
	}

	items := []models.Notification{}
	stmt := r.sb().Select("id", "user_id", "type", "message", "link", "is_read", "created_at").
		From("notifications").
		Where(where).
		OrderBy("created_at DESC", "id ASC").
		Offset(offset).
		Limit(limit)

	if err := r.selectAll(ctx, &items, stmt); err != nil {
		return nil, 0, fmt.Errorf("error listing notifications: %w", err)
	}
	return items, total, nil
}

// CountUnread returns the number of unread notifications of the user.
func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var n int64
	stmt := r.sb().Select("COUNT(*)").From("notifications").Where(squirrel.Eq{"user_id": userID, "is_read": false})
	if err := r.get(ctx, &n, stmt, nil); err != nil {
		return 0, fmt.Errorf("error counting unread notifications: %w", err)
	}
	return n, nil
}

// MarkRead marks one of the user's notifications as read.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	stmt := r.sb().Update("notifications").
		Set("is_read", true).
		Where(squirrel.Eq{"id": id, "user_id": userID})

	n, err := r.exec(ctx, stmt)
	if err != nil {
		return fmt.Errorf("error marking notification read: %w", err)
	}
	if n == 0 {
		return apperrors.ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification of the user as read and returns how many changed.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	stmt := r.sb().Update("notifications").
		Set("is_read", true).
		Where(squirrel.Eq{"user_id": userID, "is_read": false})

	n, err := r.exec(ctx, stmt)
	if err != nil {
		return 0, fmt.Errorf("error marking notifications read: %w", err)
	}
	return n, nil
}
