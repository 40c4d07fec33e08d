package repositories

import (
	"context"

	"github.com/classhub-team/classhub/internal/domain/entities"
	"github.com/google/uuid"
)

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	// Create creates a notification
	Create(ctx context.Context, notification *entities.Notification) error

	// CreateBatch creates notifications for many users at once
	CreateBatch(ctx context.Context, notifications []*entities.Notification) error

	// FindByID retrieves a notification by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Notification, error)

	// ListByUser retrieves a user's notifications, newest first
	ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]*entities.Notification, int64, error)

	// MarkRead marks a notification as read
	MarkRead(ctx context.Context, id uuid.UUID) error

	// MarkAllRead marks all of a user's notifications as read
	MarkAllRead(ctx context.Context, userID uuid.UUID) error

	// CountUnread counts a user's unread notifications
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}
