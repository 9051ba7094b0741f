package store

import (
	"context"

	"github.com/nhle/webmail/internal/model"
)

// Store defines the local persistence used by the new-mail poller. It
// holds email IDs and notifications only; email content is always
// fetched from the server.
type Store interface {
	// === Seen ledger ===

	// MarkSeen records ids and returns those that were not seen before.
	MarkSeen(ctx context.Context, ids []int) ([]int, error)
	SeenCount(ctx context.Context) (int, error)

	// === Notifications ===

	CreateNotification(ctx context.Context, n model.Notification) error
	GetUnreadNotifications(ctx context.Context) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error
}
