package notification

import "context"

type NotificationRepository interface {
	Create(ctx context.Context, n Notification) (Notification, error)
	List(ctx context.Context, recipientID string, filter NotificationFilter) ([]Notification, int64, error)
	UnreadCount(ctx context.Context, recipientID string) (int, error)
	MarkAsRead(ctx context.Context, recipientID string, ids []string) (int64, error)
	MarkAllAsRead(ctx context.Context, recipientID string) (int64, error)
	Delete(ctx context.Context, recipientID, id string) error
}
