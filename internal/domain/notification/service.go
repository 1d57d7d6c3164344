package notification

import (
	"context"

	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/sse"
)

type NotificationService interface {
	// Notify stores a notification and pushes it to live streams. Failures
	// are logged and never fail the calling operation.
	Notify(ctx context.Context, req CreateNotificationRequest)

	List(ctx context.Context, filter NotificationFilter) (ListNotificationResponse, error)
	UnreadCount(ctx context.Context) (UnreadCountResponse, error)
	MarkAsRead(ctx context.Context, req MarkAsReadRequest) error
	MarkAllAsRead(ctx context.Context) error
	Delete(ctx context.Context, id string) error

	StreamToken(ctx context.Context) (StreamTokenResponse, error)
	// Subscribe validates a stream token and opens the user's event stream.
	Subscribe(token string) (<-chan sse.Event, func(), error)
}
