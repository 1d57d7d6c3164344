package notification

import (
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/validator"
)

// CreateNotificationRequest is built by other services, never by clients.
type CreateNotificationRequest struct {
	RecipientID string
	Type        Type
	Title       string
	Message     string
	Data        map[string]any
}

type NotificationResponse struct {
	ID        string         `json:"id"`
	Type      Type           `json:"type"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
	IsRead    bool           `json:"is_read"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func NewNotificationResponse(n Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Data:      n.Data,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

type NotificationFilter struct {
	UnreadOnly bool `json:"unread_only"`
	pagination.Params
}

func (f *NotificationFilter) Validate() error {
	var errs validator.ValidationErrors
	f.Normalize(&errs)
	return errs.Err()
}

type ListNotificationResponse struct {
	pagination.Meta
	UnreadCount   int                    `json:"unread_count"`
	Notifications []NotificationResponse `json:"notifications"`
}

type MarkAsReadRequest struct {
	NotificationIDs []string `json:"notification_ids"`
}

func (r *MarkAsReadRequest) Validate() error {
	var errs validator.ValidationErrors
	if len(r.NotificationIDs) == 0 {
		errs.Add("notification_ids", "at least one notification id is required")
	}
	for _, id := range r.NotificationIDs {
		if !validator.IsValidUUID(id) {
			errs.Add("notification_ids", "invalid notification id "+id)
			break
		}
	}
	return errs.Err()
}

type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}

type StreamTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
