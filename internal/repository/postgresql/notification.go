package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type notificationRepository struct {
	db *database.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *database.DB) notification.NotificationRepository {
	return &notificationRepository{db: db}
}

const notificationColumns = `id, recipient_id, type, title, message, data, is_read, read_at, created_at`

func scanNotification(row pgx.Row) (notification.Notification, error) {
	var (
		n        notification.Notification
		dataJSON []byte
	)
	err := row.Scan(
		&n.ID,
		&n.RecipientID,
		&n.Type,
		&n.Title,
		&n.Message,
		&dataJSON,
		&n.IsRead,
		&n.ReadAt,
		&n.CreatedAt,
	)
	if err != nil {
		return notification.Notification{}, err
	}
	if len(dataJSON) > 0 {
		if err := json.Unmarshal(dataJSON, &n.Data); err != nil {
			return notification.Notification{}, fmt.Errorf("failed to unmarshal notification data: %w", err)
		}
	}
	return n, nil
}

// Create creates a new notification
func (r *notificationRepository) Create(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	var dataJSON []byte
	if n.Data != nil {
		var err error
		if dataJSON, err = json.Marshal(n.Data); err != nil {
			return notification.Notification{}, fmt.Errorf("failed to marshal notification data: %w", err)
		}
	}

	query := `
		INSERT INTO notifications (recipient_id, type, title, message, data)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + notificationColumns

	created, err := scanNotification(GetQuerier(ctx, r.db).QueryRow(ctx, query, n.RecipientID, n.Type, n.Title, n.Message, dataJSON))
	if err != nil {
		return notification.Notification{}, fmt.Errorf("failed to create notification: %w", err)
	}
	return created, nil
}

// List returns one page of a recipient's notifications, newest first
func (r *notificationRepository) List(ctx context.Context, recipientID string, filter notification.NotificationFilter) ([]notification.Notification, int64, error) {
	var c conditions
	c.add("recipient_id = $%d", recipientID)
	if filter.UnreadOnly {
		c.raw("NOT is_read")
	}

	q := GetQuerier(ctx, r.db)
	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM notifications `+c.where(), c.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM notifications %s ORDER BY created_at DESC LIMIT %s OFFSET %s`,
		notificationColumns, c.where(), c.next(filter.Limit), c.next(filter.Offset()))
	rows, err := q.Query(ctx, query, c.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var list []notification.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// UnreadCount returns the number of unread notifications
func (r *notificationRepository) UnreadCount(ctx context.Context, recipientID string) (int, error) {
	var count int
	err := GetQuerier(ctx, r.db).QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND NOT is_read`, recipientID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkAsRead marks the given notifications as read, ignoring ids that belong to someone else
func (r *notificationRepository) MarkAsRead(ctx context.Context, recipientID string, ids []string) (int64, error) {
	tag, err := GetQuerier(ctx, r.db).Exec(ctx, `
		UPDATE notifications
		SET is_read = TRUE, read_at = NOW()
		WHERE recipient_id = $1 AND id = ANY($2::uuid[]) AND NOT is_read
	`, recipientID, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications as read: %w", err)
	}
	return tag.RowsAffected(), nil
}

// MarkAllAsRead marks all notifications as read for a recipient
func (r *notificationRepository) MarkAllAsRead(ctx context.Context, recipientID string) (int64, error) {
	tag, err := GetQuerier(ctx, r.db).Exec(ctx, `
		UPDATE notifications
		SET is_read = TRUE, read_at = NOW()
		WHERE recipient_id = $1 AND NOT is_read
	`, recipientID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark all notifications as read: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Delete removes one of the recipient's notifications
func (r *notificationRepository) Delete(ctx context.Context, recipientID, id string) error {
	tag, err := GetQuerier(ctx, r.db).Exec(ctx,
		`DELETE FROM notifications WHERE id = $1 AND recipient_id = $2`, id, recipientID)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notification.ErrNotificationNotFound
	}
	return nil
}
