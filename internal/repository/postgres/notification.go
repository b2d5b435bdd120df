package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/healthvault/ops-api/internal/model"
)

const notificationColumns = `
	id, created_by, target_user_id, title, message, channel,
	delivery_status, retry_count, last_error, created_at, read_at
`

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	query := `
		INSERT INTO notification (
			id, created_by, target_user_id, title, message, channel,
			delivery_status, retry_count, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	n.ID = uuid.New()
	n.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		n.ID, n.CreatedBy, n.TargetUserID, n.Title, n.Message,
		n.Channel, n.DeliveryStatus, n.RetryCount, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notification WHERE id = $1`

	var n model.Notification
	if err := r.db.GetContext(ctx, &n, query, id); err != nil {
		return nil, notFoundOr(err, "notification")
	}
	return &n, nil
}

// MarkRead stamps read_at only when it is still null, so the second
// call by the same reader leaves the original timestamp untouched.
func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	query := `
		UPDATE notification
		SET read_at = $1
		WHERE id = $2 AND read_at IS NULL
	`
	if _, err := r.db.ExecContext(ctx, query, time.Now(), id); err != nil {
		return nil, fmt.Errorf("failed to mark notification read: %w", err)
	}
	return r.Get(ctx, id)
}

// MarkBroadcastRead records a per-reader read mark. ON CONFLICT DO
// NOTHING keeps repeat calls from moving the original stamp.
func (r *notificationRepository) MarkBroadcastRead(ctx context.Context, id, userID uuid.UUID) (*model.Notification, error) {
	query := `
		INSERT INTO notification_read (notification_id, user_id, read_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (notification_id, user_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, id, userID, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to mark broadcast read: %w", err)
	}

	n, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var readAt time.Time
	lookup := `SELECT read_at FROM notification_read WHERE notification_id = $1 AND user_id = $2`
	if err := r.db.GetContext(ctx, &readAt, lookup, id, userID); err == nil {
		n.ReadAt = &readAt
	}
	return n, nil
}

func (r *notificationRepository) UpdateDelivery(ctx context.Context, n *model.Notification) error {
	query := `
		UPDATE notification
		SET delivery_status = $1, retry_count = $2, last_error = $3
		WHERE id = $4
	`
	if _, err := r.db.ExecContext(ctx, query,
		n.DeliveryStatus, n.RetryCount, n.LastError, n.ID,
	); err != nil {
		return fmt.Errorf("failed to update notification delivery: %w", err)
	}
	return nil
}

// ListForUser returns notifications targeted at the user plus
// broadcasts, with the reader's own broadcast read marks folded into
// read_at.
func (r *notificationRepository) ListForUser(ctx context.Context, userID uuid.UUID, filter *model.NotificationFilter) ([]*model.Notification, int, error) {
	where := `
		FROM notification n
		LEFT JOIN notification_read nr
			ON nr.notification_id = n.id AND nr.user_id = $1
		WHERE (n.target_user_id = $1 OR n.target_user_id IS NULL)
	`
	args := []interface{}{userID}
	if filter.UnreadOnly {
		where += " AND COALESCE(n.read_at, nr.read_at) IS NULL"
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	query := `
		SELECT n.id, n.created_by, n.target_user_id, n.title, n.message,
		       n.channel, n.delivery_status, n.retry_count, n.last_error,
		       n.created_at, COALESCE(n.read_at, nr.read_at) AS read_at
	` + where + fmt.Sprintf(" ORDER BY n.created_at DESC LIMIT $%d OFFSET $%d", 2, 3)
	args = append(args, filter.Limit(), filter.Offset())

	notifications := []*model.Notification{}
	if err := r.db.SelectContext(ctx, &notifications, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, total, nil
}

func (r *notificationRepository) ListRetryable(ctx context.Context, maxRetries, limit int) ([]*model.Notification, error) {
	query := `SELECT ` + notificationColumns + `
		FROM notification
		WHERE delivery_status IN ($1, $2) AND retry_count < $3
		ORDER BY created_at ASC
		LIMIT $4`

	notifications := []*model.Notification{}
	err := r.db.SelectContext(ctx, &notifications, query,
		model.DeliveryStatusFailed, model.DeliveryStatusRetrying, maxRetries, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list retryable notifications: %w", err)
	}
	return notifications, nil
}
