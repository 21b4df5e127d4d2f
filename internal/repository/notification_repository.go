package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/blood4life/internal/domain"
)

// NotificationRepository encapsulates notification persistence. Rows are never
// deleted here; the read flag only moves false -> true.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	ListForRecipient(ctx context.Context, kind domain.RecipientKind, recipientID int64) ([]domain.Notification, error)
	ListUnreadForRecipient(ctx context.Context, kind domain.RecipientKind, recipientID int64) ([]domain.Notification, error)
	CountUnreadForRecipient(ctx context.Context, kind domain.RecipientKind, recipientID int64) (int64, error)
	MarkRead(ctx context.Context, id int64) (*domain.Notification, error)
	MarkAllRead(ctx context.Context, kind domain.RecipientKind, recipientID int64) error
}

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository returns a Postgres-backed implementation.
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	const query = `
        INSERT INTO notifications (recipient_kind, recipient_id, message, read)
        VALUES ($1,$2,$3,FALSE)
        RETURNING id, read, created_at`

	return r.pool.QueryRow(ctx, query,
		notification.RecipientKind,
		notification.RecipientID,
		notification.Message,
	).Scan(&notification.ID, &notification.Read, &notification.CreatedAt)
}

func (r *notificationRepository) ListForRecipient(ctx context.Context, kind domain.RecipientKind, recipientID int64) ([]domain.Notification, error) {
	const query = `
        SELECT id, recipient_kind, recipient_id, message, read, created_at
        FROM notifications
        WHERE recipient_kind=$1 AND recipient_id=$2
        ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, kind, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNotifications(rows)
}

func (r *notificationRepository) ListUnreadForRecipient(ctx context.Context, kind domain.RecipientKind, recipientID int64) ([]domain.Notification, error) {
	const query = `
        SELECT id, recipient_kind, recipient_id, message, read, created_at
        FROM notifications
        WHERE recipient_kind=$1 AND recipient_id=$2 AND read=FALSE
        ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, kind, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNotifications(rows)
}

func (r *notificationRepository) CountUnreadForRecipient(ctx context.Context, kind domain.RecipientKind, recipientID int64) (int64, error) {
	const query = `
        SELECT COUNT(*) FROM notifications
        WHERE recipient_kind=$1 AND recipient_id=$2 AND read=FALSE`

	var count int64
	if err := r.pool.QueryRow(ctx, query, kind, recipientID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// MarkRead flips the read flag. The update deliberately has no read=FALSE
// guard so marking an already-read notification is a no-op that still returns
// the row. pgx.ErrNoRows means the id does not exist.
func (r *notificationRepository) MarkRead(ctx context.Context, id int64) (*domain.Notification, error) {
	const query = `
        UPDATE notifications SET read=TRUE
        WHERE id=$1
        RETURNING id, recipient_kind, recipient_id, message, read, created_at`

	var notification domain.Notification
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&notification.ID,
		&notification.RecipientKind,
		&notification.RecipientID,
		&notification.Message,
		&notification.Read,
		&notification.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, kind domain.RecipientKind, recipientID int64) error {
	const query = `
        UPDATE notifications SET read=TRUE
        WHERE recipient_kind=$1 AND recipient_id=$2 AND read=FALSE`

	_, err := r.pool.Exec(ctx, query, kind, recipientID)
	return err
}

func scanNotifications(rows pgx.Rows) ([]domain.Notification, error) {
	notifications := make([]domain.Notification, 0)
	for rows.Next() {
		var notification domain.Notification
		if err := rows.Scan(
			&notification.ID,
			&notification.RecipientKind,
			&notification.RecipientID,
			&notification.Message,
			&notification.Read,
			&notification.CreatedAt,
		); err != nil {
			return nil, err
		}
		notifications = append(notifications, notification)
	}
	return notifications, rows.Err()
}
