package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/blood4life/internal/domain"
	"github.com/spec-kit/blood4life/internal/realtime"
	"github.com/spec-kit/blood4life/internal/repository"
	apperrors "github.com/spec-kit/blood4life/pkg/util"
)

// NotificationService persists notifications and fans them out to their
// recipient's real-time channel.
type NotificationService struct {
	repo      repository.NotificationRepository
	publisher realtime.Publisher
	logger    *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(repo repository.NotificationRepository, publisher realtime.Publisher, logger *zap.Logger) *NotificationService {
	return &NotificationService{repo: repo, publisher: publisher, logger: logger}
}

// Create durably stores a notification, then publishes it on the recipient's
// channel. The write completes before the publish is attempted, so a
// subscriber that misses the push can always recover through the query API.
// Publish failures are logged, never returned: the channel is best-effort.
func (s *NotificationService) Create(ctx context.Context, kind domain.RecipientKind, recipientID int64, message string) (*domain.Notification, error) {
	if !domain.ValidRecipientKind(kind) {
		return nil, apperrors.NewValidationError("unsupported recipient kind", map[string]any{"kind": string(kind)})
	}
	if strings.TrimSpace(message) == "" {
		return nil, apperrors.NewValidationError("message required", nil)
	}

	notification := &domain.Notification{
		RecipientKind: kind,
		RecipientID:   recipientID,
		Message:       message,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, err
	}

	if err := s.publisher.PublishNotification(ctx, notification); err != nil {
		s.logger.Warn("notification publish failed",
			zap.Int64("notification_id", notification.ID),
			zap.String("recipient_kind", string(kind)),
			zap.Int64("recipient_id", recipientID),
			zap.Error(err))
	}
	return notification, nil
}

// ListFor returns all notifications for a recipient, newest first.
func (s *NotificationService) ListFor(ctx context.Context, kind domain.RecipientKind, recipientID int64) ([]domain.Notification, error) {
	return s.repo.ListForRecipient(ctx, kind, recipientID)
}

// ListUnreadFor returns unread notifications for a recipient, newest first.
func (s *NotificationService) ListUnreadFor(ctx context.Context, kind domain.RecipientKind, recipientID int64) ([]domain.Notification, error) {
	return s.repo.ListUnreadForRecipient(ctx, kind, recipientID)
}

// UnreadCountFor returns how many unread notifications a recipient has.
func (s *NotificationService) UnreadCountFor(ctx context.Context, kind domain.RecipientKind, recipientID int64) (int64, error) {
	return s.repo.CountUnreadForRecipient(ctx, kind, recipientID)
}

// MarkRead flips a notification to read. Idempotent: an already-read
// notification is returned unchanged. A missing id is a genuine not-found the
// caller needs to see.
func (s *NotificationService) MarkRead(ctx context.Context, id int64) (*domain.Notification, error) {
	notification, err := s.repo.MarkRead(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("notification", map[string]any{"id": id})
		}
		return nil, err
	}
	return notification, nil
}

// MarkAllRead flips every currently-unread notification for the recipient.
// Best-effort batch: a notification created concurrently may or may not be
// included, and redundant concurrent calls converge on the same end state.
func (s *NotificationService) MarkAllRead(ctx context.Context, kind domain.RecipientKind, recipientID int64) error {
	return s.repo.MarkAllRead(ctx, kind, recipientID)
}
