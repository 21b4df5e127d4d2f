package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/blood4life/internal/domain"
)

// TopicTotalDonors is the unaddressed broadcast topic for the aggregate donor
// count. Broadcast topics carry no persistence or delivery guarantee.
const TopicTotalDonors = "broadcast:total-donors"

// Publisher pushes events onto real-time channels. Delivery is best-effort:
// callers treat publish errors as log-only.
type Publisher interface {
	PublishNotification(ctx context.Context, notification *domain.Notification) error
	Broadcast(ctx context.Context, topic string, payload any) error
}

// NotificationChannel names the logical topic for one recipient. One channel
// exists per (kind, id) pair.
func NotificationChannel(kind domain.RecipientKind, recipientID int64) string {
	return fmt.Sprintf("notifications:%s:%d", kind, recipientID)
}

// RedisPublisher publishes over Redis pub/sub.
type RedisPublisher struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisPublisher wraps a connected client.
func NewRedisPublisher(client *redis.Client, logger *zap.Logger) *RedisPublisher {
	return &RedisPublisher{client: client, logger: logger}
}

// PublishNotification sends the stored notification on its recipient channel.
func (p *RedisPublisher) PublishNotification(ctx context.Context, notification *domain.Notification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return err
	}
	channel := NotificationChannel(notification.RecipientKind, notification.RecipientID)
	if err := p.client.Publish(ctx, channel, payload).Err(); err != nil {
		return err
	}
	p.logger.Debug("published notification",
		zap.String("channel", channel),
		zap.Int64("notification_id", notification.ID))
	return nil
}

// Broadcast sends a payload on an unaddressed topic.
func (p *RedisPublisher) Broadcast(ctx context.Context, topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, topic, body).Err()
}
