package realtime

import (
	"context"

	"github.com/gofiber/contrib/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Hub bridges websocket connections to Redis pub/sub channels. Each connection
// gets its own subscription; a slow or dropped socket only affects itself.
type Hub struct {
	client *redis.Client
	logger *zap.Logger
}

// NewHub wraps a connected Redis client.
func NewHub(client *redis.Client, logger *zap.Logger) *Hub {
	return &Hub{client: client, logger: logger}
}

// ServeChannel pumps messages from the given pub/sub channel to the websocket
// until either side closes. Messages published while the subscriber is
// disconnected are not replayed here; clients reconcile via the notifications
// query API on reconnect.
func (h *Hub) ServeChannel(conn *websocket.Conn, channel string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := h.client.Subscribe(ctx, channel)
	defer sub.Close() //nolint:errcheck

	h.logger.Debug("subscriber connected", zap.String("channel", channel))

	// Drain client frames so close/ping handling works; subscribers only
	// receive on this socket.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				h.logger.Debug("subscriber write failed",
					zap.String("channel", channel), zap.Error(err))
				return
			}
		case <-ctx.Done():
			h.logger.Debug("subscriber disconnected", zap.String("channel", channel))
			return
		}
	}
}
