package handlers

import (
	"net/http"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blood4life/internal/auth"
	"github.com/spec-kit/blood4life/internal/domain"
	"github.com/spec-kit/blood4life/internal/realtime"
)

const wsChannelKey = "ws_channel"

// WSHandler upgrades websocket subscriptions onto their pub/sub channels.
type WSHandler struct {
	hub *realtime.Hub
}

// NewWSHandler constructs handler.
func NewWSHandler(hub *realtime.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// BindNotificationChannel runs before the upgrade: it resolves the caller's
// recipient channel from the gate's identity, since Locals set here remain
// readable on the upgraded connection.
func (h *WSHandler) BindNotificationChannel(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var kind domain.RecipientKind
	switch identity.Principal.Kind {
	case domain.PrincipalKindDonor:
		kind = domain.RecipientKindDonor
	case domain.PrincipalKindHospital:
		kind = domain.RecipientKindHospital
	default:
		return fiber.NewError(http.StatusForbidden, "no notification channel for this principal kind")
	}

	c.Locals(wsChannelKey, realtime.NotificationChannel(kind, identity.Principal.ID()))
	return c.Next()
}

// Notifications serves GET /ws/notifications for the authenticated recipient.
func (h *WSHandler) Notifications() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		channel, ok := conn.Locals(wsChannelKey).(string)
		if !ok || channel == "" {
			_ = conn.Close()
			return
		}
		h.hub.ServeChannel(conn, channel)
	})
}

// Stats serves GET /ws/stats, the unaddressed donor-count broadcast.
func (h *WSHandler) Stats() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		h.hub.ServeChannel(conn, realtime.TopicTotalDonors)
	})
}
