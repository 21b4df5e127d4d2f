package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blood4life/internal/auth"
	"github.com/spec-kit/blood4life/internal/domain"
	"github.com/spec-kit/blood4life/internal/service"
	apperrors "github.com/spec-kit/blood4life/pkg/util"
)

// NotificationsHandler exposes the notification query and mark-read surface
// for the authenticated donor or hospital.
type NotificationsHandler struct {
	notifications *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notifications *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{notifications: notifications}
}

// List handles GET /api/notifications.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	kind, recipientID, err := recipientFromRequest(c)
	if err != nil {
		return err
	}

	notifications, err := h.notifications.ListFor(c.Context(), kind, recipientID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": notifications})
}

// ListUnread handles GET /api/notifications/unread.
func (h *NotificationsHandler) ListUnread(c *fiber.Ctx) error {
	kind, recipientID, err := recipientFromRequest(c)
	if err != nil {
		return err
	}

	notifications, err := h.notifications.ListUnreadFor(c.Context(), kind, recipientID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": notifications})
}

// UnreadCount handles GET /api/notifications/unread/count.
func (h *NotificationsHandler) UnreadCount(c *fiber.Ctx) error {
	kind, recipientID, err := recipientFromRequest(c)
	if err != nil {
		return err
	}

	count, err := h.notifications.UnreadCountFor(c.Context(), kind, recipientID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"count": count}})
}

// MarkRead handles PUT /api/notifications/:id/read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	if _, _, err := recipientFromRequest(c); err != nil {
		return err
	}

	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid notification id")
	}

	notification, err := h.notifications.MarkRead(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": notification})
}

// MarkAllRead handles PUT /api/notifications/read-all.
func (h *NotificationsHandler) MarkAllRead(c *fiber.Ctx) error {
	kind, recipientID, err := recipientFromRequest(c)
	if err != nil {
		return err
	}

	if err := h.notifications.MarkAllRead(c.Context(), kind, recipientID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "OK"})
}

// recipientFromRequest maps the authenticated identity to a notification
// recipient. Admins are not addressable recipients.
func recipientFromRequest(c *fiber.Ctx) (domain.RecipientKind, int64, error) {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return "", 0, apperrors.NewUnauthorized("authentication required")
	}

	switch identity.Principal.Kind {
	case domain.PrincipalKindDonor:
		return domain.RecipientKindDonor, identity.Principal.ID(), nil
	case domain.PrincipalKindHospital:
		return domain.RecipientKindHospital, identity.Principal.ID(), nil
	default:
		return "", 0, apperrors.NewForbidden("no notifications for this principal kind")
	}
}
