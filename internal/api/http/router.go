package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blood4life/internal/api/http/handlers"
	"github.com/spec-kit/blood4life/internal/auth"
	"github.com/spec-kit/blood4life/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Auth          *handlers.AuthHandler
	Notifications *handlers.NotificationsHandler
	WS            *handlers.WSHandler
	Gate          *auth.Gate
}

// RegisterRoutes wires HTTP routes. The authentication gate runs on every
// request; anonymous requests pass through it and are only turned away by the
// per-route authority guards.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.Gate.Handle)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/api/auth")
	authGroup.Post("/donor/register", cfg.Auth.RegisterDonor)
	authGroup.Post("/donor/login", cfg.Auth.LoginDonor)
	authGroup.Post("/hospital/register", cfg.Auth.RegisterHospital)
	authGroup.Post("/hospital/login", cfg.Auth.LoginHospital)
	authGroup.Post("/admin/login", cfg.Auth.LoginAdmin)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/me", auth.RequireAuthenticated(), cfg.Auth.Me)

	notifications := app.Group("/api/notifications",
		auth.RequireAuthority(domain.AuthorityDonor, domain.AuthorityHospital))
	notifications.Get("/", cfg.Notifications.List)
	notifications.Get("/unread", cfg.Notifications.ListUnread)
	notifications.Get("/unread/count", cfg.Notifications.UnreadCount)
	notifications.Put("/:id/read", cfg.Notifications.MarkRead)
	notifications.Put("/read-all", cfg.Notifications.MarkAllRead)

	app.Get("/ws/notifications",
		auth.RequireAuthority(domain.AuthorityDonor, domain.AuthorityHospital),
		cfg.WS.BindNotificationChannel,
		cfg.WS.Notifications())
	app.Get("/ws/stats", cfg.WS.Stats())
}
