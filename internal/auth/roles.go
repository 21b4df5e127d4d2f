package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blood4life/internal/domain"
)

// RequireAuthority ensures the caller holds one of the allowed authorities.
// This is where anonymous requests finally get their 401; the gate itself
// never produces one.
func RequireAuthority(allowed ...domain.Authority) fiber.Handler {
	allowedSet := make(map[domain.Authority]struct{}, len(allowed))
	for _, authority := range allowed {
		allowedSet[authority] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[identity.Authority]; !exists {
			return fiber.NewError(http.StatusForbidden, "insufficient role")
		}
		return c.Next()
	}
}

// RequireAuthenticated ensures any identity is present.
func RequireAuthenticated() fiber.Handler {
	return RequireAuthority()
}
