package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/blood4life/internal/domain"
)

// TokenCookieName is the session cookie carrying the token. The Authorization
// header is the fallback transport; the cookie wins when both are present.
const TokenCookieName = "jwt"

const identityKey = "auth_identity"

// Identity is the request-scoped authenticated identity installed by the gate.
type Identity struct {
	Principal *Principal
	Authority domain.Authority
}

// Gate is the per-request authentication middleware. It never rejects a
// request: every token failure (forged, malformed, expired, principal gone,
// unknown kind) degrades to an anonymous request. Authorization happens later
// at route level, not here.
type Gate struct {
	codec    *TokenCodec
	resolver *PrincipalResolver
	logger   *zap.Logger
}

// NewGate constructs the gate middleware.
func NewGate(codec *TokenCodec, resolver *PrincipalResolver, logger *zap.Logger) *Gate {
	return &Gate{codec: codec, resolver: resolver, logger: logger}
}

// Handle extracts, decodes and resolves the caller's token, installing the
// identity slot on success and clearing it on any failure.
func (g *Gate) Handle(c *fiber.Ctx) error {
	token := extractToken(c)
	if token == "" {
		return c.Next()
	}

	claims, err := g.codec.Decode(token)
	if err != nil {
		// Fail open: a corrupt or forged token must never 500 the request.
		g.logger.Debug("rejected token", zap.Error(err))
		clearIdentity(c)
		return c.Next()
	}

	if g.codec.IsExpired(claims) {
		g.logger.Debug("expired token",
			zap.Int64("subject_id", claims.SubjectID),
			zap.String("kind", string(claims.Kind)))
		clearIdentity(c)
		return c.Next()
	}

	// Idempotency guard: the gate runs once, but being wired twice must not
	// replace an already-installed identity.
	if _, ok := IdentityFromContext(c); ok {
		return c.Next()
	}

	principal, err := g.resolver.Resolve(c.UserContext(), claims.Kind, claims.SubjectID)
	if err != nil {
		g.logger.Warn("principal lookup failed", zap.Error(err))
		clearIdentity(c)
		return c.Next()
	}
	if principal == nil {
		// Principal deleted after issuance, or an unrecognized kind tag.
		g.logger.Debug("unknown principal",
			zap.Int64("subject_id", claims.SubjectID),
			zap.String("kind", string(claims.Kind)))
		clearIdentity(c)
		return c.Next()
	}

	authority, ok := domain.AuthorityFor(principal.Kind)
	if !ok {
		clearIdentity(c)
		return c.Next()
	}

	c.Locals(identityKey, &Identity{Principal: principal, Authority: authority})
	return c.Next()
}

// IdentityFromContext retrieves the authenticated identity, if any.
func IdentityFromContext(c *fiber.Ctx) (*Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*Identity)
	if !ok || identity == nil {
		return nil, false
	}
	return identity, true
}

func clearIdentity(c *fiber.Ctx) {
	c.Locals(identityKey, nil)
}

func extractToken(c *fiber.Ctx) string {
	if cookie := c.Cookies(TokenCookieName); cookie != "" {
		return cookie
	}

	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
