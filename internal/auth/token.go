package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/blood4life/internal/domain"
)

// ErrDecode covers every way a token can fail structural or signature
// verification: forged signature, malformed compact form, missing or mistyped
// claim fields. Expiry is deliberately not part of it.
var ErrDecode = errors.New("token decode failed")

// TokenCodec issues and decodes signed, time-bound claim sets. The signing
// secret is injected once at construction and never changes afterwards.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenCodec builds a codec with the given secret and token lifetime.
func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenCodec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Claims describes the JWT payload carried by every issued token.
type Claims struct {
	SubjectID int64                `json:"id"`
	Kind      domain.PrincipalKind `json:"type"`
	jwt.RegisteredClaims
}

// Issue builds and signs a token for the subject with a fixed lifetime.
func (tc *TokenCodec) Issue(subjectID int64, kind domain.PrincipalKind) (string, time.Time) {
	issuedAt := tc.now()
	expiresAt := issuedAt.Add(tc.ttl)
	claims := &Claims{
		SubjectID: subjectID,
		Kind:      kind,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tc.secret)
	if err != nil {
		// HS256 signing of a marshalable claim set cannot fail at runtime.
		panic(err)
	}
	return signed, expiresAt
}

// Decode verifies the signature and structure of a token and returns its
// claims. It does NOT check expiry; callers distinguish "cryptographically
// invalid" from "valid but stale" via IsExpired.
func (tc *TokenCodec) Decode(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	parsed, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return tc.secret, nil
	})
	if err != nil {
		return nil, errors.Join(ErrDecode, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrDecode
	}
	if claims.SubjectID == 0 || claims.Kind == "" || claims.ExpiresAt == nil {
		return nil, ErrDecode
	}
	return claims, nil
}

// IsExpired reports whether the claim set is past its expiry. Separate from
// Decode so a structurally valid but stale token is distinguishable.
func (tc *TokenCodec) IsExpired(claims *Claims) bool {
	if claims == nil || claims.ExpiresAt == nil {
		return true
	}
	return tc.now().After(claims.ExpiresAt.Time)
}
