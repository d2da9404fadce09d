// Package auth issues and verifies the HS256 bearer tokens that guard
// host-scoped and payment routes.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the fixed validity of every issued token. There is no revocation.
const TokenTTL = 7 * 24 * time.Hour

// Errors returned while reading and verifying bearer tokens.
var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid bearer token")
)

// Manager signs and verifies tokens with a single shared secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewManager returns a Manager issuing tokens valid for TokenTTL.
func NewManager(secret string) *Manager {
	return &Manager{secret: []byte(secret), ttl: TokenTTL, now: time.Now}
}

// Issue signs the identity payload. exp and iat are always set by the
// manager, overriding any value present in claims.
func (m *Manager) Issue(claims map[string]any) (string, error) {
	const op = "auth.Issue"

	mc := make(jwt.MapClaims, len(claims)+2)
	for k, v := range claims {
		mc[k] = v
	}
	now := m.now()
	mc["iat"] = now.Unix()
	mc["exp"] = now.Add(m.ttl).Unix()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, mc).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// Verify checks signature and expiry and returns the decoded claims.
func (m *Manager) Verify(tokenString string) (jwt.MapClaims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.Parse(tokenString, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// BearerToken extracts the credential from an Authorization header value.
// The scheme word is not inspected; the second space-separated part is the token.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrMissingToken
	}
	_, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return "", ErrInvalidToken
	}
	return token, nil
}

type claimsKey struct{}

// WithClaims attaches verified claims to ctx.
func WithClaims(ctx context.Context, claims jwt.MapClaims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the claims attached by WithClaims.
func ClaimsFromContext(ctx context.Context) (jwt.MapClaims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(jwt.MapClaims)
	return claims, ok
}

// EmailFromContext returns the verified identity, or "" if none is attached.
func EmailFromContext(ctx context.Context) string {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return ""
	}
	email, _ := claims["email"].(string)
	return email
}
