// Package session manages the stored bearer token. The token is opaque to
// the screens (they only forward it), but when it happens to be a JWT the
// welcome flow can read its claims to decide between "straight to contracts"
// and "login or sign up". Verification is the backend's job; the client
// never holds the signing key.
package session

import (
	"errors"
	"time"

	"github.com/rafisgodoy/unibus-core-go/internal/domain"
	"github.com/rafisgodoy/unibus-core-go/internal/port"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Claims is the subset of token claims the client cares about.
type Claims struct {
	Subject   string
	ExpiresAt *time.Time
}

// Session reads and writes the auth token in the durable store.
type Session struct {
	store  port.KeyValueStore
	logger *zap.Logger
}

// New creates a session over the given store.
func New(store port.KeyValueStore, logger *zap.Logger) *Session {
	return &Session{store: store, logger: logger}
}

// Token returns the stored bearer token. ok is false when the user never
// logged in (or logged out) — callers skip network calls silently then.
func (s *Session) Token() (string, bool) {
	token, ok := s.store.Get(domain.StoreKeyToken)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// SetToken stores the token after a successful login.
func (s *Session) SetToken(token string) error {
	if token == "" {
		return errors.New("empty token")
	}
	return s.store.Set(domain.StoreKeyToken, token)
}

// Clear removes the stored token (logout).
func (s *Session) Clear() error {
	return s.store.Delete(domain.StoreKeyToken)
}

// Claims parses the stored token without verifying its signature.
func (s *Session) Claims() (*Claims, error) {
	token, ok := s.Token()
	if !ok {
		return nil, errors.New("no stored token")
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, err
	}

	out := &Claims{}
	if sub, err := parsed.Claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if exp, err := parsed.Claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		out.ExpiresAt = &t
	}
	return out, nil
}

// LoggedIn reports whether a token is present and, when it carries an exp
// claim, not yet expired. Opaque (non-JWT) tokens count as logged in — the
// backend is the authority on their validity.
func (s *Session) LoggedIn(now time.Time) bool {
	if _, ok := s.Token(); !ok {
		return false
	}

	claims, err := s.Claims()
	if err != nil {
		s.logger.Debug("session: token is not a JWT, treating as opaque", zap.Error(err))
		return true
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(now) {
		return false
	}
	return true
}
