package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AliCapone21/nonkabob-guliston/pkg/config"
	redisclient "github.com/AliCapone21/nonkabob-guliston/pkg/redis"
	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	AdminSessionKey(sessionID string) string
}

// Manager tracks live dashboard sessions in Redis. A JWT is only honored
// while its jti still has a session entry, so logout revokes immediately
// instead of waiting for token expiry.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// SessionChecker exposes the read-only surface needed by middleware.
type SessionChecker interface {
	Has(ctx context.Context, sessionID string) (bool, error)
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.AccessTokenTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("access token ttl must be positive")
	}

	return &Manager{
		store: client,
		keyer: client,
		ttl:   ttl,
	}, nil
}

// Create registers a new session and returns its identifier.
func (m *Manager) Create(ctx context.Context) (string, error) {
	sessionID := NewSessionID()
	stamp := time.Now().UTC().Format(time.RFC3339)
	if err := m.store.Set(ctx, m.keyer.AdminSessionKey(sessionID), stamp, m.ttl); err != nil {
		return "", err
	}
	return sessionID, nil
}

// Has reports whether the session identifier is still active.
func (m *Manager) Has(ctx context.Context, sessionID string) (bool, error) {
	if strings.TrimSpace(sessionID) == "" {
		return false, fmt.Errorf("session id is required")
	}
	if _, err := m.store.Get(ctx, m.keyer.AdminSessionKey(sessionID)); err != nil {
		if errors.Is(err, redislib.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Revoke deletes the session entry so the matching JWT stops working.
func (m *Manager) Revoke(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	return m.store.Del(ctx, m.keyer.AdminSessionKey(sessionID))
}

// NewSessionID produces a stable identifier used as the JWT jti/Redis key.
func NewSessionID() string {
	return uuid.NewString()
}
