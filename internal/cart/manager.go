package cart

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AliCapone21/nonkabob-guliston/pkg/config"
	"github.com/AliCapone21/nonkabob-guliston/pkg/logger"
)

// Manager owns every live cart session, keyed by an opaque token the
// client replays through the X-Cart-Session header.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Store

	ttl   time.Duration
	sweep time.Duration
	logg  *logger.Logger
}

// NewManager builds a manager with the configured session TTL.
func NewManager(cfg config.CartConfig, logg *logger.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Store),
		ttl:      cfg.SessionTTL,
		sweep:    cfg.SweepInterval,
		logg:     logg,
	}
}

// Session returns the store for the token, creating both when the token
// is unknown or empty. The returned token must be echoed to the client.
func (m *Manager) Session(token string) (string, *Store) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if token != "" {
		if store, ok := m.sessions[token]; ok {
			return token, store
		}
	}

	token = uuid.NewString()
	store := NewStore()
	m.sessions[token] = store
	return token, store
}

// Lookup returns the store for a known token without creating one.
func (m *Manager) Lookup(token string) (*Store, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	store, ok := m.sessions[token]
	return store, ok
}

// Drop removes a session outright.
func (m *Manager) Drop(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, token)
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.sessions)
}

// StartJanitor sweeps idle sessions until the context is cancelled.
func (m *Manager) StartJanitor(ctx context.Context) {
	if m.ttl <= 0 || m.sweep <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(m.sweep)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed := m.sweepIdle(time.Now())
				if removed > 0 && m.logg != nil {
					m.logg.Info(m.logg.WithField(ctx, "removed", removed), "cart janitor dropped idle sessions")
				}
			}
		}
	}()
}

func (m *Manager) sweepIdle(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for token, store := range m.sessions {
		if now.Sub(store.LastTouched()) > m.ttl {
			delete(m.sessions, token)
			removed++
		}
	}
	return removed
}
