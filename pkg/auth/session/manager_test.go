package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string)}
}

func (m *mockStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	return nil
}

func (m *mockStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

type mockKeyer struct{}

func (mockKeyer) AdminSessionKey(sessionID string) string {
	return "nk:session:admin:" + sessionID
}

func newTestManager(store *mockStore) *Manager {
	return &Manager{store: store, keyer: mockKeyer{}, ttl: time.Hour}
}

func TestManagerCreateHasRevoke(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()
	mgr := newTestManager(store)

	sessionID, err := mgr.Create(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, sessionID)

	ok, err := mgr.Has(ctx, sessionID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, mgr.Revoke(ctx, sessionID))

	ok, err = mgr.Has(ctx, sessionID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManagerHasUnknownSession(t *testing.T) {
	ctx := context.Background()
	mgr := newTestManager(newMockStore())

	ok, err := mgr.Has(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManagerRequiresSessionID(t *testing.T) {
	ctx := context.Background()
	mgr := newTestManager(newMockStore())

	_, err := mgr.Has(ctx, "  ")
	assert.Error(t, err)
	assert.Error(t, mgr.Revoke(ctx, ""))
}
