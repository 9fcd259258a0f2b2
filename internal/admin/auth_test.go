package admin

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AliCapone21/nonkabob-guliston/pkg/config"
	pkgerrors "github.com/AliCapone21/nonkabob-guliston/pkg/errors"
	"github.com/AliCapone21/nonkabob-guliston/pkg/security"
)

type fakeSessions struct {
	active map[string]bool
	nextID string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{active: make(map[string]bool), nextID: "session-1"}
}

func (f *fakeSessions) Create(ctx context.Context) (string, error) {
	f.active[f.nextID] = true
	return f.nextID, nil
}

func (f *fakeSessions) Has(ctx context.Context, sessionID string) (bool, error) {
	return f.active[sessionID], nil
}

func (f *fakeSessions) Revoke(ctx context.Context, sessionID string) error {
	delete(f.active, sessionID)
	return nil
}

type fakeLimiter struct {
	counts map[string]int64
	limit  int64
}

func (f *fakeLimiter) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	if f.counts == nil {
		f.counts = make(map[string]int64)
	}
	f.counts[scope]++
	return f.counts[scope] <= limit, f.counts[scope], nil
}

func authFixture(t *testing.T, admin config.AdminConfig, devMode bool) (*AuthService, *fakeSessions) {
	t.Helper()

	sessions := newFakeSessions()
	svc, err := NewAuthService(AuthParams{
		Admin: admin,
		JWT: config.JWTConfig{
			Secret:            "test-secret",
			Issuer:            "nonkabob-guliston",
			ExpirationMinutes: 60,
		},
		RateLimit: config.AdminRateLimitConfig{LoginWindow: time.Minute, LoginIPLimit: 3},
		Sessions:  sessions,
		Limiter:   &fakeLimiter{},
		DevMode:   devMode,
	})
	require.NoError(t, err)
	return svc, sessions
}

func TestLoginWithDevPIN(t *testing.T) {
	svc, _ := authFixture(t, config.AdminConfig{DevPIN: "1234"}, true)

	token, err := svc.Login(context.Background(), "1234", "10.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "session-1", claims.ID)
}

func TestLoginDevPINDisabledInProd(t *testing.T) {
	svc, _ := authFixture(t, config.AdminConfig{DevPIN: "1234"}, false)

	_, err := svc.Login(context.Background(), "1234", "10.0.0.1")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestLoginWithHashedPIN(t *testing.T) {
	adminCfg := config.AdminConfig{
		ArgonMemoryKB:    32768,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
	hash, err := security.HashPIN("8671", adminCfg)
	require.NoError(t, err)
	adminCfg.PINHash = hash

	svc, _ := authFixture(t, adminCfg, false)

	token, err := svc.Login(context.Background(), "8671", "10.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = svc.Login(context.Background(), "0000", "10.0.0.1")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestLoginRateLimited(t *testing.T) {
	svc, _ := authFixture(t, config.AdminConfig{DevPIN: "1234"}, true)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Login(ctx, "wrong", "10.0.0.9")
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
	}

	_, err := svc.Login(ctx, "1234", "10.0.0.9")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeRateLimit, pkgerrors.As(err).Code())

	// another IP is unaffected
	token, err := svc.Login(ctx, "1234", "10.0.0.10")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, sessions := authFixture(t, config.AdminConfig{DevPIN: "1234"}, true)
	ctx := context.Background()

	token, err := svc.Login(ctx, "1234", "10.0.0.1")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, token))
	assert.Empty(t, sessions.active)

	_, err = svc.Authenticate(ctx, token)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestAuthenticateRejectsGarbageToken(t *testing.T) {
	svc, _ := authFixture(t, config.AdminConfig{DevPIN: "1234"}, true)

	_, err := svc.Authenticate(context.Background(), "not-a-jwt")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}
