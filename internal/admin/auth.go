package admin

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/AliCapone21/nonkabob-guliston/pkg/auth"
	"github.com/AliCapone21/nonkabob-guliston/pkg/config"
	pkgerrors "github.com/AliCapone21/nonkabob-guliston/pkg/errors"
	"github.com/AliCapone21/nonkabob-guliston/pkg/logger"
	"github.com/AliCapone21/nonkabob-guliston/pkg/security"
)

// loginScope prefixes the per-IP rate limit counter.
const loginScope = "admin_login:"

// LoginLimiter is the slice of the redis client the auth service needs.
type LoginLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// SessionManager abstracts session storage for tests.
type SessionManager interface {
	Create(ctx context.Context) (string, error)
	Has(ctx context.Context, sessionID string) (bool, error)
	Revoke(ctx context.Context, sessionID string) error
}

// AuthParams groups dependencies for the dashboard auth service.
type AuthParams struct {
	Admin     config.AdminConfig
	JWT       config.JWTConfig
	RateLimit config.AdminRateLimitConfig
	Sessions  SessionManager
	Limiter   LoginLimiter
	DevMode   bool
	Logg      *logger.Logger
}

// AuthService verifies the dashboard PIN and manages sessions. The PIN
// lives server-side as an argon2id hash; the plaintext dev PIN only
// works in dev mode.
type AuthService struct {
	admin     config.AdminConfig
	jwt       config.JWTConfig
	rateLimit config.AdminRateLimitConfig
	sessions  SessionManager
	limiter   LoginLimiter
	devMode   bool
	logg      *logger.Logger
}

// NewAuthService builds the auth service.
func NewAuthService(params AuthParams) (*AuthService, error) {
	if params.Sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session manager is required")
	}
	if params.Limiter == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "login limiter is required")
	}
	return &AuthService{
		admin:     params.Admin,
		jwt:       params.JWT,
		rateLimit: params.RateLimit,
		sessions:  params.Sessions,
		limiter:   params.Limiter,
		devMode:   params.DevMode,
		logg:      params.Logg,
	}, nil
}

// Login rate-limits per client IP, verifies the PIN, and returns a
// signed access token whose session is held in Redis.
func (s *AuthService) Login(ctx context.Context, pin, clientIP string) (string, error) {
	allowed, _, err := s.limiter.FixedWindowAllow(ctx, loginScope+clientIP, int64(s.rateLimit.LoginIPLimit), s.rateLimit.LoginWindow)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limit check")
	}
	if !allowed {
		return "", pkgerrors.New(pkgerrors.CodeRateLimit, "too many login attempts")
	}

	if !s.verifyPIN(pin) {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid pin")
	}

	sessionID, err := s.sessions.Create(ctx)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
	}

	token, err := auth.MintAdminToken(s.jwt, time.Now(), auth.AdminTokenPayload{SessionID: sessionID})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}
	return token, nil
}

// Authenticate validates the bearer token and checks the session is
// still live, returning the claims for downstream handlers.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*auth.AdminClaims, error) {
	claims, err := auth.ParseAdminToken(s.jwt, strings.TrimSpace(tokenString))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}

	live, err := s.sessions.Has(ctx, claims.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check session")
	}
	if !live {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session revoked")
	}
	return claims, nil
}

// Logout revokes the token's session so it stops working immediately.
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	claims, err := auth.ParseAdminToken(s.jwt, strings.TrimSpace(tokenString))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *AuthService) verifyPIN(pin string) bool {
	if pin == "" {
		return false
	}

	if s.admin.PINHash != "" {
		ok, err := security.VerifyPIN(pin, s.admin.PINHash)
		if err != nil {
			if s.logg != nil {
				s.logg.Error(context.Background(), "pin hash verification failed", err)
			}
			return false
		}
		return ok
	}

	// no hash configured: only the dev PIN in dev mode
	if !s.devMode || s.admin.DevPIN == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(pin), []byte(s.admin.DevPIN)) == 1
}
