package telegram

import (
	"strings"

	"github.com/AliCapone21/nonkabob-guliston/pkg/config"
)

// Resolver turns raw initData headers into Identities once per request.
type Resolver struct {
	cfg     config.TelegramConfig
	devMode bool
}

// NewResolver builds a resolver. devMode enables the fixed fallback
// identity when no initData arrives.
func NewResolver(cfg config.TelegramConfig, devMode bool) *Resolver {
	return &Resolver{cfg: cfg, devMode: devMode}
}

// Resolve maps the raw header to an Identity. A missing header is the
// unavailable variant (or the dev fallback), never an error; a present
// but invalid signature is rejected.
func (r *Resolver) Resolve(raw string) (Identity, error) {
	if strings.TrimSpace(raw) == "" {
		if r.devMode && r.cfg.DevUserID != 0 {
			return DevFallback(r.cfg), nil
		}
		return Identity{Availability: AvailabilityUnavailable}, nil
	}
	return IdentityFromInitData(raw, r.cfg.BotToken)
}
