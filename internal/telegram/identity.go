package telegram

import (
	"context"

	"github.com/AliCapone21/nonkabob-guliston/pkg/config"
)

// Availability describes what the host surface gave us for this request.
type Availability string

const (
	// AvailabilityUser means initData verified and carried a user.
	AvailabilityUser Availability = "user"
	// AvailabilityNoUser means verified initData arrived without a user object.
	AvailabilityNoUser Availability = "no_user"
	// AvailabilityUnavailable means the request carried no usable initData.
	AvailabilityUnavailable Availability = "unavailable"
)

// Identity is resolved once per request and carried on the context.
// Handlers branch on Availability instead of probing the raw payload.
type Identity struct {
	Availability Availability
	UserID       int64
	FirstName    string
	LastName     string
}

// HasUser reports whether a concrete Telegram user is present.
func (i Identity) HasUser() bool {
	return i.Availability == AvailabilityUser
}

// DisplayName joins first and last name for order snapshots.
func (i Identity) DisplayName() string {
	if i.LastName == "" {
		return i.FirstName
	}
	return i.FirstName + " " + i.LastName
}

type identityCtxKey struct{}

// WithIdentity stores the resolved identity on the request context.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, identity)
}

// IdentityFromContext returns the resolved identity, defaulting to
// unavailable when middleware never ran.
func IdentityFromContext(ctx context.Context) Identity {
	if identity, ok := ctx.Value(identityCtxKey{}).(Identity); ok {
		return identity
	}
	return Identity{Availability: AvailabilityUnavailable}
}

// DevFallback returns the configured development identity.
func DevFallback(cfg config.TelegramConfig) Identity {
	return Identity{
		Availability: AvailabilityUser,
		UserID:       cfg.DevUserID,
		FirstName:    cfg.DevFirstName,
	}
}
