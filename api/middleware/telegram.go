package middleware

import (
	"net/http"

	"github.com/AliCapone21/nonkabob-guliston/api/responses"
	"github.com/AliCapone21/nonkabob-guliston/internal/telegram"
	"github.com/AliCapone21/nonkabob-guliston/pkg/logger"
)

const initDataHeader = "X-Telegram-Init-Data"

// TelegramIdentity verifies the Mini App init data and seeds the request
// context with the resolved identity. A missing header is not an error:
// the request proceeds as a guest and each handler decides whether the
// operation needs an authenticated user. A forged signature is rejected.
func TelegramIdentity(resolver *telegram.Resolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := resolver.Resolve(r.Header.Get(initDataHeader))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := telegram.WithIdentity(r.Context(), identity)
			if logg != nil && identity.HasUser() {
				ctx = logg.WithFields(ctx, map[string]any{"telegram_user_id": identity.UserID})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
