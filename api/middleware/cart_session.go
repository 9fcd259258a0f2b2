package middleware

import (
	"net/http"

	"github.com/AliCapone21/nonkabob-guliston/internal/cart"
)

const cartSessionHeader = "X-Cart-Session"

// CartSession resolves the caller's in-memory cart from the session
// header, minting a fresh session when the token is absent or expired.
// The token is echoed back on every response so the client can store
// whichever session it ended up with.
func CartSession(manager *cart.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, store := manager.Session(r.Header.Get(cartSessionHeader))
			w.Header().Set(cartSessionHeader, token)

			ctx := WithCartSession(r.Context(), token, store)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
