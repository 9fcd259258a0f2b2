package controllers

import (
	"net/http"

	"github.com/AliCapone21/nonkabob-guliston/api/middleware"
	"github.com/AliCapone21/nonkabob-guliston/api/responses"
	"github.com/AliCapone21/nonkabob-guliston/api/validators"
	"github.com/AliCapone21/nonkabob-guliston/internal/admin"
	pkgerrors "github.com/AliCapone21/nonkabob-guliston/pkg/errors"
	"github.com/AliCapone21/nonkabob-guliston/pkg/logger"
)

type adminLoginRequest struct {
	PIN string `json:"pin" validate:"required"`
}

// AdminLogin exchanges the dashboard PIN for a bearer token. Rate
// limiting happens inside the auth service, keyed by client IP.
func AdminLogin(svc *admin.AuthService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body adminLoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token, err := svc.Login(r.Context(), body.PIN, middleware.ClientIP(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"token": token})
	}
}

// AdminLogout revokes the session behind the presented token.
func AdminLogout(svc *admin.AuthService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		token := middleware.BearerToken(r)
		if token == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		if err := svc.Logout(r.Context(), token); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}
