package controllers

import (
	"context"
	"net/http"

	"go.uber.org/multierr"

	"github.com/AliCapone21/nonkabob-guliston/api/responses"
	"github.com/AliCapone21/nonkabob-guliston/pkg/config"
	pkgerrors "github.com/AliCapone21/nonkabob-guliston/pkg/errors"
	"github.com/AliCapone21/nonkabob-guliston/pkg/logger"
)

// Pinger is the health slice of the database and redis clients.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Nonkabob-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every backing dependency and aggregates failures so
// one probe reports the full picture.
func HealthReady(cfg *config.Config, logg *logger.Logger, pingers ...Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Nonkabob-Env", cfg.App.Env)

		var errs error
		for _, p := range pingers {
			if p == nil {
				continue
			}
			errs = multierr.Append(errs, p.Ping(r.Context()))
		}
		if errs != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "readiness check"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
