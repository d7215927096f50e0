package controllers

import (
	"context"
	"net/http"

	"github.com/angkormart/angkormart-backend/api/responses"
	"github.com/angkormart/angkormart-backend/pkg/config"
	pkgerrors "github.com/angkormart/angkormart-backend/pkg/errors"
	"github.com/angkormart/angkormart-backend/pkg/logger"
)

// Pinger is the health-check surface a dependency must expose.
type Pinger interface {
	Ping(context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-AngkorMart-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness only when the backing stores answer a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-AngkorMart-Env", cfg.App.Env)

		checks := map[string]string{}
		healthy := true
		for name, dep := range deps {
			if dep == nil {
				checks[name] = "skipped"
				continue
			}
			if err := dep.Ping(r.Context()); err != nil {
				checks[name] = "down"
				healthy = false
				if logg != nil {
					ctx := logg.WithField(r.Context(), "dependency", name)
					logg.Error(ctx, "health.check_failed", err)
				}
				continue
			}
			checks[name] = "up"
		}

		if !healthy {
			err := pkgerrors.New(pkgerrors.CodeDependency, "dependency unavailable").
				WithDetails(checks)
			responses.WriteError(r.Context(), nil, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}

// ReadinessDeps assembles the named ping targets for HealthReady.
func ReadinessDeps(db, redis Pinger) map[string]Pinger {
	return map[string]Pinger{
		"database": db,
		"redis":    redis,
	}
}
