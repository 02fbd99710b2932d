package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/storefront-backoffice/api/responses"
	"github.com/angelmondragon/storefront-backoffice/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-backoffice/pkg/errors"
	"github.com/angelmondragon/storefront-backoffice/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Pinger is any dependency that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the database and, when configured, redis.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbPinger Pinger, redisPinger Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{"database": "ok"}
		failed := false

		if dbPinger == nil {
			checks["database"] = "unconfigured"
			failed = true
		} else if err := dbPinger.Ping(ctx); err != nil {
			checks["database"] = "unreachable"
			failed = true
			if logg != nil {
				logg.Error(ctx, "readiness database ping failed", err)
			}
		}

		if redisPinger != nil {
			checks["redis"] = "ok"
			if err := redisPinger.Ping(ctx); err != nil {
				checks["redis"] = "unreachable"
				failed = true
				if logg != nil {
					logg.Error(ctx, "readiness redis ping failed", err)
				}
			}
		}

		if failed {
			responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeDependency, "dependency unavailable").WithDetails(checks))
			return
		}

		checks["status"] = "ready"
		responses.WriteSuccess(w, checks)
	}
}
