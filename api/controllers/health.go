package controllers

import (
	"net/http"

	"github.com/o-complex/storefront-backend/api/responses"
	"github.com/o-complex/storefront-backend/pkg/config"
	"github.com/o-complex/storefront-backend/pkg/db"
	pkgerrors "github.com/o-complex/storefront-backend/pkg/errors"
	"github.com/o-complex/storefront-backend/pkg/logger"
	"github.com/o-complex/storefront-backend/pkg/redis"
)

const envHeader = "X-Storefront-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the dependencies a request path needs. The upstream
// commerce API is deliberately not probed: it is allowed to be down without
// making this service unready.
func HealthReady(cfg *config.Config, logg *logger.Logger, redisP redis.Pinger, dbP db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		ctx := r.Context()

		checks := map[string]string{}
		healthy := true

		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				checks["redis"] = err.Error()
				healthy = false
			} else {
				checks["redis"] = "ok"
			}
		}
		if dbP != nil {
			if err := dbP.Ping(ctx); err != nil {
				checks["db"] = err.Error()
				healthy = false
			} else {
				checks["db"] = "ok"
			}
		}

		if !healthy {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").WithDetails(checks))
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
