package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/blackboxinc/storefront-backend/api/responses"
	"github.com/blackboxinc/storefront-backend/pkg/config"
	"github.com/blackboxinc/storefront-backend/pkg/logger"
)

// Pinger reports backing-store reachability for readiness checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports whether the session store is reachable. The upstream
// commerce API is deliberately excluded: its outages surface per request.
func HealthReady(cfg *config.Config, logg *logger.Logger, redisClient Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)

		checks := map[string]string{"redis": "ok"}
		status := http.StatusOK

		if redisClient != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := redisClient.Ping(ctx); err != nil {
				if logg != nil {
					logg.Error(r.Context(), "readiness redis ping failed", err)
				}
				checks["redis"] = "unavailable"
				status = http.StatusServiceUnavailable
			}
		}

		responses.WriteSuccessStatus(w, status, checks)
	}
}
