package controllers

import (
	"net/http"

	"github.com/creatorstack/creatorstack-backend/api/responses"
	"github.com/creatorstack/creatorstack-backend/pkg/config"
	"github.com/creatorstack/creatorstack-backend/pkg/logger"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-CreatorStack-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady runs each named connectivity check and reports 503 when any
// backing service is unreachable.
func HealthReady(cfg *config.Config, logg *logger.Logger, checks map[string]func(r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-CreatorStack-Env", cfg.App.Env)

		status := map[string]string{}
		healthy := true
		for name, check := range checks {
			if check == nil {
				continue
			}
			if err := check(r); err != nil {
				healthy = false
				status[name] = "unreachable"
				if logg != nil {
					logg.Error(r.Context(), "readiness check failed: "+name, err)
				}
				continue
			}
			status[name] = "ok"
		}

		if !healthy {
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, status)
			return
		}
		status["status"] = "ready"
		responses.WriteSuccess(w, status)
	}
}
