package controllers

import (
	"net/http"

	"github.com/rinoykj007/diet-Meal-sub000/api/responses"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/config"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/db"
	pkgerrors "github.com/rinoykj007/diet-Meal-sub000/pkg/errors"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/logger"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-DietMeal-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when the backing stores answer a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-DietMeal-Env", cfg.App.Env)

		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "readiness check failed").
						WithDetails(map[string]any{"dependency": "database"}))
				return
			}
		}
		if redisP != nil {
			if err := redisP.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "readiness check failed").
						WithDetails(map[string]any{"dependency": "redis"}))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
