package controllers

import (
	"net/http"

	"github.com/rinoykj007/diet-Meal-sub000/api/responses"
	"github.com/rinoykj007/diet-Meal-sub000/internal/energy"
	"github.com/rinoykj007/diet-Meal-sub000/internal/profiles"
	pkgerrors "github.com/rinoykj007/diet-Meal-sub000/pkg/errors"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/logger"
)

// GetEnergyBudget derives the caller's daily energy budget from their
// profile. Budgets are never stored, so this is always fresh.
func GetEnergyBudget(profileSvc profiles.Service, calculator *energy.Calculator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if profileSvc == nil || calculator == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "energy budget unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := profileSvc.Get(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		budget, err := calculator.ComputeBudget(profile)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, budget)
	}
}
