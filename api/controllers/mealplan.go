package controllers

import (
	"net/http"

	"github.com/rinoykj007/diet-Meal-sub000/api/responses"
	"github.com/rinoykj007/diet-Meal-sub000/api/validators"
	"github.com/rinoykj007/diet-Meal-sub000/internal/mealplan"
	pkgerrors "github.com/rinoykj007/diet-Meal-sub000/pkg/errors"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/logger"
)

type generateMealPlanBody struct {
	Days int `json:"days" validate:"omitempty,min=1,max=14"`
}

// GenerateMealPlan asks the planning provider for a plan sized to the
// caller's budget and grades each meal against its slot band.
func GenerateMealPlan(svc mealplan.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "meal plan service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body generateMealPlanBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		plan, err := svc.GeneratePlan(r.Context(), userID, body.Days)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, plan)
	}
}
