package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rinoykj007/diet-Meal-sub000/api/responses"
	"github.com/rinoykj007/diet-Meal-sub000/api/validators"
	"github.com/rinoykj007/diet-Meal-sub000/internal/catalog"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/enums"
	pkgerrors "github.com/rinoykj007/diet-Meal-sub000/pkg/errors"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/logger"
)

const maxCatalogItems = 200

// ScoreCatalog ranks a restaurant's menu against the caller's meal budget.
func ScoreCatalog(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rawRestaurantID := strings.TrimSpace(chi.URLParam(r, "restaurantId"))
		if rawRestaurantID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id is required"))
			return
		}
		restaurantID, err := uuid.Parse(rawRestaurantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid restaurant id"))
			return
		}

		slotRaw := strings.TrimSpace(r.URL.Query().Get("slot"))
		if slotRaw == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "slot query parameter is required"))
			return
		}
		slot, err := enums.ParseMealSlot(slotRaw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid meal slot"))
			return
		}

		mealsPerDay, err := validators.ParseQueryInt(r, "meals_per_day", 0, 1, 10)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, maxCatalogItems)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ScoreCatalog(r.Context(), catalog.ScoreParams{
			UserID:       userID,
			RestaurantID: restaurantID,
			DietType:     strings.TrimSpace(r.URL.Query().Get("diet_type")),
			MealSlot:     slot,
			MealsPerDay:  mealsPerDay,
			Limit:        limit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
