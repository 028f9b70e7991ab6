package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rinoykj007/diet-Meal-sub000/api/responses"
	"github.com/rinoykj007/diet-Meal-sub000/api/validators"
	"github.com/rinoykj007/diet-Meal-sub000/internal/negotiation"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/db/models"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/enums"
	pkgerrors "github.com/rinoykj007/diet-Meal-sub000/pkg/errors"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/logger"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/pagination"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/types"
)

func parseRecipeID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "recipeId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "recipe order id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid recipe order id")
	}
	return id, nil
}

type submitRecipeBody struct {
	RestaurantID string   `json:"restaurant_id" validate:"required,uuid4"`
	Name         string   `json:"name" validate:"required,min=1,max=200"`
	Ingredients  []string `json:"ingredients" validate:"required,min=1,dive,min=1"`
	ProteinG     float64  `json:"protein_g" validate:"omitempty,gte=0"`
	CarbsG       float64  `json:"carbs_g" validate:"omitempty,gte=0"`
	FatG         float64  `json:"fat_g" validate:"omitempty,gte=0"`
	Notes        string   `json:"notes" validate:"omitempty,max=2000"`
}

// SubmitRecipe opens a negotiation for a custom recipe with a restaurant.
func SubmitRecipe(svc negotiation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "negotiation service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body submitRecipeBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		restaurantID, err := uuid.Parse(body.RestaurantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid restaurant id"))
			return
		}

		order, err := svc.Submit(r.Context(), negotiation.SubmitInput{
			CustomerID:   userID,
			RestaurantID: restaurantID,
			Recipe: models.RecipePayload{
				Name:        body.Name,
				Ingredients: body.Ingredients,
				Macros:      types.Macros{ProteinG: body.ProteinG, CarbsG: body.CarbsG, FatG: body.FatG},
				Notes:       body.Notes,
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

type quoteRecipeBody struct {
	Price string `json:"price" validate:"required"`
}

// QuoteRecipe records the restaurant's price for a pending recipe order.
func QuoteRecipe(svc negotiation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "negotiation service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := parseRecipeID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body quoteRecipeBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		price, err := decimal.NewFromString(strings.TrimSpace(body.Price))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price"))
			return
		}

		order, err := svc.Quote(r.Context(), negotiation.QuoteInput{
			OrderID: orderID,
			ActorID: userID,
			Price:   price,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AcceptRecipe locks in the quoted price as the order total.
func AcceptRecipe(svc negotiation.Service, logg *logger.Logger) http.HandlerFunc {
	return decideRecipe(svc, logg, svcAccept)
}

// RejectRecipe declines the quote and closes the negotiation.
func RejectRecipe(svc negotiation.Service, logg *logger.Logger) http.HandlerFunc {
	return decideRecipe(svc, logg, svcReject)
}

type recipeDecision int

const (
	svcAccept recipeDecision = iota
	svcReject
)

func decideRecipe(svc negotiation.Service, logg *logger.Logger, decision recipeDecision) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "negotiation service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := parseRecipeID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := negotiation.DecisionInput{OrderID: orderID, ActorID: userID}
		var order *models.CustomRecipeOrder
		if decision == svcAccept {
			order, err = svc.Accept(r.Context(), input)
		} else {
			order, err = svc.Reject(r.Context(), input)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// GetRecipe returns one negotiation visible to the caller.
func GetRecipe(svc negotiation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "negotiation service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := parseRecipeID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), orderID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// ListRecipes pages the caller's negotiations from either side of the table.
func ListRecipes(svc negotiation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "negotiation service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := negotiation.ListParams{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		switch strings.TrimSpace(r.URL.Query().Get("perspective")) {
		case "", "customer":
			params.CustomerID = userID
		case "restaurant":
			params.RestaurantID = userID
		default:
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "perspective must be customer or restaurant"))
			return
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("state")); raw != "" {
			state, err := enums.ParseNegotiationState(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid state"))
				return
			}
			params.State = state
		}

		result, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
