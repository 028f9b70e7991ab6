package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/rinoykj007/diet-Meal-sub000/internal/energy"
	"github.com/rinoykj007/diet-Meal-sub000/internal/profiles"
	"github.com/rinoykj007/diet-Meal-sub000/internal/scoring"
	pkgerrors "github.com/rinoykj007/diet-Meal-sub000/pkg/errors"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/enums"
)

// Service scores catalog slices against a customer's energy budget.
type Service interface {
	ScoreCatalog(ctx context.Context, params ScoreParams) (*ScoreResult, error)
}

// ScoreParams selects the catalog slice and the customer it is scored for.
type ScoreParams struct {
	UserID       uuid.UUID
	RestaurantID uuid.UUID
	DietType     string
	MealSlot     enums.MealSlot
	MealsPerDay  int
	Limit        int
}

// ScoreResult carries the ranked items plus the budget they were scored
// against, so clients can render the calorie band alongside the list.
type ScoreResult struct {
	Budget *energy.Budget           `json:"budget"`
	Items  []scoring.ScoredFoodItem `json:"items"`
}

type service struct {
	provider   Provider
	profileSvc profiles.Service
	calculator *energy.Calculator
	scorer     *scoring.Scorer
}

// NewService wires catalog scoring dependencies.
func NewService(provider Provider, profileSvc profiles.Service, calculator *energy.Calculator, scorer *scoring.Scorer) (Service, error) {
	if provider == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog provider required")
	}
	if profileSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "profile service required")
	}
	if calculator == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "energy calculator required")
	}
	if scorer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "scorer required")
	}
	return &service{provider: provider, profileSvc: profileSvc, calculator: calculator, scorer: scorer}, nil
}

func (s *service) ScoreCatalog(ctx context.Context, params ScoreParams) (*ScoreResult, error) {
	if params.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if params.MealSlot != "" && !params.MealSlot.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid meal slot")
	}

	profile, err := s.profileSvc.Get(ctx, params.UserID)
	if err != nil {
		return nil, err
	}

	budget, err := s.calculator.ComputeBudget(profile)
	if err != nil {
		return nil, err
	}

	items, err := s.provider.ListFoodItems(ctx, ItemFilter{
		RestaurantID: params.RestaurantID,
		DietType:     params.DietType,
		Limit:        params.Limit,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list food items")
	}

	var mealBudget *energy.MealBudget
	if params.MealSlot != "" {
		if band, ok := budget.Meals[params.MealSlot]; ok {
			mealBudget = &band
		}
	}

	scored := s.scorer.Evaluate(items, scoring.EvaluateParams{
		Targets:             budget.Macros,
		MealsPerDay:         params.MealsPerDay,
		HealthGoals:         profile.HealthGoals,
		MealBudget:          mealBudget,
		Allergies:           profile.Allergies,
		DietaryRestrictions: profile.DietaryRestrictions,
	})

	return &ScoreResult{Budget: budget, Items: scored}, nil
}
