package mealplan

import (
	"context"

	"github.com/google/uuid"

	"github.com/rinoykj007/diet-Meal-sub000/internal/energy"
	"github.com/rinoykj007/diet-Meal-sub000/internal/profiles"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/enums"
	pkgerrors "github.com/rinoykj007/diet-Meal-sub000/pkg/errors"
)

const (
	defaultPlanDays = 7
	maxPlanDays     = 14
)

// Service generates meal plans fitted to a customer's energy budget.
type Service interface {
	GeneratePlan(ctx context.Context, userID uuid.UUID, days int) (*AnnotatedPlan, error)
}

// AnnotatedMeal is a generated meal graded against the slot's calorie band.
type AnnotatedMeal struct {
	PlannedMeal
	CalorieMatch bool `json:"calorie_match"`
}

// AnnotatedDay groups annotated meals for one day.
type AnnotatedDay struct {
	Day   int             `json:"day"`
	Meals []AnnotatedMeal `json:"meals"`
}

// AnnotatedPlan is the generator output joined with the budget it was
// requested for.
type AnnotatedPlan struct {
	Budget *energy.Budget `json:"budget"`
	Days   []AnnotatedDay `json:"days"`
}

type service struct {
	client     Client
	profileSvc profiles.Service
	calculator *energy.Calculator
}

// NewService wires meal plan dependencies.
func NewService(client Client, profileSvc profiles.Service, calculator *energy.Calculator) (Service, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "meal plan client required")
	}
	if profileSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "profile service required")
	}
	if calculator == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "energy calculator required")
	}
	return &service{client: client, profileSvc: profileSvc, calculator: calculator}, nil
}

func (s *service) GeneratePlan(ctx context.Context, userID uuid.UUID, days int) (*AnnotatedPlan, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if days <= 0 {
		days = defaultPlanDays
	}
	if days > maxPlanDays {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plan length exceeds the maximum")
	}

	profile, err := s.profileSvc.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	budget, err := s.calculator.ComputeBudget(profile)
	if err != nil {
		return nil, err
	}

	plan, err := s.client.GeneratePlan(ctx, PlanRequest{
		DailyCalories:       budget.TDEE,
		Macros:              budget.Macros,
		DietaryRestrictions: profile.DietaryRestrictions,
		Allergies:           profile.Allergies,
		Days:                days,
	})
	if err != nil {
		return nil, err
	}

	annotated := &AnnotatedPlan{Budget: budget}
	for _, day := range plan.Days {
		annotatedDay := AnnotatedDay{Day: day.Day}
		for _, meal := range day.Meals {
			annotatedDay.Meals = append(annotatedDay.Meals, AnnotatedMeal{
				PlannedMeal:  meal,
				CalorieMatch: mealFitsBand(budget, meal),
			})
		}
		annotated.Days = append(annotated.Days, annotatedDay)
	}
	return annotated, nil
}

func mealFitsBand(budget *energy.Budget, meal PlannedMeal) bool {
	slot, err := enums.ParseMealSlot(meal.Slot)
	if err != nil {
		return false
	}
	band, ok := budget.Meals[slot]
	if !ok {
		return false
	}
	return meal.Calories >= band.Min && meal.Calories <= band.Max
}
