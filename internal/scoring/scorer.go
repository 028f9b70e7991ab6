package scoring

import (
	"math"
	"sort"
	"strings"

	"github.com/rinoykj007/diet-Meal-sub000/internal/energy"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/config"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/db/models"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/enums"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/types"
)

// ScoredFoodItem annotates a catalog item with match quality against a
// customer's targets. Built fresh per request, never persisted.
type ScoredFoodItem struct {
	models.FoodItem
	MacroScore   int           `json:"macro_score"`
	CalorieMatch bool          `json:"calorie_match"`
	MatchReasons []string      `json:"match_reasons"`
	Badges       []enums.Badge `json:"badges"`
}

// matchReason pairs a human-readable reason with how strongly it applied, so
// the strongest reasons surface first.
type matchReason struct {
	text         string
	contribution float64
}

// Scorer evaluates food items against per-meal macro allocations and calorie
// bands. All thresholds come from configuration so ranking stays tunable
// without code changes.
type Scorer struct {
	cfg config.ScoringConfig
}

func NewScorer(cfg config.ScoringConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score grades a single item. mealBudget may be nil when the caller has no
// calorie band for the slot; calorieMatch is false in that case.
func (s *Scorer) Score(item models.FoodItem, targets types.Macros, mealsPerDay int, healthGoals []string, mealBudget *energy.MealBudget) ScoredFoodItem {
	if mealsPerDay <= 0 {
		mealsPerDay = s.cfg.DefaultMealsPerDay
	}
	allocation := targets.Scale(1.0 / float64(mealsPerDay))

	proteinWeight, carbsWeight, fatWeight := 1.0, 1.0, 1.0
	if energy.HasMuscleGainGoal(healthGoals) {
		proteinWeight = s.cfg.GoalMacroWeight
	}
	if energy.HasLowCarbGoal(healthGoals) {
		carbsWeight = s.cfg.GoalMacroWeight
	}

	deviation := (proteinWeight*relativeDeviation(item.ProteinG, allocation.ProteinG) +
		carbsWeight*relativeDeviation(item.CarbsG, allocation.CarbsG) +
		fatWeight*relativeDeviation(item.FatG, allocation.FatG)) /
		(proteinWeight + carbsWeight + fatWeight)

	macroScore := int(math.Round(100 * math.Max(0, 1-deviation)))
	if macroScore > 100 {
		macroScore = 100
	}

	calorieMatch := mealBudget != nil &&
		item.Calories >= mealBudget.Min && item.Calories <= mealBudget.Max

	scored := ScoredFoodItem{
		FoodItem:     item,
		MacroScore:   macroScore,
		CalorieMatch: calorieMatch,
	}
	scored.MatchReasons = s.buildMatchReasons(item, allocation, calorieMatch, mealBudget)
	scored.Badges = s.buildBadges(item, allocation, calorieMatch)
	return scored
}

func (s *Scorer) buildMatchReasons(item models.FoodItem, allocation types.Macros, calorieMatch bool, mealBudget *energy.MealBudget) []string {
	reasons := []matchReason{}

	if calorieMatch && mealBudget.Target > 0 {
		closeness := 1 - math.Abs(item.Calories-mealBudget.Target)/mealBudget.Target
		reasons = append(reasons, matchReason{"within calorie budget", closeness})
	}
	if allocation.ProteinG > 0 {
		if ratio := item.ProteinG / allocation.ProteinG; ratio >= s.cfg.HighProteinFactor {
			reasons = append(reasons, matchReason{"high protein", ratio - 1})
		}
	}
	if allocation.CarbsG > 0 {
		if ratio := item.CarbsG / allocation.CarbsG; ratio <= s.cfg.LowCarbFactor {
			reasons = append(reasons, matchReason{"low carb", 1 - ratio})
		}
	}
	if allocation.FatG > 0 {
		if ratio := item.FatG / allocation.FatG; ratio <= s.cfg.LowFatFactor {
			reasons = append(reasons, matchReason{"low fat", 1 - ratio})
		}
	}

	sort.SliceStable(reasons, func(i, j int) bool {
		return reasons[i].contribution > reasons[j].contribution
	})

	limit := s.cfg.MaxMatchReasons
	if limit <= 0 || limit > len(reasons) {
		limit = len(reasons)
	}
	out := make([]string, 0, limit)
	for _, r := range reasons[:limit] {
		out = append(out, r.text)
	}
	return out
}

func (s *Scorer) buildBadges(item models.FoodItem, allocation types.Macros, calorieMatch bool) []enums.Badge {
	badges := []enums.Badge{}
	if calorieMatch {
		badges = append(badges, enums.BadgeOptimalCalories)
	}
	if allocation.ProteinG > 0 && item.ProteinG/allocation.ProteinG >= s.cfg.HighProteinFactor {
		badges = append(badges, enums.BadgeHighProtein)
	}
	if allocation.CarbsG > 0 && item.CarbsG/allocation.CarbsG <= s.cfg.LowCarbFactor {
		badges = append(badges, enums.BadgeLowCarb)
	}
	if allocation.FatG > 0 && item.FatG/allocation.FatG <= s.cfg.LowFatFactor {
		badges = append(badges, enums.BadgeLowFat)
	}
	if badge, ok := enums.BadgeForDietType(item.DietType); ok {
		badges = append(badges, badge)
	}
	return badges
}

// FilterByAllergens reports whether the item is safe for the given allergy
// tags. An item is excluded when any allergy tag is a case-insensitive
// substring of any of its allergen tags.
func FilterByAllergens(item models.FoodItem, allergies []string) bool {
	for _, allergy := range allergies {
		needle := strings.ToLower(strings.TrimSpace(allergy))
		if needle == "" {
			continue
		}
		for _, allergen := range item.Allergens {
			if strings.Contains(strings.ToLower(allergen), needle) {
				return false
			}
		}
	}
	return true
}

// FilterByDietaryRestrictions reports whether the item satisfies the
// customer's restriction set. An empty set admits everything.
func FilterByDietaryRestrictions(item models.FoodItem, restrictions []string) bool {
	if len(restrictions) == 0 {
		return true
	}
	dietType := strings.ToLower(strings.TrimSpace(item.DietType))
	for _, restriction := range restrictions {
		if strings.ToLower(strings.TrimSpace(restriction)) == dietType {
			return true
		}
	}
	return false
}

// Rank orders scored items descending by macro score, then calorie matches
// first, then by item id so equal items always land in the same order.
func Rank(items []ScoredFoodItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].MacroScore != items[j].MacroScore {
			return items[i].MacroScore > items[j].MacroScore
		}
		if items[i].CalorieMatch != items[j].CalorieMatch {
			return items[i].CalorieMatch
		}
		return items[i].ID.String() < items[j].ID.String()
	})
}

// EvaluateParams carries everything needed to score one catalog slice.
type EvaluateParams struct {
	Targets             types.Macros
	MealsPerDay         int
	HealthGoals         []string
	MealBudget          *energy.MealBudget
	Allergies           []string
	DietaryRestrictions []string
}

// Evaluate filters, scores, and ranks a catalog slice in one pass.
func (s *Scorer) Evaluate(items []models.FoodItem, params EvaluateParams) []ScoredFoodItem {
	scored := make([]ScoredFoodItem, 0, len(items))
	for _, item := range items {
		if !FilterByAllergens(item, params.Allergies) {
			continue
		}
		if !FilterByDietaryRestrictions(item, params.DietaryRestrictions) {
			continue
		}
		scored = append(scored, s.Score(item, params.Targets, params.MealsPerDay, params.HealthGoals, params.MealBudget))
	}
	Rank(scored)
	return scored
}

func relativeDeviation(actual, allocation float64) float64 {
	if allocation <= 0 {
		if actual <= 0 {
			return 0
		}
		return 1
	}
	return math.Abs(actual-allocation) / allocation
}
