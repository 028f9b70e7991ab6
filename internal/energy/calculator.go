package energy

import (
	"strings"

	"github.com/rinoykj007/diet-Meal-sub000/pkg/config"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/db/models"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/enums"
	pkgerrors "github.com/rinoykj007/diet-Meal-sub000/pkg/errors"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/types"
)

// Revised Harris-Benedict coefficients.
const (
	maleBase      = 88.362
	maleWeight    = 13.397
	maleHeight    = 4.799
	maleAge       = 5.677
	femaleBase    = 447.593
	femaleWeight  = 9.247
	femaleHeight  = 3.098
	femaleAge     = 4.330
	kcalPerGramP  = 4.0
	kcalPerGramC  = 4.0
	kcalPerGramF  = 9.0
	proteinSplit  = 0.30
	carbsSplit    = 0.40
	fatSplit      = 0.30
	muscleGainPct = 0.10
	lowCarbPct    = 0.15
)

// Plausibility bounds for biometric input, outside which the budget is not
// computable rather than silently garbage.
const (
	maxAgeYears = 130
	minHeightCm = 50
	maxHeightCm = 250
	minWeightKg = 10
	maxWeightKg = 400
)

// activityFactors is the single source of truth for valid activity levels and
// their TDEE multipliers.
var activityFactors = map[enums.ActivityLevel]float64{
	enums.ActivityLevelSedentary:  1.20,
	enums.ActivityLevelLight:      1.375,
	enums.ActivityLevelModerate:   1.55,
	enums.ActivityLevelActive:     1.725,
	enums.ActivityLevelVeryActive: 1.90,
}

// mealSplits divides TDEE across the four slots.
var mealSplits = map[enums.MealSlot]float64{
	enums.MealSlotBreakfast: 0.25,
	enums.MealSlotLunch:     0.35,
	enums.MealSlotDinner:    0.30,
	enums.MealSlotSnacks:    0.10,
}

// MealBudget is the calorie band assigned to one meal slot.
type MealBudget struct {
	Min    float64 `json:"min"`
	Target float64 `json:"target"`
	Max    float64 `json:"max"`
}

// Budget is the derived energy budget for a profile. It is recomputed on
// demand and never persisted.
type Budget struct {
	BMR         float64                       `json:"bmr"`
	TDEE        float64                       `json:"tdee"`
	Meals       map[enums.MealSlot]MealBudget `json:"meals"`
	Macros      types.Macros                  `json:"macros"`
	BMI         float64                       `json:"bmi"`
	BMICategory string                        `json:"bmi_category"`
}

// Calculator derives energy budgets from biometric profiles.
type Calculator struct {
	bandSpread float64
}

// NewCalculator builds a calculator using the configured meal band spread.
func NewCalculator(cfg config.ScoringConfig) *Calculator {
	spread := cfg.MealBandSpread
	if spread <= 0 || spread >= 1 {
		spread = 0.15
	}
	return &Calculator{bandSpread: spread}
}

// ComputeBMR estimates resting energy expenditure via the revised
// Harris-Benedict form. Missing or implausible inputs return NOT_COMPUTABLE.
func (c *Calculator) ComputeBMR(profile *models.Profile) (float64, error) {
	if profile == nil {
		return 0, pkgerrors.New(pkgerrors.CodeNotComputable, "profile required")
	}

	missing := []string{}
	if profile.AgeYears == nil {
		missing = append(missing, "age")
	}
	if profile.WeightKg == nil {
		missing = append(missing, "weight")
	}
	if profile.HeightCm == nil {
		missing = append(missing, "height")
	}
	if profile.Sex == nil {
		missing = append(missing, "sex")
	}
	if len(missing) > 0 {
		return 0, pkgerrors.New(pkgerrors.CodeNotComputable, "profile incomplete").
			WithDetails(map[string]any{"missing": missing})
	}

	age := float64(*profile.AgeYears)
	weight := *profile.WeightKg
	height := *profile.HeightCm

	if age <= 0 || age > maxAgeYears {
		return 0, pkgerrors.New(pkgerrors.CodeNotComputable, "age out of plausible range")
	}
	if height < minHeightCm || height > maxHeightCm {
		return 0, pkgerrors.New(pkgerrors.CodeNotComputable, "height out of plausible range")
	}
	if weight < minWeightKg || weight > maxWeightKg {
		return 0, pkgerrors.New(pkgerrors.CodeNotComputable, "weight out of plausible range")
	}

	switch *profile.Sex {
	case enums.SexMale:
		return maleBase + maleWeight*weight + maleHeight*height - maleAge*age, nil
	case enums.SexFemale:
		return femaleBase + femaleWeight*weight + femaleHeight*height - femaleAge*age, nil
	default:
		// The formula only defines two branches; anything else is not computable.
		return 0, pkgerrors.New(pkgerrors.CodeNotComputable, "unknown sex category")
	}
}

// ComputeTDEE scales BMR by the activity factor. Unknown levels fall back to
// the moderate factor.
func (c *Calculator) ComputeTDEE(bmr float64, level enums.ActivityLevel) float64 {
	factor, ok := activityFactors[level]
	if !ok {
		factor = activityFactors[enums.ActivityLevelModerate]
	}
	return bmr * factor
}

// ComputeMealBudgets splits TDEE 25/35/30/10 across the meal slots with a
// symmetric band around each target.
func (c *Calculator) ComputeMealBudgets(tdee float64) map[enums.MealSlot]MealBudget {
	budgets := make(map[enums.MealSlot]MealBudget, len(mealSplits))
	for slot, share := range mealSplits {
		target := tdee * share
		budgets[slot] = MealBudget{
			Min:    target * (1 - c.bandSpread),
			Target: target,
			Max:    target * (1 + c.bandSpread),
		}
	}
	return budgets
}

// ComputeMacroTargets derives daily macro grams from TDEE and health goals.
// A muscle-gain goal shifts 10 points from carbs to protein; a low-carb goal
// shifts 15 points from carbs to fat and wins when both families are tagged.
func (c *Calculator) ComputeMacroTargets(tdee float64, healthGoals []string) types.Macros {
	protein, carbs, fat := proteinSplit, carbsSplit, fatSplit

	switch {
	case HasLowCarbGoal(healthGoals):
		carbs -= lowCarbPct
		fat += lowCarbPct
	case HasMuscleGainGoal(healthGoals):
		carbs -= muscleGainPct
		protein += muscleGainPct
	}

	return types.Macros{
		ProteinG: tdee * protein / kcalPerGramP,
		CarbsG:   tdee * carbs / kcalPerGramC,
		FatG:     tdee * fat / kcalPerGramF,
	}
}

// ComputeBudget assembles the full energy budget for a profile.
func (c *Calculator) ComputeBudget(profile *models.Profile) (*Budget, error) {
	bmr, err := c.ComputeBMR(profile)
	if err != nil {
		return nil, err
	}

	tdee := c.ComputeTDEE(bmr, profile.ActivityLevel)
	bmi := computeBMI(*profile.HeightCm, *profile.WeightKg)

	return &Budget{
		BMR:         bmr,
		TDEE:        tdee,
		Meals:       c.ComputeMealBudgets(tdee),
		Macros:      c.ComputeMacroTargets(tdee, profile.HealthGoals),
		BMI:         bmi,
		BMICategory: bmiCategory(bmi),
	}, nil
}

var muscleGainTags = []string{"muscle_gain", "muscle-gain", "muscle gain", "build_muscle", "build muscle", "bulking", "gain_muscle"}

var lowCarbTags = []string{"low_carb", "low-carb", "low carb", "keto", "ketogenic"}

// HasMuscleGainGoal reports whether any goal tag belongs to the muscle-gain family.
func HasMuscleGainGoal(goals []string) bool {
	return hasGoalTag(goals, muscleGainTags)
}

// HasLowCarbGoal reports whether any goal tag belongs to the low-carb/keto family.
func HasLowCarbGoal(goals []string) bool {
	return hasGoalTag(goals, lowCarbTags)
}

func hasGoalTag(goals []string, family []string) bool {
	for _, goal := range goals {
		normalized := strings.ToLower(strings.TrimSpace(goal))
		for _, tag := range family {
			if normalized == tag {
				return true
			}
		}
	}
	return false
}

func computeBMI(heightCm, weightKg float64) float64 {
	meters := heightCm / 100.0
	return weightKg / (meters * meters)
}

func bmiCategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "underweight"
	case bmi < 25.0:
		return "normal"
	case bmi < 30.0:
		return "overweight"
	default:
		return "obese"
	}
}
