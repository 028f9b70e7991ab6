package energy

import (
	"math"
	"testing"

	"github.com/rinoykj007/diet-Meal-sub000/pkg/config"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/db/models"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/enums"
	pkgerrors "github.com/rinoykj007/diet-Meal-sub000/pkg/errors"
)

func newTestCalculator() *Calculator {
	return NewCalculator(config.ScoringConfig{MealBandSpread: 0.15})
}

func intPtr(v int) *int                  { return &v }
func floatPtr(v float64) *float64        { return &v }
func sexPtr(v enums.Sex) *enums.Sex      { return &v }
func almostEqual(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func completeProfile() *models.Profile {
	return &models.Profile{
		AgeYears:      intPtr(30),
		WeightKg:      floatPtr(75),
		HeightCm:      floatPtr(175),
		Sex:           sexPtr(enums.SexMale),
		ActivityLevel: enums.ActivityLevelModerate,
	}
}

func TestComputeBudgetReferenceProfile(t *testing.T) {
	calc := newTestCalculator()

	budget, err := calc.ComputeBudget(completeProfile())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !almostEqual(budget.BMR, 1762.65, 0.01) {
		t.Fatalf("expected BMR 1762.65, got %.4f", budget.BMR)
	}
	if !almostEqual(budget.TDEE, 2732.11, 0.01) {
		t.Fatalf("expected TDEE 2732.11, got %.4f", budget.TDEE)
	}

	wantTargets := map[enums.MealSlot]float64{
		enums.MealSlotBreakfast: 683.03,
		enums.MealSlotLunch:     956.24,
		enums.MealSlotDinner:    819.63,
		enums.MealSlotSnacks:    273.21,
	}
	for slot, want := range wantTargets {
		got, ok := budget.Meals[slot]
		if !ok {
			t.Fatalf("missing meal budget for %s", slot)
		}
		if !almostEqual(got.Target, want, 0.01) {
			t.Fatalf("slot %s: expected target %.2f, got %.4f", slot, want, got.Target)
		}
		if !almostEqual(got.Min, want*0.85, 0.01) || !almostEqual(got.Max, want*1.15, 0.01) {
			t.Fatalf("slot %s: band [%.2f, %.2f] not centered on %.2f", slot, got.Min, got.Max, want)
		}
	}

	sum := 0.0
	for _, b := range budget.Meals {
		sum += b.Target
	}
	if !almostEqual(sum, budget.TDEE, 0.001) {
		t.Fatalf("meal targets sum %.4f != TDEE %.4f", sum, budget.TDEE)
	}
}

func TestComputeBMRFemale(t *testing.T) {
	calc := newTestCalculator()
	profile := completeProfile()
	profile.Sex = sexPtr(enums.SexFemale)
	profile.WeightKg = floatPtr(60)
	profile.HeightCm = floatPtr(165)
	profile.AgeYears = intPtr(28)

	bmr, err := calc.ComputeBMR(profile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 447.593 + 9.247*60 + 3.098*165 - 4.330*28
	if !almostEqual(bmr, want, 0.001) {
		t.Fatalf("expected BMR %.4f, got %.4f", want, bmr)
	}
}

func TestComputeBMRIncompleteProfile(t *testing.T) {
	calc := newTestCalculator()

	profile := completeProfile()
	profile.WeightKg = nil
	profile.Sex = nil

	_, err := calc.ComputeBMR(profile)
	if err == nil {
		t.Fatal("expected error for incomplete profile")
	}
	if code := pkgerrors.As(err).Code(); code != pkgerrors.CodeNotComputable {
		t.Fatalf("expected NOT_COMPUTABLE, got %s", code)
	}
}

func TestComputeBMRImplausibleInputs(t *testing.T) {
	calc := newTestCalculator()

	cases := []struct {
		name   string
		mutate func(p *models.Profile)
	}{
		{"zero age", func(p *models.Profile) { p.AgeYears = intPtr(0) }},
		{"age past bound", func(p *models.Profile) { p.AgeYears = intPtr(131) }},
		{"height too low", func(p *models.Profile) { p.HeightCm = floatPtr(40) }},
		{"height too high", func(p *models.Profile) { p.HeightCm = floatPtr(260) }},
		{"weight too low", func(p *models.Profile) { p.WeightKg = floatPtr(5) }},
		{"weight too high", func(p *models.Profile) { p.WeightKg = floatPtr(450) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			profile := completeProfile()
			tc.mutate(profile)
			_, err := calc.ComputeBMR(profile)
			if err == nil {
				t.Fatal("expected error")
			}
			if code := pkgerrors.As(err).Code(); code != pkgerrors.CodeNotComputable {
				t.Fatalf("expected NOT_COMPUTABLE, got %s", code)
			}
		})
	}
}

func TestComputeBMRMonotonicity(t *testing.T) {
	calc := newTestCalculator()

	for _, sex := range []enums.Sex{enums.SexMale, enums.SexFemale} {
		bmr := func(mutate func(p *models.Profile)) float64 {
			profile := completeProfile()
			profile.Sex = sexPtr(sex)
			if mutate != nil {
				mutate(profile)
			}
			got, err := calc.ComputeBMR(profile)
			if err != nil {
				t.Fatalf("sex %s: unexpected error: %v", sex, err)
			}
			return got
		}

		reference := bmr(nil)
		if heavier := bmr(func(p *models.Profile) { p.WeightKg = floatPtr(*p.WeightKg + 5) }); heavier <= reference {
			t.Fatalf("sex %s: BMR must rise with weight, %.4f <= %.4f", sex, heavier, reference)
		}
		if taller := bmr(func(p *models.Profile) { p.HeightCm = floatPtr(*p.HeightCm + 5) }); taller <= reference {
			t.Fatalf("sex %s: BMR must rise with height, %.4f <= %.4f", sex, taller, reference)
		}
		if older := bmr(func(p *models.Profile) { p.AgeYears = intPtr(*p.AgeYears + 5) }); older >= reference {
			t.Fatalf("sex %s: BMR must fall with age, %.4f >= %.4f", sex, older, reference)
		}
	}
}

func TestComputeTDEEActivityFactors(t *testing.T) {
	calc := newTestCalculator()
	const bmr = 1000.0

	cases := []struct {
		level enums.ActivityLevel
		want  float64
	}{
		{enums.ActivityLevelSedentary, 1200},
		{enums.ActivityLevelLight, 1375},
		{enums.ActivityLevelModerate, 1550},
		{enums.ActivityLevelActive, 1725},
		{enums.ActivityLevelVeryActive, 1900},
		{enums.ActivityLevel("unknown"), 1550},
	}
	for _, tc := range cases {
		if got := calc.ComputeTDEE(bmr, tc.level); !almostEqual(got, tc.want, 0.001) {
			t.Fatalf("level %s: expected %.1f, got %.4f", tc.level, tc.want, got)
		}
	}
}

func TestComputeMacroTargetsDefaultSplit(t *testing.T) {
	calc := newTestCalculator()
	const tdee = 2000.0

	macros := calc.ComputeMacroTargets(tdee, nil)
	if !almostEqual(macros.ProteinG, 150, 0.001) {
		t.Fatalf("expected 150g protein, got %.4f", macros.ProteinG)
	}
	if !almostEqual(macros.CarbsG, 200, 0.001) {
		t.Fatalf("expected 200g carbs, got %.4f", macros.CarbsG)
	}
	if !almostEqual(macros.FatG, 66.6667, 0.001) {
		t.Fatalf("expected 66.67g fat, got %.4f", macros.FatG)
	}
	if !almostEqual(macros.Kcal(), tdee, 0.001) {
		t.Fatalf("macro energy %.4f should reconstruct TDEE", macros.Kcal())
	}
}

func TestComputeMacroTargetsMuscleGain(t *testing.T) {
	calc := newTestCalculator()
	const tdee = 2000.0

	macros := calc.ComputeMacroTargets(tdee, []string{"muscle_gain"})
	if !almostEqual(macros.ProteinG, tdee*0.40/4, 0.001) {
		t.Fatalf("expected protein bumped to 40%%, got %.4f g", macros.ProteinG)
	}
	if !almostEqual(macros.CarbsG, tdee*0.30/4, 0.001) {
		t.Fatalf("expected carbs reduced to 30%%, got %.4f g", macros.CarbsG)
	}
	if !almostEqual(macros.Kcal(), tdee, 0.001) {
		t.Fatalf("macro energy %.4f should reconstruct TDEE", macros.Kcal())
	}
}

func TestComputeMacroTargetsLowCarbWinsOverMuscleGain(t *testing.T) {
	calc := newTestCalculator()
	const tdee = 2000.0

	macros := calc.ComputeMacroTargets(tdee, []string{"Muscle Gain", "keto"})
	if !almostEqual(macros.CarbsG, tdee*0.25/4, 0.001) {
		t.Fatalf("expected carbs at 25%%, got %.4f g", macros.CarbsG)
	}
	if !almostEqual(macros.FatG, tdee*0.45/9, 0.001) {
		t.Fatalf("expected fat at 45%%, got %.4f g", macros.FatG)
	}
	if !almostEqual(macros.ProteinG, tdee*0.30/4, 0.001) {
		t.Fatalf("expected protein unchanged at 30%%, got %.4f g", macros.ProteinG)
	}
}

func TestGoalTagMatchingIsCaseInsensitive(t *testing.T) {
	if !HasMuscleGainGoal([]string{"  Build Muscle "}) {
		t.Fatal("expected muscle-gain match after normalization")
	}
	if !HasLowCarbGoal([]string{"KETO"}) {
		t.Fatal("expected low-carb match after normalization")
	}
	if HasLowCarbGoal([]string{"weight_loss"}) {
		t.Fatal("unexpected low-carb match")
	}
}

func TestComputeBudgetBMICategory(t *testing.T) {
	calc := newTestCalculator()

	budget, err := calc.ComputeBudget(completeProfile())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 75kg at 1.75m is 24.49.
	if !almostEqual(budget.BMI, 24.49, 0.01) {
		t.Fatalf("expected BMI 24.49, got %.4f", budget.BMI)
	}
	if budget.BMICategory != "normal" {
		t.Fatalf("expected category normal, got %s", budget.BMICategory)
	}
}
