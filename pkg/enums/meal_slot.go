package enums

import "fmt"

// MealSlot names one of the four daily meal slots a calorie budget is split across.
type MealSlot string

const (
	MealSlotBreakfast MealSlot = "breakfast"
	MealSlotLunch     MealSlot = "lunch"
	MealSlotDinner    MealSlot = "dinner"
	MealSlotSnacks    MealSlot = "snacks"
)

var validMealSlots = []MealSlot{
	MealSlotBreakfast,
	MealSlotLunch,
	MealSlotDinner,
	MealSlotSnacks,
}

// String implements fmt.Stringer.
func (m MealSlot) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MealSlot.
func (m MealSlot) IsValid() bool {
	for _, candidate := range validMealSlots {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMealSlot converts raw input into a MealSlot.
func ParseMealSlot(value string) (MealSlot, error) {
	for _, candidate := range validMealSlots {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid meal slot %q", value)
}

// MealSlots returns the canonical slot ordering.
func MealSlots() []MealSlot {
	slots := make([]MealSlot, len(validMealSlots))
	copy(slots, validMealSlots)
	return slots
}
