package enums

import "fmt"

// ActivityLevel grades how physically active a customer reports being.
type ActivityLevel string

const (
	ActivityLevelSedentary  ActivityLevel = "sedentary"
	ActivityLevelLight      ActivityLevel = "light"
	ActivityLevelModerate   ActivityLevel = "moderate"
	ActivityLevelActive     ActivityLevel = "active"
	ActivityLevelVeryActive ActivityLevel = "very_active"
)

var validActivityLevels = []ActivityLevel{
	ActivityLevelSedentary,
	ActivityLevelLight,
	ActivityLevelModerate,
	ActivityLevelActive,
	ActivityLevelVeryActive,
}

// String implements fmt.Stringer.
func (a ActivityLevel) String() string {
	return string(a)
}

// IsValid reports whether the value is a known ActivityLevel.
func (a ActivityLevel) IsValid() bool {
	for _, candidate := range validActivityLevels {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseActivityLevel converts raw input into an ActivityLevel.
func ParseActivityLevel(value string) (ActivityLevel, error) {
	for _, candidate := range validActivityLevels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid activity level %q", value)
}
