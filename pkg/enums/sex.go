package enums

import "fmt"

// Sex is the two-variant biological sex category the energy formula defines
// branches for. Any other value makes the budget not computable.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

var validSexes = []Sex{SexMale, SexFemale}

// String implements fmt.Stringer.
func (s Sex) String() string {
	return string(s)
}

// IsValid reports whether the value is a known Sex.
func (s Sex) IsValid() bool {
	for _, candidate := range validSexes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSex converts raw input into a Sex.
func ParseSex(value string) (Sex, error) {
	for _, candidate := range validSexes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sex category %q", value)
}
