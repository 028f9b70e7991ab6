package types

// Macros holds gram quantities for the three tracked macronutrients.
type Macros struct {
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// Kcal returns the energy content of the macros at 4/4/9 kcal per gram.
func (m Macros) Kcal() float64 {
	return m.ProteinG*4 + m.CarbsG*4 + m.FatG*9
}

// Scale returns the macros multiplied by factor.
func (m Macros) Scale(factor float64) Macros {
	return Macros{
		ProteinG: m.ProteinG * factor,
		CarbsG:   m.CarbsG * factor,
		FatG:     m.FatG * factor,
	}
}

// StringSet is a jsonb-serialized list of free-text tags.
type StringSet []string

// Contains reports whether the set holds value.
func (s StringSet) Contains(value string) bool {
	for _, candidate := range s {
		if candidate == value {
			return true
		}
	}
	return false
}
