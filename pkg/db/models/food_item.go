package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rinoykj007/diet-Meal-sub000/pkg/types"
)

// FoodItem is a catalog menu item. Catalog CRUD is owned by the external
// catalog service; the scorer treats rows as immutable input.
type FoodItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID uuid.UUID       `gorm:"column:restaurant_id;type:uuid;not null;index"`
	Name         string          `gorm:"type:text;not null"`
	Calories     float64         `gorm:"column:calories;not null"`
	ProteinG     float64         `gorm:"column:protein_g;not null;default:0"`
	CarbsG       float64         `gorm:"column:carbs_g;not null;default:0"`
	FatG         float64         `gorm:"column:fat_g;not null;default:0"`
	DietType     string          `gorm:"column:diet_type;type:text;not null;default:''"`
	Allergens    types.StringSet `gorm:"column:allergens;type:jsonb;serializer:json"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// Macros returns the macro gram quantities of the item.
func (f FoodItem) Macros() types.Macros {
	return types.Macros{ProteinG: f.ProteinG, CarbsG: f.CarbsG, FatG: f.FatG}
}
