package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rinoykj007/diet-Meal-sub000/pkg/enums"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/types"
)

// Profile stores the biometric and preference data an energy budget is
// computed from. One row per customer; recomputation happens on demand, the
// derived budget is never persisted.
type Profile struct {
	ID                  uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID              uuid.UUID           `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	AgeYears            *int                `gorm:"column:age_years"`
	WeightKg            *float64            `gorm:"column:weight_kg"`
	HeightCm            *float64            `gorm:"column:height_cm"`
	Sex                 *enums.Sex          `gorm:"column:sex;type:sex_category"`
	ActivityLevel       enums.ActivityLevel `gorm:"column:activity_level;type:activity_level;not null;default:'moderate'"`
	DietaryRestrictions types.StringSet     `gorm:"column:dietary_restrictions;type:jsonb;serializer:json"`
	Allergies           types.StringSet     `gorm:"column:allergies;type:jsonb;serializer:json"`
	HealthGoals         types.StringSet     `gorm:"column:health_goals;type:jsonb;serializer:json"`
	CreatedAt           time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
