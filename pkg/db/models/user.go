package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rinoykj007/diet-Meal-sub000/pkg/enums"
)

// User represents the canonical identity entity. Credential management lives
// in the external auth service; this table only anchors foreign keys and the
// actor role.
type User struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email     string          `gorm:"type:text;not null;uniqueIndex"`
	FirstName string          `gorm:"column:first_name;not null"`
	LastName  string          `gorm:"column:last_name;not null"`
	Phone     *string         `gorm:"column:phone"`
	Role      enums.ActorRole `gorm:"column:role;type:actor_role;not null;default:'customer'"`
	IsActive  bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
