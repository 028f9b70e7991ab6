package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rinoykj007/diet-Meal-sub000/pkg/enums"
)

// Notification stores in-app notification payloads scoped to users. Rows are
// written in the same transaction as the state transition that caused them.
type Notification struct {
	ID        uuid.UUID                  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID                  `gorm:"type:uuid;not null;index"`
	Category  enums.NotificationCategory `gorm:"type:notification_category;not null"`
	Title     string                     `gorm:"type:text;not null"`
	Message   string                     `gorm:"type:text;not null"`
	ActionURL *string                    `gorm:"column:action_url;type:text"`
	ReadAt    *time.Time                 `gorm:"type:timestamptz"`
	CreatedAt time.Time                  `gorm:"type:timestamptz;default:now()"`
}
