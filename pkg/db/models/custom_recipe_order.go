package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rinoykj007/diet-Meal-sub000/pkg/enums"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/types"
)

// RecipePayload is the customer-authored recipe a restaurant quotes against.
type RecipePayload struct {
	Name        string       `json:"name"`
	Ingredients []string     `json:"ingredients"`
	Macros      types.Macros `json:"macros"`
	Notes       string       `json:"notes,omitempty"`
}

// CustomRecipeOrder is the two-party quote negotiation record. The customer
// creates it; only the counterparty whose turn it is may move it, and
// accepted/rejected are terminal.
type CustomRecipeOrder struct {
	ID               uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID       uuid.UUID              `gorm:"column:customer_id;type:uuid;not null;index"`
	RestaurantID     uuid.UUID              `gorm:"column:restaurant_id;type:uuid;not null;index"`
	Recipe           RecipePayload          `gorm:"column:recipe;type:jsonb;serializer:json"`
	NegotiationState enums.NegotiationState `gorm:"column:negotiation_state;type:negotiation_state;not null;default:'pending_quote'"`
	QuotedPrice      *decimal.Decimal       `gorm:"column:quoted_price;type:numeric(12,2)"`
	TotalAmount      *decimal.Decimal       `gorm:"column:total_amount;type:numeric(12,2)"`
	QuotedAt         *time.Time             `gorm:"column:quoted_at"`
	AcceptedAt       *time.Time             `gorm:"column:accepted_at"`
	RejectedAt       *time.Time             `gorm:"column:rejected_at"`
	CreatedAt        time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
