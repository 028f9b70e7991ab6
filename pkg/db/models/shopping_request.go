package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rinoykj007/diet-Meal-sub000/pkg/enums"
)

// ShoppingItem is one line of the grocery list a partner shops.
type ShoppingItem struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity,omitempty"`
	Note     string `json:"note,omitempty"`
}

// DeliveryAddress is the drop-off location snapshot taken at creation time.
type DeliveryAddress struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
}

// ShoppingRequest is the FCFS-claimable shopping task. AssignedPartnerID is
// write-once: the conditional claim update is the only thing that ever sets
// it, so a row can never end up cancelled with a partner attached.
type ShoppingRequest struct {
	ID                uuid.UUID             `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID        uuid.UUID             `gorm:"column:customer_id;type:uuid;not null;index"`
	Items             []ShoppingItem        `gorm:"column:items;type:jsonb;serializer:json"`
	Address           DeliveryAddress       `gorm:"column:address;type:jsonb;serializer:json"`
	DeliveryFee       decimal.Decimal       `gorm:"column:delivery_fee;type:numeric(12,2);not null"`
	AssignmentState   enums.AssignmentState `gorm:"column:assignment_state;type:assignment_state;not null;default:'pending';index"`
	AssignedPartnerID *uuid.UUID            `gorm:"column:assigned_partner_id;type:uuid"`
	FinalCost         *decimal.Decimal      `gorm:"column:final_cost;type:numeric(12,2)"`
	DisputeReason     *string               `gorm:"column:dispute_reason;type:text"`
	ClaimedAt         *time.Time            `gorm:"column:claimed_at"`
	DeliveredAt       *time.Time            `gorm:"column:delivered_at"`
	ClosedAt          *time.Time            `gorm:"column:closed_at"`
	CreatedAt         time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
