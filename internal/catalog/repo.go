package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rinoykj007/diet-Meal-sub000/pkg/db/models"
)

// Provider returns catalog slices for scoring. The scorer treats catalog rows
// as read-only input; menu CRUD lives with the restaurant tooling.
type Provider interface {
	ListFoodItems(ctx context.Context, filter ItemFilter) ([]models.FoodItem, error)
}

// ItemFilter narrows a catalog query. Zero values mean no constraint.
type ItemFilter struct {
	RestaurantID uuid.UUID
	DietType     string
	Limit        int
}

const defaultItemLimit = 200

type gormProvider struct {
	db *gorm.DB
}

// NewProvider returns a catalog provider backed by the relational store.
func NewProvider(db *gorm.DB) Provider {
	return &gormProvider{db: db}
}

func (p *gormProvider) ListFoodItems(ctx context.Context, filter ItemFilter) ([]models.FoodItem, error) {
	query := p.db.WithContext(ctx).Model(&models.FoodItem{})
	if filter.RestaurantID != uuid.Nil {
		query = query.Where("restaurant_id = ?", filter.RestaurantID)
	}
	if filter.DietType != "" {
		query = query.Where("diet_type = ?", filter.DietType)
	}

	limit := filter.Limit
	if limit <= 0 || limit > defaultItemLimit {
		limit = defaultItemLimit
	}

	var items []models.FoodItem
	if err := query.Order("id").Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
