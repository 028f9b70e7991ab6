package negotiation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rinoykj007/diet-Meal-sub000/pkg/db/models"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/enums"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/pagination"
)

// Repository exposes persistence helpers for custom recipe orders. The
// transition helpers are conditional updates: the WHERE clause carries the
// expected current state so a stale caller affects zero rows instead of
// overwriting a newer transition.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.CustomRecipeOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.CustomRecipeOrder, error)
	ListByParty(ctx context.Context, params listOrdersParams) ([]models.CustomRecipeOrder, *pagination.Cursor, error)
	MarkQuoted(ctx context.Context, id uuid.UUID, price decimal.Decimal, now time.Time) (int64, error)
	MarkAccepted(ctx context.Context, id uuid.UUID, now time.Time) (int64, error)
	MarkRejected(ctx context.Context, id uuid.UUID, now time.Time) (int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a negotiation repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listOrdersParams struct {
	CustomerID   uuid.UUID
	RestaurantID uuid.UUID
	State        enums.NegotiationState
	Limit        int
	Cursor       *pagination.Cursor
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, order *models.CustomRecipeOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.CustomRecipeOrder, error) {
	var order models.CustomRecipeOrder
	err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repositoryImpl) ListByParty(ctx context.Context, params listOrdersParams) ([]models.CustomRecipeOrder, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.CustomRecipeOrder{})
	if params.CustomerID != uuid.Nil {
		query = query.Where("customer_id = ?", params.CustomerID)
	}
	if params.RestaurantID != uuid.Nil {
		query = query.Where("restaurant_id = ?", params.RestaurantID)
	}
	if params.State != "" {
		query = query.Where("negotiation_state = ?", params.State)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var orders []models.CustomRecipeOrder
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&orders).Error; err != nil {
		return nil, nil, err
	}

	if len(orders) > normalized {
		orders = orders[:normalized]
		last := orders[len(orders)-1]
		return orders, &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return orders, nil, nil
}

func (r *repositoryImpl) MarkQuoted(ctx context.Context, id uuid.UUID, price decimal.Decimal, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CustomRecipeOrder{}).
		Where("id = ? AND negotiation_state = ?", id, enums.NegotiationStatePendingQuote).
		Updates(map[string]any{
			"negotiation_state": enums.NegotiationStateQuoted,
			"quoted_price":      price,
			"quoted_at":         now,
		})
	return result.RowsAffected, result.Error
}

func (r *repositoryImpl) MarkAccepted(ctx context.Context, id uuid.UUID, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CustomRecipeOrder{}).
		Where("id = ? AND negotiation_state = ?", id, enums.NegotiationStateQuoted).
		Updates(map[string]any{
			"negotiation_state": enums.NegotiationStateAccepted,
			"total_amount":      gorm.Expr("quoted_price"),
			"accepted_at":       now,
		})
	return result.RowsAffected, result.Error
}

func (r *repositoryImpl) MarkRejected(ctx context.Context, id uuid.UUID, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CustomRecipeOrder{}).
		Where("id = ? AND negotiation_state = ?", id, enums.NegotiationStateQuoted).
		Updates(map[string]any{
			"negotiation_state": enums.NegotiationStateRejected,
			"rejected_at":       now,
		})
	return result.RowsAffected, result.Error
}
