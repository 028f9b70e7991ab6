package assignment

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

// Repository exposes persistence helpers for shopping requests. Claim is the
// contended write: its WHERE clause demands an unassigned pending row, so the
// store serializes racing partners and exactly one update affects a row.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, request *models.ShoppingRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ShoppingRequest, error)
	ListPending(ctx context.Context, params listRequestsParams) ([]models.ShoppingRequest, *pagination.Cursor, error)
	ListByCustomer(ctx context.Context, params listRequestsParams) ([]models.ShoppingRequest, *pagination.Cursor, error)
	Claim(ctx context.Context, id, partnerID uuid.UUID, now time.Time) (int64, error)
	MarkDelivered(ctx context.Context, id, partnerID uuid.UUID, finalCost decimal.Decimal, now time.Time) (int64, error)
	Close(ctx context.Context, id uuid.UUID, target enums.AssignmentState, disputeReason *string, now time.Time) (int64, error)
	Cancel(ctx context.Context, id uuid.UUID, now time.Time) (int64, error)
	FindPendingBefore(ctx context.Context, cutoff time.Time) ([]models.ShoppingRequest, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an assignment repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listRequestsParams struct {
	CustomerID uuid.UUID
	Limit      int
	Cursor     *pagination.Cursor
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, request *models.ShoppingRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.ShoppingRequest, error) {
	var request models.ShoppingRequest
	err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repositoryImpl) ListPending(ctx context.Context, params listRequestsParams) ([]models.ShoppingRequest, *pagination.Cursor, error) {
	query := r.db.WithContext(ctx).
		Model(&models.ShoppingRequest{}).
		Where("assignment_state = ? AND assigned_partner_id IS NULL", enums.AssignmentStatePending)
	return r.page(ctx, query, params)
}

func (r *repositoryImpl) ListByCustomer(ctx context.Context, params listRequestsParams) ([]models.ShoppingRequest, *pagination.Cursor, error) {
	query := r.db.WithContext(ctx).
		Model(&models.ShoppingRequest{}).
		Where("customer_id = ?", params.CustomerID)
	return r.page(ctx, query, params)
}

func (r *repositoryImpl) page(ctx context.Context, query *gorm.DB, params listRequestsParams) ([]models.ShoppingRequest, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var requests []models.ShoppingRequest
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&requests).Error; err != nil {
		return nil, nil, err
	}

	if len(requests) > normalized {
		requests = requests[:normalized]
		last := requests[len(requests)-1]
		return requests, &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return requests, nil, nil
}

// Claim performs the single atomic conditional update that decides the race.
// Zero rows affected means another partner already won or the request left
// pending; the service re-reads to classify.
func (r *repositoryImpl) Claim(ctx context.Context, id, partnerID uuid.UUID, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ShoppingRequest{}).
		Where("id = ? AND assignment_state = ? AND assigned_partner_id IS NULL", id, enums.AssignmentStatePending).
		Updates(map[string]any{
			"assignment_state":    enums.AssignmentStateInProgress,
			"assigned_partner_id": partnerID,
			"claimed_at":          now,
		})
	return result.RowsAffected, result.Error
}

func (r *repositoryImpl) MarkDelivered(ctx context.Context, id, partnerID uuid.UUID, finalCost decimal.Decimal, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ShoppingRequest{}).
		Where("id = ? AND assignment_state = ? AND assigned_partner_id = ?", id, enums.AssignmentStateInProgress, partnerID).
		Updates(map[string]any{
			"assignment_state": enums.AssignmentStateDelivered,
			"final_cost":       finalCost,
			"delivered_at":     now,
		})
	return result.RowsAffected, result.Error
}

// Close moves a delivered request into confirmed or disputed.
func (r *repositoryImpl) Close(ctx context.Context, id uuid.UUID, target enums.AssignmentState, disputeReason *string, now time.Time) (int64, error) {
	updates := map[string]any{
		"assignment_state": target,
		"closed_at":        now,
	}
	if disputeReason != nil {
		updates["dispute_reason"] = *disputeReason
	}
	result := r.db.WithContext(ctx).
		Model(&models.ShoppingRequest{}).
		Where("id = ? AND assignment_state = ?", id, enums.AssignmentStateDelivered).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// Cancel is claim's mirror image: it only lands on a still-unclaimed pending
// row, so cancel and claim race on the same condition and the store picks
// exactly one winner.
func (r *repositoryImpl) Cancel(ctx context.Context, id uuid.UUID, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ShoppingRequest{}).
		Where("id = ? AND assignment_state = ? AND assigned_partner_id IS NULL", id, enums.AssignmentStatePending).
		Updates(map[string]any{
			"assignment_state": enums.AssignmentStateCancelled,
			"closed_at":        now,
		})
	return result.RowsAffected, result.Error
}

// FindPendingBefore returns unclaimed requests created before the cutoff.
func (r *repositoryImpl) FindPendingBefore(ctx context.Context, cutoff time.Time) ([]models.ShoppingRequest, error) {
	var requests []models.ShoppingRequest
	err := r.db.WithContext(ctx).
		Where("assignment_state = ? AND assigned_partner_id IS NULL AND created_at < ?", enums.AssignmentStatePending, cutoff).
		Order("created_at").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}
