package assignment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rinoykj007/diet-Meal-sub000/internal/notifications"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/db/models"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/enums"
	pkgerrors "github.com/rinoykj007/diet-Meal-sub000/pkg/errors"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/metrics"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/pagination"
)

const recordLabel = "shopping_request"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service drives the shopping request claim and delivery lifecycle.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.ShoppingRequest, error)
	Claim(ctx context.Context, requestID, partnerID uuid.UUID) (*models.ShoppingRequest, error)
	AdvanceStatus(ctx context.Context, input AdvanceInput) (*models.ShoppingRequest, error)
	Confirm(ctx context.Context, requestID, customerID uuid.UUID) (*models.ShoppingRequest, error)
	Dispute(ctx context.Context, requestID, customerID uuid.UUID, reason string) (*models.ShoppingRequest, error)
	Cancel(ctx context.Context, requestID, customerID uuid.UUID) (*models.ShoppingRequest, error)
	Get(ctx context.Context, requestID, actorID uuid.UUID) (*models.ShoppingRequest, error)
	ListPending(ctx context.Context, params ListParams) (*ListResult, error)
	ListByCustomer(ctx context.Context, params ListParams) (*ListResult, error)
}

// CreateInput opens a new shopping request in pending.
type CreateInput struct {
	CustomerID  uuid.UUID
	Items       []models.ShoppingItem
	Address     models.DeliveryAddress
	DeliveryFee decimal.Decimal
}

// AdvanceInput is the assigned partner's status transition.
type AdvanceInput struct {
	RequestID uuid.UUID
	PartnerID uuid.UUID
	Target    enums.AssignmentState
	FinalCost *decimal.Decimal
}

// ListParams pages request listings.
type ListParams struct {
	CustomerID uuid.UUID
	Limit      int
	Cursor     string
}

// ListResult wraps returned requests and the cursor for the next page.
type ListResult struct {
	Items  []models.ShoppingRequest `json:"items"`
	Cursor string                   `json:"cursor"`
}

type service struct {
	repo      Repository
	tx        txRunner
	notifier  notifications.Service
	lifecycle *metrics.LifecycleMetrics
}

// NewService wires assignment dependencies. lifecycle may be nil.
func NewService(repo Repository, tx txRunner, notifier notifications.Service, lifecycle *metrics.LifecycleMetrics) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "assignment repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notification service required")
	}
	return &service{repo: repo, tx: tx, notifier: notifier, lifecycle: lifecycle}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.ShoppingRequest, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item list must not be empty")
	}
	for _, item := range input.Items {
		if strings.TrimSpace(item.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "every item needs a name")
		}
	}
	if strings.TrimSpace(input.Address.Line1) == "" || strings.TrimSpace(input.Address.City) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery address requires line1 and city")
	}
	if input.DeliveryFee.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery fee must not be negative")
	}

	request := &models.ShoppingRequest{
		CustomerID:      input.CustomerID,
		Items:           input.Items,
		Address:         input.Address,
		DeliveryFee:     input.DeliveryFee,
		AssignmentState: enums.AssignmentStatePending,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create shopping request")
	}

	s.lifecycle.IncTransition(recordLabel, "create")
	return request, nil
}

// Claim races partners for an unassigned pending request. The winner's
// conditional update affects one row; every loser sees zero rows and gets a
// state conflict it can distinguish from a server error. A retry by the
// partner that already won is a no-op that returns the claimed record.
func (s *service) Claim(ctx context.Context, requestID, partnerID uuid.UUID) (*models.ShoppingRequest, error) {
	if requestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	if partnerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var claimed *models.ShoppingRequest
	won := false
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		rows, err := repo.Claim(ctx, requestID, partnerID, time.Now().UTC())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim shopping request")
		}

		request, err := loadRequest(ctx, repo, requestID)
		if err != nil {
			return err
		}

		if rows == 0 {
			if request.AssignedPartnerID != nil && *request.AssignedPartnerID == partnerID &&
				request.AssignmentState == enums.AssignmentStateInProgress {
				// retry after a timed-out claim that actually landed
				claimed = request
				return nil
			}
			s.lifecycle.IncConflict(recordLabel, "claim")
			return pkgerrors.New(pkgerrors.CodeStateConflict, claimConflictMessage(request.AssignmentState))
		}

		won = true
		claimed = request
		return s.notifier.Enqueue(ctx, tx, notifications.EnqueueParams{
			UserID:    request.CustomerID,
			Category:  enums.NotificationCategoryShoppingAssignment,
			Title:     "Shopper assigned",
			Message:   "A delivery partner accepted your shopping request.",
			ActionURL: requestActionURL(request.ID),
		})
	})
	if err != nil {
		return nil, err
	}

	if won {
		s.lifecycle.IncTransition(recordLabel, "claim")
	}
	return claimed, nil
}

// claimConflictMessage names the state that made the request unclaimable so a
// loser can tell a race from a withdrawn request.
func claimConflictMessage(state enums.AssignmentState) string {
	if state == enums.AssignmentStateCancelled {
		return "request was cancelled"
	}
	return "already claimed"
}

func (s *service) AdvanceStatus(ctx context.Context, input AdvanceInput) (*models.ShoppingRequest, error) {
	if input.RequestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	if input.PartnerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.Target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid assignment state")
	}
	if input.Target != enums.AssignmentStateDelivered {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "partners may only advance to delivered")
	}
	if input.FinalCost == nil || input.FinalCost.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "final cost must be present and not negative")
	}

	var updated *models.ShoppingRequest
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		request, err := loadRequest(ctx, repo, input.RequestID)
		if err != nil {
			return err
		}
		if request.AssignedPartnerID == nil || *request.AssignedPartnerID != input.PartnerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "request is not assigned to this partner")
		}
		if !request.AssignmentState.CanTransitionTo(input.Target) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "delivery not allowed in current state")
		}

		rows, err := repo.MarkDelivered(ctx, request.ID, input.PartnerID, *input.FinalCost, time.Now().UTC())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark request delivered")
		}
		if rows == 0 {
			s.lifecycle.IncConflict(recordLabel, "deliver")
			return pkgerrors.New(pkgerrors.CodeStateConflict, "delivery not allowed in current state")
		}

		updated, err = loadRequest(ctx, repo, request.ID)
		if err != nil {
			return err
		}
		return s.notifier.Enqueue(ctx, tx, notifications.EnqueueParams{
			UserID:    request.CustomerID,
			Category:  enums.NotificationCategoryShoppingDelivery,
			Title:     "Order delivered",
			Message:   "Your shopping was delivered. Confirm or dispute the delivery.",
			ActionURL: requestActionURL(request.ID),
		})
	})
	if err != nil {
		return nil, err
	}

	s.lifecycle.IncTransition(recordLabel, "deliver")
	return updated, nil
}

func (s *service) Confirm(ctx context.Context, requestID, customerID uuid.UUID) (*models.ShoppingRequest, error) {
	return s.close(ctx, requestID, customerID, enums.AssignmentStateConfirmed, nil)
}

func (s *service) Dispute(ctx context.Context, requestID, customerID uuid.UUID, reason string) (*models.ShoppingRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dispute reason required")
	}
	return s.close(ctx, requestID, customerID, enums.AssignmentStateDisputed, &reason)
}

func (s *service) close(ctx context.Context, requestID, customerID uuid.UUID, target enums.AssignmentState, disputeReason *string) (*models.ShoppingRequest, error) {
	if requestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	transition := "confirm"
	if target == enums.AssignmentStateDisputed {
		transition = "dispute"
	}

	var updated *models.ShoppingRequest
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		request, err := loadRequest(ctx, repo, requestID)
		if err != nil {
			return err
		}
		if request.CustomerID != customerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "request does not belong to this customer")
		}
		if !request.AssignmentState.CanTransitionTo(target) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "request is not awaiting confirmation")
		}

		rows, err := repo.Close(ctx, request.ID, target, disputeReason, time.Now().UTC())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close shopping request")
		}
		if rows == 0 {
			s.lifecycle.IncConflict(recordLabel, transition)
			return pkgerrors.New(pkgerrors.CodeStateConflict, "request is not awaiting confirmation")
		}

		updated, err = loadRequest(ctx, repo, request.ID)
		if err != nil {
			return err
		}

		if request.AssignedPartnerID == nil {
			return nil
		}
		title := "Delivery confirmed"
		message := "The customer confirmed the delivery."
		if target == enums.AssignmentStateDisputed {
			title = "Delivery disputed"
			message = "The customer disputed the delivery: " + *disputeReason
		}
		return s.notifier.Enqueue(ctx, tx, notifications.EnqueueParams{
			UserID:    *request.AssignedPartnerID,
			Category:  enums.NotificationCategoryShoppingDelivery,
			Title:     title,
			Message:   message,
			ActionURL: requestActionURL(request.ID),
		})
	})
	if err != nil {
		return nil, err
	}

	s.lifecycle.IncTransition(recordLabel, transition)
	return updated, nil
}

// Cancel races against claim on the same conditional predicate. Once any
// partner has claimed the request the customer's cancel loses with a state
// conflict.
func (s *service) Cancel(ctx context.Context, requestID, customerID uuid.UUID) (*models.ShoppingRequest, error) {
	if requestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var updated *models.ShoppingRequest
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		request, err := loadRequest(ctx, repo, requestID)
		if err != nil {
			return err
		}
		if request.CustomerID != customerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "request does not belong to this customer")
		}

		rows, err := repo.Cancel(ctx, request.ID, time.Now().UTC())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel shopping request")
		}
		if rows == 0 {
			s.lifecycle.IncConflict(recordLabel, "cancel")
			return pkgerrors.New(pkgerrors.CodeStateConflict, "request can no longer be cancelled")
		}

		updated, err = loadRequest(ctx, repo, request.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.lifecycle.IncTransition(recordLabel, "cancel")
	return updated, nil
}

func (s *service) Get(ctx context.Context, requestID, actorID uuid.UUID) (*models.ShoppingRequest, error) {
	if requestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	request, err := loadRequest(ctx, s.repo, requestID)
	if err != nil {
		return nil, err
	}
	if request.CustomerID != actorID &&
		(request.AssignedPartnerID == nil || *request.AssignedPartnerID != actorID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "request does not involve this user")
	}
	return request, nil
}

// ListPending is the partner-facing poll for unclaimed work.
func (s *service) ListPending(ctx context.Context, params ListParams) (*ListResult, error) {
	return s.list(ctx, params, s.repo.ListPending)
}

func (s *service) ListByCustomer(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	return s.list(ctx, params, s.repo.ListByCustomer)
}

func (s *service) list(ctx context.Context, params ListParams, query func(context.Context, listRequestsParams) ([]models.ShoppingRequest, *pagination.Cursor, error)) (*ListResult, error) {
	listParams := listRequestsParams{
		CustomerID: params.CustomerID,
		Limit:      params.Limit,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		listParams.Cursor = cursor
	}

	rows, next, err := query(ctx, listParams)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shopping requests")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}

func loadRequest(ctx context.Context, repo Repository, id uuid.UUID) (*models.ShoppingRequest, error) {
	request, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shopping request")
	}
	if request == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shopping request not found")
	}
	return request, nil
}

func requestActionURL(id uuid.UUID) string {
	return "/shopping-requests/" + id.String()
}
