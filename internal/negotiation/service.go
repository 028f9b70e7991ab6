package negotiation

import (
	"context"
	"fmt"
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

const recordLabel = "custom_recipe_order"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service drives the custom recipe quote negotiation.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*models.CustomRecipeOrder, error)
	Quote(ctx context.Context, input QuoteInput) (*models.CustomRecipeOrder, error)
	Accept(ctx context.Context, input DecisionInput) (*models.CustomRecipeOrder, error)
	Reject(ctx context.Context, input DecisionInput) (*models.CustomRecipeOrder, error)
	Get(ctx context.Context, orderID, actorID uuid.UUID) (*models.CustomRecipeOrder, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

// SubmitInput creates a new negotiation in pending_quote.
type SubmitInput struct {
	CustomerID   uuid.UUID
	RestaurantID uuid.UUID
	Recipe       models.RecipePayload
}

// QuoteInput is the restaurant's price offer on a pending order.
type QuoteInput struct {
	OrderID uuid.UUID
	ActorID uuid.UUID
	Price   decimal.Decimal
}

// DecisionInput is the customer's accept or reject on a quoted order.
type DecisionInput struct {
	OrderID uuid.UUID
	ActorID uuid.UUID
}

// ListParams filters negotiations by party and state.
type ListParams struct {
	CustomerID   uuid.UUID
	RestaurantID uuid.UUID
	State        enums.NegotiationState
	Limit        int
	Cursor       string
}

// ListResult wraps returned orders and the cursor for the next page.
type ListResult struct {
	Items  []models.CustomRecipeOrder `json:"items"`
	Cursor string                     `json:"cursor"`
}

type service struct {
	repo      Repository
	tx        txRunner
	notifier  notifications.Service
	lifecycle *metrics.LifecycleMetrics
}

// NewService wires negotiation dependencies. lifecycle may be nil.
func NewService(repo Repository, tx txRunner, notifier notifications.Service, lifecycle *metrics.LifecycleMetrics) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "negotiation repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notification service required")
	}
	return &service{repo: repo, tx: tx, notifier: notifier, lifecycle: lifecycle}, nil
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (*models.CustomRecipeOrder, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.RestaurantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id required")
	}
	if input.Recipe.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recipe name required")
	}
	if len(input.Recipe.Ingredients) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recipe needs at least one ingredient")
	}

	order := &models.CustomRecipeOrder{
		CustomerID:       input.CustomerID,
		RestaurantID:     input.RestaurantID,
		Recipe:           input.Recipe,
		NegotiationState: enums.NegotiationStatePendingQuote,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create recipe order")
		}
		return s.notifier.Enqueue(ctx, tx, notifications.EnqueueParams{
			UserID:    input.RestaurantID,
			Category:  enums.NotificationCategoryRecipeQuote,
			Title:     "New custom recipe request",
			Message:   fmt.Sprintf("A customer requested a quote for %q.", input.Recipe.Name),
			ActionURL: recipeActionURL(order.ID),
		})
	})
	if err != nil {
		return nil, err
	}

	s.lifecycle.IncTransition(recordLabel, "submit")
	return order, nil
}

func (s *service) Quote(ctx context.Context, input QuoteInput) (*models.CustomRecipeOrder, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.Price.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quoted price must be positive")
	}

	var updated *models.CustomRecipeOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := loadOrder(ctx, repo, input.OrderID)
		if err != nil {
			return err
		}
		if order.RestaurantID != input.ActorID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the quoted restaurant may quote this order")
		}

		rows, err := repo.MarkQuoted(ctx, order.ID, input.Price, time.Now().UTC())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "quote recipe order")
		}
		if rows == 0 {
			s.lifecycle.IncConflict(recordLabel, "quote")
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is no longer awaiting a quote")
		}

		updated, err = loadOrder(ctx, repo, order.ID)
		if err != nil {
			return err
		}
		return s.notifier.Enqueue(ctx, tx, notifications.EnqueueParams{
			UserID:    order.CustomerID,
			Category:  enums.NotificationCategoryRecipeQuote,
			Title:     "Your recipe was quoted",
			Message:   fmt.Sprintf("The restaurant quoted %s for %q.", input.Price.StringFixed(2), order.Recipe.Name),
			ActionURL: recipeActionURL(order.ID),
		})
	})
	if err != nil {
		return nil, err
	}

	s.lifecycle.IncTransition(recordLabel, "quote")
	return updated, nil
}

func (s *service) Accept(ctx context.Context, input DecisionInput) (*models.CustomRecipeOrder, error) {
	return s.decide(ctx, input, enums.NegotiationStateAccepted)
}

func (s *service) Reject(ctx context.Context, input DecisionInput) (*models.CustomRecipeOrder, error) {
	return s.decide(ctx, input, enums.NegotiationStateRejected)
}

func (s *service) decide(ctx context.Context, input DecisionInput, target enums.NegotiationState) (*models.CustomRecipeOrder, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	transition := "accept"
	if target == enums.NegotiationStateRejected {
		transition = "reject"
	}

	var updated *models.CustomRecipeOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := loadOrder(ctx, repo, input.OrderID)
		if err != nil {
			return err
		}
		if order.CustomerID != input.ActorID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the ordering customer may decide this quote")
		}

		now := time.Now().UTC()
		var rows int64
		if target == enums.NegotiationStateAccepted {
			rows, err = repo.MarkAccepted(ctx, order.ID, now)
		} else {
			rows, err = repo.MarkRejected(ctx, order.ID, now)
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update recipe order")
		}
		if rows == 0 {
			s.lifecycle.IncConflict(recordLabel, transition)
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is not awaiting a decision")
		}

		updated, err = loadOrder(ctx, repo, order.ID)
		if err != nil {
			return err
		}

		title := "Quote accepted"
		message := fmt.Sprintf("The customer accepted your quote for %q.", order.Recipe.Name)
		if target == enums.NegotiationStateRejected {
			title = "Quote rejected"
			message = fmt.Sprintf("The customer rejected your quote for %q.", order.Recipe.Name)
		}
		return s.notifier.Enqueue(ctx, tx, notifications.EnqueueParams{
			UserID:    order.RestaurantID,
			Category:  enums.NotificationCategoryRecipeOutcome,
			Title:     title,
			Message:   message,
			ActionURL: recipeActionURL(order.ID),
		})
	})
	if err != nil {
		return nil, err
	}

	s.lifecycle.IncTransition(recordLabel, transition)
	return updated, nil
}

func (s *service) Get(ctx context.Context, orderID, actorID uuid.UUID) (*models.CustomRecipeOrder, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	order, err := loadOrder(ctx, s.repo, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != actorID && order.RestaurantID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not involve this user")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.CustomerID == uuid.Nil && params.RestaurantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a party filter is required")
	}
	if params.State != "" && !params.State.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid negotiation state")
	}

	query := listOrdersParams{
		CustomerID:   params.CustomerID,
		RestaurantID: params.RestaurantID,
		State:        params.State,
		Limit:        params.Limit,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.ListByParty(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recipe orders")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}

func loadOrder(ctx context.Context, repo Repository, id uuid.UUID) (*models.CustomRecipeOrder, error) {
	order, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recipe order")
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "recipe order not found")
	}
	return order, nil
}

func recipeActionURL(id uuid.UUID) string {
	return "/recipes/" + id.String()
}
