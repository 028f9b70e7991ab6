package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/rinoykj007/diet-Meal-sub000/internal/assignment"
	"github.com/rinoykj007/diet-Meal-sub000/internal/notifications"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/db/models"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/enums"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/logger"
)

const defaultPendingRequestTTL = 72 * time.Hour

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type pendingRequestReader interface {
	FindPendingBefore(ctx context.Context, cutoff time.Time) ([]models.ShoppingRequest, error)
}

type requestCanceller interface {
	Cancel(ctx context.Context, id uuid.UUID, now time.Time) (int64, error)
}

type cancellerFactory func(tx *gorm.DB) requestCanceller

func defaultCancellerFactory(tx *gorm.DB) requestCanceller {
	return assignment.NewRepository(tx)
}

// StaleRequestJobParams configure the pending shopping request expiry job.
type StaleRequestJobParams struct {
	Logger           *logger.Logger
	DB               txRunner
	PendingReader    pendingRequestReader
	Notifier         notifications.Service
	CancellerFactory cancellerFactory
	TTL              time.Duration
}

// NewStaleRequestJob builds the cron job that cancels shopping requests no
// partner claimed within the TTL.
func NewStaleRequestJob(params StaleRequestJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.PendingReader == nil {
		return nil, fmt.Errorf("pending requests reader required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notification service required")
	}
	factory := params.CancellerFactory
	if factory == nil {
		factory = defaultCancellerFactory
	}
	ttl := params.TTL
	if ttl <= 0 {
		ttl = defaultPendingRequestTTL
	}
	return &staleRequestJob{
		logg:          params.Logger,
		db:            params.DB,
		pendingReader: params.PendingReader,
		notifier:      params.Notifier,
		factory:       factory,
		ttl:           ttl,
		now:           time.Now,
	}, nil
}

type staleRequestJob struct {
	logg          *logger.Logger
	db            txRunner
	pendingReader pendingRequestReader
	notifier      notifications.Service
	factory       cancellerFactory
	ttl           time.Duration
	now           func() time.Time
}

func (j *staleRequestJob) Name() string { return "stale-request-expiry" }

func (j *staleRequestJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.ttl)
	requests, err := j.pendingReader.FindPendingBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("query stale pending requests: %w", err)
	}

	var errs error
	expired := 0
	for _, request := range requests {
		if err := j.expire(ctx, request); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("expire request %s: %w", request.ID, err))
			continue
		}
		expired++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"candidates":   len(requests),
		"rows_expired": expired,
	})
	j.logg.Info(logCtx, "stale request expiry complete")
	return errs
}

// expire cancels one request inside its own transaction. The conditional
// cancel loses cleanly to any claim that landed after the candidate query;
// zero rows affected just means the request found a shopper in time.
func (j *staleRequestJob) expire(ctx context.Context, request models.ShoppingRequest) error {
	return j.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := j.factory(tx).Cancel(ctx, request.ID, j.now().UTC())
		if err != nil {
			return err
		}
		if rows == 0 {
			return nil
		}
		return j.notifier.Enqueue(ctx, tx, notifications.EnqueueParams{
			UserID:   request.CustomerID,
			Category: enums.NotificationCategoryShoppingAssignment,
			Title:    "Shopping request expired",
			Message:  "No delivery partner claimed your shopping request in time, so it was cancelled.",
		})
	})
}
