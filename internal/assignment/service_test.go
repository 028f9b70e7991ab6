package assignment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rinoykj007/diet-Meal-sub000/internal/notifications"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/db/models"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/enums"
	pkgerrors "github.com/rinoykj007/diet-Meal-sub000/pkg/errors"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/pagination"
)

// fakeRepository serializes conditional updates behind a mutex the way the
// backing store serializes row updates, so racing goroutines exercise the
// same win-or-conflict outcomes.
type fakeRepository struct {
	mu       sync.Mutex
	requests map[uuid.UUID]*models.ShoppingRequest
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{requests: map[uuid.UUID]*models.ShoppingRequest{}}
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, request *models.ShoppingRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	request.CreatedAt = time.Now()
	f.requests[request.ID] = request
	return nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.ShoppingRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	request, ok := f.requests[id]
	if !ok {
		return nil, nil
	}
	copied := *request
	return &copied, nil
}

func (f *fakeRepository) ListPending(ctx context.Context, params listRequestsParams) ([]models.ShoppingRequest, *pagination.Cursor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ShoppingRequest
	for _, request := range f.requests {
		if request.AssignmentState == enums.AssignmentStatePending && request.AssignedPartnerID == nil {
			out = append(out, *request)
		}
	}
	return out, nil, nil
}

func (f *fakeRepository) ListByCustomer(ctx context.Context, params listRequestsParams) ([]models.ShoppingRequest, *pagination.Cursor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ShoppingRequest
	for _, request := range f.requests {
		if request.CustomerID == params.CustomerID {
			out = append(out, *request)
		}
	}
	return out, nil, nil
}

func (f *fakeRepository) Claim(ctx context.Context, id, partnerID uuid.UUID, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	request, ok := f.requests[id]
	if !ok || request.AssignmentState != enums.AssignmentStatePending || request.AssignedPartnerID != nil {
		return 0, nil
	}
	request.AssignmentState = enums.AssignmentStateInProgress
	request.AssignedPartnerID = &partnerID
	request.ClaimedAt = &now
	return 1, nil
}

func (f *fakeRepository) MarkDelivered(ctx context.Context, id, partnerID uuid.UUID, finalCost decimal.Decimal, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	request, ok := f.requests[id]
	if !ok || request.AssignmentState != enums.AssignmentStateInProgress ||
		request.AssignedPartnerID == nil || *request.AssignedPartnerID != partnerID {
		return 0, nil
	}
	request.AssignmentState = enums.AssignmentStateDelivered
	request.FinalCost = &finalCost
	request.DeliveredAt = &now
	return 1, nil
}

func (f *fakeRepository) Close(ctx context.Context, id uuid.UUID, target enums.AssignmentState, disputeReason *string, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	request, ok := f.requests[id]
	if !ok || request.AssignmentState != enums.AssignmentStateDelivered {
		return 0, nil
	}
	request.AssignmentState = target
	request.DisputeReason = disputeReason
	request.ClosedAt = &now
	return 1, nil
}

func (f *fakeRepository) Cancel(ctx context.Context, id uuid.UUID, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	request, ok := f.requests[id]
	if !ok || request.AssignmentState != enums.AssignmentStatePending || request.AssignedPartnerID != nil {
		return 0, nil
	}
	request.AssignmentState = enums.AssignmentStateCancelled
	request.ClosedAt = &now
	return 1, nil
}

func (f *fakeRepository) FindPendingBefore(ctx context.Context, cutoff time.Time) ([]models.ShoppingRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ShoppingRequest
	for _, request := range f.requests {
		if request.AssignmentState == enums.AssignmentStatePending && request.AssignedPartnerID == nil && request.CreatedAt.Before(cutoff) {
			out = append(out, *request)
		}
	}
	return out, nil
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeNotifier struct {
	mu       sync.Mutex
	enqueued []notifications.EnqueueParams
}

func (f *fakeNotifier) Enqueue(ctx context.Context, tx *gorm.DB, params notifications.EnqueueParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enqueued = append(f.enqueued, params)
	return nil
}

func (f *fakeNotifier) List(ctx context.Context, params notifications.ListParams) (*notifications.ListResult, error) {
	return &notifications.ListResult{}, nil
}

func (f *fakeNotifier) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return nil
}

func (f *fakeNotifier) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.enqueued)
}

func newTestService(repo Repository, notifier notifications.Service) Service {
	svc, err := NewService(repo, fakeTxRunner{}, notifier, nil)
	if err != nil {
		panic(err)
	}
	return svc
}

func createRequest(t *testing.T, svc Service, customerID uuid.UUID) *models.ShoppingRequest {
	t.Helper()
	request, err := svc.Create(context.Background(), CreateInput{
		CustomerID:  customerID,
		Items:       []models.ShoppingItem{{Name: "oat milk", Quantity: "2"}},
		Address:     models.DeliveryAddress{Line1: "12 High St", City: "Dublin", PostalCode: "D01"},
		DeliveryFee: decimal.NewFromFloat(4.99),
	})
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	return request
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(newFakeRepository(), &fakeNotifier{})

	cases := []struct {
		name  string
		input CreateInput
	}{
		{"empty items", CreateInput{CustomerID: uuid.New(), Address: models.DeliveryAddress{Line1: "a", City: "b"}}},
		{"blank item name", CreateInput{CustomerID: uuid.New(), Items: []models.ShoppingItem{{Name: " "}}, Address: models.DeliveryAddress{Line1: "a", City: "b"}}},
		{"missing address", CreateInput{CustomerID: uuid.New(), Items: []models.ShoppingItem{{Name: "x"}}}},
		{"negative fee", CreateInput{CustomerID: uuid.New(), Items: []models.ShoppingItem{{Name: "x"}}, Address: models.DeliveryAddress{Line1: "a", City: "b"}, DeliveryFee: decimal.NewFromInt(-1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), tc.input); pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestClaimHappyPath(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := newTestService(newFakeRepository(), notifier)
	customerID := uuid.New()
	request := createRequest(t, svc, customerID)
	partnerID := uuid.New()

	claimed, err := svc.Claim(context.Background(), request.ID, partnerID)
	if err != nil {
		t.Fatalf("unexpected claim error: %v", err)
	}
	if claimed.AssignmentState != enums.AssignmentStateInProgress {
		t.Fatalf("expected in_progress, got %s", claimed.AssignmentState)
	}
	if claimed.AssignedPartnerID == nil || *claimed.AssignedPartnerID != partnerID {
		t.Fatal("expected partner recorded on the request")
	}
	if claimed.ClaimedAt == nil {
		t.Fatal("expected claim timestamp")
	}
	if notifier.count() != 1 || notifier.enqueued[0].UserID != customerID {
		t.Fatal("expected one assignment notification to the customer")
	}
}

func TestClaimLoserGetsStateConflict(t *testing.T) {
	svc := newTestService(newFakeRepository(), &fakeNotifier{})
	request := createRequest(t, svc, uuid.New())

	if _, err := svc.Claim(context.Background(), request.ID, uuid.New()); err != nil {
		t.Fatalf("unexpected first claim error: %v", err)
	}

	_, err := svc.Claim(context.Background(), request.ID, uuid.New())
	if err == nil {
		t.Fatal("expected losing claim to fail")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("loser must get a state conflict, got %v", err)
	}
	if got := pkgerrors.As(err).Message(); got != "already claimed" {
		t.Fatalf("expected the claimed message, got %q", got)
	}
}

func TestClaimOnCancelledRequestNamesTheState(t *testing.T) {
	svc := newTestService(newFakeRepository(), &fakeNotifier{})
	customerID := uuid.New()
	request := createRequest(t, svc, customerID)

	if _, err := svc.Cancel(context.Background(), request.ID, customerID); err != nil {
		t.Fatalf("unexpected cancel error: %v", err)
	}

	_, err := svc.Claim(context.Background(), request.ID, uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict on a cancelled request, got %v", err)
	}
	if typed.Message() != "request was cancelled" {
		t.Fatalf("expected the cancelled message, got %q", typed.Message())
	}
}

func TestClaimRetryByWinnerIsNoOp(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := newTestService(newFakeRepository(), notifier)
	request := createRequest(t, svc, uuid.New())
	partnerID := uuid.New()

	if _, err := svc.Claim(context.Background(), request.ID, partnerID); err != nil {
		t.Fatalf("unexpected claim error: %v", err)
	}
	enqueuedBefore := notifier.count()

	again, err := svc.Claim(context.Background(), request.ID, partnerID)
	if err != nil {
		t.Fatalf("winner retry must succeed, got %v", err)
	}
	if again.AssignedPartnerID == nil || *again.AssignedPartnerID != partnerID {
		t.Fatal("expected retry to return the claimed record")
	}
	if notifier.count() != enqueuedBefore {
		t.Fatal("retry must not enqueue another notification")
	}
}

func TestClaimNotFound(t *testing.T) {
	svc := newTestService(newFakeRepository(), &fakeNotifier{})
	if _, err := svc.Claim(context.Background(), uuid.New(), uuid.New()); pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestConcurrentClaimsExactlyOneWinner(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := newTestService(newFakeRepository(), notifier)
	request := createRequest(t, svc, uuid.New())

	const partners = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners, conflicts := 0, 0
	var winnerID uuid.UUID

	for i := 0; i < partners; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			partnerID := uuid.New()
			claimed, err := svc.Claim(context.Background(), request.ID, partnerID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners++
				winnerID = partnerID
				_ = claimed
			case pkgerrors.As(err).Code() == pkgerrors.CodeStateConflict:
				conflicts++
			default:
				t.Errorf("unexpected claim error: %v", err)
			}
		}()
	}
	wg.Wait()

	if winners != 1 {
		t.Fatalf("expected exactly one winner, got %d", winners)
	}
	if conflicts != partners-1 {
		t.Fatalf("expected %d conflicts, got %d", partners-1, conflicts)
	}
	final, err := svc.Get(context.Background(), request.ID, winnerID)
	if err != nil {
		t.Fatalf("unexpected get error: %v", err)
	}
	if final.AssignedPartnerID == nil || *final.AssignedPartnerID != winnerID {
		t.Fatal("record must hold the winning partner")
	}
	if notifier.count() != 1 {
		t.Fatalf("expected exactly one assignment notification, got %d", notifier.count())
	}
}

func TestAdvanceStatusDelivery(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := newTestService(newFakeRepository(), notifier)
	customerID := uuid.New()
	request := createRequest(t, svc, customerID)
	partnerID := uuid.New()

	if _, err := svc.Claim(context.Background(), request.ID, partnerID); err != nil {
		t.Fatalf("unexpected claim error: %v", err)
	}

	cost := decimal.NewFromFloat(57.20)
	delivered, err := svc.AdvanceStatus(context.Background(), AdvanceInput{
		RequestID: request.ID,
		PartnerID: partnerID,
		Target:    enums.AssignmentStateDelivered,
		FinalCost: &cost,
	})
	if err != nil {
		t.Fatalf("unexpected delivery error: %v", err)
	}
	if delivered.AssignmentState != enums.AssignmentStateDelivered {
		t.Fatalf("expected delivered, got %s", delivered.AssignmentState)
	}
	if delivered.FinalCost == nil || !delivered.FinalCost.Equal(cost) {
		t.Fatal("expected final cost recorded")
	}
	if delivered.DeliveredAt == nil {
		t.Fatal("expected delivery timestamp")
	}
}

func TestAdvanceStatusRequiresFinalCost(t *testing.T) {
	svc := newTestService(newFakeRepository(), &fakeNotifier{})
	request := createRequest(t, svc, uuid.New())
	partnerID := uuid.New()
	if _, err := svc.Claim(context.Background(), request.ID, partnerID); err != nil {
		t.Fatalf("unexpected claim error: %v", err)
	}

	_, err := svc.AdvanceStatus(context.Background(), AdvanceInput{
		RequestID: request.ID,
		PartnerID: partnerID,
		Target:    enums.AssignmentStateDelivered,
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error without final cost, got %v", err)
	}

	negative := decimal.NewFromInt(-5)
	_, err = svc.AdvanceStatus(context.Background(), AdvanceInput{
		RequestID: request.ID,
		PartnerID: partnerID,
		Target:    enums.AssignmentStateDelivered,
		FinalCost: &negative,
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for negative cost, got %v", err)
	}
}

func TestAdvanceStatusOnlyAssignedPartner(t *testing.T) {
	svc := newTestService(newFakeRepository(), &fakeNotifier{})
	request := createRequest(t, svc, uuid.New())
	if _, err := svc.Claim(context.Background(), request.ID, uuid.New()); err != nil {
		t.Fatalf("unexpected claim error: %v", err)
	}

	cost := decimal.NewFromInt(10)
	_, err := svc.AdvanceStatus(context.Background(), AdvanceInput{
		RequestID: request.ID,
		PartnerID: uuid.New(),
		Target:    enums.AssignmentStateDelivered,
		FinalCost: &cost,
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for a stranger, got %v", err)
	}
}

func TestConfirmAndDispute(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := newTestService(newFakeRepository(), notifier)
	customerID := uuid.New()
	partnerID := uuid.New()

	deliver := func(t *testing.T) *models.ShoppingRequest {
		t.Helper()
		request := createRequest(t, svc, customerID)
		if _, err := svc.Claim(context.Background(), request.ID, partnerID); err != nil {
			t.Fatalf("unexpected claim error: %v", err)
		}
		cost := decimal.NewFromInt(20)
		if _, err := svc.AdvanceStatus(context.Background(), AdvanceInput{
			RequestID: request.ID, PartnerID: partnerID,
			Target: enums.AssignmentStateDelivered, FinalCost: &cost,
		}); err != nil {
			t.Fatalf("unexpected delivery error: %v", err)
		}
		return request
	}

	confirmed := deliver(t)
	result, err := svc.Confirm(context.Background(), confirmed.ID, customerID)
	if err != nil {
		t.Fatalf("unexpected confirm error: %v", err)
	}
	if result.AssignmentState != enums.AssignmentStateConfirmed {
		t.Fatalf("expected confirmed, got %s", result.AssignmentState)
	}
	if result.ClosedAt == nil {
		t.Fatal("expected close timestamp")
	}

	disputed := deliver(t)
	result, err = svc.Dispute(context.Background(), disputed.ID, customerID, "missing items")
	if err != nil {
		t.Fatalf("unexpected dispute error: %v", err)
	}
	if result.AssignmentState != enums.AssignmentStateDisputed {
		t.Fatalf("expected disputed, got %s", result.AssignmentState)
	}
	if result.DisputeReason == nil || *result.DisputeReason != "missing items" {
		t.Fatal("expected dispute reason recorded")
	}

	// terminal states refuse further transitions
	if _, err := svc.Confirm(context.Background(), confirmed.ID, customerID); pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict re-confirming, got %v", err)
	}
}

func TestDisputeRequiresReason(t *testing.T) {
	svc := newTestService(newFakeRepository(), &fakeNotifier{})
	if _, err := svc.Dispute(context.Background(), uuid.New(), uuid.New(), "  "); pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestConfirmOnlyByCustomer(t *testing.T) {
	svc := newTestService(newFakeRepository(), &fakeNotifier{})
	customerID := uuid.New()
	request := createRequest(t, svc, customerID)
	partnerID := uuid.New()
	if _, err := svc.Claim(context.Background(), request.ID, partnerID); err != nil {
		t.Fatalf("unexpected claim error: %v", err)
	}
	cost := decimal.NewFromInt(20)
	if _, err := svc.AdvanceStatus(context.Background(), AdvanceInput{
		RequestID: request.ID, PartnerID: partnerID,
		Target: enums.AssignmentStateDelivered, FinalCost: &cost,
	}); err != nil {
		t.Fatalf("unexpected delivery error: %v", err)
	}

	if _, err := svc.Confirm(context.Background(), request.ID, partnerID); pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for the partner, got %v", err)
	}
}

func TestCancelPendingRequest(t *testing.T) {
	svc := newTestService(newFakeRepository(), &fakeNotifier{})
	customerID := uuid.New()
	request := createRequest(t, svc, customerID)

	cancelled, err := svc.Cancel(context.Background(), request.ID, customerID)
	if err != nil {
		t.Fatalf("unexpected cancel error: %v", err)
	}
	if cancelled.AssignmentState != enums.AssignmentStateCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.AssignmentState)
	}
}

func TestCancelLosesToClaim(t *testing.T) {
	svc := newTestService(newFakeRepository(), &fakeNotifier{})
	customerID := uuid.New()
	request := createRequest(t, svc, customerID)

	if _, err := svc.Claim(context.Background(), request.ID, uuid.New()); err != nil {
		t.Fatalf("unexpected claim error: %v", err)
	}

	_, err := svc.Cancel(context.Background(), request.ID, customerID)
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict after claim, got %v", err)
	}
}

func TestListPendingExcludesClaimed(t *testing.T) {
	svc := newTestService(newFakeRepository(), &fakeNotifier{})
	customerID := uuid.New()
	open := createRequest(t, svc, customerID)
	claimed := createRequest(t, svc, customerID)
	if _, err := svc.Claim(context.Background(), claimed.ID, uuid.New()); err != nil {
		t.Fatalf("unexpected claim error: %v", err)
	}

	result, err := svc.ListPending(context.Background(), ListParams{Limit: 10})
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(result.Items) != 1 || result.Items[0].ID != open.ID {
		t.Fatalf("expected only the unclaimed request, got %d items", len(result.Items))
	}
}
