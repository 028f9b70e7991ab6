package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rinoykj007/diet-Meal-sub000/internal/assignment"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/db/models"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/enums"
	pkgerrors "github.com/rinoykj007/diet-Meal-sub000/pkg/errors"
)

type testAssignmentService struct {
	createFn  func(ctx context.Context, input assignment.CreateInput) (*models.ShoppingRequest, error)
	claimFn   func(ctx context.Context, requestID, partnerID uuid.UUID) (*models.ShoppingRequest, error)
	advanceFn func(ctx context.Context, input assignment.AdvanceInput) (*models.ShoppingRequest, error)
}

func (s *testAssignmentService) Create(ctx context.Context, input assignment.CreateInput) (*models.ShoppingRequest, error) {
	if s.createFn != nil {
		return s.createFn(ctx, input)
	}
	return &models.ShoppingRequest{}, nil
}

func (s *testAssignmentService) Claim(ctx context.Context, requestID, partnerID uuid.UUID) (*models.ShoppingRequest, error) {
	if s.claimFn != nil {
		return s.claimFn(ctx, requestID, partnerID)
	}
	return &models.ShoppingRequest{}, nil
}

func (s *testAssignmentService) AdvanceStatus(ctx context.Context, input assignment.AdvanceInput) (*models.ShoppingRequest, error) {
	if s.advanceFn != nil {
		return s.advanceFn(ctx, input)
	}
	return &models.ShoppingRequest{}, nil
}

func (s *testAssignmentService) Confirm(context.Context, uuid.UUID, uuid.UUID) (*models.ShoppingRequest, error) {
	return &models.ShoppingRequest{}, nil
}

func (s *testAssignmentService) Dispute(context.Context, uuid.UUID, uuid.UUID, string) (*models.ShoppingRequest, error) {
	return &models.ShoppingRequest{}, nil
}

func (s *testAssignmentService) Cancel(context.Context, uuid.UUID, uuid.UUID) (*models.ShoppingRequest, error) {
	return &models.ShoppingRequest{}, nil
}

func (s *testAssignmentService) Get(context.Context, uuid.UUID, uuid.UUID) (*models.ShoppingRequest, error) {
	return &models.ShoppingRequest{}, nil
}

func (s *testAssignmentService) ListPending(context.Context, assignment.ListParams) (*assignment.ListResult, error) {
	return &assignment.ListResult{}, nil
}

func (s *testAssignmentService) ListByCustomer(context.Context, assignment.ListParams) (*assignment.ListResult, error) {
	return &assignment.ListResult{}, nil
}

func TestCreateShoppingRequestSuccess(t *testing.T) {
	customerID := uuid.New()
	var got assignment.CreateInput
	svc := &testAssignmentService{
		createFn: func(_ context.Context, input assignment.CreateInput) (*models.ShoppingRequest, error) {
			got = input
			return &models.ShoppingRequest{ID: uuid.New(), AssignmentState: enums.AssignmentStatePending}, nil
		},
	}

	body := `{
		"items": [{"name": "oats", "quantity": "1kg"}],
		"address": {"line1": "12 Main St", "city": "Cork"},
		"delivery_fee": "4.50"
	}`
	req := authedRequest(http.MethodPost, "/api/v1/shopping-requests", customerID, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	CreateShoppingRequest(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if got.CustomerID != customerID {
		t.Fatalf("expected customer %s got %s", customerID, got.CustomerID)
	}
	if len(got.Items) != 1 || got.Items[0].Name != "oats" {
		t.Fatalf("unexpected items %+v", got.Items)
	}
	if got.Address.City != "Cork" {
		t.Fatalf("unexpected address %+v", got.Address)
	}
	if !got.DeliveryFee.Equal(decimal.RequireFromString("4.50")) {
		t.Fatalf("unexpected fee %s", got.DeliveryFee)
	}
}

func TestCreateShoppingRequestRejectsBadFee(t *testing.T) {
	svc := &testAssignmentService{}

	body := `{
		"items": [{"name": "oats"}],
		"address": {"line1": "12 Main St", "city": "Cork"},
		"delivery_fee": "free"
	}`
	req := authedRequest(http.MethodPost, "/api/v1/shopping-requests", uuid.New(), strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	CreateShoppingRequest(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCreateShoppingRequestRequiresItems(t *testing.T) {
	svc := &testAssignmentService{}

	body := `{
		"items": [],
		"address": {"line1": "12 Main St", "city": "Cork"},
		"delivery_fee": "4.50"
	}`
	req := authedRequest(http.MethodPost, "/api/v1/shopping-requests", uuid.New(), strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	CreateShoppingRequest(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestClaimShoppingRequestLostRace(t *testing.T) {
	svc := &testAssignmentService{
		claimFn: func(context.Context, uuid.UUID, uuid.UUID) (*models.ShoppingRequest, error) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "request already claimed")
		},
	}

	requestID := uuid.New()
	req := authedRequest(http.MethodPost, "/api/v1/shopping-requests/"+requestID.String()+"/claim", uuid.New(), nil)
	req = withURLParam(req, "requestId", requestID.String())

	resp := httptest.NewRecorder()
	ClaimShoppingRequest(svc, testLogger())(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeStateConflict) {
		t.Fatalf("unexpected error code %q", envelope.Error.Code)
	}
}

func TestClaimShoppingRequestInvalidID(t *testing.T) {
	svc := &testAssignmentService{}

	req := authedRequest(http.MethodPost, "/api/v1/shopping-requests/not-a-uuid/claim", uuid.New(), nil)
	req = withURLParam(req, "requestId", "not-a-uuid")

	resp := httptest.NewRecorder()
	ClaimShoppingRequest(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdvanceShoppingRequestParsesFinalCost(t *testing.T) {
	partnerID := uuid.New()
	requestID := uuid.New()
	var got assignment.AdvanceInput
	svc := &testAssignmentService{
		advanceFn: func(_ context.Context, input assignment.AdvanceInput) (*models.ShoppingRequest, error) {
			got = input
			return &models.ShoppingRequest{ID: requestID, AssignmentState: enums.AssignmentStateDelivered}, nil
		},
	}

	body := `{"status": "delivered", "final_cost": "23.75"}`
	req := authedRequest(http.MethodPost, "/api/v1/shopping-requests/"+requestID.String()+"/status", partnerID, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = withURLParam(req, "requestId", requestID.String())

	resp := httptest.NewRecorder()
	AdvanceShoppingRequest(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if got.Target != enums.AssignmentStateDelivered {
		t.Fatalf("unexpected target %s", got.Target)
	}
	if got.PartnerID != partnerID {
		t.Fatalf("unexpected partner %s", got.PartnerID)
	}
	if got.FinalCost == nil || !got.FinalCost.Equal(decimal.RequireFromString("23.75")) {
		t.Fatalf("unexpected final cost %v", got.FinalCost)
	}
}

func TestAdvanceShoppingRequestRejectsUnknownStatus(t *testing.T) {
	svc := &testAssignmentService{}

	requestID := uuid.New()
	body := `{"status": "teleported"}`
	req := authedRequest(http.MethodPost, "/api/v1/shopping-requests/"+requestID.String()+"/status", uuid.New(), strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = withURLParam(req, "requestId", requestID.String())

	resp := httptest.NewRecorder()
	AdvanceShoppingRequest(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
