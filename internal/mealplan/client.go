package mealplan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rinoykj007/diet-Meal-sub000/pkg/config"
	pkgerrors "github.com/rinoykj007/diet-Meal-sub000/pkg/errors"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/types"
)

// Client calls the external meal-plan generator. The generator's internals
// are opaque; this client only ships targets out and structured plans back.
type Client interface {
	GeneratePlan(ctx context.Context, request PlanRequest) (*WeeklyPlan, error)
}

// PlanRequest carries the targets the generator plans against.
type PlanRequest struct {
	DailyCalories       float64      `json:"daily_calories"`
	Macros              types.Macros `json:"macros"`
	DietaryRestrictions []string     `json:"dietary_restrictions,omitempty"`
	Allergies           []string     `json:"allergies,omitempty"`
	Days                int          `json:"days"`
}

// PlannedMeal is one generated meal slot entry.
type PlannedMeal struct {
	Slot     string       `json:"slot"`
	Name     string       `json:"name"`
	Calories float64      `json:"calories"`
	Macros   types.Macros `json:"macros"`
}

// PlanDay groups the meals generated for one day.
type PlanDay struct {
	Day   int           `json:"day"`
	Meals []PlannedMeal `json:"meals"`
}

// WeeklyPlan is the generator's structured response.
type WeeklyPlan struct {
	Days []PlanDay `json:"days"`
}

type httpClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient builds a generator client from configuration.
func NewClient(cfg config.MealPlanConfig) (Client, error) {
	if cfg.BaseURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "meal plan base url required")
	}
	return &httpClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (c *httpClient) GeneratePlan(ctx context.Context, request PlanRequest) (*WeeklyPlan, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "encode plan request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/meal-plans", bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build plan request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "call meal plan generator")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("meal plan generator returned %d: %s", resp.StatusCode, string(body)))
	}

	var plan WeeklyPlan
	if err := json.NewDecoder(resp.Body).Decode(&plan); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode plan response")
	}
	return &plan, nil
}
