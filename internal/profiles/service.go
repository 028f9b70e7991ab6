package profiles

import (
	"context"

	"github.com/google/uuid"

	"github.com/rinoykj007/diet-Meal-sub000/pkg/db/models"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/enums"
	pkgerrors "github.com/rinoykj007/diet-Meal-sub000/pkg/errors"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/types"
)

// Service defines profile read/write operations.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	Upsert(ctx context.Context, userID uuid.UUID, params UpsertParams) (*models.Profile, error)
}

// UpsertParams replaces the stored profile for a user. Nil biometric fields
// clear the stored value, which makes the budget not computable until refilled.
type UpsertParams struct {
	AgeYears            *int
	WeightKg            *float64
	HeightCm            *float64
	Sex                 *enums.Sex
	ActivityLevel       enums.ActivityLevel
	DietaryRestrictions []string
	Allergies           []string
	HealthGoals         []string
}

type service struct {
	repo Repository
}

// NewService wires profile dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "profiles repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	if profile == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
	}
	return profile, nil
}

func (s *service) Upsert(ctx context.Context, userID uuid.UUID, params UpsertParams) (*models.Profile, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if params.AgeYears != nil && *params.AgeYears <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "age must be positive")
	}
	if params.WeightKg != nil && *params.WeightKg <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "weight must be positive")
	}
	if params.HeightCm != nil && *params.HeightCm <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "height must be positive")
	}
	if params.Sex != nil && !params.Sex.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid sex category")
	}

	level := params.ActivityLevel
	if level == "" {
		level = enums.ActivityLevelModerate
	}
	if !level.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid activity level")
	}

	profile := &models.Profile{
		UserID:              userID,
		AgeYears:            params.AgeYears,
		WeightKg:            params.WeightKg,
		HeightCm:            params.HeightCm,
		Sex:                 params.Sex,
		ActivityLevel:       level,
		DietaryRestrictions: types.StringSet(params.DietaryRestrictions),
		Allergies:           types.StringSet(params.Allergies),
		HealthGoals:         types.StringSet(params.HealthGoals),
	}
	if err := s.repo.Upsert(ctx, profile); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save profile")
	}

	saved, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload profile")
	}
	if saved == nil {
		return profile, nil
	}
	return saved, nil
}
