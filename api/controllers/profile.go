package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/rinoykj007/diet-Meal-sub000/api/middleware"
	"github.com/rinoykj007/diet-Meal-sub000/api/responses"
	"github.com/rinoykj007/diet-Meal-sub000/api/validators"
	"github.com/rinoykj007/diet-Meal-sub000/internal/profiles"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/enums"
	pkgerrors "github.com/rinoykj007/diet-Meal-sub000/pkg/errors"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/logger"
)

// currentUserID resolves the authenticated caller from the request context.
func currentUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}

// GetMyProfile returns the caller's stored dietary profile.
func GetMyProfile(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profiles service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.Get(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

type upsertProfileBody struct {
	AgeYears            *int     `json:"age_years" validate:"omitempty,min=1,max=130"`
	WeightKg            *float64 `json:"weight_kg" validate:"omitempty,gt=0"`
	HeightCm            *float64 `json:"height_cm" validate:"omitempty,gt=0"`
	Sex                 *string  `json:"sex" validate:"omitempty,oneof=male female"`
	ActivityLevel       string   `json:"activity_level" validate:"omitempty"`
	DietaryRestrictions []string `json:"dietary_restrictions" validate:"omitempty,dive,min=1"`
	Allergies           []string `json:"allergies" validate:"omitempty,dive,min=1"`
	HealthGoals         []string `json:"health_goals" validate:"omitempty,dive,min=1"`
}

// PutMyProfile replaces the caller's profile with the supplied document.
func PutMyProfile(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profiles service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body upsertProfileBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := profiles.UpsertParams{
			AgeYears:            body.AgeYears,
			WeightKg:            body.WeightKg,
			HeightCm:            body.HeightCm,
			DietaryRestrictions: body.DietaryRestrictions,
			Allergies:           body.Allergies,
			HealthGoals:         body.HealthGoals,
		}
		if body.Sex != nil {
			sex, err := enums.ParseSex(*body.Sex)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sex"))
				return
			}
			params.Sex = &sex
		}
		if body.ActivityLevel != "" {
			level, err := enums.ParseActivityLevel(body.ActivityLevel)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid activity level"))
				return
			}
			params.ActivityLevel = level
		}

		profile, err := svc.Upsert(r.Context(), userID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}
