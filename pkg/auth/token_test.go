package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rinoykj007/diet-Meal-sub000/pkg/config"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/enums"
)

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "dietmeal",
		ExpirationMinutes: 30,
	}
	now := time.Now().UTC()
	userID := uuid.New()

	payload := AccessTokenPayload{
		UserID: userID,
		Role:   enums.ActorRoleCustomer,
	}

	token, err := MintAccessToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if claims.UserID != userID {
		t.Fatalf("expected user_id %s, got %s", userID, claims.UserID)
	}
	if claims.Role != enums.ActorRoleCustomer {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("unexpected issuer %s", claims.Issuer)
	}
	if claims.ID == "" {
		t.Fatalf("expected generated jti")
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.Time.After(now) {
		t.Fatalf("expected expiry after now")
	}
}

func TestMintAccessTokenPreservesJTI(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "dietmeal", ExpirationMinutes: 5}

	payload := AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.ActorRoleRestaurant,
		JTI:    "fixed-jti",
	}

	token, err := MintAccessToken(cfg, time.Now().UTC(), payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.ID != "fixed-jti" {
		t.Fatalf("expected jti fixed-jti, got %s", claims.ID)
	}
}

func TestMintAccessTokenValidation(t *testing.T) {
	valid := config.JWTConfig{Secret: "secret", Issuer: "dietmeal", ExpirationMinutes: 5}
	payload := AccessTokenPayload{UserID: uuid.New(), Role: enums.ActorRoleCustomer}

	cases := []struct {
		name    string
		cfg     config.JWTConfig
		payload AccessTokenPayload
		wantMsg string
	}{
		{
			name:    "missing secret",
			cfg:     config.JWTConfig{Issuer: "dietmeal", ExpirationMinutes: 5},
			payload: payload,
			wantMsg: "secret",
		},
		{
			name:    "missing issuer",
			cfg:     config.JWTConfig{Secret: "secret", ExpirationMinutes: 5},
			payload: payload,
			wantMsg: "issuer",
		},
		{
			name:    "non-positive ttl",
			cfg:     config.JWTConfig{Secret: "secret", Issuer: "dietmeal"},
			payload: payload,
			wantMsg: "expiration",
		},
		{
			name:    "invalid role",
			cfg:     valid,
			payload: AccessTokenPayload{UserID: uuid.New(), Role: enums.ActorRole("warehouse")},
			wantMsg: "role",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := MintAccessToken(tc.cfg, time.Now().UTC(), tc.payload)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Fatalf("expected error mentioning %q, got %v", tc.wantMsg, err)
			}
		})
	}
}

func TestParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	mintCfg := config.JWTConfig{Secret: "secret", Issuer: "someone-else", ExpirationMinutes: 5}
	parseCfg := config.JWTConfig{Secret: "secret", Issuer: "dietmeal", ExpirationMinutes: 5}

	token, err := MintAccessToken(mintCfg, time.Now().UTC(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.ActorRoleCustomer,
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	if _, err := ParseAccessToken(parseCfg, token); err == nil {
		t.Fatalf("expected issuer mismatch to fail")
	}
}

func TestParseAccessTokenRejectsTamperedSecret(t *testing.T) {
	mintCfg := config.JWTConfig{Secret: "secret-a", Issuer: "dietmeal", ExpirationMinutes: 5}
	parseCfg := config.JWTConfig{Secret: "secret-b", Issuer: "dietmeal", ExpirationMinutes: 5}

	token, err := MintAccessToken(mintCfg, time.Now().UTC(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.ActorRoleDeliveryPartner,
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	if _, err := ParseAccessToken(parseCfg, token); err == nil {
		t.Fatalf("expected signature mismatch to fail")
	}
}
