package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/kbukum/streamhub/auth/authctx"
	"github.com/kbukum/streamhub/auth/jwt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestConfig_ValidateDisabled(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled auth should validate, got %v", err)
	}
	if cfg.Describe() != "disabled" {
		t.Errorf("unexpected description %q", cfg.Describe())
	}
}

func TestConfig_ValidateEnabledRequiresSecret(t *testing.T) {
	cfg := Config{Enabled: true}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Error("expected missing secret error")
	}
	cfg.JWT.Secret = testSecret
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error %v", err)
	}
	if cfg.Describe() != "JWT(HS256) TTL=1h0m0s" {
		t.Errorf("unexpected description %q", cfg.Describe())
	}
}

func TestProducerClaims_AllowsKey(t *testing.T) {
	tests := []struct {
		streams []string
		key     string
		want    bool
	}{
		{nil, "anything", true},
		{[]string{"room-*"}, "room-1", true},
		{[]string{"room-*"}, "lobby", false},
		{[]string{"lobby", "room-?"}, "room-7", true},
		{[]string{"["}, "x", false},
	}
	for _, tc := range tests {
		c := &ProducerClaims{Streams: tc.streams}
		if got := c.AllowsKey(tc.key); got != tc.want {
			t.Errorf("AllowsKey(%v, %q) = %v, want %v", tc.streams, tc.key, got, tc.want)
		}
	}
}

func TestProducerService_RoundTrip(t *testing.T) {
	svc, err := NewProducerService(jwt.Config{Secret: testSecret, Issuer: "streamhub"})
	if err != nil {
		t.Fatalf("NewProducerService: %v", err)
	}
	token, err := svc.GenerateAccess(&ProducerClaims{Streams: []string{"room-*"}})
	if err != nil {
		t.Fatalf("GenerateAccess: %v", err)
	}

	v := NewValidator(svc.ValidatorFunc())
	got, err := v.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	claims, ok := got.(*ProducerClaims)
	if !ok {
		t.Fatalf("unexpected claims type %T", got)
	}
	if claims.Issuer != "streamhub" || claims.ExpiresAt == nil {
		t.Errorf("expected defaults filled, got %+v", claims.RegisteredClaims)
	}
	if !claims.AllowsKey("room-1") || claims.AllowsKey("other") {
		t.Error("stream scope not preserved")
	}
}

func TestAuthctx_SetGet(t *testing.T) {
	ctx := context.Background()
	if _, err := authctx.Require[*ProducerClaims](ctx); !errors.Is(err, authctx.ErrNoClaims) {
		t.Errorf("expected ErrNoClaims, got %v", err)
	}

	ctx = authctx.Set(ctx, &ProducerClaims{Streams: []string{"a"}})
	c, ok := authctx.Get[*ProducerClaims](ctx)
	if !ok || c.Streams[0] != "a" {
		t.Fatal("expected claims from context")
	}
	if _, ok := authctx.Get[string](ctx); ok {
		t.Error("wrong type should not match")
	}
	if _, err := authctx.Require[string](ctx); !errors.Is(err, authctx.ErrClaimsType) {
		t.Errorf("expected ErrClaimsType, got %v", err)
	}
	if _, err := authctx.Require[*ProducerClaims](ctx); err != nil {
		t.Errorf("Require: %v", err)
	}
}
