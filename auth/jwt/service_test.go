package jwt

import (
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type testClaims struct {
	gojwt.RegisteredClaims
	Role string `json:"role"`
}

func (c *testClaims) SetDefaults(now time.Time, ttl time.Duration, issuer string, audience []string) {
	c.IssuedAt = gojwt.NewNumericDate(now)
	c.ExpiresAt = gojwt.NewNumericDate(now.Add(ttl))
	c.Issuer = issuer
	c.Audience = audience
}

func newTestService(t *testing.T, cfg Config) *Service[*testClaims] {
	t.Helper()
	svc, err := NewService(&cfg, func() *testClaims { return &testClaims{} })
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestNewService_Defaults(t *testing.T) {
	svc := newTestService(t, Config{Secret: testSecret})
	if svc.cfg.Method != HS256 {
		t.Errorf("expected HS256 default, got %s", svc.cfg.Method)
	}
	if svc.cfg.AccessTokenTTL != time.Hour {
		t.Errorf("expected 1h default TTL, got %s", svc.cfg.AccessTokenTTL)
	}
}

func TestNewService_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing secret", Config{}},
		{"short secret", Config{Secret: "short"}},
		{"unsupported method", Config{Secret: testSecret, Method: "RS256"}},
		{"negative ttl", Config{Secret: testSecret, AccessTokenTTL: -time.Second}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			if _, err := NewService(&cfg, func() *testClaims { return &testClaims{} }); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestService_RoundTrip(t *testing.T) {
	svc := newTestService(t, Config{Secret: testSecret, Issuer: "streamhub", Audience: []string{"producers"}})

	token, err := svc.GenerateAccess(&testClaims{Role: "producer"})
	if err != nil {
		t.Fatalf("GenerateAccess: %v", err)
	}
	claims, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Role != "producer" || claims.Issuer != "streamhub" {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestService_Expired(t *testing.T) {
	svc := newTestService(t, Config{Secret: testSecret, AccessTokenTTL: time.Minute})
	issued := time.Now().Add(-time.Hour)
	svc.now = func() time.Time { return issued }
	token, err := svc.GenerateAccess(&testClaims{})
	if err != nil {
		t.Fatalf("GenerateAccess: %v", err)
	}

	svc.now = time.Now
	if _, err := svc.Parse(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestService_WrongSecret(t *testing.T) {
	a := newTestService(t, Config{Secret: testSecret})
	b := newTestService(t, Config{Secret: strings.Repeat("x", 32)})

	token, _ := a.GenerateAccess(&testClaims{})
	if _, err := b.Parse(token); err == nil {
		t.Fatal("expected signature mismatch")
	}
}

func TestService_WrongMethod(t *testing.T) {
	a := newTestService(t, Config{Secret: testSecret, Method: HS512})
	b := newTestService(t, Config{Secret: testSecret})

	token, _ := a.GenerateAccess(&testClaims{})
	if _, err := b.Parse(token); err == nil {
		t.Fatal("expected method mismatch")
	}
}

func TestService_MissingExpiry(t *testing.T) {
	svc := newTestService(t, Config{Secret: testSecret})
	token, err := svc.Generate(&testClaims{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := svc.Parse(token); err == nil {
		t.Fatal("expected token without exp to be rejected")
	}
}

func TestService_ValidatorFunc(t *testing.T) {
	svc := newTestService(t, Config{Secret: testSecret})
	token, _ := svc.GenerateAccess(&testClaims{Role: "r"})

	got, err := svc.ValidatorFunc()(token)
	if err != nil {
		t.Fatalf("validator: %v", err)
	}
	if c, ok := got.(*testClaims); !ok || c.Role != "r" {
		t.Errorf("unexpected claims %#v", got)
	}
	if _, err := svc.ValidatorFunc()("garbage"); err == nil {
		t.Error("expected error for garbage token")
	}
}
