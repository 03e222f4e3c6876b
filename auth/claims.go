package auth

import (
	"path"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/streamhub/auth/jwt"
)

// ProducerClaims are the claims carried by producer tokens.
type ProducerClaims struct {
	gojwt.RegisteredClaims

	// Streams lists the key patterns (path.Match syntax) the token may write
	// to. Empty means every key.
	Streams []string `json:"streams,omitempty"`
}

// SetDefaults fills the registered time claims. It is called by
// jwt.Service.GenerateAccess.
func (c *ProducerClaims) SetDefaults(now time.Time, ttl time.Duration, issuer string, audience []string) {
	if c.IssuedAt == nil {
		c.IssuedAt = gojwt.NewNumericDate(now)
	}
	if c.ExpiresAt == nil && ttl > 0 {
		c.ExpiresAt = gojwt.NewNumericDate(now.Add(ttl))
	}
	if c.Issuer == "" {
		c.Issuer = issuer
	}
	if len(c.Audience) == 0 && len(audience) > 0 {
		c.Audience = audience
	}
}

// AllowsKey reports whether the token may write to the stream at key.
func (c *ProducerClaims) AllowsKey(key string) bool {
	if len(c.Streams) == 0 {
		return true
	}
	for _, pattern := range c.Streams {
		if ok, err := path.Match(pattern, key); err == nil && ok {
			return true
		}
	}
	return false
}

// NewProducerService creates the JWT service for producer tokens.
func NewProducerService(cfg jwt.Config) (*jwt.Service[*ProducerClaims], error) {
	return jwt.NewService(&cfg, func() *ProducerClaims { return &ProducerClaims{} })
}
