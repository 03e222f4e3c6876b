package auth

import (
	"fmt"

	"github.com/kbukum/streamhub/auth/jwt"
)

// Config holds producer authentication configuration.
type Config struct {
	// Enabled protects the write routes (POST events, DELETE, broadcast).
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// JWT configures the token service.
	JWT jwt.Config `yaml:"jwt" mapstructure:"jwt"`
}

// ApplyDefaults sets defaults on the JWT section.
func (c *Config) ApplyDefaults() {
	c.JWT.ApplyDefaults()
}

// Validate checks the JWT section when authentication is enabled.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if err := c.JWT.Validate(); err != nil {
		return fmt.Errorf("auth.jwt: %w", err)
	}
	return nil
}

// Describe returns a human-readable one-liner for the startup summary.
func (c *Config) Describe() string {
	if !c.Enabled {
		return "disabled"
	}
	return fmt.Sprintf("JWT(%s) TTL=%s", c.JWT.Method, c.JWT.AccessTokenTTL)
}
