package streamhub

import (
	"fmt"
	"os"
	"time"

	"github.com/kbukum/streamhub/auth"
	"github.com/kbukum/streamhub/config"
	"github.com/kbukum/streamhub/observability"
	"github.com/kbukum/streamhub/server"
)

// ServiceName names the service in logs, config search paths and telemetry.
const ServiceName = "streamhub"

// EnvPrefix scopes environment overrides, e.g. STREAMHUB_SERVER_PORT.
const EnvPrefix = "STREAMHUB"

// SSEConfig configures the stream hub.
type SSEConfig struct {
	// KeepAlive is the comment-frame interval. Zero disables keep-alives.
	KeepAlive time.Duration `yaml:"keep_alive" mapstructure:"keep_alive"`
	// FeedInterval is the tick of the /sse demo feed.
	FeedInterval time.Duration `yaml:"feed_interval" mapstructure:"feed_interval"`
	// WriteTimeout bounds each frame write so a client that stops reading
	// is dropped.
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	// CORSOrigin is sent as Access-Control-Allow-Origin on stream responses.
	CORSOrigin string `yaml:"cors_origin" mapstructure:"cors_origin"`
}

// ApplyDefaults fills unset fields.
func (c *SSEConfig) ApplyDefaults() {
	if c.KeepAlive == 0 {
		c.KeepAlive = 15 * time.Second
	}
	if c.FeedInterval == 0 {
		c.FeedInterval = 250 * time.Millisecond
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 10 * time.Second
	}
}

// Validate checks the configuration.
func (c *SSEConfig) Validate() error {
	if c.KeepAlive < 0 {
		return fmt.Errorf("sse.keep_alive must be non-negative (got: %s)", c.KeepAlive)
	}
	if c.FeedInterval <= 0 {
		return fmt.Errorf("sse.feed_interval must be positive (got: %s)", c.FeedInterval)
	}
	if c.WriteTimeout < 0 {
		return fmt.Errorf("sse.write_timeout must be non-negative (got: %s)", c.WriteTimeout)
	}
	return nil
}

// Config is the complete service configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	SSE           SSEConfig            `yaml:"sse" mapstructure:"sse"`
	Auth          auth.Config          `yaml:"auth" mapstructure:"auth"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`

	// StaticDir is served for unmatched GET requests when set.
	StaticDir string `yaml:"static_dir" mapstructure:"static_dir"`
}

// ApplyDefaults applies defaults to every section.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = ServiceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.SSE.ApplyDefaults()
	c.Auth.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate validates every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.SSE.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Observability.Validate(); err != nil {
		return err
	}
	if c.StaticDir != "" {
		info, err := os.Stat(c.StaticDir)
		if err != nil {
			return fmt.Errorf("static_dir: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("static_dir %s is not a directory", c.StaticDir)
		}
	}
	return nil
}

// envKeys registers every key with the loader so environment variables
// override them even when the config file leaves them out.
var envKeys = map[string]any{
	"name":                      ServiceName,
	"environment":               "",
	"logging.level":             "",
	"logging.format":            "",
	"server.host":               "",
	"server.port":               0,
	"server.rate_limit":         0,
	"server.max_body_size":      "",
	"sse.keep_alive":            time.Duration(0),
	"sse.write_timeout":         time.Duration(0),
	"sse.feed_interval":         time.Duration(0),
	"sse.cors_origin":           "",
	"auth.enabled":              false,
	"auth.jwt.secret":           "",
	"auth.jwt.issuer":           "",
	"observability.enabled":     false,
	"observability.endpoint":    "",
	"observability.sample_rate": 0.0,
	"static_dir":                "",
}

// Load reads the configuration from the usual search paths, the .env file
// and STREAMHUB_* environment variables. Defaults are applied by the caller
// (bootstrap.NewApp does it).
func Load(opts ...config.LoaderOption) (*Config, error) {
	cfg := &Config{}
	base := []config.LoaderOption{
		config.WithEnvPrefix(EnvPrefix),
		config.WithDefaults(envKeys),
	}
	if err := config.LoadConfig(ServiceName, cfg, append(base, opts...)...); err != nil {
		return nil, err
	}
	return cfg, nil
}
