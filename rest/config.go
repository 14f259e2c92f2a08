package rest

import (
	"fmt"
	"time"

	"github.com/Ahim13/restkit/validation"
)

const defaultTimeout = 30 * time.Second

// Config configures a Client. All fields are optional; the zero value with
// ApplyDefaults applied is a working configuration.
type Config struct {
	// Name tags the client in logs and traces.
	Name string `yaml:"name" mapstructure:"name"`

	// BaseURL is prepended to relative request URLs.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`

	// Timeout is the default transaction timeout. Defaults to 30s.
	// Individual requests override it with WithTimeout.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Headers are default headers applied to every request.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Auth is the default authentication applied to every request.
	// Individual requests override it with WithRequestAuth.
	Auth *AuthConfig `yaml:"-" mapstructure:"-"`

	// TLS is the client-level certificate validator, applied to the
	// client's own transport. Per-request validators are supplied with
	// WithTLS instead.
	TLS *TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("rest: timeout must be positive")
	}
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("rest: %w", err)
	}
	if c.TLS != nil {
		if err := c.TLS.Validate(); err != nil {
			return err
		}
	}
	return nil
}
