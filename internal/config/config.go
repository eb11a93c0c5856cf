// Package config provides server configuration loaded from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const logPrefix = "config:LoadConfig"

// Config holds media-bridge configuration.
type Config struct {
	// COMMS: connect to standalone NATS at COMMSURL.
	COMMSURL  string `envconfig:"COMMS_URL" default:"nats://127.0.0.1:4222"`
	COMMSName string `envconfig:"SERVICE_NAME" default:"media-bridge"`

	// Subject overrides (empty = derive from bootstrap)
	ToolsSubject  string `envconfig:"MEDIA_TOOLS_SUBJECT"`
	InvokeSubject string `envconfig:"MEDIA_INVOKE_SUBJECT"`
	EventSubject  string `envconfig:"MEDIA_EVENT_SUBJECT"`

	// Upstream
	FalAPIKey  string `envconfig:"FAL_API_KEY"`
	FalBaseURL string `envconfig:"FAL_BASE_URL" default:"https://fal.run"`

	// TimeoutMS is the base upstream budget in milliseconds; long-running
	// operations (video, audio, 3D) get five times this.
	TimeoutMS int `envconfig:"MEDIA_TIMEOUT_MS" default:"120000"`

	// OutputDir is where downloaded artifacts are written.
	OutputDir string `envconfig:"MEDIA_OUTPUT_DIR" default:"./generated-media"`

	// ModelsFile points at the external model registry (bootstrap overrides).
	ModelsFile string `envconfig:"MEDIA_MODELS_FILE"`

	// HTTP health/status endpoint
	HTTPPort           int           `envconfig:"HTTP_PORT" default:"8080"`
	HealthCheckTimeout time.Duration `envconfig:"HEALTH_CHECK_TIMEOUT" default:"5s"`

	// Logging
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ValidateForServe checks required config when running the bridge server.
// A missing API key is fatal: the process must refuse to serve at all rather
// than fail every invocation with an auth error.
func (c *Config) ValidateForServe() error {
	if c.FalAPIKey == "" {
		return fmt.Errorf("%s - FAL_API_KEY is required for serve", logPrefix)
	}
	if c.TimeoutMS <= 0 {
		return fmt.Errorf("%s - MEDIA_TIMEOUT_MS must be positive", logPrefix)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("%s - MEDIA_OUTPUT_DIR must not be empty", logPrefix)
	}
	if c.HealthCheckTimeout <= 0 {
		return fmt.Errorf("%s - HEALTH_CHECK_TIMEOUT must be positive", logPrefix)
	}
	return nil
}

// Timeout returns the base upstream budget as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}
