package app

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	// CMSURL is the base URL of the headless CMS backend.
	CMSURL string `envconfig:"HUDDLE_CMS_URL" required:"true"`

	// StateFile is the SQLite file session tokens persist in.
	StateFile string `envconfig:"HUDDLE_STATE_FILE" default:"huddle.db"`

	Env       string `envconfig:"ENV" default:"dev"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	// RequestTimeout bounds every call against the backend.
	RequestTimeout time.Duration `envconfig:"HUDDLE_REQUEST_TIMEOUT" default:"10s"`

	// RequestsPerSecond/RequestBurst pace outgoing requests client-side.
	// Zero disables pacing.
	RequestsPerSecond float64 `envconfig:"HUDDLE_REQUESTS_PER_SECOND" default:"10"`
	RequestBurst      int     `envconfig:"HUDDLE_REQUEST_BURST" default:"20"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
