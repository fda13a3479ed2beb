// Package config defines the nhlmetrics configuration and how it is loaded.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pable/go-nhl-metrics/internal/analysis"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DBPath is the SQLite database file.
	DBPath string `koanf:"db_path"`

	// APIBaseURL is the NHL stats REST root.
	APIBaseURL     string `koanf:"api_base_url"`
	HTTPTimeoutSec int    `koanf:"http_timeout_sec"`
	FetchLimit     int    `koanf:"fetch_limit"`

	// Analysis parameters.
	MinGamesPlayed   float64  `koanf:"min_games_played"`
	Clusters         int      `koanf:"clusters"`
	Components       int      `koanf:"components"`
	PowerIterations  int      `koanf:"power_iterations"`
	KMeansIterations int      `koanf:"kmeans_iterations"`
	Seed             int64    `koanf:"seed"`
	Features         []string `koanf:"features"`

	// ServeAddr is the listen address of the serve command.
	ServeAddr string `koanf:"serve_addr"`

	// AnthropicModel is the model used by the explain command.
	AnthropicModel string `koanf:"anthropic_model"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		DBPath:           filepath.Join(userHome(), ".nhlmetrics", "nhl.db"),
		APIBaseURL:       "https://api.nhle.com/stats/rest/en",
		HTTPTimeoutSec:   30,
		FetchLimit:       200,
		MinGamesPlayed:   10,
		Clusters:         4,
		Components:       2,
		PowerIterations:  100,
		KMeansIterations: 20,
		Seed:             1,
		Features:         append([]string(nil), analysis.DefaultFeatures...),
		ServeAddr:        ":8080",
		AnthropicModel:   "claude-haiku-4-5-20251001",
	}
}

// HTTPTimeout returns HTTPTimeoutSec as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSec) * time.Second
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.DBPath == "":
		return fmt.Errorf("%w: db_path must not be empty", ErrInvalidConfig)
	case c.Clusters < 1:
		return fmt.Errorf("%w: clusters must be at least 1, got %d", ErrInvalidConfig, c.Clusters)
	case c.Components < 2:
		return fmt.Errorf("%w: components must be at least 2 (points are plotted as x, y), got %d", ErrInvalidConfig, c.Components)
	case c.PowerIterations < 1:
		return fmt.Errorf("%w: power_iterations must be at least 1, got %d", ErrInvalidConfig, c.PowerIterations)
	case c.KMeansIterations < 1:
		return fmt.Errorf("%w: kmeans_iterations must be at least 1, got %d", ErrInvalidConfig, c.KMeansIterations)
	case c.MinGamesPlayed < 0:
		return fmt.Errorf("%w: min_games_played must not be negative", ErrInvalidConfig)
	case len(c.Features) == 0:
		return fmt.Errorf("%w: features must not be empty", ErrInvalidConfig)
	case c.FetchLimit < 1:
		return fmt.Errorf("%w: fetch_limit must be at least 1, got %d", ErrInvalidConfig, c.FetchLimit)
	}
	return nil
}

func userHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
