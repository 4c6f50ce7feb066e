package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`

	// Database
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Detector
	DetectorType string `envconfig:"DETECTOR_TYPE" default:"deepface"`
	DeepFaceURL  string `envconfig:"DEEPFACE_URL" default:"http://localhost:5005"`

	// Security
	APIKey string `envconfig:"API_KEY" required:"true"`

	// Access control
	Zone string `envconfig:"ZONE" default:"Main Gate"`

	// Camera polling (disabled when CAMERA_URL is empty; frames can still
	// be pushed via the API)
	CameraURL      string        `envconfig:"CAMERA_URL" default:""`
	CameraInterval time.Duration `envconfig:"CAMERA_INTERVAL" default:"200ms"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
