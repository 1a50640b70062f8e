// Package config loads the server configuration. Every field has a
// production default, so the server runs with no config file at all.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete server configuration.
type Config struct {
	// DirectoryURL serves the studyspaces.json building/seat directory.
	DirectoryURL string `yaml:"directory_url"`
	// APIBaseURL is the KURT reservation web service base.
	APIBaseURL string `yaml:"api_base_url"`
	// BookingBaseURL is the reservation page bookings deep-link into.
	BookingBaseURL string `yaml:"booking_base_url"`
	// CheckinBaseURL prefixes check-in links.
	CheckinBaseURL string `yaml:"checkin_base_url"`

	TimeoutSeconds int           `yaml:"timeout_seconds"`
	Timeout        time.Duration `yaml:"-"`

	Server ServerConfig `yaml:"server"`
}

// ServerConfig configures the optional HTTP surface.
type ServerConfig struct {
	Listen          string  `yaml:"listen"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
}

// Default returns the production KURT endpoints.
func Default() *Config {
	cfg := &Config{
		DirectoryURL:   "https://kurtosis.breitburg.com/studyspaces.json",
		APIBaseURL:     "https://wsrt.ghum.kuleuven.be/service1.asmx",
		BookingBaseURL: "https://www-sso.groupware.kuleuven.be/sites/KURT/Pages/NEW-Reservation.aspx",
		CheckinBaseURL: "https://kurt3.ghum.kuleuven.be/check-in/",
		TimeoutSeconds: 30,
		Server: ServerConfig{
			Listen:          ":8765",
			RateLimitPerSec: 5,
			RateLimitBurst:  10,
		},
	}
	cfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	return cfg
}

// Load reads a config from a YAML file, filling in defaults for any
// omitted field. An empty path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 30
	}
	cfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second

	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8765"
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 10
	}
	return cfg, nil
}
