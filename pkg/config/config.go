// Package config loads service configuration from an optional YAML file,
// a .env file, and environment variables, in increasing precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Quota struct {
	Limit  int           `yaml:"limit"`
	Window time.Duration `yaml:"window"`
}

type Config struct {
	Addr     string `yaml:"addr"`
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	Country  string `yaml:"country"`
	Lang     string `yaml:"lang"`
	Quota    Quota  `yaml:"quota"`
}

func defaults() *Config {
	return &Config{
		Addr:    ":8080",
		Country: "us",
		Lang:    "en",
		Quota: Quota{
			Limit:  2,
			Window: 24 * time.Hour,
		},
	}
}

// Load builds the effective configuration. path may be empty; a missing
// .env file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv("ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("QUOTA_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("QUOTA_LIMIT: %w", err)
		}
		cfg.Quota.Limit = n
	}
	if v := os.Getenv("QUOTA_WINDOW"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("QUOTA_WINDOW: %w", err)
		}
		cfg.Quota.Window = d
	}
	return cfg, nil
}
