// Package config loads the server configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all trgovina configuration.
type Config struct {
	DB                string `yaml:"db"`
	Addr              string `yaml:"addr"`
	AdminUser         string `yaml:"admin_user"`
	Log               string `yaml:"log"`
	DefaultLanguageID int64  `yaml:"default_language_id"`

	Attributes AttributesConfig `yaml:"attributes"`

	ShippingProviders []ProviderConfig `yaml:"shipping_providers"`
	PickupProviders   []ProviderConfig `yaml:"pickup_providers"`
}

// AttributesConfig configures attribute rendering.
type AttributesConfig struct {
	// AllowHTML keeps sanitized markup in multiline attribute input instead
	// of escaping it.
	AllowHTML bool `yaml:"allow_html"`
}

// ProviderConfig describes a shipping-rate or pickup-point provider.
type ProviderConfig struct {
	SystemName string `yaml:"system_name"`
	// TrackingURL may contain a {tracking_number} placeholder.
	TrackingURL string `yaml:"tracking_url"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		DB:        "trgovina.sqlite3",
		Addr:      ":8080",
		AdminUser: "Admin",
	}
}

// Load reads the configuration at path on top of the defaults. A missing
// file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that provider names are set and unique per registry.
func (c *Config) Validate() error {
	for _, group := range []struct {
		name      string
		providers []ProviderConfig
	}{
		{"shipping_providers", c.ShippingProviders},
		{"pickup_providers", c.PickupProviders},
	} {
		seen := make(map[string]bool)
		for i, p := range group.providers {
			if p.SystemName == "" {
				return fmt.Errorf("%s[%d]: system_name is required", group.name, i)
			}
			if seen[p.SystemName] {
				return fmt.Errorf("%s: duplicate system_name %q", group.name, p.SystemName)
			}
			seen[p.SystemName] = true
		}
	}
	if c.DefaultLanguageID < 0 {
		return fmt.Errorf("default_language_id must not be negative")
	}
	return nil
}
