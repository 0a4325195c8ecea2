package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DirName is the directory holding the config file, relative to the
// working directory.
const DirName = ".backloop"

// FileName is the config file inside DirName.
const FileName = "config.yaml"

// AddOnItem is an item offered to reach the free-pickup threshold.
type AddOnItem struct {
	Name  string `yaml:"name"`
	Price int64  `yaml:"price"`
}

// Config represents the backloop configuration
type Config struct {
	CurrencySymbol       string        `yaml:"currency_symbol"`
	AcceptedPhotoType    string        `yaml:"accepted_photo_type"`
	ReceiptWhitelist     []string      `yaml:"receipt_whitelist"`
	PickupFee            int64         `yaml:"pickup_fee"`
	FreePickupThreshold  int64         `yaml:"free_pickup_threshold"`
	DefaultCartValue     int64         `yaml:"default_cart_value"`
	PhotoInspectionDelay time.Duration `yaml:"photo_inspection_delay"`
	EstimateDelay        time.Duration `yaml:"estimate_delay"`
	SupportPhone         string        `yaml:"support_phone"`
	PickupWindow         string        `yaml:"pickup_window"`
	AddOnItems           []AddOnItem   `yaml:"add_on_items"`
	LogLevel             string        `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		CurrencySymbol:       "₹",
		AcceptedPhotoType:    "image/webp",
		ReceiptWhitelist:     []string{"ECO-2025-001127", "ECO-2025-789012", "ECO-2024-345678"},
		PickupFee:            99,
		FreePickupThreshold:  2000,
		DefaultCartValue:     1500,
		PhotoInspectionDelay: 1500 * time.Millisecond,
		EstimateDelay:        2 * time.Second,
		SupportPhone:         "+91 9372665103",
		PickupWindow:         "2-3 business days",
		AddOnItems: []AddOnItem{
			{Name: "Old Phone Case", Price: 200},
			{Name: "Used Books", Price: 300},
			{Name: "Plastic Containers", Price: 250},
		},
		LogLevel: "warn",
	}
}

// Path returns the config file path under dir.
func Path(dir string) string {
	return filepath.Join(dir, DirName, FileName)
}

// LoadConfig reads .backloop/config.yaml from the specified directory.
// A missing file yields Default(); keys absent from the file keep their
// default values.
func LoadConfig(dir string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(Path(dir))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", Path(dir), err)
	}

	return cfg, nil
}

// SaveConfig writes config.yaml to directory
func SaveConfig(dir string, cfg *Config) error {
	cfgDir := filepath.Join(dir, DirName)
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s dir: %w", DirName, err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(Path(dir), data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.AcceptedPhotoType == "":
		return errors.New("accepted_photo_type must not be empty")
	case c.PickupFee < 0:
		return fmt.Errorf("pickup_fee must not be negative, got %d", c.PickupFee)
	case c.FreePickupThreshold < 0:
		return fmt.Errorf("free_pickup_threshold must not be negative, got %d", c.FreePickupThreshold)
	case c.DefaultCartValue < 0:
		return fmt.Errorf("default_cart_value must not be negative, got %d", c.DefaultCartValue)
	case c.PhotoInspectionDelay < 0 || c.EstimateDelay < 0:
		return errors.New("delays must not be negative")
	}
	for _, item := range c.AddOnItems {
		if item.Name == "" || item.Price <= 0 {
			return fmt.Errorf("add_on_items entry %q needs a name and a positive price", item.Name)
		}
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel. An empty level is warn.
func (c *Config) Level() (slog.Level, error) {
	if c.LogLevel == "" {
		return slog.LevelWarn, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}
