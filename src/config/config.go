package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"market-dashboard/src/models"
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides loading and validation.
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig loads and validates a configuration from a YAML file.
func NewConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	var modelConfig models.MConfig
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	cfg := &Config{MConfig: &modelConfig}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// -----------------------------------------------------------------------------

// applyDefaults fills optional fields so the rest of the code never has to
// special-case zero values.
func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Dashboard.Period == "" {
		c.Dashboard.Period = "1mo"
	}
	if c.Dashboard.RefreshIntervalSeconds <= 0 {
		c.Dashboard.RefreshIntervalSeconds = 60
	}
	if c.Dashboard.ConcurrentSnapshots <= 0 {
		c.Dashboard.ConcurrentSnapshots = 8
	}
	if c.Dashboard.HistoryPoints <= 0 {
		c.Dashboard.HistoryPoints = 500
	}
	if c.Dashboard.MaxComparisonPoints <= 0 {
		c.Dashboard.MaxComparisonPoints = 500
	}
	if c.Storage.RetentionDays <= 0 {
		c.Storage.RetentionDays = 730
	}
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}

	if c.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Port <= 1024 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d (must be between 1025 and 65535)", c.Port)
	}

	switch c.Storage.DBType {
	case "sqlite":
		if c.Storage.DBPath == "" {
			return fmt.Errorf("database path cannot be empty for sqlite")
		}
	case "postgres":
		if c.Storage.DBConnectionString == "" {
			return fmt.Errorf("connection string cannot be empty for postgres")
		}
	case "":
		return fmt.Errorf("database type cannot be empty")
	default:
		return fmt.Errorf("unsupported database type: %s", c.Storage.DBType)
	}

	if len(c.Dashboard.Symbols) == 0 {
		return fmt.Errorf("at least one symbol must be configured")
	}
	if len(c.Dashboard.Indices) == 0 {
		return fmt.Errorf("at least one benchmark index must be configured")
	}
	if _, err := models.ParsePeriod(c.Dashboard.Period); err != nil {
		return fmt.Errorf("invalid dashboard period: %w", err)
	}

	return nil
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to a YAML file.
func (c *Config) Save(configPath string) error {
	data, err := yaml.Marshal(c.MConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}
	return nil
}
