package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	if err := c.validateDistributor(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.ValidateInterval <= 0 {
		return errors.New("workflow.validate_interval must be positive")
	}
	if c.Workflow.ShutdownGraceSeconds <= 0 {
		return errors.New("workflow.shutdown_grace_seconds must be positive")
	}
	return nil
}

func (c *Config) validateDistributor() error {
	if !c.Distributor.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Distributor.URL) == "" {
		return errors.New("distributor.url must be set when distributor.enabled is true")
	}
	if strings.TrimSpace(c.Distributor.APIKey) == "" {
		return errors.New("distributor.api_key must be set when distributor.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
