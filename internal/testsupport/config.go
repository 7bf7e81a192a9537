package testsupport

import (
	"path/filepath"
	"testing"

	"labeldesk/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithNtfyTopic sets the notification topic on the test config.
func WithNtfyTopic(topic string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Notifications.NtfyTopic = topic
	}
}

// WithDistributor enables the distributor client against the given URL.
func WithDistributor(url, apiKey string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Distributor.Enabled = true
		cfg.Distributor.URL = url
		cfg.Distributor.APIKey = apiKey
	}
}
