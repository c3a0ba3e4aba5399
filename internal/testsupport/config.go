package testsupport

import (
	"path/filepath"
	"testing"

	"quill/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.API.BaseURL = "http://127.0.0.1:0"
	cfg.Paths.StagingDir = filepath.Join(base, "staging")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.DraftsDir = filepath.Join(base, "drafts")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithAPIBaseURL points the config at a test server.
func WithAPIBaseURL(baseURL string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.API.BaseURL = baseURL
	}
}

// WithQuotas overrides the attachment quotas.
func WithQuotas(maxImages, maxFiles int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Attachments.MaxImages = maxImages
		cfg.Attachments.MaxFiles = maxFiles
	}
}
