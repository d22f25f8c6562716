package testsupport

import (
	"path/filepath"
	"testing"

	"grocerylens/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Vendor keys are blank so nothing reaches the network by accident.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Vision.APIKey = ""
	cfgVal.Places.APIKey = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithVisionEndpoint points the vision client at a test server.
func WithVisionEndpoint(baseURL, key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Vision.BaseURL = baseURL
		b.cfg.Vision.APIKey = key
	}
}

// WithPlacesEndpoint points the places client at a test server.
func WithPlacesEndpoint(baseURL, key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Places.BaseURL = baseURL
		b.cfg.Places.APIKey = key
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
