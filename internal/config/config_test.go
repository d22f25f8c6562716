package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"grocerylens/internal/config"
	"grocerylens/internal/labels"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("GCV_API_KEY", "")
	t.Chdir(tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "grocerylens")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.DatabasePath() != filepath.Join(wantData, "grocerylens.db") {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}
	if cfg.Paths.APIBind != "127.0.0.1:7488" {
		t.Fatalf("unexpected api bind: %q", cfg.Paths.APIBind)
	}
	if cfg.Vision.APIKey != "" {
		t.Fatalf("expected empty vision key, got %q", cfg.Vision.APIKey)
	}
	if cfg.Places.Keyword != "grocery" || cfg.Places.Type != "supermarket" {
		t.Fatalf("unexpected places defaults: %+v", cfg.Places)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "grocerylens.toml")

	type payload struct {
		Paths struct {
			DataDir string `toml:"data_dir"`
		} `toml:"paths"`
		Vision struct {
			APIKey        string   `toml:"api_key"`
			LanguageHints []string `toml:"language_hints"`
		} `toml:"vision"`
		Ranking struct {
			StopwordRatio float64 `toml:"stopword_ratio"`
			MaxResults    int     `toml:"max_results"`
		} `toml:"ranking"`
	}
	custom := payload{}
	custom.Paths.DataDir = filepath.Join(tempDir, "data")
	custom.Vision.APIKey = "file-key"
	custom.Vision.LanguageHints = []string{" EN ", "", "fr"}
	custom.Ranking.StopwordRatio = 0.25
	custom.Ranking.MaxResults = 3
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}
	t.Setenv("GCV_API_KEY", "")

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.DataDir != filepath.Join(tempDir, "data") {
		t.Fatalf("unexpected data dir %q", cfg.Paths.DataDir)
	}
	if cfg.Vision.APIKey != "file-key" {
		t.Fatalf("expected vision key from file, got %q", cfg.Vision.APIKey)
	}
	if strings.Join(cfg.Vision.LanguageHints, ",") != "en,fr" {
		t.Fatalf("unexpected language hints %v", cfg.Vision.LanguageHints)
	}

	th := cfg.RankingThresholds()
	if th.OCRStopwordRatio != 0.25 || th.MaxResults != 3 {
		t.Fatalf("ranking overrides not applied: %+v", th)
	}
	if th.LogoDefault != labels.DefaultThresholds().LogoDefault {
		t.Fatalf("unset override should keep default, got %v", th.LogoDefault)
	}
}

func TestEnvVarOverridesConfigFileForAPIKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "grocerylens.toml")
	contents := "[vision]\napi_key = \"file-vision\"\n\n[places]\napi_key = \"file-places\"\n"
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("GCV_API_KEY", "env-vision")
	t.Setenv("GOOGLE_MAPS_API_KEY", "env-places")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Vision.APIKey != "env-vision" {
		t.Errorf("expected vision key from env, got %q", cfg.Vision.APIKey)
	}
	if cfg.Places.APIKey != "env-places" {
		t.Errorf("expected places key from env, got %q", cfg.Places.APIKey)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "your_vision_api_key_here") {
		t.Fatalf("sample config missing placeholder vision key: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if !strings.Contains(cfg.Paths.DataDir, "grocerylens") {
		t.Fatalf("expected data dir to contain grocerylens, got %q", cfg.Paths.DataDir)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config should validate: %v", err)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"ratio above one", func(c *config.Config) { c.Ranking.StopwordRatio = 1.5 }, "ranking.stopword_ratio"},
		{"negative weight", func(c *config.Config) { c.Ranking.LabelWeight = -0.1 }, "ranking.label_weight"},
		{"negative max results", func(c *config.Config) { c.Ranking.MaxResults = -1 }, "ranking.max_results"},
		{"radius too large", func(c *config.Config) { c.Places.RadiusMeters = 60000 }, "places.radius_meters"},
		{"similarity above one", func(c *config.Config) { c.Matching.MinSimilarity = 2 }, "matching.min_similarity"},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad log level", func(c *config.Config) { c.Logging.Level = "trace" }, "logging.level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}
