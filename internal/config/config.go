package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"grocerylens/internal/labels"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
	APIBind string `toml:"api_bind"`
}

// Vision contains configuration for the Cloud Vision images:annotate API.
type Vision struct {
	APIKey         string   `toml:"api_key"`
	BaseURL        string   `toml:"base_url"`
	LanguageHints  []string `toml:"language_hints"`
	MaxResults     int      `toml:"max_results"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
	RetryAttempts  int      `toml:"retry_attempts"`
}

// Places contains configuration for the nearby grocery store lookup.
type Places struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	RadiusMeters   int    `toml:"radius_meters"`
	Keyword        string `toml:"keyword"`
	Type           string `toml:"type"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Ranking overrides the label ranker's scoring constants. Zero values keep
// the built-in defaults.
type Ranking struct {
	LogoDefault      float64 `toml:"logo_default"`
	WebGuessScore    float64 `toml:"web_guess_score"`
	WebEntityFloor   float64 `toml:"web_entity_floor"`
	WebEntityDefault float64 `toml:"web_entity_default"`
	ObjectWeight     float64 `toml:"object_weight"`
	LabelWeight      float64 `toml:"label_weight"`
	StopwordRatio    float64 `toml:"stopword_ratio"`
	CapitalRatio     float64 `toml:"capital_ratio"`
	MaxOCRLines      int     `toml:"max_ocr_lines"`
	MaxResults       int     `toml:"max_results"`
}

// Matching controls how scan candidates are matched to open list items.
type Matching struct {
	MinSimilarity float64 `toml:"min_similarity"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for grocerylens.
//
// Configuration sections by subsystem:
//   - Paths: data/log directories and API bind address
//   - Vision: Cloud Vision credentials and request shape
//   - Places: nearby store search credentials and defaults
//   - Ranking: label ranker threshold overrides
//   - Matching: candidate to list item matching
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Vision   Vision   `toml:"vision"`
	Places   Places   `toml:"places"`
	Ranking  Ranking  `toml:"ranking"`
	Matching Matching `toml:"matching"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("grocerylens.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the location of the grocery list database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "grocerylens.db")
}

// LockPath returns the file used to keep a single server per data directory.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "grocerylens.lock")
}

// RankingThresholds merges configured overrides onto the default ranker thresholds.
func (c *Config) RankingThresholds() labels.Thresholds {
	th := labels.DefaultThresholds()
	r := c.Ranking
	if r.LogoDefault > 0 {
		th.LogoDefault = r.LogoDefault
	}
	if r.WebGuessScore > 0 {
		th.WebGuessScore = r.WebGuessScore
	}
	if r.WebEntityFloor > 0 {
		th.WebEntityFloor = r.WebEntityFloor
	}
	if r.WebEntityDefault > 0 {
		th.WebEntityDefault = r.WebEntityDefault
	}
	if r.ObjectWeight > 0 {
		th.ObjectWeight = r.ObjectWeight
	}
	if r.LabelWeight > 0 {
		th.LabelWeight = r.LabelWeight
	}
	if r.StopwordRatio > 0 {
		th.OCRStopwordRatio = r.StopwordRatio
	}
	if r.CapitalRatio > 0 {
		th.OCRCapitalRatio = r.CapitalRatio
	}
	if r.MaxOCRLines > 0 {
		th.OCRMaxLines = r.MaxOCRLines
	}
	if r.MaxResults > 0 {
		th.MaxResults = r.MaxResults
	}
	return th
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
