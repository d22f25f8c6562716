package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"grocerylens/internal/config"
	"grocerylens/internal/grocery"
	"grocerylens/internal/labels"
	"grocerylens/internal/logging"
	"grocerylens/internal/services/places"
	"grocerylens/internal/services/vision"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configSeen = exists
	})
	return c.config, c.configErr
}

// ensureLogger builds the logger for one-shot commands. Records go to the
// log file only so stdout stays clean for tables and JSON.
func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.New(logging.Options{
			Level:       cfg.Logging.Level,
			Format:      "json",
			OutputPaths: []string{filepath.Join(cfg.Paths.LogDir, "grocerylens.log")},
		})
		if err != nil {
			c.loggerErr = fmt.Errorf("init logger: %w", err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// serverLogger builds the console plus file logger used by serve.
func (c *commandContext) serverLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}

func (c *commandContext) ranker() *labels.Ranker {
	cfg, err := c.ensureConfig()
	if err != nil || cfg == nil {
		return labels.NewRanker(labels.DefaultThresholds())
	}
	return labels.NewRanker(cfg.RankingThresholds())
}

func (c *commandContext) withStore(fn func(*grocery.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := grocery.Open(cfg)
	if err != nil {
		return fmt.Errorf("open grocery store: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func newVisionClient(cfg *config.Config, logger *slog.Logger) *vision.Client {
	opts := []vision.Option{vision.WithLogger(logger)}
	if cfg.Vision.RetryAttempts > 0 {
		opts = append(opts, vision.WithRetryMaxAttempts(cfg.Vision.RetryAttempts))
	}
	return vision.NewClient(vision.Config{
		APIKey:         cfg.Vision.APIKey,
		BaseURL:        cfg.Vision.BaseURL,
		LanguageHints:  cfg.Vision.LanguageHints,
		MaxResults:     cfg.Vision.MaxResults,
		TimeoutSeconds: cfg.Vision.TimeoutSeconds,
	}, opts...)
}

func newPlacesClient(cfg *config.Config, logger *slog.Logger) *places.Client {
	return places.NewClient(places.Config{
		APIKey:         cfg.Places.APIKey,
		BaseURL:        cfg.Places.BaseURL,
		RadiusMeters:   cfg.Places.RadiusMeters,
		Keyword:        cfg.Places.Keyword,
		Type:           cfg.Places.Type,
		TimeoutSeconds: cfg.Places.TimeoutSeconds,
	}, places.WithLogger(logger))
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
