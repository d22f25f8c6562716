package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeVision()
	c.normalizePlaces()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeVision() {
	if value, ok := os.LookupEnv("GCV_API_KEY"); ok && strings.TrimSpace(value) != "" {
		c.Vision.APIKey = value
	}
	c.Vision.APIKey = strings.TrimSpace(c.Vision.APIKey)
	c.Vision.BaseURL = strings.TrimSpace(c.Vision.BaseURL)
	if c.Vision.BaseURL == "" {
		c.Vision.BaseURL = defaultVisionBaseURL
	}
	hints := make([]string, 0, len(c.Vision.LanguageHints))
	for _, hint := range c.Vision.LanguageHints {
		if hint = strings.ToLower(strings.TrimSpace(hint)); hint != "" {
			hints = append(hints, hint)
		}
	}
	c.Vision.LanguageHints = hints
	if c.Vision.MaxResults <= 0 {
		c.Vision.MaxResults = defaultVisionMaxResults
	}
	if c.Vision.TimeoutSeconds <= 0 {
		c.Vision.TimeoutSeconds = defaultVisionTimeout
	}
}

func (c *Config) normalizePlaces() {
	if value, ok := os.LookupEnv("GOOGLE_MAPS_API_KEY"); ok && strings.TrimSpace(value) != "" {
		c.Places.APIKey = value
	}
	c.Places.APIKey = strings.TrimSpace(c.Places.APIKey)
	c.Places.BaseURL = strings.TrimSpace(c.Places.BaseURL)
	if c.Places.BaseURL == "" {
		c.Places.BaseURL = defaultPlacesBaseURL
	}
	c.Places.Keyword = strings.TrimSpace(c.Places.Keyword)
	if c.Places.Keyword == "" {
		c.Places.Keyword = defaultPlacesKeyword
	}
	c.Places.Type = strings.TrimSpace(c.Places.Type)
	if c.Places.Type == "" {
		c.Places.Type = defaultPlacesType
	}
	if c.Places.TimeoutSeconds <= 0 {
		c.Places.TimeoutSeconds = defaultPlacesTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
