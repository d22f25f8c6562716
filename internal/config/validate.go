package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. Vendor API keys are not
// required here: offline commands such as rank work without them, and the
// clients report a configuration error when a key is missing.
func (c *Config) Validate() error {
	if err := c.validateVision(); err != nil {
		return err
	}
	if err := c.validatePlaces(); err != nil {
		return err
	}
	if err := c.validateRanking(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateVision() error {
	if c.Vision.RetryAttempts < 0 {
		return errors.New("vision.retry_attempts must be zero or positive")
	}
	if c.Vision.MaxResults > 50 {
		return errors.New("vision.max_results must not exceed 50")
	}
	return nil
}

func (c *Config) validatePlaces() error {
	if c.Places.RadiusMeters < 0 || c.Places.RadiusMeters > maxPlacesRadius {
		return fmt.Errorf("places.radius_meters must be between 0 and %d", maxPlacesRadius)
	}
	return nil
}

// maxPlacesRadius is the vendor's upper bound for nearby search.
const maxPlacesRadius = 50000

func (c *Config) validateRanking() error {
	ratios := []struct {
		key   string
		value float64
	}{
		{"ranking.logo_default", c.Ranking.LogoDefault},
		{"ranking.web_guess_score", c.Ranking.WebGuessScore},
		{"ranking.web_entity_floor", c.Ranking.WebEntityFloor},
		{"ranking.web_entity_default", c.Ranking.WebEntityDefault},
		{"ranking.object_weight", c.Ranking.ObjectWeight},
		{"ranking.label_weight", c.Ranking.LabelWeight},
		{"ranking.stopword_ratio", c.Ranking.StopwordRatio},
		{"ranking.capital_ratio", c.Ranking.CapitalRatio},
	}
	for _, r := range ratios {
		if r.value < 0 || r.value > 1 {
			return fmt.Errorf("%s must be between 0 and 1", r.key)
		}
	}
	if c.Ranking.MaxOCRLines < 0 {
		return errors.New("ranking.max_ocr_lines must be zero or positive")
	}
	if c.Ranking.MaxResults < 0 {
		return errors.New("ranking.max_results must be zero or positive")
	}
	return nil
}

func (c *Config) validateMatching() error {
	if c.Matching.MinSimilarity < 0 || c.Matching.MinSimilarity > 1 {
		return errors.New("matching.min_similarity must be between 0 and 1")
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
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}
