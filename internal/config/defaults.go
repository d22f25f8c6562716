package config

const (
	defaultConfigPath          = "~/.config/grocerylens/config.toml"
	defaultDataDir             = "~/.local/share/grocerylens"
	defaultLogDir              = "~/.local/share/grocerylens/logs"
	defaultAPIBind             = "127.0.0.1:7488"
	defaultVisionBaseURL       = "https://vision.googleapis.com/v1/images:annotate"
	defaultVisionMaxResults    = 5
	defaultVisionTimeout       = 20
	defaultVisionRetryAttempts = 3
	defaultPlacesBaseURL       = "https://maps.googleapis.com/maps/api/place/nearbysearch/json"
	defaultPlacesRadius        = 3000
	defaultPlacesKeyword       = "grocery"
	defaultPlacesType          = "supermarket"
	defaultPlacesTimeout       = 10
	defaultMinSimilarity       = 0.5
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Vision: Vision{
			BaseURL:        defaultVisionBaseURL,
			LanguageHints:  []string{"en"},
			MaxResults:     defaultVisionMaxResults,
			TimeoutSeconds: defaultVisionTimeout,
			RetryAttempts:  defaultVisionRetryAttempts,
		},
		Places: Places{
			BaseURL:        defaultPlacesBaseURL,
			RadiusMeters:   defaultPlacesRadius,
			Keyword:        defaultPlacesKeyword,
			Type:           defaultPlacesType,
			TimeoutSeconds: defaultPlacesTimeout,
		},
		Matching: Matching{
			MinSimilarity: defaultMinSimilarity,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
