// Package config loads, normalizes, and validates grocerylens configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// GCV_API_KEY and GOOGLE_MAPS_API_KEY. The Config type centralizes the data
// directory, vendor credentials, ranking thresholds and logging settings so
// the CLI and the HTTP server discover everything in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
