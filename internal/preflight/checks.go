package preflight

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"grocerylens/internal/config"
	"grocerylens/internal/grocery"
	"grocerylens/internal/services/places"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckDatabase opens the list database and reports its schema version.
func CheckDatabase(ctx context.Context, cfg *config.Config) Result {
	const name = "Database"
	store, err := grocery.Open(cfg)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("open failed (%v)", err)}
	}
	defer store.Close()
	version, err := store.SchemaVersion(ctx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("schema check failed (%v)", err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (schema %s)", store.Path(), version)}
}

// CheckAPIKey reports whether a vendor key is configured.
func CheckAPIKey(name, key, setting, envVar string) Result {
	if strings.TrimSpace(key) == "" {
		return Result{Name: name, Detail: fmt.Sprintf("missing (set %s or %s)", setting, envVar)}
	}
	return Result{Name: name, Passed: true, Detail: "configured"}
}

// CheckPlaces issues a tiny nearby search to confirm the key is accepted.
func CheckPlaces(ctx context.Context, cfg *config.Config) Result {
	const name = "Places API"

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := places.NewClient(places.Config{
		APIKey:  cfg.Places.APIKey,
		BaseURL: cfg.Places.BaseURL,
		Keyword: cfg.Places.Keyword,
		Type:    cfg.Places.Type,
	})
	result, err := client.Nearby(checkCtx, places.Query{Lat: "0", Lng: "0", Radius: "1"})
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("request failed (%v)", err)}
	}
	switch result.Status {
	case "OK", "ZERO_RESULTS":
		return Result{Name: name, Passed: true, Detail: "Reachable"}
	case "REQUEST_DENIED":
		return Result{Name: name, Detail: "auth failed (" + strings.TrimSpace(result.ErrorMessage) + ")"}
	default:
		return Result{Name: name, Detail: fmt.Sprintf("unexpected status %s", result.Status)}
	}
}
