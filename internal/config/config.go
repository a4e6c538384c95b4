// Package config loads the place picker's settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Geolocation provider names.
const (
	ProviderNone      = "none"
	ProviderStatic    = "static"
	ProviderGeoClue   = "geoclue"
	ProviderNominatim = "nominatim"
)

// Config holds the application's configuration.
type Config struct {
	BackendURL  string
	HTTPTimeout time.Duration

	Geolocation      string
	GeolocationGrace time.Duration
	Latitude         float64
	Longitude        float64
	LocateQuery      string
	NominatimServer  string
	GeoClueDesktopID string
}

// Load reads the configuration from the environment. Values in the optional
// .env files are applied first without overriding variables already set.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read env file: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function such as os.Getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		BackendURL:       valueOr(getenv("PLACEPICKER_BACKEND_URL"), "http://localhost:3000"),
		Geolocation:      strings.ToLower(valueOr(getenv("PLACEPICKER_GEOLOCATION"), ProviderNone)),
		LocateQuery:      getenv("PLACEPICKER_LOCATE_QUERY"),
		NominatimServer:  getenv("PLACEPICKER_NOMINATIM_SERVER"),
		GeoClueDesktopID: valueOr(getenv("PLACEPICKER_GEOCLUE_DESKTOP_ID"), "placepicker"),
	}

	var err error
	if cfg.HTTPTimeout, err = parseDuration(getenv, "PLACEPICKER_HTTP_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.GeolocationGrace, err = parseDuration(getenv, "PLACEPICKER_GEOLOCATION_GRACE", 5*time.Second); err != nil {
		return Config{}, err
	}

	switch cfg.Geolocation {
	case ProviderNone, ProviderGeoClue:
	case ProviderStatic:
		if cfg.Latitude, err = parseCoordinate(getenv, "PLACEPICKER_LAT", 90); err != nil {
			return Config{}, err
		}
		if cfg.Longitude, err = parseCoordinate(getenv, "PLACEPICKER_LON", 180); err != nil {
			return Config{}, err
		}
	case ProviderNominatim:
		if strings.TrimSpace(cfg.LocateQuery) == "" {
			return Config{}, errors.New("PLACEPICKER_LOCATE_QUERY must be set for the nominatim provider")
		}
	default:
		return Config{}, fmt.Errorf("unknown geolocation provider %q", cfg.Geolocation)
	}
	return cfg, nil
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func parseDuration(getenv func(string) string, key string, fallback time.Duration) (time.Duration, error) {
	raw := getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a non-negative duration", key, raw)
	}
	return d, nil
}

func parseCoordinate(getenv func(string) string, key string, limit float64) (float64, error) {
	raw := getenv(key)
	if raw == "" {
		return 0, fmt.Errorf("%s must be set for the static provider", key)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < -limit || v > limit {
		return 0, fmt.Errorf("invalid %s %q: must be within ±%g", key, raw, limit)
	}
	return v, nil
}
