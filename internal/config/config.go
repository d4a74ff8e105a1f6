package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the fields Nomadex needs to reach its record store and
// the geocoding service.
type Config struct {
	StoreURL        string
	GeocodeURL      string
	Locale          string
	ContactEmail    string
	GeocodeCacheTTL time.Duration
	RefreshInterval time.Duration
}

const (
	defaultConfigPath      = "~/.config/nomadex/config.toml"
	defaultStoreURL        = "http://localhost:3000"
	defaultGeocodeURL      = "https://nominatim.openstreetmap.org"
	defaultLocale          = "fr"
	defaultContactEmail    = "contact@nomadex.app"
	defaultCacheTTL        = 10 * time.Minute
	defaultRefreshInterval = 0 // periodic refresh disabled unless configured
)

// Load locates and parses the Nomadex config, falling back to defaults when
// the file is missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		StoreURL:        defaultStoreURL,
		GeocodeURL:      defaultGeocodeURL,
		Locale:          defaultLocale,
		ContactEmail:    defaultContactEmail,
		GeocodeCacheTTL: defaultCacheTTL,
		RefreshInterval: defaultRefreshInterval,
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		StoreURL               string `toml:"store_url"`
		GeocodeURL             string `toml:"geocode_url"`
		Locale                 string `toml:"locale"`
		ContactEmail           string `toml:"contact_email"`
		GeocodeCacheTTLSeconds int64  `toml:"geocode_cache_ttl_seconds"`
		RefreshIntervalSeconds int64  `toml:"refresh_interval_seconds"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.StoreURL); v != "" {
		cfg.StoreURL = v
	}
	if v := strings.TrimSpace(raw.GeocodeURL); v != "" {
		cfg.GeocodeURL = v
	}
	if v := strings.TrimSpace(raw.Locale); v != "" {
		cfg.Locale = v
	}
	if v := strings.TrimSpace(raw.ContactEmail); v != "" {
		cfg.ContactEmail = v
	}
	if raw.GeocodeCacheTTLSeconds > 0 {
		cfg.GeocodeCacheTTL = time.Duration(raw.GeocodeCacheTTLSeconds) * time.Second
	}
	if raw.RefreshIntervalSeconds > 0 {
		cfg.RefreshInterval = time.Duration(raw.RefreshIntervalSeconds) * time.Second
	}

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
