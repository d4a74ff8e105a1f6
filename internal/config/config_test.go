package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.StoreURL != defaultStoreURL {
		t.Fatalf("StoreURL = %q, want %q", cfg.StoreURL, defaultStoreURL)
	}
	if cfg.GeocodeURL != defaultGeocodeURL {
		t.Fatalf("GeocodeURL = %q, want %q", cfg.GeocodeURL, defaultGeocodeURL)
	}
	if cfg.Locale != defaultLocale {
		t.Fatalf("Locale = %q, want %q", cfg.Locale, defaultLocale)
	}
	if cfg.GeocodeCacheTTL != defaultCacheTTL {
		t.Fatalf("GeocodeCacheTTL = %v, want %v", cfg.GeocodeCacheTTL, defaultCacheTTL)
	}
	if cfg.RefreshInterval != 0 {
		t.Fatalf("RefreshInterval = %v, want disabled", cfg.RefreshInterval)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
store_url = "  http://10.0.0.5:3000  "
geocode_url = "https://nominatim.example.org"
locale = "en"
contact_email = "ops@example.org"
geocode_cache_ttl_seconds = 120
refresh_interval_seconds = 30
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.StoreURL != "http://10.0.0.5:3000" {
		t.Fatalf("StoreURL = %q, want trimmed value", cfg.StoreURL)
	}
	if cfg.GeocodeURL != "https://nominatim.example.org" {
		t.Fatalf("GeocodeURL = %q", cfg.GeocodeURL)
	}
	if cfg.Locale != "en" || cfg.ContactEmail != "ops@example.org" {
		t.Fatalf("Locale = %q, ContactEmail = %q", cfg.Locale, cfg.ContactEmail)
	}
	if cfg.GeocodeCacheTTL != 2*time.Minute {
		t.Fatalf("GeocodeCacheTTL = %v, want 2m", cfg.GeocodeCacheTTL)
	}
	if cfg.RefreshInterval != 30*time.Second {
		t.Fatalf("RefreshInterval = %v, want 30s", cfg.RefreshInterval)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
store_url = "   "
locale = ""
geocode_cache_ttl_seconds = 0
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.StoreURL != defaultStoreURL {
		t.Fatalf("StoreURL = %q, want %q", cfg.StoreURL, defaultStoreURL)
	}
	if cfg.Locale != defaultLocale {
		t.Fatalf("Locale = %q, want %q", cfg.Locale, defaultLocale)
	}
	if cfg.GeocodeCacheTTL != defaultCacheTTL {
		t.Fatalf("GeocodeCacheTTL = %v, want %v", cfg.GeocodeCacheTTL, defaultCacheTTL)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`store_url = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
