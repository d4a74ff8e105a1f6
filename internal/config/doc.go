// Package config handles loading and parsing the Nomadex configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/nomadex/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Config file: ~/.config/nomadex/config.toml
//   - Record store: http://localhost:3000
//   - Geocoding service: https://nominatim.openstreetmap.org
//   - Locale: fr
//   - Geocode cache TTL: 10 minutes
//   - Periodic refresh: disabled
//
// # TOML Format
//
// Example config.toml:
//
//	store_url = "http://localhost:3000"
//	geocode_url = "https://nominatim.openstreetmap.org"
//	locale = "fr"
//	contact_email = "contact@nomadex.app"
//	geocode_cache_ttl_seconds = 600
//	refresh_interval_seconds = 0
//
// All fields are optional. Tilde expansion is performed on the config path.
//
// # Error Handling
//
// Load returns errors for path expansion failures, file read errors (except
// os.ErrNotExist, which triggers defaults) and TOML parsing errors. A missing
// config file is NOT an error; Nomadex works out of the box against a local
// json-server on the default port.
//
// The package is read-only and stateless: it loads configuration once at
// startup and returns an immutable Config struct.
package config
