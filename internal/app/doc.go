// Package app provides the orchestration layer for the Nomadex application.
//
// # Overview
//
// This package wires together configuration, the record store client, the
// geocoding cache, the catalog and authoring controllers, and the UI to
// create the complete Nomadex TUI. It serves as the composition root where
// all dependencies are initialized and connected.
//
// # Architecture
//
// The app package follows a simple initialization pattern:
//
//  1. Load configuration from ~/.config/nomadex/config.toml
//  2. Load the session marker (user identity, theme preference)
//  3. Initialize the HTTP client for the record store
//  4. Initialize the geocoding client and wrap it in a TTL cache
//  5. Create the catalog sync controller and the authoring controller
//  6. Start the TUI and block until the user exits or the context cancels
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Configuration file invalid
//   - Store or geocoder client initialization failure
//
// Recoverable errors (surfaced as toasts, the UI keeps running):
//   - Catalog reload failures
//   - Save and delete failures
//   - Geocoding failures (degrade to empty suggestion lists)
//
// # Configuration
//
// The Options struct allows callers to customize:
//
//   - ConfigPath: path to config.toml (default: ~/.config/nomadex/config.toml)
//   - SessionPath: path to session.toml (default: ~/.config/nomadex/session.toml)
//   - RefreshEvery: periodic catalog refresh in seconds (default: from config)
//
// # Design Rationale
//
// This package intentionally keeps orchestration logic minimal and focused.
// Business logic lives in the domain packages (store, geo, catalog, form,
// ui). The app package simply connects these pieces with sensible defaults
// for the single-operator use case.
package app
