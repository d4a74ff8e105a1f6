package app

import (
	"context"
	"fmt"
	"time"

	"github.com/nomadex/nomadex/internal/catalog"
	"github.com/nomadex/nomadex/internal/config"
	"github.com/nomadex/nomadex/internal/form"
	"github.com/nomadex/nomadex/internal/gallery"
	"github.com/nomadex/nomadex/internal/geo"
	"github.com/nomadex/nomadex/internal/session"
	"github.com/nomadex/nomadex/internal/store"
	"github.com/nomadex/nomadex/internal/ui"
)

// Options configure the Nomadex application.
type Options struct {
	ConfigPath   string
	SessionPath  string // empty uses default ~/.config/nomadex/session.toml
	RefreshEvery int    // seconds; zero uses the configured value
}

// Run boots the Nomadex TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	sess, err := session.Load(opts.SessionPath)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	client, err := store.NewClient(cfg.StoreURL)
	if err != nil {
		return fmt.Errorf("init store client: %w", err)
	}

	geocoder, err := geo.NewClient(cfg.GeocodeURL, cfg.Locale, cfg.ContactEmail)
	if err != nil {
		return fmt.Errorf("init geocoder: %w", err)
	}
	cache := geo.NewCache(geocoder, cfg.GeocodeCacheTTL)

	cat := catalog.NewController(client, cfg.Locale)
	author := form.NewController(sess.UserID, gallery.New())

	refreshEvery := cfg.RefreshInterval
	if opts.RefreshEvery > 0 {
		refreshEvery = time.Duration(opts.RefreshEvery) * time.Second
	}

	uiOpts := ui.Options{
		Context:      ctx,
		Catalog:      cat,
		Form:         author,
		Journals:     client,
		Geocoder:     cache,
		Session:      sess,
		SessionPath:  opts.SessionPath,
		RefreshEvery: refreshEvery,
	}
	return ui.Run(uiOpts)
}
