package main

import (
	"context"
	"io"

	"github.com/rotisserie/eris"

	"github.com/justsurfingit/lead-scout/internal/config"
	"github.com/justsurfingit/lead-scout/internal/database"
	"github.com/justsurfingit/lead-scout/internal/geo"
	"github.com/justsurfingit/lead-scout/internal/models"
	"github.com/justsurfingit/lead-scout/internal/provider"
	"github.com/justsurfingit/lead-scout/internal/storage"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openStorage returns the configured durable store and its closer.
func openStorage(ctx context.Context, c *config.Config) (storage.Storage, io.Closer, error) {
	switch c.Store.Driver {
	case "memory":
		return storage.NewMemory(), nopCloser{}, nil
	case "redis":
		r := storage.NewRedis(c.Redis.Addr, c.Redis.Password, c.Redis.DB)
		if err := r.Ping(ctx); err != nil {
			return nil, nil, err
		}
		return r, r, nil
	case "sqlite", "postgres":
		dsn := c.Store.DatabaseURL
		if c.Store.Driver == "sqlite" {
			dsn = c.Store.SQLitePath
		}
		db, err := database.Connect(c.Store.Driver, dsn)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, eris.Wrap(err, "database: handle")
		}
		return database.NewKVStore(db), sqlDB, nil
	}
	return nil, nil, eris.Errorf("unknown store driver %q", c.Store.Driver)
}

// openProviders returns the discovery provider and, when configured
// separately, the enrichment provider.
func openProviders(ctx context.Context, c *config.Config) (provider.Provider, provider.Provider, error) {
	switch c.Provider.Name {
	case "gemini":
		discovery, err := provider.NewGemini(ctx, c.Gemini.Key, c.Gemini.Model)
		if err != nil {
			return nil, nil, err
		}
		if c.Gemini.EnrichModel == "" || c.Gemini.EnrichModel == c.Gemini.Model {
			return discovery, nil, nil
		}
		enrich, err := provider.NewGemini(ctx, c.Gemini.Key, c.Gemini.EnrichModel)
		if err != nil {
			return nil, nil, err
		}
		return discovery, enrich, nil
	case "anthropic":
		p, err := provider.NewAnthropic(c.Anthropic.Key, c.Anthropic.Model, c.Anthropic.MaxTokens)
		return p, nil, err
	case "perplexity":
		p, err := provider.NewPerplexity(c.Perplexity.Key,
			provider.WithPerplexityBaseURL(c.Perplexity.BaseURL),
			provider.WithPerplexityModel(c.Perplexity.Model),
		)
		return p, nil, err
	}
	return nil, nil, eris.Errorf("unknown provider %q", c.Provider.Name)
}

// locator picks fixed coordinates when configured, otherwise an IP lookup
// when enabled.
func locator(c *config.Config) geo.Locator {
	if c.Geo.Latitude != 0 || c.Geo.Longitude != 0 {
		return geo.Static{Coordinates: models.Coordinates{Latitude: c.Geo.Latitude, Longitude: c.Geo.Longitude}}
	}
	if c.Geo.Enabled {
		return geo.NewIPLookup(c.Geo.LookupURL)
	}
	return nil
}
