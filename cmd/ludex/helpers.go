package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"ludex/internal/catalog"
	"ludex/internal/config"
	"ludex/internal/metadata"
	"ludex/internal/services/igdb"
	"ludex/internal/services/steam"
)

func (c *commandContext) openStore() (*catalog.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := catalog.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open library database: %w", err)
	}
	return store, nil
}

func (c *commandContext) buildSources(cfg *config.Config) (store, library metadata.Source, err error) {
	steamClient, err := steam.New(
		cfg.Steam.BaseURL,
		time.Duration(cfg.Steam.TimeoutSeconds)*time.Second,
		steam.WithRetries(cfg.Steam.Retries),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create storefront client: %w", err)
	}

	tokens := igdb.NewTokenSource(cfg.IGDB.ClientID, cfg.IGDB.ClientSecret, cfg.IGDB.AuthURL, nil)
	igdbClient, err := igdb.New(
		cfg.IGDB.BaseURL,
		cfg.IGDB.ClientID,
		tokens,
		time.Duration(cfg.IGDB.TimeoutSeconds)*time.Second,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create catalog client: %w", err)
	}

	store = metadata.NewStoreSource(steamClient, cfg.Scrape.MaxCandidates)
	library = metadata.NewLibrarySource(igdbClient, cfg.Scrape.MaxCandidates)
	return store, library, nil
}

func (c *commandContext) buildPipeline(logger *slog.Logger) (*metadata.Pipeline, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	storeSource, librarySource, err := c.buildSources(cfg)
	if err != nil {
		return nil, err
	}
	pipeline, err := metadata.NewPipeline(storeSource, librarySource, cfg.Scrape.AutoAcceptThreshold, logger)
	if err != nil {
		return nil, fmt.Errorf("create resolution pipeline: %w", err)
	}
	return pipeline, nil
}

// findEntry accepts either a numeric database id or a title.
func findEntry(ctx context.Context, store *catalog.Store, arg string) (*catalog.GameRecord, error) {
	arg = strings.TrimSpace(arg)
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return store.GetByID(ctx, id)
	}
	return store.FindByTitle(ctx, arg)
}
