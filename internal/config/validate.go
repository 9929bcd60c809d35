package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScrape(); err != nil {
		return err
	}
	if err := c.validateIGDB(); err != nil {
		return err
	}
	if err := c.validateAssetCache(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateScrape() error {
	if c.Scrape.AutoAcceptThreshold < 0 || c.Scrape.AutoAcceptThreshold > 100 {
		return errors.New("scrape.auto_accept_threshold must be between 0 and 100")
	}
	if c.Scrape.ChunkSize < 1 {
		return errors.New("scrape.chunk_size must be positive")
	}
	if c.Scrape.RowThrottleMS < 50 || c.Scrape.RowThrottleMS > 150 {
		return errors.New("scrape.row_throttle_ms must be between 50 and 150")
	}
	if c.Scrape.StallTimeoutSeconds < 1 {
		return errors.New("scrape.stall_timeout_seconds must be positive")
	}
	if c.Scrape.MaxCandidates < 1 {
		return errors.New("scrape.max_candidates must be positive")
	}
	return nil
}

func (c *Config) validateIGDB() error {
	// Credentials are optional; catalog lookups degrade to empty results
	// without them. A half-configured pair is always a mistake though.
	hasID := strings.TrimSpace(c.IGDB.ClientID) != ""
	hasSecret := strings.TrimSpace(c.IGDB.ClientSecret) != ""
	if hasID != hasSecret {
		return errors.New("igdb.client_id and igdb.client_secret must be set together (or set IGDB_CLIENT_ID / IGDB_CLIENT_SECRET)")
	}
	if strings.TrimSpace(c.IGDB.BaseURL) == "" {
		return errors.New("igdb.base_url must be set")
	}
	if strings.TrimSpace(c.IGDB.AuthURL) == "" {
		return errors.New("igdb.auth_url must be set")
	}
	return nil
}

func (c *Config) validateAssetCache() error {
	if c.AssetCache.MinBytes < 0 {
		return errors.New("asset_cache.min_bytes must be >= 0")
	}
	if c.AssetCache.MaxBytes <= c.AssetCache.MinBytes {
		return fmt.Errorf("asset_cache.max_bytes must be greater than asset_cache.min_bytes (%d)", c.AssetCache.MinBytes)
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}
