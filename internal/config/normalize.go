package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSteam()
	c.normalizeIGDB()
	c.normalizeScrape()
	c.normalizeAssetCache()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSteam() {
	c.Steam.BaseURL = strings.TrimRight(strings.TrimSpace(c.Steam.BaseURL), "/")
	if c.Steam.BaseURL == "" {
		c.Steam.BaseURL = defaultSteamBaseURL
	}
	if c.Steam.TimeoutSeconds <= 0 {
		c.Steam.TimeoutSeconds = defaultSteamTimeoutSeconds
	}
	if c.Steam.Retries < 0 {
		c.Steam.Retries = defaultSteamRetries
	}
}

func (c *Config) normalizeIGDB() {
	if c.IGDB.ClientID == "" {
		if value, ok := os.LookupEnv("IGDB_CLIENT_ID"); ok {
			c.IGDB.ClientID = value
		}
	}
	if c.IGDB.ClientSecret == "" {
		if value, ok := os.LookupEnv("IGDB_CLIENT_SECRET"); ok {
			c.IGDB.ClientSecret = value
		}
	}
	c.IGDB.ClientID = strings.TrimSpace(c.IGDB.ClientID)
	c.IGDB.ClientSecret = strings.TrimSpace(c.IGDB.ClientSecret)
	c.IGDB.BaseURL = strings.TrimRight(strings.TrimSpace(c.IGDB.BaseURL), "/")
	if c.IGDB.BaseURL == "" {
		c.IGDB.BaseURL = defaultIGDBBaseURL
	}
	c.IGDB.AuthURL = strings.TrimSpace(c.IGDB.AuthURL)
	if c.IGDB.AuthURL == "" {
		c.IGDB.AuthURL = defaultIGDBAuthURL
	}
	if c.IGDB.TimeoutSeconds <= 0 {
		c.IGDB.TimeoutSeconds = defaultIGDBTimeoutSeconds
	}
}

func (c *Config) normalizeScrape() {
	if c.Scrape.AutoAcceptThreshold == 0 {
		c.Scrape.AutoAcceptThreshold = defaultAutoAcceptThreshold
	}
	if c.Scrape.ChunkSize == 0 {
		c.Scrape.ChunkSize = defaultChunkSize
	}
	if c.Scrape.RowThrottleMS == 0 {
		c.Scrape.RowThrottleMS = defaultRowThrottleMS
	}
	if c.Scrape.StallTimeoutSeconds == 0 {
		c.Scrape.StallTimeoutSeconds = defaultStallTimeoutSeconds
	}
	if c.Scrape.MaxCandidates == 0 {
		c.Scrape.MaxCandidates = defaultMaxCandidates
	}
}

func (c *Config) normalizeAssetCache() {
	if c.AssetCache.MinBytes == 0 {
		c.AssetCache.MinBytes = defaultAssetMinBytes
	}
	if c.AssetCache.MaxBytes == 0 {
		c.AssetCache.MaxBytes = defaultAssetMaxBytes
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
