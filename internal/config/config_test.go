package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ludex/internal/config"
)

func TestLoadDefaultsUseEnvCredentialsAndExpandPaths(t *testing.T) {
	t.Setenv("IGDB_CLIENT_ID", "env-id")
	t.Setenv("IGDB_CLIENT_SECRET", "env-secret")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "ludex")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.CacheDir != filepath.Join(tempHome, ".cache", "ludex", "assets") {
		t.Fatalf("unexpected cache dir: %q", cfg.Paths.CacheDir)
	}
	if cfg.IGDB.ClientID != "env-id" || cfg.IGDB.ClientSecret != "env-secret" {
		t.Fatalf("expected IGDB credentials from env, got %q / %q", cfg.IGDB.ClientID, cfg.IGDB.ClientSecret)
	}
	if !cfg.HasIGDBCredentials() {
		t.Fatal("expected HasIGDBCredentials to be true")
	}
	if cfg.Scrape.AutoAcceptThreshold != 92 {
		t.Fatalf("unexpected auto-accept threshold: %d", cfg.Scrape.AutoAcceptThreshold)
	}
	if cfg.Scrape.ChunkSize != 50 {
		t.Fatalf("unexpected chunk size: %d", cfg.Scrape.ChunkSize)
	}
	if cfg.Scrape.RowThrottleMS != 120 {
		t.Fatalf("unexpected row throttle: %d", cfg.Scrape.RowThrottleMS)
	}
	if cfg.DatabasePath() != filepath.Join(wantData, "library.db") {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}
}

func TestLoadParsesExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := strings.Join([]string{
		"[paths]",
		`data_dir = "` + filepath.Join(dir, "data") + `"`,
		`log_dir = "` + filepath.Join(dir, "logs") + `"`,
		`cache_dir = "` + filepath.Join(dir, "cache") + `"`,
		"",
		"[scrape]",
		"auto_accept_threshold = 88",
		"chunk_size = 10",
		"row_throttle_ms = 60",
		"",
		"[logging]",
		`format = "JSON"`,
		`level = "Debug"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %q to be used, got %q exists=%v", path, resolved, exists)
	}
	if cfg.Scrape.AutoAcceptThreshold != 88 {
		t.Fatalf("unexpected threshold: %d", cfg.Scrape.AutoAcceptThreshold)
	}
	if cfg.Scrape.ChunkSize != 10 {
		t.Fatalf("unexpected chunk size: %d", cfg.Scrape.ChunkSize)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected lowercased logging settings, got %q / %q", cfg.Logging.Format, cfg.Logging.Level)
	}
	// Unset sections keep defaults.
	if cfg.Steam.BaseURL != config.Default().Steam.BaseURL {
		t.Fatalf("unexpected steam base url: %q", cfg.Steam.BaseURL)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantSub string
	}{
		{
			name:    "threshold out of range",
			mutate:  func(c *config.Config) { c.Scrape.AutoAcceptThreshold = 101 },
			wantSub: "auto_accept_threshold",
		},
		{
			name:    "negative chunk size",
			mutate:  func(c *config.Config) { c.Scrape.ChunkSize = -1 },
			wantSub: "chunk_size",
		},
		{
			name:    "throttle too aggressive",
			mutate:  func(c *config.Config) { c.Scrape.RowThrottleMS = 10 },
			wantSub: "row_throttle_ms",
		},
		{
			name:    "half-configured igdb credentials",
			mutate:  func(c *config.Config) { c.IGDB.ClientID = "only-id" },
			wantSub: "client_secret",
		},
		{
			name:    "inverted asset bounds",
			mutate:  func(c *config.Config) { c.AssetCache.MinBytes = 100; c.AssetCache.MaxBytes = 50 },
			wantSub: "max_bytes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Fatalf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	t.Setenv("IGDB_CLIENT_ID", "")
	t.Setenv("IGDB_CLIENT_SECRET", "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load of sample returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Scrape.AutoAcceptThreshold != config.Default().Scrape.AutoAcceptThreshold {
		t.Fatalf("sample should carry default threshold, got %d", cfg.Scrape.AutoAcceptThreshold)
	}
	if cfg.HasIGDBCredentials() {
		t.Fatal("sample config should not carry credentials")
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.CacheDir = filepath.Join(base, "cache")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir, cfg.Paths.CacheDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
	}
}
