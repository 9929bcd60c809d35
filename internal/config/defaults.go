package config

const (
	defaultDataDir  = "~/.local/share/ludex"
	defaultLogDir   = "~/.local/share/ludex/logs"
	defaultCacheDir = "~/.cache/ludex/assets"

	defaultSteamBaseURL        = "https://store.steampowered.com"
	defaultSteamTimeoutSeconds = 8
	defaultSteamRetries        = 2

	defaultIGDBBaseURL        = "https://api.igdb.com/v4"
	defaultIGDBAuthURL        = "https://id.twitch.tv/oauth2/token"
	defaultIGDBTimeoutSeconds = 8

	defaultAutoAcceptThreshold = 92
	defaultChunkSize           = 50
	defaultRowThrottleMS       = 120
	defaultStallTimeoutSeconds = 20
	defaultMaxCandidates       = 8

	defaultAssetMinBytes = 100
	defaultAssetMaxBytes = 25 << 20

	defaultNotifyRequestTimeout = 10

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:  defaultDataDir,
			LogDir:   defaultLogDir,
			CacheDir: defaultCacheDir,
		},
		Steam: Steam{
			BaseURL:        defaultSteamBaseURL,
			TimeoutSeconds: defaultSteamTimeoutSeconds,
			Retries:        defaultSteamRetries,
		},
		IGDB: IGDB{
			BaseURL:        defaultIGDBBaseURL,
			AuthURL:        defaultIGDBAuthURL,
			TimeoutSeconds: defaultIGDBTimeoutSeconds,
		},
		Scrape: Scrape{
			AutoAcceptThreshold: defaultAutoAcceptThreshold,
			ChunkSize:           defaultChunkSize,
			RowThrottleMS:       defaultRowThrottleMS,
			StallTimeoutSeconds: defaultStallTimeoutSeconds,
			MaxCandidates:       defaultMaxCandidates,
		},
		AssetCache: AssetCache{
			MinBytes: defaultAssetMinBytes,
			MaxBytes: defaultAssetMaxBytes,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Batch:          true,
			Review:         true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
