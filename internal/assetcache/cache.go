package assetcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"ludex/internal/catalog"
	"ludex/internal/config"
	"ludex/internal/textutil"
)

var (
	// ErrTooSmall flags a download that is almost certainly an error page or
	// placeholder rather than the asset.
	ErrTooSmall = errors.New("asset below minimum size")
	// ErrTooLarge flags a download past the configured ceiling.
	ErrTooLarge = errors.New("asset above maximum size")
)

// Cache stores downloaded artwork and microtrailers under a root directory,
// one subdirectory per library entry. Paths handed back are relative to the
// root so the library database stays portable.
type Cache struct {
	root     string
	minBytes int64
	maxBytes int64
	client   *http.Client
}

// New creates a cache rooted at the configured cache directory.
func New(cfg *config.Config) (*Cache, error) {
	if cfg == nil {
		return nil, errors.New("config required")
	}
	return NewAt(cfg.Paths.CacheDir, cfg.AssetCache.MinBytes, cfg.AssetCache.MaxBytes)
}

// NewAt creates a cache with explicit root and size bounds.
func NewAt(root string, minBytes, maxBytes int64) (*Cache, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("cache root required")
	}
	if maxBytes > 0 && minBytes >= maxBytes {
		return nil, fmt.Errorf("cache size bounds invalid: min %d, max %d", minBytes, maxBytes)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create cache root: %w", err)
	}
	return &Cache{
		root:     root,
		minBytes: minBytes,
		maxBytes: maxBytes,
		client:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Root returns the cache root directory.
func (c *Cache) Root() string {
	return c.root
}

// Save writes an asset and returns its path relative to the cache root. The
// size bounds reject truncated and runaway downloads.
func (c *Cache) Save(entry *catalog.GameRecord, rawURL string, data []byte) (string, error) {
	if entry == nil {
		return "", errors.New("entry required")
	}
	size := int64(len(data))
	if c.minBytes > 0 && size < c.minBytes {
		return "", fmt.Errorf("%w: %d bytes", ErrTooSmall, size)
	}
	if c.maxBytes > 0 && size > c.maxBytes {
		return "", fmt.Errorf("%w: %d bytes", ErrTooLarge, size)
	}

	rel := filepath.Join(entryDir(entry), assetFileName(rawURL))
	full := filepath.Join(c.root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create entry directory: %w", err)
	}

	tmp := full + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write asset: %w", err)
	}
	if err := os.Rename(tmp, full); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("finalize asset: %w", err)
	}
	return rel, nil
}

// Fetch downloads a URL and saves it for the entry. An asset already cached
// for this URL is returned without a network round trip.
func (c *Cache) Fetch(ctx context.Context, entry *catalog.GameRecord, rawURL string) (string, error) {
	if entry == nil {
		return "", errors.New("entry required")
	}
	rel := filepath.Join(entryDir(entry), assetFileName(rawURL))
	if c.Has(rel) {
		return rel, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download asset: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("asset download returned %d", resp.StatusCode)
	}

	limit := c.maxBytes
	if limit <= 0 {
		limit = 100 << 20
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return "", fmt.Errorf("read asset: %w", err)
	}
	return c.Save(entry, rawURL, data)
}

// Path resolves a relative cache path to an absolute one.
func (c *Cache) Path(rel string) string {
	return filepath.Join(c.root, rel)
}

// Has reports whether a relative cache path exists.
func (c *Cache) Has(rel string) bool {
	if rel == "" {
		return false
	}
	info, err := os.Stat(filepath.Join(c.root, rel))
	return err == nil && info.Mode().IsRegular()
}

// Purge removes an entry's cached assets.
func (c *Cache) Purge(entry *catalog.GameRecord) error {
	if entry == nil {
		return errors.New("entry required")
	}
	if err := os.RemoveAll(filepath.Join(c.root, entryDir(entry))); err != nil {
		return fmt.Errorf("purge entry cache: %w", err)
	}
	return nil
}

// entryDir names an entry's cache subdirectory from its sanitized title and
// database id, so renames never orphan assets within one session.
func entryDir(entry *catalog.GameRecord) string {
	return textutil.SanitizeToken(entry.Title) + "-" + strconv.FormatInt(entry.ID, 10)
}

// assetFileName derives a stable file name from the URL hash plus the URL's
// own extension.
func assetFileName(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	name := hex.EncodeToString(sum[:8])

	ext := ""
	if parsed, err := url.Parse(rawURL); err == nil {
		ext = strings.ToLower(path.Ext(parsed.Path))
	}
	if ext == "" || len(ext) > 8 {
		ext = ".bin"
	}
	return name + ext
}
