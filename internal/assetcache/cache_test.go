package assetcache

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"ludex/internal/catalog"
)

func newTestCache(t *testing.T, minBytes, maxBytes int64) *Cache {
	t.Helper()
	cache, err := NewAt(t.TempDir(), minBytes, maxBytes)
	if err != nil {
		t.Fatalf("NewAt returned error: %v", err)
	}
	return cache
}

func TestSaveAndHas(t *testing.T) {
	cache := newTestCache(t, 10, 1<<20)
	entry := &catalog.GameRecord{ID: 7, Title: "Hollow Knight"}

	rel, err := cache.Save(entry, "https://cdn.test/cover.jpg", bytes.Repeat([]byte("x"), 64))
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if !strings.HasPrefix(rel, "hollow_knight-7/") {
		t.Fatalf("unexpected relative path %q", rel)
	}
	if !strings.HasSuffix(rel, ".jpg") {
		t.Fatalf("extension not preserved: %q", rel)
	}
	if !cache.Has(rel) {
		t.Fatal("Has = false after Save")
	}
	if _, err := os.Stat(cache.Path(rel)); err != nil {
		t.Fatalf("asset missing on disk: %v", err)
	}
}

func TestSaveEnforcesSizeBounds(t *testing.T) {
	cache := newTestCache(t, 10, 100)
	entry := &catalog.GameRecord{ID: 1, Title: "Celeste"}

	if _, err := cache.Save(entry, "https://cdn.test/a.jpg", []byte("tiny")); !errors.Is(err, ErrTooSmall) {
		t.Fatalf("expected ErrTooSmall, got %v", err)
	}
	if _, err := cache.Save(entry, "https://cdn.test/b.jpg", bytes.Repeat([]byte("x"), 200)); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestSaveSameURLIsStable(t *testing.T) {
	cache := newTestCache(t, 0, 0)
	entry := &catalog.GameRecord{ID: 2, Title: "Factorio"}

	first, err := cache.Save(entry, "https://cdn.test/shot.png", []byte("data-1"))
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	second, err := cache.Save(entry, "https://cdn.test/shot.png", []byte("data-2"))
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if first != second {
		t.Fatalf("same URL produced different paths: %q, %q", first, second)
	}
}

func TestFetchDownloadsOnceAndReuses(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write(bytes.Repeat([]byte("x"), 64))
	}))
	defer server.Close()

	cache := newTestCache(t, 10, 1<<20)
	entry := &catalog.GameRecord{ID: 3, Title: "Outer Wilds"}
	ctx := context.Background()

	rel, err := cache.Fetch(ctx, entry, server.URL+"/cover.jpg")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	again, err := cache.Fetch(ctx, entry, server.URL+"/cover.jpg")
	if err != nil {
		t.Fatalf("second Fetch returned error: %v", err)
	}
	if rel != again || calls != 1 {
		t.Fatalf("expected cached reuse, got %d downloads", calls)
	}
}

func TestFetchRejectsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	cache := newTestCache(t, 0, 0)
	entry := &catalog.GameRecord{ID: 4, Title: "Missing"}
	if _, err := cache.Fetch(context.Background(), entry, server.URL+"/gone.jpg"); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestPurgeRemovesEntryAssets(t *testing.T) {
	cache := newTestCache(t, 0, 0)
	entry := &catalog.GameRecord{ID: 5, Title: "Celeste"}

	rel, err := cache.Save(entry, "https://cdn.test/cover.jpg", []byte("artwork"))
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := cache.Purge(entry); err != nil {
		t.Fatalf("Purge returned error: %v", err)
	}
	if cache.Has(rel) {
		t.Fatal("asset survived purge")
	}
}

func TestAssetFileNameFallsBackToBin(t *testing.T) {
	name := assetFileName("https://cdn.test/stream")
	if !strings.HasSuffix(name, ".bin") {
		t.Fatalf("expected .bin fallback, got %q", name)
	}
}
