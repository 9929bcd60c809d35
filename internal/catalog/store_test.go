package catalog_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"ludex/internal/catalog"
)

func newTestStore(t *testing.T) *catalog.Store {
	t.Helper()
	store, err := catalog.OpenPath(filepath.Join(t.TempDir(), "library.db"))
	if err != nil {
		t.Fatalf("OpenPath returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAddAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	added, err := store.Add(ctx, &catalog.GameRecord{
		Title:       "Hollow Knight",
		StoreID:     "367520",
		Genres:      "Metroidvania, Platformer",
		Screenshots: []string{"https://example.test/a.jpg", "https://example.test/b.jpg"},
		UserRating:  92.5,
	})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if added.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if added.CreatedAt.IsZero() || added.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set")
	}

	got, err := store.GetByID(ctx, added.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if got.Title != "Hollow Knight" || got.StoreID != "367520" {
		t.Fatalf("unexpected record: %+v", got)
	}
	if len(got.Screenshots) != 2 || got.Screenshots[0] != "https://example.test/a.jpg" {
		t.Fatalf("screenshots did not round-trip: %v", got.Screenshots)
	}
	if got.UserRating != 92.5 {
		t.Fatalf("user rating did not round-trip: %v", got.UserRating)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetByID(context.Background(), 9999)
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFindByTitleCaseInsensitive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Add(ctx, &catalog.GameRecord{Title: "Celeste"}); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	got, err := store.FindByTitle(ctx, "celeste")
	if err != nil {
		t.Fatalf("FindByTitle returned error: %v", err)
	}
	if got.Title != "Celeste" {
		t.Fatalf("unexpected title %q", got.Title)
	}
}

func TestUpdatePersistsChanges(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	game, err := store.Add(ctx, &catalog.GameRecord{Title: "Factorio"})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	game.CatalogID = "7046"
	game.Developer = "Wube Software"
	game.Microtrailers = []string{"https://example.test/micro.webm"}
	if err := store.Update(ctx, game); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	got, err := store.GetByID(ctx, game.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if got.CatalogID != "7046" || got.Developer != "Wube Software" {
		t.Fatalf("update did not persist: %+v", got)
	}
	if len(got.Microtrailers) != 1 {
		t.Fatalf("microtrailers did not persist: %v", got.Microtrailers)
	}
}

func TestUnresolvedFiltersBothIdentifiers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	records := []*catalog.GameRecord{
		{Title: "Both", StoreID: "1", CatalogID: "10"},
		{Title: "Store Only", StoreID: "2"},
		{Title: "Catalog Only", CatalogID: "20"},
		{Title: "Neither"},
	}
	for _, rec := range records {
		if _, err := store.Add(ctx, rec); err != nil {
			t.Fatalf("Add(%s) returned error: %v", rec.Title, err)
		}
	}

	unresolved, err := store.Unresolved(ctx)
	if err != nil {
		t.Fatalf("Unresolved returned error: %v", err)
	}
	if len(unresolved) != 3 {
		t.Fatalf("expected 3 unresolved entries, got %d", len(unresolved))
	}
	// Insertion order preserved.
	if unresolved[0].Title != "Store Only" || unresolved[2].Title != "Neither" {
		t.Fatalf("unexpected order: %q, %q, %q", unresolved[0].Title, unresolved[1].Title, unresolved[2].Title)
	}
}

func TestRemove(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	game, err := store.Add(ctx, &catalog.GameRecord{Title: "Outer Wilds"})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	removed, err := store.Remove(ctx, game.ID)
	if err != nil || !removed {
		t.Fatalf("Remove = %v, %v; want true, nil", removed, err)
	}
	removed, err = store.Remove(ctx, game.ID)
	if err != nil || removed {
		t.Fatalf("second Remove = %v, %v; want false, nil", removed, err)
	}
}

func TestAcquireBatchLockExcludes(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	release, err := store.AcquireBatchLock(ctx)
	if err != nil {
		t.Fatalf("AcquireBatchLock returned error: %v", err)
	}
	defer release()

	shortCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	if _, err := store.AcquireBatchLock(shortCtx); err == nil {
		t.Fatal("expected second lock acquisition to fail while held")
	}

	release()
	release2, err := store.AcquireBatchLock(ctx)
	if err != nil {
		t.Fatalf("lock after release returned error: %v", err)
	}
	release2()
}

func TestIsResolved(t *testing.T) {
	tests := []struct {
		name string
		rec  catalog.GameRecord
		want bool
	}{
		{"both set", catalog.GameRecord{StoreID: "1", CatalogID: "2"}, true},
		{"store only", catalog.GameRecord{StoreID: "1"}, false},
		{"catalog only", catalog.GameRecord{CatalogID: "2"}, false},
		{"whitespace ids", catalog.GameRecord{StoreID: " ", CatalogID: "2"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.IsResolved(); got != tt.want {
				t.Errorf("IsResolved() = %v, want %v", got, tt.want)
			}
		})
	}
}
