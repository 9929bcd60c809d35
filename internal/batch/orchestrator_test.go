package batch

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"ludex/internal/catalog"
	"ludex/internal/metadata"
)

// scriptedSource serves canned candidates and records for pipeline wiring in
// orchestrator tests.
type scriptedSource struct {
	tag         metadata.SourceTag
	candidates  map[string][]metadata.Candidate
	records     map[string]*metadata.Record
	searchDelay time.Duration
}

func (s *scriptedSource) Tag() metadata.SourceTag { return s.tag }

func (s *scriptedSource) Search(ctx context.Context, title string) ([]metadata.Candidate, error) {
	if s.searchDelay > 0 {
		time.Sleep(s.searchDelay)
	}
	return s.candidates[title], nil
}

func (s *scriptedSource) Fetch(ctx context.Context, id string) (*metadata.Record, error) {
	if rec, ok := s.records[id]; ok {
		clone := *rec
		return &clone, nil
	}
	return nil, errors.New("unknown id")
}

func (s *scriptedSource) Minimal(title string) *metadata.Record {
	return &metadata.Record{Source: s.tag}
}

// pickFirst accepts the top candidate for every ambiguous row.
type pickFirst struct {
	picks     int
	overwrite bool
}

func (p *pickFirst) Pick(entry *catalog.GameRecord, candidates []metadata.Candidate) (*metadata.Candidate, bool, error) {
	p.picks++
	if len(candidates) == 0 {
		return nil, false, nil
	}
	return &candidates[0], p.overwrite, nil
}

// pickNothing declines every ambiguous row.
type pickNothing struct{}

func (pickNothing) Pick(entry *catalog.GameRecord, candidates []metadata.Candidate) (*metadata.Candidate, bool, error) {
	return nil, false, nil
}

func newTestStore(t *testing.T) *catalog.Store {
	t.Helper()
	store, err := catalog.OpenPath(filepath.Join(t.TempDir(), "library.db"))
	if err != nil {
		t.Fatalf("OpenPath returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newTestOrchestrator(t *testing.T, store *catalog.Store, library metadata.Source, picker Picker, opts Options) *Orchestrator {
	t.Helper()
	storeSource := &scriptedSource{tag: metadata.SourceStore}
	pipeline, err := metadata.NewPipeline(storeSource, library, 92, nil)
	if err != nil {
		t.Fatalf("NewPipeline returned error: %v", err)
	}
	orch, err := New(store, pipeline, picker, opts, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return orch
}

func drainEvents(orch *Orchestrator) map[EventKind]int {
	counts := make(map[EventKind]int)
	for event := range orch.Events() {
		counts[event.Kind]++
	}
	return counts
}

func TestRunResolvesAndAppliesMetadata(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entry, err := store.Add(ctx, &catalog.GameRecord{Title: "Good Game"})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	library := &scriptedSource{
		tag: metadata.SourceLibrary,
		candidates: map[string][]metadata.Candidate{
			"Good Game": {{ID: "10", Name: "Good Game", Score: 95, Source: metadata.SourceLibrary}},
		},
		records: map[string]*metadata.Record{
			"10": {
				Source:    metadata.SourceLibrary,
				CatalogID: "10",
				Title:     "Good Game",
				Developer: "Good Studio",
			},
		},
	}

	orch := newTestOrchestrator(t, store, library, nil, Options{})
	stats, err := orch.Run(ctx, []*catalog.GameRecord{entry})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if stats.Successful != 1 || stats.Failed != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	got, err := store.GetByID(ctx, entry.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if got.CatalogID != "10" || got.Developer != "Good Studio" {
		t.Fatalf("metadata not applied: %+v", got)
	}
}

func TestRunSkipsResolvedAndFailsUnmatched(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	resolved, err := store.Add(ctx, &catalog.GameRecord{Title: "Done", StoreID: "1", CatalogID: "2"})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	unknown, err := store.Add(ctx, &catalog.GameRecord{Title: "No Such Game"})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	library := &scriptedSource{tag: metadata.SourceLibrary}
	orch := newTestOrchestrator(t, store, library, nil, Options{})
	stats, err := orch.Run(ctx, []*catalog.GameRecord{resolved, unknown})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if stats.Skipped != 1 || stats.Failed != 1 || stats.Successful != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	counts := drainEvents(orch)
	if counts[EventRowSkipped] != 1 || counts[EventRowFailed] != 1 {
		t.Fatalf("unexpected events: %v", counts)
	}
}

func TestRunQueuesAmbiguousAndDrainsManually(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entry, err := store.Add(ctx, &catalog.GameRecord{Title: "Vague Game"})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	library := &scriptedSource{
		tag: metadata.SourceLibrary,
		candidates: map[string][]metadata.Candidate{
			"Vague Game": {
				{ID: "20", Name: "Vague Game Remastered", Score: 60, Source: metadata.SourceLibrary},
				{ID: "21", Name: "Vague Game II", Score: 55, Source: metadata.SourceLibrary},
			},
		},
		records: map[string]*metadata.Record{
			"20": {Source: metadata.SourceLibrary, CatalogID: "20", Title: "Vague Game Remastered"},
		},
	}

	picker := &pickFirst{}
	orch := newTestOrchestrator(t, store, library, picker, Options{})
	stats, err := orch.Run(ctx, []*catalog.GameRecord{entry})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if picker.picks != 1 {
		t.Fatalf("picker called %d times", picker.picks)
	}
	if stats.Successful != 1 || stats.ManualNeeded != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	got, err := store.GetByID(ctx, entry.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if got.CatalogID != "20" {
		t.Fatalf("manual pick not applied: %+v", got)
	}

	counts := drainEvents(orch)
	if counts[EventRowQueued] != 1 || counts[EventManualResolved] != 1 {
		t.Fatalf("unexpected events: %v", counts)
	}
}

func TestRunDeclinedPickCountsFailed(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entry, err := store.Add(ctx, &catalog.GameRecord{Title: "Vague Game"})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	library := &scriptedSource{
		tag: metadata.SourceLibrary,
		candidates: map[string][]metadata.Candidate{
			"Vague Game": {{ID: "20", Name: "Vague-ish", Score: 50, Source: metadata.SourceLibrary}},
		},
	}

	orch := newTestOrchestrator(t, store, library, pickNothing{}, Options{})
	stats, err := orch.Run(ctx, []*catalog.GameRecord{entry})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if stats.Failed != 1 || stats.ManualNeeded != 0 || stats.Successful != 0 {
		t.Fatalf("declined pick must count as failed: %+v", stats)
	}

	counts := drainEvents(orch)
	if counts[EventRowQueued] != 1 || counts[EventRowFailed] != 1 {
		t.Fatalf("unexpected events: %v", counts)
	}
}

func TestRunNilPickerLeavesRowsManual(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entry, err := store.Add(ctx, &catalog.GameRecord{Title: "Vague Game"})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	library := &scriptedSource{
		tag: metadata.SourceLibrary,
		candidates: map[string][]metadata.Candidate{
			"Vague Game": {{ID: "20", Name: "Vague-ish", Score: 50, Source: metadata.SourceLibrary}},
		},
	}

	orch := newTestOrchestrator(t, store, library, nil, Options{})
	stats, err := orch.Run(ctx, []*catalog.GameRecord{entry})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if stats.ManualNeeded != 1 || stats.Failed != 0 {
		t.Fatalf("rows never presented must stay manual: %+v", stats)
	}
}

func TestRunManualPickFillsGapsOnly(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entry, err := store.Add(ctx, &catalog.GameRecord{Title: "Vague Game", Developer: "Known Dev"})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	library := &scriptedSource{
		tag: metadata.SourceLibrary,
		candidates: map[string][]metadata.Candidate{
			"Vague Game": {{ID: "20", Name: "Vague Game Remastered", Score: 60, Source: metadata.SourceLibrary}},
		},
		records: map[string]*metadata.Record{
			"20": {Source: metadata.SourceLibrary, CatalogID: "20", Title: "Vague Game Remastered", Developer: "Other Dev"},
		},
	}

	orch := newTestOrchestrator(t, store, library, &pickFirst{}, Options{})
	stats, err := orch.Run(ctx, []*catalog.GameRecord{entry})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if stats.Successful != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	got, err := store.GetByID(ctx, entry.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if got.Developer != "Known Dev" || got.Title != "Vague Game" {
		t.Fatalf("pick without overwrite replaced existing fields: %+v", got)
	}
	if got.CatalogID != "20" {
		t.Fatalf("pick did not fill the identifier gap: %+v", got)
	}
}

func TestRunStallWarningOnSlowRow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entry, err := store.Add(ctx, &catalog.GameRecord{Title: "Slow Game"})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	library := &scriptedSource{tag: metadata.SourceLibrary, searchDelay: 60 * time.Millisecond}
	orch := newTestOrchestrator(t, store, library, nil, Options{StallTimeout: 10 * time.Millisecond})
	stats, err := orch.Run(ctx, []*catalog.GameRecord{entry})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if stats.Failed != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	counts := drainEvents(orch)
	if counts[EventStalled] == 0 {
		t.Fatal("expected a stall warning while the row hung")
	}
	if counts[EventRowStarted] != 1 {
		t.Fatalf("unexpected events: %v", counts)
	}
}

func TestRunChunksSequentially(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var entries []*catalog.GameRecord
	for _, title := range []string{"A", "B", "C", "D", "E"} {
		entry, err := store.Add(ctx, &catalog.GameRecord{Title: title, StoreID: "1", CatalogID: "2"})
		if err != nil {
			t.Fatalf("Add returned error: %v", err)
		}
		entries = append(entries, entry)
	}

	library := &scriptedSource{tag: metadata.SourceLibrary}
	orch := newTestOrchestrator(t, store, library, nil, Options{ChunkSize: 2})
	stats, err := orch.Run(ctx, entries)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if stats.Skipped != 5 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	counts := drainEvents(orch)
	if counts[EventChunkStarted] != 3 || counts[EventChunkDone] != 3 {
		t.Fatalf("expected 3 chunks, got %v", counts)
	}
	if counts[EventBatchFinished] != 1 {
		t.Fatalf("missing final report: %v", counts)
	}
}

func TestRunCancelledBeforeStartFailsPendingRows(t *testing.T) {
	store := newTestStore(t)

	entry, err := store.Add(context.Background(), &catalog.GameRecord{Title: "Pending"})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	library := &scriptedSource{tag: metadata.SourceLibrary}
	orch := newTestOrchestrator(t, store, library, nil, Options{})
	stats, err := orch.Run(ctx, []*catalog.GameRecord{entry})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if stats == nil || stats.Failed != 1 {
		t.Fatalf("cancelled run must still report stats: %+v", stats)
	}

	counts := drainEvents(orch)
	if counts[EventBatchFinished] != 1 {
		t.Fatalf("missing final report after cancel: %v", counts)
	}
}

func TestManualQueueKeepsInsertionOrder(t *testing.T) {
	queue := newManualQueue()
	first := &catalog.GameRecord{ID: 3, Title: "First"}
	second := &catalog.GameRecord{ID: 1, Title: "Second"}
	queue.add(ManualItem{Entry: first})
	queue.add(ManualItem{Entry: second})
	// Re-adding keeps the original position.
	queue.add(ManualItem{Entry: first})

	items := queue.drain()
	if len(items) != 2 || items[0].Entry.Title != "First" || items[1].Entry.Title != "Second" {
		t.Fatalf("unexpected drain order: %+v", items)
	}
	if queue.len() != 0 {
		t.Fatal("drain must empty the queue")
	}
}

func TestSplitChunks(t *testing.T) {
	entries := make([]*catalog.GameRecord, 5)
	for i := range entries {
		entries[i] = &catalog.GameRecord{ID: int64(i)}
	}

	chunks := splitChunks(entries, 2)
	if len(chunks) != 3 || len(chunks[0]) != 2 || len(chunks[2]) != 1 {
		t.Fatalf("unexpected chunking: %d chunks", len(chunks))
	}
	if splitChunks(nil, 2) != nil {
		t.Fatal("expected nil for empty input")
	}
}

func TestStatsSuccessRate(t *testing.T) {
	stats := &Stats{Total: 10, Successful: 6, Failed: 2, Skipped: 2}
	if got := stats.SuccessRate(); got != 75 {
		t.Fatalf("SuccessRate = %v, want 75", got)
	}

	empty := &Stats{}
	if empty.SuccessRate() != 0 {
		t.Fatal("empty stats must not divide by zero")
	}

	stats.StartedAt = time.Now().Add(-time.Minute)
	stats.FinishedAt = time.Now()
	if stats.Duration() <= 0 {
		t.Fatal("expected positive duration")
	}
}
