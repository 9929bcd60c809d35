package batch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ludex/internal/catalog"
	"ludex/internal/logging"
	"ludex/internal/metadata"
)

const (
	defaultChunkSize    = 50
	defaultThrottle     = 120 * time.Millisecond
	defaultStallTimeout = 20 * time.Second

	// The throttle stays inside these bounds regardless of configuration so
	// a batch neither hammers the APIs nor crawls.
	minThrottle = 50 * time.Millisecond
	maxThrottle = 150 * time.Millisecond

	eventBufferSize = 256
)

// Options tune an Orchestrator. Zero values fall back to defaults.
type Options struct {
	ChunkSize    int
	RowThrottle  time.Duration
	StallTimeout time.Duration
}

// Orchestrator resolves a set of library entries in fixed-size chunks. Chunks
// run one at a time and rows within a chunk run sequentially with a small
// throttle between resolutions. Ambiguous rows queue for manual selection,
// drained serially after all chunks complete.
type Orchestrator struct {
	store    *catalog.Store
	pipeline *metadata.Pipeline
	picker   Picker
	logger   *slog.Logger

	chunkSize    int
	throttle     time.Duration
	stallTimeout time.Duration

	batchID string
	events  chan Event
}

// New creates an orchestrator. picker may be nil, in which case ambiguous
// rows stay queued for a later run.
func New(store *catalog.Store, pipeline *metadata.Pipeline, picker Picker, opts Options, logger *slog.Logger) (*Orchestrator, error) {
	if store == nil || pipeline == nil {
		return nil, errors.New("store and pipeline are required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	throttle := opts.RowThrottle
	if throttle == 0 {
		throttle = defaultThrottle
	}
	if throttle < minThrottle {
		throttle = minThrottle
	}
	if throttle > maxThrottle {
		throttle = maxThrottle
	}
	stallTimeout := opts.StallTimeout
	if stallTimeout <= 0 {
		stallTimeout = defaultStallTimeout
	}

	return &Orchestrator{
		store:        store,
		pipeline:     pipeline,
		picker:       picker,
		logger:       logger.With(logging.String(logging.FieldComponent, "batch")),
		chunkSize:    chunkSize,
		throttle:     throttle,
		stallTimeout: stallTimeout,
		events:       make(chan Event, eventBufferSize),
	}, nil
}

// Events returns the progress channel. It is closed when Run returns.
func (o *Orchestrator) Events() <-chan Event {
	return o.events
}

// rowOutcome travels from the chunk worker back to the orchestrator, which
// owns all store mutations and stats accounting. A started marker carries no
// result; it only feeds the stall watchdog.
type rowOutcome struct {
	entry      *catalog.GameRecord
	started    bool
	skipped    bool
	resolution *metadata.Resolution
	err        error
}

// Run processes entries and always returns a stats report, cancelled runs
// included. The error reflects cancellation, not per-row failures.
func (o *Orchestrator) Run(ctx context.Context, entries []*catalog.GameRecord) (*Stats, error) {
	o.batchID = uuid.NewString()
	stats := &Stats{
		BatchID:   o.batchID,
		Total:     len(entries),
		StartedAt: time.Now(),
	}
	queue := newManualQueue()

	defer close(o.events)
	defer func() {
		stats.FinishedAt = time.Now()
		stats.ManualNeeded = queue.len() + stats.ManualNeeded
		o.emit(Event{Kind: EventBatchFinished, Stats: stats})
	}()

	chunks := splitChunks(entries, o.chunkSize)
	o.logger.Info("batch started",
		logging.String(logging.FieldBatchID, o.batchID),
		logging.Int("entries", len(entries)),
		logging.Int(logging.FieldChunkCount, len(chunks)))
	o.emit(Event{Kind: EventBatchStarted, ChunkCount: len(chunks)})

	for i, chunk := range chunks {
		if ctx.Err() != nil {
			o.failRemaining(stats, chunks[i:])
			return stats, ctx.Err()
		}
		o.runChunk(ctx, i+1, len(chunks), chunk, stats, queue)
	}

	if err := o.drainManualQueue(ctx, queue, stats); err != nil {
		return stats, err
	}
	if ctx.Err() != nil {
		return stats, ctx.Err()
	}

	o.logger.Info("batch finished",
		logging.String(logging.FieldBatchID, o.batchID),
		logging.Int("successful", stats.Successful),
		logging.Int("failed", stats.Failed))
	return stats, nil
}

// runChunk starts one worker goroutine and consumes its outcomes, resetting
// the stall watchdog when a row starts and again when it finishes. The
// watchdog is informational only.
func (o *Orchestrator) runChunk(ctx context.Context, chunk, chunkCount int, entries []*catalog.GameRecord, stats *Stats, queue *manualQueue) {
	o.emit(Event{Kind: EventChunkStarted, Chunk: chunk, ChunkCount: chunkCount})

	outcomes := make(chan rowOutcome)
	go o.resolveChunk(ctx, chunk, entries, outcomes)

	watchdog := time.NewTimer(o.stallTimeout)
	defer watchdog.Stop()

	for open := true; open; {
		select {
		case outcome, ok := <-outcomes:
			if !ok {
				open = false
				break
			}
			if !outcome.started {
				o.handleOutcome(ctx, chunk, outcome, stats, queue)
			}
			if !watchdog.Stop() {
				select {
				case <-watchdog.C:
				default:
				}
			}
			watchdog.Reset(o.stallTimeout)
		case <-watchdog.C:
			o.logger.Warn("no row progress",
				logging.String(logging.FieldBatchID, o.batchID),
				logging.Int(logging.FieldChunk, chunk),
				logging.Duration("stall", o.stallTimeout))
			o.emit(Event{Kind: EventStalled, Chunk: chunk})
			watchdog.Reset(o.stallTimeout)
		}
	}

	o.emit(Event{Kind: EventChunkDone, Chunk: chunk, ChunkCount: chunkCount})
}

// resolveChunk runs rows sequentially. Rows pending when the context is
// cancelled report the cancellation as their failure.
func (o *Orchestrator) resolveChunk(ctx context.Context, chunk int, entries []*catalog.GameRecord, outcomes chan<- rowOutcome) {
	defer close(outcomes)

	throttled := false
	for _, entry := range entries {
		if ctx.Err() != nil {
			outcomes <- rowOutcome{entry: entry, err: ctx.Err()}
			continue
		}
		if entry.IsResolved() {
			outcomes <- rowOutcome{entry: entry, skipped: true}
			continue
		}

		if throttled {
			select {
			case <-time.After(o.throttle):
			case <-ctx.Done():
				outcomes <- rowOutcome{entry: entry, err: ctx.Err()}
				continue
			}
		}
		throttled = true

		o.emit(Event{Kind: EventRowStarted, Chunk: chunk, EntryID: entry.ID, Title: entry.SearchTitle()})
		outcomes <- rowOutcome{entry: entry, started: true}
		resolution, err := o.pipeline.Resolve(ctx, metadata.Request{
			Title:     entry.SearchTitle(),
			StoreID:   entry.StoreID,
			CatalogID: entry.CatalogID,
		})
		outcomes <- rowOutcome{entry: entry, resolution: resolution, err: err}
	}
}

func (o *Orchestrator) handleOutcome(ctx context.Context, chunk int, outcome rowOutcome, stats *Stats, queue *manualQueue) {
	entry := outcome.entry
	switch {
	case outcome.skipped:
		stats.Skipped++
		o.emit(Event{Kind: EventRowSkipped, Chunk: chunk, EntryID: entry.ID, Title: entry.Title})

	case outcome.err != nil:
		stats.Failed++
		o.logger.Warn("row failed",
			logging.String(logging.FieldBatchID, o.batchID),
			logging.Int64(logging.FieldEntryID, entry.ID),
			logging.String(logging.FieldTitle, entry.SearchTitle()),
			logging.Error(outcome.err))
		o.emit(Event{Kind: EventRowFailed, Chunk: chunk, EntryID: entry.ID, Title: entry.Title, Err: outcome.err})

	case outcome.resolution.Status == metadata.StatusResolved:
		if err := o.applyResolution(ctx, entry, outcome.resolution.Record, true); err != nil {
			stats.Failed++
			o.emit(Event{Kind: EventRowFailed, Chunk: chunk, EntryID: entry.ID, Title: entry.Title, Err: err})
			return
		}
		stats.Successful++
		o.emit(Event{Kind: EventRowResolved, Chunk: chunk, EntryID: entry.ID, Title: entry.Title, Status: metadata.StatusResolved})

	case outcome.resolution.Status == metadata.StatusAmbiguous:
		queue.add(ManualItem{Entry: entry, Candidates: outcome.resolution.Candidates})
		o.emit(Event{Kind: EventRowQueued, Chunk: chunk, EntryID: entry.ID, Title: entry.Title, Status: metadata.StatusAmbiguous})

	default:
		stats.Failed++
		o.emit(Event{Kind: EventRowFailed, Chunk: chunk, EntryID: entry.ID, Title: entry.Title, Status: metadata.StatusEmpty})
	}
}

func (o *Orchestrator) applyResolution(ctx context.Context, entry *catalog.GameRecord, record *metadata.Record, overwrite bool) error {
	metadata.ApplyToEntry(entry, record, overwrite)
	return o.store.Update(ctx, entry)
}

// drainManualQueue walks queued rows in order, one at a time. A pick re-runs
// the pipeline with the chosen id as explicit so the other source still
// contributes. A declined or failed pick counts the row as failed; rows
// never presented (no picker, or pending at cancellation) stay counted as
// needing manual attention.
func (o *Orchestrator) drainManualQueue(ctx context.Context, queue *manualQueue, stats *Stats) error {
	items := queue.drain()
	for i, item := range items {
		if ctx.Err() != nil {
			stats.ManualNeeded += len(items) - i
			return ctx.Err()
		}
		if o.picker == nil {
			stats.ManualNeeded++
			continue
		}

		choice, overwrite, err := o.picker.Pick(item.Entry, item.Candidates)
		if err != nil || choice == nil {
			stats.Failed++
			o.emit(Event{Kind: EventRowFailed, EntryID: item.Entry.ID, Title: item.Entry.Title, Err: err})
			continue
		}

		req := metadata.Request{Title: item.Entry.SearchTitle()}
		if choice.Source == metadata.SourceStore {
			req.StoreID = choice.ID
		} else {
			req.CatalogID = choice.ID
		}

		resolution, err := o.pipeline.Resolve(ctx, req)
		if err != nil || resolution.Status != metadata.StatusResolved {
			stats.Failed++
			continue
		}
		if err := o.applyResolution(ctx, item.Entry, resolution.Record, overwrite); err != nil {
			stats.Failed++
			continue
		}
		stats.Successful++
		o.emit(Event{Kind: EventManualResolved, EntryID: item.Entry.ID, Title: item.Entry.Title})
	}
	return nil
}

func (o *Orchestrator) failRemaining(stats *Stats, chunks [][]*catalog.GameRecord) {
	for _, chunk := range chunks {
		for _, entry := range chunk {
			stats.Failed++
			o.emit(Event{Kind: EventRowFailed, EntryID: entry.ID, Title: entry.Title, Err: context.Canceled})
		}
	}
}

func splitChunks(entries []*catalog.GameRecord, size int) [][]*catalog.GameRecord {
	if len(entries) == 0 {
		return nil
	}
	chunks := make([][]*catalog.GameRecord, 0, (len(entries)+size-1)/size)
	for start := 0; start < len(entries); start += size {
		end := start + size
		if end > len(entries) {
			end = len(entries)
		}
		chunks = append(chunks, entries[start:end])
	}
	return chunks
}
