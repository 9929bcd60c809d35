package batch

import "ludex/internal/metadata"

// EventKind labels orchestrator progress events.
type EventKind string

const (
	EventBatchStarted   EventKind = "batch_started"
	EventChunkStarted   EventKind = "chunk_started"
	EventRowStarted     EventKind = "row_started"
	EventRowResolved    EventKind = "row_resolved"
	EventRowQueued      EventKind = "row_queued"
	EventRowSkipped     EventKind = "row_skipped"
	EventRowFailed      EventKind = "row_failed"
	EventChunkDone      EventKind = "chunk_done"
	EventStalled        EventKind = "stalled"
	EventManualResolved EventKind = "manual_resolved"
	EventBatchFinished  EventKind = "batch_finished"
)

// Event is one progress notification. Fields beyond Kind and BatchID are
// populated where they apply.
type Event struct {
	Kind       EventKind
	BatchID    string
	Chunk      int
	ChunkCount int
	EntryID    int64
	Title      string
	Status     metadata.Status
	Err        error
	Stats      *Stats
}

// emit delivers an event without blocking. Progress reporting must never
// stall the batch, so events are dropped when no one is draining the
// channel.
func (o *Orchestrator) emit(event Event) {
	event.BatchID = o.batchID
	select {
	case o.events <- event:
	default:
	}
}
