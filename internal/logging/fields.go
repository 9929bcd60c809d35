package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldEntryID is the standardized structured logging key for catalog entry identifiers.
	FieldEntryID = "entry_id"
	// FieldTitle is the standardized structured logging key for game titles.
	FieldTitle = "title"
	// FieldSource is the standardized structured logging key for metadata source tags.
	FieldSource = "source"
	// FieldScore is the standardized structured logging key for candidate match scores.
	FieldScore = "score"
	// FieldChunk is the standardized structured logging key for 1-based batch chunk indexes.
	FieldChunk = "chunk"
	// FieldChunkCount is the standardized structured logging key for total chunks in a batch.
	FieldChunkCount = "chunk_count"
	// FieldBatchID is the standardized structured logging key for batch run identifiers.
	FieldBatchID = "batch_id"
)
