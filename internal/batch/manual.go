package batch

import (
	"sync"

	"ludex/internal/catalog"
	"ludex/internal/metadata"
)

// ManualItem is one ambiguous row waiting for a human pick.
type ManualItem struct {
	Entry      *catalog.GameRecord
	Candidates []metadata.Candidate
}

// Picker chooses among candidates for an ambiguous row. Returning a nil
// candidate declines the row and leaves it unresolved. The overwrite flag
// controls whether the pick replaces metadata the entry already has or only
// fills gaps.
type Picker interface {
	Pick(entry *catalog.GameRecord, candidates []metadata.Candidate) (choice *metadata.Candidate, overwrite bool, err error)
}

// manualQueue collects ambiguous rows during chunk processing. Items drain in
// the order they were queued; a re-queued entry keeps its original position.
type manualQueue struct {
	mu    sync.Mutex
	order []int64
	items map[int64]ManualItem
}

func newManualQueue() *manualQueue {
	return &manualQueue{items: make(map[int64]ManualItem)}
}

func (q *manualQueue) add(item ManualItem) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.items[item.Entry.ID]; !ok {
		q.order = append(q.order, item.Entry.ID)
	}
	q.items[item.Entry.ID] = item
}

func (q *manualQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *manualQueue) drain() []ManualItem {
	q.mu.Lock()
	defer q.mu.Unlock()
	drained := make([]ManualItem, 0, len(q.order))
	for _, id := range q.order {
		drained = append(drained, q.items[id])
	}
	q.order = nil
	q.items = make(map[int64]ManualItem)
	return drained
}
