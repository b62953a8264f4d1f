package audit

import (
	"context"
	"sync"
)

// MemoryStore keeps audit entries in process memory. Intended for tests
// and single-node development runs.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Insert(_ context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, cloneEntry(e))
	return nil
}

func (s *MemoryStore) Query(_ context.Context, f Filter) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := f.limit()
	res := make([]Entry, 0, limit)
	// Newest first: walk the append-ordered slice backwards.
	for i := len(s.entries) - 1; i >= 0 && len(res) < limit; i-- {
		if f.matches(s.entries[i]) {
			res = append(res, cloneEntry(s.entries[i]))
		}
	}
	return res, nil
}

func cloneEntry(e Entry) Entry {
	if e.Detail != nil {
		detail := make(map[string]any, len(e.Detail))
		for k, v := range e.Detail {
			detail[k] = v
		}
		e.Detail = detail
	}
	return e
}
