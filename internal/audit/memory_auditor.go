package audit

import "sync"

var _ Auditor = (*InMemoryAuditor)(nil)

// InMemoryAuditor keeps a bounded audit history in memory.
type InMemoryAuditor struct {
	mu         sync.Mutex
	entries    []Entry
	maxEntries int
}

func NewInMemoryAuditor(maxEntries int) *InMemoryAuditor {
	return &InMemoryAuditor{
		entries:    make([]Entry, 0),
		maxEntries: maxEntries,
	}
}

func (i *InMemoryAuditor) Log(entry Entry) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.entries = append(i.entries, entry)
	if i.maxEntries > 0 && len(i.entries) > i.maxEntries {
		i.entries = i.entries[len(i.entries)-i.maxEntries:]
	}
	return nil
}

func (i *InMemoryAuditor) GetRecent(limit int) ([]Entry, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if limit > len(i.entries) {
		limit = len(i.entries)
	}
	start := len(i.entries) - limit
	entries := make([]Entry, limit)
	copy(entries, i.entries[start:])

	return entries, nil
}

func (i *InMemoryAuditor) Close() error {
	return nil // nothing to close :)
}
