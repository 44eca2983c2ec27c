// Package feedback captures user feedback on the product itself.
package feedback

import (
	"context"
	"sync"
	"time"
)

// Entry is one piece of user feedback.
type Entry struct {
	Email     string
	Rating    int // 1-5
	Feedback  string
	CreatedAt time.Time
}

// Store persists feedback entries. The default is in-memory; a deployment
// wanting durable feedback swaps in its own implementation.
type Store interface {
	Save(ctx context.Context, entry Entry) error
}

type MemoryStore struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(_ context.Context, entry Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

// Entries returns a copy of everything saved so far.
func (m *MemoryStore) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}
