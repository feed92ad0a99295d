// Package ledger holds transaction ledger store implementations. The
// engine only ever speaks to the interfaces.LedgerStore contract; id
// assignment is this layer's policy, not the engine's.
package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"holdings-engine/internal/interfaces"
	"holdings-engine/internal/types"
)

// MemoryStore is an in-memory ledger keyed by record id. It backs the
// demo entrypoint and tests; a durable store slots in behind the same
// interface.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]types.TransactionRecord
	seq     map[string]int // id -> insertion order, for stable listings
	next    int
}

var _ interfaces.LedgerStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]types.TransactionRecord),
		seq:     make(map[string]int),
	}
}

func (m *MemoryStore) List(ctx context.Context, userID string) ([]types.TransactionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.TransactionRecord, 0)
	for _, rec := range m.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return m.seq[out[i].ID] < m.seq[out[j].ID]
	})
	return out, nil
}

func (m *MemoryStore) Create(ctx context.Context, rec types.TransactionRecord) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec.ID = uuid.NewString()
	m.records[rec.ID] = rec
	m.seq[rec.ID] = m.next
	m.next++
	return rec.ID, nil
}

func (m *MemoryStore) Replace(ctx context.Context, id string, rec types.TransactionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return fmt.Errorf("replace %s: %w", id, types.ErrRecordNotFound)
	}
	rec.ID = id
	m.records[id] = rec
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return fmt.Errorf("delete %s: %w", id, types.ErrRecordNotFound)
	}
	delete(m.records, id)
	delete(m.seq, id)
	return nil
}

// Len reports the number of stored records across all users.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
