package book

import (
	"context"
	"sort"
	"sync"
)

var _ Repository = (*MemoryRepo)(nil)

// MemoryRepo keeps records in process memory. It backs local runs without a
// database and the handler tests.
type MemoryRepo struct {
	mu      sync.RWMutex
	records map[int64]Record
}

func NewMemoryRepo(seed []Record) *MemoryRepo {
	m := &MemoryRepo{records: make(map[int64]Record, len(seed))}
	for _, rec := range seed {
		m.records[rec.ID] = rec
	}
	return m
}

func (m *MemoryRepo) FindAll(_ context.Context) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Record, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec)
	}
	sort.Sort(recordsByID(out))
	return out, nil
}

func (m *MemoryRepo) FindByID(_ context.Context, id int64) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (m *MemoryRepo) Ping(_ context.Context) error {
	return nil
}

type recordsByID []Record

func (s recordsByID) Less(i, j int) bool { return s[i].ID < s[j].ID }
func (s recordsByID) Len() int           { return len(s) }
func (s recordsByID) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
