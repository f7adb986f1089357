package auditmock

import (
	"context"
	"fmt"
	"sync"

	"loanrisk-backend/internal/domain/audit"
)

var (
	_ audit.Sink  = (*Sink)(nil)
	_ audit.Store = (*Store)(nil)
)

// Entry is one recorded Append call.
type Entry struct {
	Collection string
	Record     audit.Record
}

// Sink records every Append. Safe for concurrent use.
type Sink struct {
	mu      sync.Mutex
	entries []Entry
}

func (s *Sink) Append(_ context.Context, collection string, rec audit.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, Entry{Collection: collection, Record: rec})
}

func (s *Sink) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.entries...)
}

// In returns the records appended to one collection, in order.
func (s *Sink) In(collection string) []audit.Record {
	var out []audit.Record
	for _, e := range s.Entries() {
		if e.Collection == collection {
			out = append(out, e.Record)
		}
	}
	return out
}

// Store is a function-backed audit.Store.
type Store struct {
	InsertFn     func(ctx context.Context, collection string, rec audit.Record) (string, error)
	FindByUserFn func(ctx context.Context, collection, userID string, limit int64) ([]audit.Record, error)
}

func (m *Store) Insert(ctx context.Context, collection string, rec audit.Record) (string, error) {
	if m.InsertFn != nil {
		return m.InsertFn(ctx, collection, rec)
	}
	return "", nil
}

func (m *Store) FindByUser(ctx context.Context, collection, userID string, limit int64) ([]audit.Record, error) {
	if m.FindByUserFn != nil {
		return m.FindByUserFn(ctx, collection, userID, limit)
	}
	return nil, nil
}

var _ audit.Store = (*Memory)(nil)

// Memory is a Sink that also serves the Store reads over what it recorded,
// so side-channel records show up in listings.
type Memory struct {
	Sink
}

func (m *Memory) Insert(ctx context.Context, collection string, rec audit.Record) (string, error) {
	m.Append(ctx, collection, rec)
	return fmt.Sprintf("log-%d", len(m.Entries())), nil
}

// FindByUser returns the newest matching records first.
func (m *Memory) FindByUser(_ context.Context, collection, userID string, limit int64) ([]audit.Record, error) {
	recs := m.In(collection)
	out := make([]audit.Record, 0, len(recs))
	for i := len(recs) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		if recs[i]["user_id"] == userID {
			out = append(out, recs[i])
		}
	}
	return out, nil
}
