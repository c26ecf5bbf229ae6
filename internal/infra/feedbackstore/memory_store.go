package feedbackstore

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/brew-advisor/internal/domain/feedback"
	"github.com/yanqian/brew-advisor/pkg/util"
)

// MemoryStore is an in-memory implementation of the feedback store for tests/dev.
type MemoryStore struct {
	mu  sync.RWMutex
	log feedback.Log
	now func() time.Time
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: util.NowUTC}
}

// Append implements feedback.Store.
func (s *MemoryStore) Append(_ context.Context, rec feedback.Record) (feedback.Record, error) {
	stamped, err := feedback.Stamp(rec, s.now())
	if err != nil {
		return feedback.Record{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = feedback.Cap(append(s.log, stamped))
	return stamped, nil
}

// LoadAll returns a copy so callers cannot observe later appends.
func (s *MemoryStore) LoadAll(_ context.Context) (feedback.Log, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(feedback.Log, len(s.log))
	copy(out, s.log)
	return out, nil
}

var _ feedback.Store = (*MemoryStore)(nil)
