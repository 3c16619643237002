package progress

import (
	"context"
	"sort"
	"sync"
)

// CompletionStore persists the set of completed lecture ids per course.
// Implementations must make Set and MarkSeeded idempotent.
type CompletionStore interface {
	Completed(ctx context.Context, courseID string) ([]string, error)
	Set(ctx context.Context, courseID, lectureID string, completed bool) error

	// Seeded reports whether initial completions were ever applied to the
	// course. The marker outlives the completions themselves, so a course the
	// user cleared is not seeded again.
	Seeded(ctx context.Context, courseID string) (bool, error)
	MarkSeeded(ctx context.Context, courseID string) error
}

// MemoryStore is an in-memory CompletionStore.
type MemoryStore struct {
	sets   map[string]map[string]struct{}
	seeded map[string]bool
	mu     sync.RWMutex
}

// NewMemoryStore creates a new in-memory completion store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sets:   make(map[string]map[string]struct{}),
		seeded: make(map[string]bool),
	}
}

// Completed returns the completed lecture ids of a course in sorted order.
func (s *MemoryStore) Completed(_ context.Context, courseID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := s.sets[courseID]
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *MemoryStore) Set(_ context.Context, courseID, lectureID string, completed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.sets[courseID]
	if !ok {
		if !completed {
			return nil
		}
		set = make(map[string]struct{})
		s.sets[courseID] = set
	}

	if completed {
		set[lectureID] = struct{}{}
	} else {
		delete(set, lectureID)
	}
	return nil
}

func (s *MemoryStore) Seeded(_ context.Context, courseID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seeded[courseID], nil
}

func (s *MemoryStore) MarkSeeded(_ context.Context, courseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seeded[courseID] = true
	return nil
}
