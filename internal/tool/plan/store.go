package plan

import "sync"

// Store holds the latest plan in memory.
type Store struct {
	mu   sync.RWMutex
	plan Plan
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Read returns a copy of the current plan.
func (s *Store) Read() Plan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePlan(s.plan)
}

// Write replaces the current plan.
func (s *Store) Write(p Plan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plan = clonePlan(p)
}

// Clear drops the current plan.
func (s *Store) Clear() {
	s.Write(Plan{})
}

func clonePlan(p Plan) Plan {
	items := make([]Item, len(p.Items))
	copy(items, p.Items)
	return Plan{Title: p.Title, Items: items}
}
