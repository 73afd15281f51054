// Package selection tracks which of the loaded catalogs the buyer has
// currently checked. The store is the single source of truth the generation
// triggers derive their enabled state from.
package selection

import "sync"

// Store holds the selected subset of the loaded catalog id set.
//
// Invariant: every selected id references a loaded catalog. Operations on
// unknown ids are no-ops, never errors. All methods are safe for concurrent
// use by HTTP handlers.
type Store struct {
	mu       sync.Mutex
	order    []string        // loaded catalog ids, load order
	selected map[string]bool // subset of order
}

// New creates an empty Store. Call SetCatalogs after a data load.
func New() *Store {
	return &Store{selected: make(map[string]bool)}
}

// SetCatalogs replaces the loaded catalog id set. Stale selections are
// dropped and the new set starts fully selected, matching the rendered
// catalog list whose checkboxes come up pre-checked.
func (s *Store) SetCatalogs(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = make([]string, len(ids))
	copy(s.order, ids)
	s.selected = make(map[string]bool, len(ids))
	for _, id := range ids {
		s.selected[id] = true
	}
}

// SelectAll marks every loaded catalog as selected.
func (s *Store) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.order {
		s.selected[id] = true
	}
}

// DeselectAll clears the selection. An empty selection is valid; it only
// disables the generation triggers.
func (s *Store) DeselectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.selected {
		s.selected[id] = false
	}
}

// Toggle flips the selection state of one catalog. Unknown ids are ignored.
func (s *Store) Toggle(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.selected[id]; ok {
		s.selected[id] = !s.selected[id]
	}
}

// Selected returns the selected catalog ids in load order.
func (s *Store) Selected() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.order))
	for _, id := range s.order {
		if s.selected[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

// IsSelected reports whether the catalog is currently selected.
func (s *Store) IsSelected(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected[id]
}

// Count returns the number of selected catalogs.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, id := range s.order {
		if s.selected[id] {
			n++
		}
	}
	return n
}
