package vault

import (
	"sync"

	"github.com/Duckhouse1/expira/internal/model"
)

// Store owns the authoritative list of vault items for the session.
//
// It is mutated only by the capture pipeline (append), the delete action
// (remove) and a refresh (replace); readers get copies and never observe
// partial updates. Subscribers receive a coalesced change signal after
// every mutation.
type Store struct {
	mu    sync.RWMutex
	items []model.VaultItem
	subs  []chan struct{}
}

// NewStore creates an empty collection store.
func NewStore() *Store {
	return &Store{}
}

// Items returns a copy of the collection in insertion order.
func (s *Store) Items() []model.VaultItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.VaultItem, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of items in the collection.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Append adds a newly created item to the end of the collection.
func (s *Store) Append(item model.VaultItem) {
	s.mu.Lock()
	s.items = append(s.items, item)
	s.mu.Unlock()

	s.notify()
}

// Replace swaps the whole collection, preserving the given order.
func (s *Store) Replace(items []model.VaultItem) {
	next := make([]model.VaultItem, len(items))
	copy(next, items)

	s.mu.Lock()
	s.items = next
	s.mu.Unlock()

	s.notify()
}

// Remove deletes every item matching the predicate and returns how many
// were removed.
func (s *Store) Remove(match func(model.VaultItem) bool) int {
	s.mu.Lock()
	kept := s.items[:0]
	removed := 0
	for _, item := range s.items {
		if match(item) {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept
	s.mu.Unlock()

	if removed > 0 {
		s.notify()
	}
	return removed
}

// Subscribe returns a channel that receives a signal after each mutation.
// Signals are coalesced; a slow subscriber sees at least one.
func (s *Store) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)

	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()

	return ch
}

func (s *Store) notify() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
