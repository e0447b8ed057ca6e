// Package selection tracks the checked rows of a table.
package selection

import (
	"sync"

	"github.com/kcmvp/clanadmin/entity"
	"github.com/samber/lo"
)

// Set is the checkbox state of one list. Keys keep insertion order.
//
// Set never observes list refetches: keys of rows that disappeared stay
// selected until toggled off or replaced by ToggleAll.
type Set[T entity.Keyed[K], K comparable] struct {
	mu       sync.RWMutex
	selected []K
}

func New[T entity.Keyed[K], K comparable]() *Set[T, K] {
	return &Set[T, K]{}
}

// Toggle removes id when selected, otherwise appends it.
func (s *Set[T, K]) Toggle(id K) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lo.Contains(s.selected, id) {
		s.selected = lo.Without(s.selected, id)
		return
	}
	s.selected = append(s.selected, id)
}

// ToggleAll clears the selection when its size equals len(items), otherwise
// selects exactly the keys of items. Called twice on a partial selection it
// first selects everything and then clears.
func (s *Set[T, K]) ToggleAll(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.selected) == len(items) {
		s.selected = nil
		return
	}
	s.selected = entity.Keys[T, K](items)
}

// Selected returns a copy of the selected keys in insertion order.
func (s *Set[T, K]) Selected() []K {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]K(nil), s.selected...)
}

func (s *Set[T, K]) IsSelected(id K) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Contains(s.selected, id)
}

// AllSelected drives the header checkbox: checked when the selection size equals len(items).
func (s *Set[T, K]) AllSelected(items []T) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.selected) == len(items)
}

func (s *Set[T, K]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.selected)
}

func (s *Set[T, K]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}
