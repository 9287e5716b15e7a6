package viewer

import (
	"sync"

	"github.com/juruen/slideview/model"
)

// SelectionListener is called with the newly selected annotation, or nil
// when the selection is cleared.
type SelectionListener func(a *model.Annotation)

type selectionListener struct {
	id int
	fn SelectionListener
}

// Selection holds the currently selected annotation and notifies
// subscribers when it changes.
type Selection struct {
	mu        sync.RWMutex
	selected  *model.Annotation
	listeners []selectionListener
	nextID    int
}

func NewSelection() *Selection {
	return &Selection{}
}

func (s *Selection) Selected() *model.Annotation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// Select publishes a as the current selection. Listeners run in
// subscription order on the caller's goroutine.
func (s *Selection) Select(a *model.Annotation) {
	s.mu.Lock()
	s.selected = a
	listeners := make([]selectionListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l.fn(a)
	}
}

func (s *Selection) Clear() {
	s.Select(nil)
}

// Subscribe registers fn and returns a func that removes it.
func (s *Selection) Subscribe(fn SelectionListener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, selectionListener{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}
