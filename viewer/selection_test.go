package viewer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/juruen/slideview/model"
)

func TestSelectionNotifiesInOrder(t *testing.T) {
	s := NewSelection()
	a := &model.Annotation{ID: "a"}

	var calls []string
	s.Subscribe(func(got *model.Annotation) {
		assert.Same(t, a, got)
		calls = append(calls, "first")
	})
	s.Subscribe(func(got *model.Annotation) { calls = append(calls, "second") })

	s.Select(a)
	assert.Same(t, a, s.Selected())
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestSelectionUnsubscribe(t *testing.T) {
	s := NewSelection()
	count := 0
	unsubscribe := s.Subscribe(func(*model.Annotation) { count++ })

	s.Select(&model.Annotation{})
	unsubscribe()
	unsubscribe()
	s.Select(&model.Annotation{})

	assert.Equal(t, 1, count)
}

func TestSelectionClear(t *testing.T) {
	s := NewSelection()
	var last *model.Annotation = &model.Annotation{}
	s.Subscribe(func(a *model.Annotation) { last = a })

	s.Select(&model.Annotation{ID: "x"})
	s.Clear()
	assert.Nil(t, s.Selected())
	assert.Nil(t, last)
}

func TestListenerMaySelectAgain(t *testing.T) {
	s := NewSelection()
	second := &model.Annotation{ID: "second"}
	s.Subscribe(func(a *model.Annotation) {
		if a != nil && a.ID == "first" {
			s.Select(second)
		}
	})

	s.Select(&model.Annotation{ID: "first"})
	assert.Same(t, second, s.Selected())
}
