package viewer

import (
	"github.com/juruen/slideview/identity"
	"github.com/juruen/slideview/log"
	"github.com/juruen/slideview/model"
)

// Highlight moves the selected class onto the elements drawn for a and
// returns how many were highlighted. A nil a only clears the highlight.
// Finding no element is not an error: the overlay may still be loading.
func Highlight(o Overlay, a *model.Annotation) int {
	elements := o.Select(AnnotationClass)
	for _, e := range elements {
		e.Classed(SelectedClass, false)
	}
	if a == nil {
		return 0
	}

	want := a.Geometry.Primary()
	matched := 0
	for _, e := range elements {
		data, ok := e.Data.([]model.Position)
		if !ok {
			continue
		}
		if model.Equal(data, want) {
			e.Classed(SelectedClass, true)
			matched++
		}
	}

	if matched == 0 {
		log.Trace.Printf("no drawn element for annotation %s", identity.Hash(want))
	}
	return matched
}
