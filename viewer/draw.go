package viewer

import (
	"github.com/juruen/slideview/geometry"
	"github.com/juruen/slideview/identity"
	"github.com/juruen/slideview/log"
	"github.com/juruen/slideview/model"
	"github.com/juruen/slideview/overlay"
)

const (
	AnnotationClass = "annotation"
	SelectedClass   = "selected--annotation"

	strokeColor = "#f00"
)

// Element builds the overlay element for a. The element id is the identity
// hash of the geometry and its data is the primary coordinate array.
func Element(n geometry.Normalizer, a *model.Annotation) (*overlay.Element, error) {
	g := a.Geometry
	if err := g.Validate(); err != nil {
		return nil, err
	}

	kind := overlay.Polygon
	if g.Type == model.LineString {
		kind = overlay.Line
	}

	e := overlay.NewElement(kind, identity.Of(g)).Classed(AnnotationClass, true)
	e.Data = g.Primary()
	e.Points = n.Points(g.Primary())
	e.Style["stroke"] = strokeColor
	if kind == overlay.Polygon {
		e.Style["fill"] = "transparent"
	}
	return e, nil
}

// Draw appends one element per annotation to o. Clicking an element calls
// onClick with its annotation. Annotations that cannot be drawn are logged
// and skipped. It returns the number of elements drawn.
func Draw(o Overlay, n geometry.Normalizer, annotations []model.Annotation, onClick func(a *model.Annotation)) int {
	drawn := 0
	for i := range annotations {
		a := &annotations[i]
		e, err := Element(n, a)
		if err != nil {
			log.Warning.Printf("skipping annotation %d (%s): %v", i, a.ID, err)
			continue
		}
		if onClick != nil {
			e.OnClick(func() { onClick(a) })
		}
		o.Append(e)
		drawn++
	}
	log.Trace.Printf("drew %d of %d annotations", drawn, len(annotations))
	return drawn
}
