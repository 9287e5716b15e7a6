// Package overlay is a retained vector overlay drawn on top of the slide:
// elements in normalized viewport coordinates, class based restyling,
// per-element click handlers and document style variables.
package overlay

import (
	"sort"
	"sync"

	"github.com/juruen/slideview/geometry"
)

type Kind int

const (
	// Line is an open polyline through every point, not just the first two.
	Line Kind = iota
	Polygon
)

func (k Kind) String() string {
	switch k {
	case Line:
		return "line"
	case Polygon:
		return "polygon"
	}
	return "unknown"
}

// Element is one drawn shape.
type Element struct {
	ID     string
	Kind   Kind
	Points []geometry.Point2D
	// Data is the value bound to the element when it was drawn
	Data  interface{}
	Style map[string]string

	mu      sync.Mutex
	classes map[string]bool
	onClick func()
}

func NewElement(kind Kind, id string) *Element {
	return &Element{
		ID:      id,
		Kind:    kind,
		Style:   make(map[string]string),
		classes: make(map[string]bool),
	}
}

// Classed adds or removes a class and returns e for chaining.
func (e *Element) Classed(name string, on bool) *Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	if on {
		e.classes[name] = true
	} else {
		delete(e.classes, name)
	}
	return e
}

func (e *Element) HasClass(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.classes[name]
}

// Classes returns the element classes in sorted order.
func (e *Element) Classes() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.classes))
	for c := range e.classes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// OnClick sets the click handler and returns e for chaining.
func (e *Element) OnClick(fn func()) *Element {
	e.mu.Lock()
	e.onClick = fn
	e.mu.Unlock()
	return e
}

// Click runs the click handler. It reports false if there is none.
func (e *Element) Click() bool {
	e.mu.Lock()
	fn := e.onClick
	e.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}

// SVG holds the elements of one render pass.
type SVG struct {
	mu       sync.RWMutex
	elements []*Element
	props    map[string]string
	aspect   float64
}

func New() *SVG {
	return &SVG{
		props:  make(map[string]string),
		aspect: 1,
	}
}

// Clear removes every element.
func (o *SVG) Clear() {
	o.mu.Lock()
	o.elements = nil
	o.mu.Unlock()
}

// Resize sets the overlay height in units of its width.
func (o *SVG) Resize(aspect float64) {
	if aspect <= 0 {
		return
	}
	o.mu.Lock()
	o.aspect = aspect
	o.mu.Unlock()
}

func (o *SVG) Aspect() float64 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.aspect
}

func (o *SVG) Append(e *Element) {
	o.mu.Lock()
	o.elements = append(o.elements, e)
	o.mu.Unlock()
}

// Elements returns all elements in draw order.
func (o *SVG) Elements() []*Element {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]*Element, len(o.elements))
	copy(out, o.elements)
	return out
}

// Select returns the elements carrying class.
func (o *SVG) Select(class string) []*Element {
	var out []*Element
	for _, e := range o.Elements() {
		if e.HasClass(class) {
			out = append(out, e)
		}
	}
	return out
}

// ByID returns the elements with the given id.
func (o *SVG) ByID(id string) []*Element {
	var out []*Element
	for _, e := range o.Elements() {
		if e.ID == id {
			out = append(out, e)
		}
	}
	return out
}

// Click dispatches a click to the first element with id.
func (o *SVG) Click(id string) bool {
	found := o.ByID(id)
	if len(found) == 0 {
		return false
	}
	return found[0].Click()
}

// SetProperty sets a document style variable such as --stroke-thickness.
func (o *SVG) SetProperty(name, value string) {
	o.mu.Lock()
	o.props[name] = value
	o.mu.Unlock()
}

func (o *SVG) Property(name string) string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.props[name]
}

func (o *SVG) properties() map[string]string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make(map[string]string, len(o.props))
	for k, v := range o.props {
		out[k] = v
	}
	return out
}
