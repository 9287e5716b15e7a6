// Package deepzoom is a headless deep-zoom viewer. It keeps the viewport
// state a browser viewer would (zoom, center, container and content size),
// raises zoom events and enumerates the tiles it would request.
//
// Viewport coordinates follow the usual deep-zoom convention: the content
// spans x in [0, 1] and y in [0, height/width].
package deepzoom

import (
	"math"
	"sync"

	"github.com/pkg/errors"

	"github.com/juruen/slideview/geometry"
	"github.com/juruen/slideview/log"
	"github.com/juruen/slideview/pyramid"
)

const (
	// MinZoomImageRatio is the smallest zoom relative to the home zoom.
	MinZoomImageRatio = 0.9
	// MaxZoomPixelRatio is the largest screen pixels per image pixel.
	MaxZoomPixelRatio = 1.1
)

type zoomHandler struct {
	id int
	fn func(zoom float64)
}

// Viewer is a single-image deep-zoom viewer.
type Viewer struct {
	mu        sync.Mutex
	container geometry.Size
	source    *pyramid.TileSource
	zoom      float64
	center    geometry.Point2D

	handlers []zoomHandler
	nextID   int
}

// New creates a viewer with the given on-screen container size in pixels.
func New(containerWidth, containerHeight float64) *Viewer {
	return &Viewer{
		container: geometry.NewSize(containerWidth, containerHeight),
		zoom:      1,
	}
}

// Open shows src and goes home.
func (v *Viewer) Open(src *pyramid.TileSource) error {
	if src == nil || src.Width <= 0 || src.Height <= 0 {
		return errors.New("invalid tile source")
	}

	v.mu.Lock()
	v.source = src
	v.zoom = v.homeZoom()
	v.center = geometry.Point2D{X: 0.5, Y: 0.5 * float64(src.Height) / float64(src.Width)}
	v.mu.Unlock()

	log.Trace.Printf("viewer opened %dx%d, levels %d-%d", src.Width, src.Height, src.MinLevel, src.MaxLevel)
	return nil
}

// Close drops the tile source. Zoom handlers stay registered.
func (v *Viewer) Close() {
	v.mu.Lock()
	v.source = nil
	v.zoom = 1
	v.center = geometry.Point2D{}
	v.mu.Unlock()
}

func (v *Viewer) IsOpen() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.source != nil
}

func (v *Viewer) Source() *pyramid.TileSource {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.source
}

// OnZoom registers a zoom event handler and returns its remover.
func (v *Viewer) OnZoom(fn func(zoom float64)) func() {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.handlers = append(v.handlers, zoomHandler{id: id, fn: fn})
	v.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			defer v.mu.Unlock()
			for i, h := range v.handlers {
				if h.id == id {
					v.handlers = append(v.handlers[:i], v.handlers[i+1:]...)
					return
				}
			}
		})
	}
}

// PanTo centers the viewport on p.
func (v *Viewer) PanTo(p geometry.Point2D) {
	v.mu.Lock()
	v.center = p
	v.mu.Unlock()
}

// ZoomTo sets the zoom and raises a zoom event.
func (v *Viewer) ZoomTo(zoom float64) {
	v.mu.Lock()
	v.zoom = zoom
	handlers := make([]zoomHandler, len(v.handlers))
	copy(handlers, v.handlers)
	v.mu.Unlock()

	for _, h := range handlers {
		h.fn(zoom)
	}
}

func (v *Viewer) Zoom() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.zoom
}

func (v *Viewer) Center() geometry.Point2D {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.center
}

func (v *Viewer) HomeZoom() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.homeZoom()
}

func (v *Viewer) MinZoom() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.minZoom()
}

func (v *Viewer) MaxZoom() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	content := v.contentSize()
	if content.Width == 0 || v.container.Width == 0 {
		return v.minZoom()
	}
	return math.Max(content.Width*MaxZoomPixelRatio/v.container.Width, v.minZoom())
}

// ImageToViewportZoom converts an image zoom (screen pixels per image pixel)
// into a viewport zoom.
func (v *Viewer) ImageToViewportZoom(imageZoom float64) float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	content := v.contentSize()
	if v.container.Width == 0 {
		return imageZoom
	}
	return imageZoom * content.Width / v.container.Width
}

func (v *Viewer) ContainerSize() geometry.Size {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.container
}

// ContentSize is the size of the open image in pixels.
func (v *Viewer) ContentSize() geometry.Size {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.contentSize()
}

// Resize changes the container size.
func (v *Viewer) Resize(width, height float64) {
	v.mu.Lock()
	v.container = geometry.NewSize(width, height)
	v.mu.Unlock()
}

func (v *Viewer) contentSize() geometry.Size {
	if v.source == nil {
		return geometry.Size{}
	}
	return geometry.NewSize(float64(v.source.Width), float64(v.source.Height))
}

func (v *Viewer) homeZoom() float64 {
	contentAspect := v.contentSize().Aspect()
	containerAspect := v.container.Aspect()
	if contentAspect == 0 || containerAspect == 0 {
		return 1
	}
	if factor := contentAspect / containerAspect; factor < 1 {
		return factor
	}
	return 1
}

func (v *Viewer) minZoom() float64 {
	return MinZoomImageRatio * v.homeZoom()
}
