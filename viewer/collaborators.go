// Package viewer wires a slide's pyramid, annotations and selection state to
// a deep-zoom viewer and a vector overlay.
package viewer

import (
	"context"

	"github.com/juruen/slideview/geometry"
	"github.com/juruen/slideview/overlay"
	"github.com/juruen/slideview/pyramid"
)

// Viewport is the part of the deep-zoom viewer read and driven by framing.
type Viewport interface {
	PanTo(p geometry.Point2D)
	ZoomTo(zoom float64)
	Zoom() float64
	MinZoom() float64
	MaxZoom() float64
	ImageToViewportZoom(imageZoom float64) float64
	ContainerSize() geometry.Size
	ContentSize() geometry.Size
}

// Viewer is the deep-zoom viewer collaborator.
type Viewer interface {
	Viewport
	Open(src *pyramid.TileSource) error
	Close()
	OnZoom(fn func(zoom float64)) (remove func())
}

// StyleSink receives document style variables.
type StyleSink interface {
	SetProperty(name, value string)
}

// Overlay is the vector drawing collaborator.
type Overlay interface {
	StyleSink
	Clear()
	Resize(aspect float64)
	Append(e *overlay.Element)
	Select(class string) []*overlay.Element
}

// Fetcher loads the flat metadata record of a slide.
type Fetcher interface {
	FetchSlide(ctx context.Context, slideID string) (map[string]string, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, slideID string) (map[string]string, error)

func (f FetcherFunc) FetchSlide(ctx context.Context, slideID string) (map[string]string, error) {
	return f(ctx, slideID)
}
