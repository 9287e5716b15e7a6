package viewer

import (
	"github.com/juruen/slideview/geometry"
	"github.com/juruen/slideview/model"
)

// Frame is a pan target and zoom level for the viewport.
type Frame struct {
	Center geometry.Point2D `json:"center"`
	Zoom   float64          `json:"zoom"`
}

// ZoomTarget approximates the zoom at which an annotation of the given area
// (in slide pixels) fills the container, clamped to the viewport bounds.
// Very large or very small annotations end up at the bounds. A degenerate
// area frames at the maximum zoom.
func ZoomTarget(vp Viewport, annotationArea float64) float64 {
	minZoom, maxZoom := vp.MinZoom(), vp.MaxZoom()
	if annotationArea <= 0 {
		return maxZoom
	}
	slideArea := vp.ContainerSize().Area()
	return geometry.Clamp(vp.ImageToViewportZoom(slideArea/annotationArea), minZoom, maxZoom)
}

// FrameFor computes the frame for g on vp.
func FrameFor(vp Viewport, g model.Geometry) Frame {
	content := vp.ContentSize()
	return Frame{
		Center: geometry.Centroid(g, content.Width, content.Height),
		Zoom:   ZoomTarget(vp, geometry.Area(g)),
	}
}

// FrameAnnotation pans then zooms vp onto a and returns the applied frame.
func FrameAnnotation(vp Viewport, a *model.Annotation) Frame {
	f := FrameFor(vp, a.Geometry)
	vp.PanTo(f.Center)
	vp.ZoomTo(f.Zoom)
	return f
}
