package viewer

import (
	"strconv"
)

const (
	// ReferenceStrokeWidth is the overlay's baseline stroke width.
	ReferenceStrokeWidth = 0.001
	StrokeThicknessVar   = "--stroke-thickness"
)

// ScalingFactor is computed once per slide from the minimum zoom.
func ScalingFactor(reference, minZoom float64) float64 {
	if minZoom <= 0 {
		return reference
	}
	return reference / minZoom
}

// Thickness keeps strokes visually constant: it shrinks as zoom grows.
func Thickness(factor, zoom float64) float64 {
	if zoom <= 0 {
		zoom = 1
	}
	return factor / zoom
}

// StrokeScaler publishes the stroke thickness on every zoom event.
type StrokeScaler struct {
	factor float64
	sink   StyleSink
}

func NewStrokeScaler(reference, minZoom float64, sink StyleSink) *StrokeScaler {
	return &StrokeScaler{factor: ScalingFactor(reference, minZoom), sink: sink}
}

func (s *StrokeScaler) Factor() float64 {
	return s.factor
}

// HandleZoom is the zoom event handler.
func (s *StrokeScaler) HandleZoom(zoom float64) {
	thickness := Thickness(s.factor, zoom)
	s.sink.SetProperty(StrokeThicknessVar, strconv.FormatFloat(thickness, 'g', -1, 64))
}
