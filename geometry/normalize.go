package geometry

import "github.com/juruen/slideview/model"

// Normalizer converts level-0 slide pixels into the overlay's normalized
// coordinate basis.
type Normalizer struct {
	BaseWidth  float64
	BaseHeight float64
}

func NewNormalizer(baseWidth, baseHeight int) Normalizer {
	return Normalizer{BaseWidth: float64(baseWidth), BaseHeight: float64(baseHeight)}
}

// ScaleX maps x into the overlay basis.
func (n Normalizer) ScaleX(x float64) float64 {
	return x / n.BaseWidth
}

// ScaleY maps y into the overlay basis. The overlay measures both axes in
// fractions of the slide width, hence the height/width factor.
func (n Normalizer) ScaleY(y float64) float64 {
	return (y / n.BaseHeight) * (n.BaseHeight / n.BaseWidth)
}

// Point normalizes a single position.
func (n Normalizer) Point(p model.Position) Point2D {
	return Point2D{X: n.ScaleX(p.X()), Y: n.ScaleY(p.Y())}
}

// Points normalizes a coordinate array.
func (n Normalizer) Points(positions []model.Position) []Point2D {
	out := make([]Point2D, len(positions))
	for i, p := range positions {
		out[i] = n.Point(p)
	}
	return out
}

// Aspect is the overlay's height in its own basis (height/width).
func (n Normalizer) Aspect() float64 {
	return n.BaseHeight / n.BaseWidth
}
