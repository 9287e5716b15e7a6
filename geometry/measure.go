package geometry

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/juruen/slideview/model"
)

// Vertices returns the point set of g in slide pixels: every LineString
// point, or the polygon outer ring without a repeated closing vertex.
func Vertices(g model.Geometry) []Point2D {
	coords := g.Primary()
	if g.Type == model.Polygon && len(coords) > 1 && coords[0] == coords[len(coords)-1] {
		coords = coords[:len(coords)-1]
	}

	out := make([]Point2D, len(coords))
	for i, c := range coords {
		out[i] = Point2D{X: c.X(), Y: c.Y()}
	}
	return out
}

// Area returns the unsigned shoelace area of the polygon outer ring in
// square slide pixels. A LineString encloses nothing and yields 0.
func Area(g model.Geometry) float64 {
	if g.Type != model.Polygon {
		return 0
	}

	ring := Vertices(g)
	if len(ring) < 3 {
		return 0
	}

	var sum float64
	for i := range ring {
		j := (i + 1) % len(ring)
		sum += ring[i].X*ring[j].Y - ring[j].X*ring[i].Y
	}
	return math.Abs(sum) / 2
}

// Centroid is the arithmetic mean of the vertices of g, divided by the
// viewer's content size so it can be used directly as a pan target.
func Centroid(g model.Geometry, screenWidth, screenHeight float64) Point2D {
	vertices := Vertices(g)
	if len(vertices) == 0 {
		return Point2D{}
	}

	xs := make([]float64, len(vertices))
	ys := make([]float64, len(vertices))
	for i, v := range vertices {
		xs[i] = v.X
		ys[i] = v.Y
	}

	return Point2D{
		X: stat.Mean(xs, nil) / screenWidth,
		Y: stat.Mean(ys, nil) / screenHeight,
	}
}
