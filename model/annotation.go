package model

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// GeometryType is the tag of the geometry union.
type GeometryType string

const (
	LineString GeometryType = "LineString"
	Polygon    GeometryType = "Polygon"
)

// Position is an [x, y] pair in level-0 slide pixels.
type Position [2]float64

func (p Position) X() float64 { return p[0] }
func (p Position) Y() float64 { return p[1] }

// Geometry is either a LineString (Line set) or a Polygon (Rings set). Any
// other type decodes with its coordinates kept verbatim and fails Validate.
type Geometry struct {
	Type  GeometryType
	Line  []Position
	Rings [][]Position

	raw json.RawMessage
}

func NewLineString(points ...Position) Geometry {
	return Geometry{Type: LineString, Line: points}
}

func NewPolygon(rings ...[]Position) Geometry {
	return Geometry{Type: Polygon, Rings: rings}
}

// Primary returns the coordinate array an overlay element is bound to:
// the points of a LineString or the outer ring of a Polygon.
func (g Geometry) Primary() []Position {
	switch g.Type {
	case LineString:
		return g.Line
	case Polygon:
		if len(g.Rings) > 0 {
			return g.Rings[0]
		}
	}
	return nil
}

// Coordinates returns the raw coordinates value as it appears on the wire.
func (g Geometry) Coordinates() interface{} {
	switch g.Type {
	case Polygon:
		return g.Rings
	case LineString:
		return g.Line
	}
	if len(g.raw) > 0 {
		return g.raw
	}
	return g.Line
}

// Validate checks the shape invariants of the geometry.
func (g Geometry) Validate() error {
	switch g.Type {
	case LineString:
		if len(g.Line) < 2 {
			return fmt.Errorf("linestring needs at least 2 points, got %d", len(g.Line))
		}
	case Polygon:
		if len(g.Rings) == 0 {
			return errors.New("polygon has no rings")
		}
		if len(g.Rings[0]) < 3 {
			return fmt.Errorf("polygon outer ring needs at least 3 points, got %d", len(g.Rings[0]))
		}
	default:
		return fmt.Errorf("%s geometry type not implemented", g.Type)
	}
	return nil
}

type geometryJSON struct {
	Type        GeometryType    `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

func (g Geometry) MarshalJSON() ([]byte, error) {
	coords, err := json.Marshal(g.Coordinates())
	if err != nil {
		return nil, err
	}
	return json.Marshal(geometryJSON{Type: g.Type, Coordinates: coords})
}

func (g *Geometry) UnmarshalJSON(data []byte) error {
	var raw geometryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := Geometry{Type: raw.Type}
	switch raw.Type {
	case LineString:
		if err := json.Unmarshal(raw.Coordinates, &out.Line); err != nil {
			return errors.Wrap(err, "linestring coordinates")
		}
	case Polygon:
		if err := json.Unmarshal(raw.Coordinates, &out.Rings); err != nil {
			return errors.Wrap(err, "polygon coordinates")
		}
	default:
		out.raw = raw.Coordinates
	}

	*g = out
	return nil
}

// Annotation is an externally owned, read-only vector annotation.
type Annotation struct {
	ID       string   `json:"id,omitempty"`
	Name     string   `json:"name,omitempty"`
	Geometry Geometry `json:"geometry"`
}

// Equal reports whether two coordinate arrays hold the same points in order.
func Equal(a, b []Position) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
