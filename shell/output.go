package shell

import (
	"encoding/json"

	"github.com/abiosoft/ishell"

	"github.com/juruen/slideview/deepzoom"
	"github.com/juruen/slideview/geometry"
	"github.com/juruen/slideview/identity"
	"github.com/juruen/slideview/model"
	"github.com/juruen/slideview/pyramid"
	"github.com/juruen/slideview/version"
	"github.com/juruen/slideview/viewer"
)

type AnnotationJSON struct {
	Index    int     `json:"index"`
	ID       string  `json:"id,omitempty"`
	Name     string  `json:"name,omitempty"`
	Type     string  `json:"type"`
	Hash     string  `json:"hash"`
	Points   int     `json:"points"`
	Area     float64 `json:"area"`
	Selected bool    `json:"selected"`
}

func AnnotationToJSON(index int, a *model.Annotation, selected *model.Annotation) AnnotationJSON {
	return AnnotationJSON{
		Index:    index,
		ID:       a.ID,
		Name:     a.Name,
		Type:     string(a.Geometry.Type),
		Hash:     identity.Of(a.Geometry),
		Points:   len(a.Geometry.Primary()),
		Area:     geometry.Area(a.Geometry),
		Selected: a == selected,
	}
}

// AnnotationsJSON lists the annotations of the open slide.
func (ctx *ShellCtxt) AnnotationsJSON() []AnnotationJSON {
	list := ctx.Session.Annotations()
	selected := ctx.Selection.Selected()
	out := make([]AnnotationJSON, len(list))
	for i := range list {
		out[i] = AnnotationToJSON(i, &list[i], selected)
	}
	return out
}

type SourceJSON struct {
	*pyramid.TileSource
	LevelCount      int     `json:"levelCount"`
	Downsamples     []int   `json:"downsamples"`
	TileURLTemplate string  `json:"tileUrlTemplate"`
	MicronsPerPixel float64 `json:"micronsPerPixel,omitempty"`
	PixelsPerMeter  float64 `json:"pixelsPerMeter"`
}

// SourceJSON describes the open slide, nil if none.
func (ctx *ShellCtxt) SourceJSON() *SourceJSON {
	d := ctx.Session.Descriptor()
	if d == nil {
		return nil
	}
	mpp, _ := d.MicronsPerPixel()
	return &SourceJSON{
		TileSource:      d.TileSource(),
		LevelCount:      d.LevelCount,
		Downsamples:     d.Downsamples(),
		TileURLTemplate: d.TileURLTemplate,
		MicronsPerPixel: mpp,
		PixelsPerMeter:  d.PixelsPerMeter(),
	}
}

type FrameJSON struct {
	CenterX float64 `json:"centerX"`
	CenterY float64 `json:"centerY"`
	Zoom    float64 `json:"zoom"`
}

type StatusJSON struct {
	Version         string     `json:"version"`
	Slide           string     `json:"slide,omitempty"`
	Open            bool       `json:"open"`
	Error           string     `json:"error,omitempty"`
	Annotations     int        `json:"annotations"`
	Selected        string     `json:"selected,omitempty"`
	Zoom            float64    `json:"zoom"`
	MinZoom         float64    `json:"minZoom"`
	MaxZoom         float64    `json:"maxZoom"`
	CenterX         float64    `json:"centerX"`
	CenterY         float64    `json:"centerY"`
	Level           int        `json:"level"`
	StrokeThickness string     `json:"strokeThickness,omitempty"`
	LastFrame       *FrameJSON `json:"lastFrame,omitempty"`
}

// Status reports the session and viewport state.
func (ctx *ShellCtxt) Status() StatusJSON {
	s := StatusJSON{
		Version:         version.Version,
		Slide:           ctx.Session.SlideID(),
		Open:            ctx.Viewer.IsOpen(),
		Annotations:     len(ctx.Session.Annotations()),
		StrokeThickness: ctx.Overlay.Property(viewer.StrokeThicknessVar),
	}
	if err := ctx.Session.Err(); err != nil {
		s.Error = err.Error()
	}
	if a := ctx.Selection.Selected(); a != nil {
		s.Selected = identity.Of(a.Geometry)
	}
	if s.Open {
		center := ctx.Viewer.Center()
		s.Zoom = ctx.Viewer.Zoom()
		s.MinZoom = ctx.Viewer.MinZoom()
		s.MaxZoom = ctx.Viewer.MaxZoom()
		s.CenterX, s.CenterY = center.X, center.Y
		s.Level = ctx.Viewer.Level()
	}
	if f, ok := ctx.Session.LastFrame(); ok {
		s.LastFrame = &FrameJSON{CenterX: f.Center.X, CenterY: f.Center.Y, Zoom: f.Zoom}
	}
	return s
}

// VisibleTiles lists the tiles the viewer needs for the current view.
func (ctx *ShellCtxt) VisibleTiles() []deepzoom.Tile {
	return ctx.Viewer.VisibleTiles()
}

func printJSON(c *ishell.Context, v interface{}) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	c.Println(string(output))
	return nil
}
