package overlay

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juruen/slideview/geometry"
)

func TestElementClasses(t *testing.T) {
	e := NewElement(Polygon, "p1").Classed("annotation", true).Classed("selected--annotation", true)

	assert.True(t, e.HasClass("annotation"))
	assert.Equal(t, []string{"annotation", "selected--annotation"}, e.Classes())

	e.Classed("selected--annotation", false)
	assert.False(t, e.HasClass("selected--annotation"))
	assert.Equal(t, []string{"annotation"}, e.Classes())
}

func TestClickDispatch(t *testing.T) {
	o := New()
	clicks := 0
	o.Append(NewElement(Line, "l1").OnClick(func() { clicks++ }))
	o.Append(NewElement(Line, "l2"))

	assert.True(t, o.Click("l1"))
	assert.Equal(t, 1, clicks)
	assert.False(t, o.Click("l2"))
	assert.False(t, o.Click("missing"))
}

func TestSelectAndClear(t *testing.T) {
	o := New()
	o.Append(NewElement(Line, "a").Classed("annotation", true))
	o.Append(NewElement(Polygon, "b").Classed("annotation", true))
	o.Append(NewElement(Polygon, "c"))

	assert.Len(t, o.Elements(), 3)
	assert.Len(t, o.Select("annotation"), 2)
	assert.Len(t, o.ByID("b"), 1)

	o.Clear()
	assert.Empty(t, o.Elements())
}

func TestProperties(t *testing.T) {
	o := New()
	assert.Equal(t, "", o.Property("--stroke-thickness"))

	o.SetProperty("--stroke-thickness", "0.002")
	assert.Equal(t, "0.002", o.Property("--stroke-thickness"))
}

func TestWriteSVG(t *testing.T) {
	o := New()
	o.Resize(0.5)
	o.SetProperty("--stroke-thickness", "0.001")

	e := NewElement(Polygon, "abc").Classed("annotation", true)
	e.Points = []geometry.Point2D{{X: 0, Y: 0}, {X: 0.5, Y: 0}, {X: 0.5, Y: 0.25}}
	e.Style["stroke"] = "#f00"
	e.Style["fill"] = "transparent"
	o.Append(e)

	l := NewElement(Line, `q"uote`).Classed("annotation", true)
	l.Points = []geometry.Point2D{{X: 0.1, Y: 0.1}, {X: 0.2, Y: 0.2}}
	o.Append(l)

	var buf bytes.Buffer
	n, err := o.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 1 0.5" style="--stroke-thickness:0.001">`))
	assert.Contains(t, out, `<polygon id="abc" class="annotation" points="0,0 0.5,0 0.5,0.25" style="fill:transparent;stroke:#f00"/>`)
	assert.Contains(t, out, `<polyline id="q&#34;uote" class="annotation" points="0.1,0.1 0.2,0.2"/>`)
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))
}

func TestResizeIgnoresNonPositive(t *testing.T) {
	o := New()
	o.Resize(0)
	assert.Equal(t, 1.0, o.Aspect())
}
