package overlay

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

const stylesheet = `.annotation{stroke-width:var(--stroke-thickness,0.001);cursor:pointer}` +
	`.selected--annotation{stroke:#ff0 !important}`

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// WriteTo renders the overlay as a standalone SVG document.
func (o *SVG) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)

	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 1 %s" style="%s">`,
		num(o.Aspect()), attr(declarations(o.properties())))
	fmt.Fprintf(bw, "\n<style>%s</style>\n", stylesheet)

	for _, e := range o.Elements() {
		writeElement(bw, e)
	}
	bw.WriteString("</svg>\n")

	err := bw.Flush()
	return cw.n, err
}

func writeElement(w *bufio.Writer, e *Element) {
	points := make([]string, len(e.Points))
	for i, p := range e.Points {
		points[i] = num(p.X) + "," + num(p.Y)
	}

	tag := "polygon"
	if e.Kind == Line {
		tag = "polyline"
	}

	fmt.Fprintf(w, `<%s id="%s" class="%s" points="%s"`,
		tag, attr(e.ID), attr(strings.Join(e.Classes(), " ")), strings.Join(points, " "))
	if len(e.Style) > 0 {
		fmt.Fprintf(w, ` style="%s"`, attr(declarations(e.Style)))
	}
	w.WriteString("/>\n")
}

func declarations(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ":" + m[k]
	}
	return strings.Join(parts, ";")
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func attr(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
