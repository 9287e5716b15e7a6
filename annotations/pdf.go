package annotations

import (
	"github.com/unidoc/unipdf/v3/contentstream"
	"github.com/unidoc/unipdf/v3/contentstream/draw"
	"github.com/unidoc/unipdf/v3/creator"

	"github.com/juruen/slideview/log"
	"github.com/juruen/slideview/overlay"
	"github.com/juruen/slideview/viewer"
)

const (
	// DefaultPageWidth is the page width in points, A4 portrait.
	DefaultPageWidth = 595.0
	DefaultLineWidth = 1.0
)

// Canvas is the overlay content the generator draws.
type Canvas interface {
	Aspect() float64
	Elements() []*overlay.Element
}

type PdfGenerator struct {
	outputFilePath string
	options        PdfGeneratorOptions
}

type PdfGeneratorOptions struct {
	PageWidth float64
	LineWidth float64
	// Title is printed in the top left corner when set
	Title string
}

func CreatePdfGenerator(outputFilePath string, options PdfGeneratorOptions) *PdfGenerator {
	if options.PageWidth <= 0 {
		options.PageWidth = DefaultPageWidth
	}
	if options.LineWidth <= 0 {
		options.LineWidth = DefaultLineWidth
	}
	return &PdfGenerator{outputFilePath: outputFilePath, options: options}
}

// Generate writes a single page holding every overlay element. The page has
// the aspect of the slide; viewport x in [0,1] spans the page width.
func (p *PdfGenerator) Generate(canvas Canvas) error {
	aspect := canvas.Aspect()
	if aspect <= 0 {
		aspect = 1
	}

	c := creator.New()
	c.SetPageSize(creator.PageSize{p.options.PageWidth, p.options.PageWidth * aspect})
	page := c.NewPage()

	if p.options.Title != "" {
		para := c.NewParagraph(p.options.Title)
		para.SetFontSize(8)
		para.SetPos(10, 10)
		if err := c.Draw(para); err != nil {
			return err
		}
	}

	scale := c.Width()
	height := c.Height()

	contentCreator := contentstream.NewContentCreator()
	drawn := 0
	for _, e := range canvas.Elements() {
		if len(e.Points) < 2 {
			continue
		}

		path := draw.NewPath()
		for _, pt := range e.Points {
			path = path.AppendPoint(draw.NewPoint(pt.X*scale, height-pt.Y*scale))
		}
		if e.Kind == overlay.Polygon {
			first := e.Points[0]
			path = path.AppendPoint(draw.NewPoint(first.X*scale, height-first.Y*scale))
		}

		contentCreator.Add_q()
		contentCreator.Add_w(p.options.LineWidth)
		if e.HasClass(viewer.SelectedClass) {
			contentCreator.Add_RG(1.0, 1.0, 0.0)
		} else {
			contentCreator.Add_RG(1.0, 0.0, 0.0)
		}
		draw.DrawPathWithCreator(path, contentCreator)
		contentCreator.Add_S()
		contentCreator.Add_Q()
		drawn++
	}

	if drawn > 0 {
		ops := contentCreator.Operations()
		if err := page.AppendContentStream(string(ops.Bytes())); err != nil {
			return err
		}
	}

	log.Trace.Printf("writing %d elements to %s", drawn, p.outputFilePath)
	return c.WriteToFile(p.outputFilePath)
}
