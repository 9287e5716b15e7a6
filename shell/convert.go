package shell

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abiosoft/ishell"
	flag "github.com/ogier/pflag"

	"github.com/juruen/slideview/annotations"
)

// WriteSVG renders the overlay to path.
func (ctx *ShellCtxt) WriteSVG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := ctx.Overlay.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WritePDF renders the overlay to a one page PDF at path.
func (ctx *ShellCtxt) WritePDF(path string, options annotations.PdfGeneratorOptions) error {
	if options.Title == "" {
		options.Title = ctx.Session.SlideID()
	}
	return annotations.CreatePdfGenerator(path, options).Generate(ctx.Overlay)
}

func outputName(c *ishell.Context, ctx *ShellCtxt, args []string, ext string) (string, bool) {
	if err := ctx.requireSlide(); err != nil {
		c.Err(err)
		return "", false
	}
	if len(args) > 0 {
		return args[0], true
	}
	name := strings.TrimSuffix(filepath.Base(ctx.Session.SlideID()), filepath.Ext(ctx.Session.SlideID()))
	if name == "" || name == "." {
		c.Err(errors.New("missing output file"))
		return "", false
	}
	return name + ext, true
}

func svgCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "svg",
		Help: "write the annotation overlay as SVG, usage: svg [file]",
		Func: func(c *ishell.Context) {
			out, ok := outputName(c, ctx, c.Args, ".svg")
			if !ok {
				return
			}

			if err := ctx.WriteSVG(out); err != nil {
				c.Err(errors.New(fmt.Sprintf("Failed to write %s: %s", out, err.Error())))
				return
			}
			c.Println(fmt.Sprintf("SVG saved to: %s", out))
		},
	}
}

func pdfCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "pdf",
		Help: "write the annotation overlay as PDF, usage: pdf [--width points] [--line points] [file]",
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("pdf", flag.ContinueOnError)
			var options annotations.PdfGeneratorOptions
			flagSet.Float64VarP(&options.PageWidth, "width", "w", annotations.DefaultPageWidth, "page width in points")
			flagSet.Float64Var(&options.LineWidth, "line", annotations.DefaultLineWidth, "stroke width in points")
			if err := flagSet.Parse(c.Args); err != nil {
				if err != flag.ErrHelp {
					c.Err(err)
				}
				return
			}

			out, ok := outputName(c, ctx, flagSet.Args(), ".pdf")
			if !ok {
				return
			}

			if err := ctx.WritePDF(out, options); err != nil {
				c.Err(errors.New(fmt.Sprintf("Failed to write %s: %s", out, err.Error())))
				return
			}
			c.Println(fmt.Sprintf("PDF saved to: %s", out))
		},
	}
}
