package shell

import (
	"errors"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/juruen/slideview/geometry"
)

func zoomCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "zoom",
		Help: "set the viewport zoom, usage: zoom <zoom|home|min|max>",
		Func: func(c *ishell.Context) {
			if err := ctx.requireSlide(); err != nil {
				c.Err(err)
				return
			}
			if len(c.Args) == 0 {
				c.Printf("zoom: %g\n", ctx.Viewer.Zoom())
				return
			}

			var zoom float64
			switch c.Args[0] {
			case "home":
				zoom = ctx.Viewer.HomeZoom()
			case "min":
				zoom = ctx.Viewer.MinZoom()
			case "max":
				zoom = ctx.Viewer.MaxZoom()
			default:
				z, err := strconv.ParseFloat(c.Args[0], 64)
				if err != nil || z <= 0 {
					c.Err(errors.New("zoom must be a positive number"))
					return
				}
				zoom = z
			}

			ctx.Viewer.ZoomTo(zoom)
			c.Printf("zoom: %g\n", zoom)
		},
	}
}

func panCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "pan",
		Help: "center the viewport, usage: pan <x> <y> (viewport coordinates)",
		Func: func(c *ishell.Context) {
			if err := ctx.requireSlide(); err != nil {
				c.Err(err)
				return
			}
			if len(c.Args) < 2 {
				c.Err(errors.New("missing coordinates"))
				return
			}

			x, errX := strconv.ParseFloat(c.Args[0], 64)
			y, errY := strconv.ParseFloat(c.Args[1], 64)
			if errX != nil || errY != nil {
				c.Err(errors.New("invalid coordinates"))
				return
			}

			ctx.Viewer.PanTo(geometry.NewPoint2D(x, y))
		},
	}
}
