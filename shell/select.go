package shell

import (
	"errors"
	"fmt"

	"github.com/abiosoft/ishell"
	flag "github.com/ogier/pflag"

	"github.com/juruen/slideview/identity"
)

func selectCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name:      "select",
		Help:      "select an annotation and frame it, usage: select [--clear] <index|hash>",
		Completer: createAnnotationCompleter(ctx),
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("select", flag.ContinueOnError)
			clearSelection := flagSet.BoolP("clear", "c", false, "clear the selection")
			if err := flagSet.Parse(c.Args); err != nil {
				if err != flag.ErrHelp {
					c.Err(err)
				}
				return
			}

			if *clearSelection {
				ctx.Selection.Clear()
				return
			}

			args := flagSet.Args()
			if len(args) == 0 {
				c.Err(errors.New("missing annotation"))
				return
			}

			a, err := ctx.Find(args[0])
			if err != nil {
				c.Err(err)
				return
			}

			ctx.Selection.Select(a)
			if f, ok := ctx.Session.LastFrame(); ok {
				c.Printf("center: %.6f,%.6f zoom: %.6f\n", f.Center.X, f.Center.Y, f.Zoom)
			}
		},
	}
}

func clickCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "click",
		Help: "click the overlay element with the given id, usage: click <hash>",
		Func: func(c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Err(errors.New("missing element id"))
				return
			}

			id := c.Args[0]
			if a, err := ctx.Find(id); err == nil {
				id = identity.Of(a.Geometry)
			}

			if !ctx.Overlay.Click(id) {
				c.Err(fmt.Errorf("no element %s", c.Args[0]))
			}
		},
	}
}
