package shell

import (
	"context"
	"errors"

	"github.com/abiosoft/ishell"
)

func openCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "open",
		Help: "open a slide, usage: open <slide> [annotations.json]",
		Func: func(c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Err(errors.New("missing slide"))
				return
			}

			annotationsPath := ""
			if len(c.Args) > 1 {
				annotationsPath = c.Args[1]
			}

			c.Printf("opening: [%s]...\n", c.Args[0])
			err := ctx.Open(context.Background(), c.Args[0], annotationsPath)
			c.SetPrompt(ctx.prompt())
			if err != nil {
				c.Err(err)
				return
			}

			c.Printf("OK, %d annotations\n", len(ctx.Session.Annotations()))
		},
	}
}

func closeCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "close",
		Help: "close the current slide",
		Func: func(c *ishell.Context) {
			ctx.Selection.Clear()
			ctx.Session.Close()
			ctx.setAnnotationsPath("")
			c.SetPrompt(ctx.prompt())
		},
	}
}
