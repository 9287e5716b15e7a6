package shell

import (
	"context"

	"github.com/abiosoft/ishell"
	"github.com/pkg/errors"

	"github.com/juruen/slideview/log"
)

// Forgetter drops cached metadata so the next fetch reaches the server.
type Forgetter interface {
	Forget(slideID string) error
}

// Refresh refetches the metadata of the open slide and reloads its
// annotation file.
func (ctx *ShellCtxt) Refresh(c context.Context) error {
	slide := ctx.Session.SlideID()
	if slide == "" {
		return errors.New("no slide open")
	}

	if f, ok := ctx.fetcher.(Forgetter); ok {
		if err := f.Forget(slide); err != nil {
			log.Warning.Println("failed to drop cached metadata:", err)
		}
	}
	return ctx.Open(c, slide, ctx.AnnotationsPath())
}

func refreshCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "refresh",
		Help: "refetches the current slide and reloads its annotation file",
		Func: func(c *ishell.Context) {
			err := ctx.Refresh(context.Background())
			c.SetPrompt(ctx.prompt())
			if err != nil {
				c.Err(err)
				return
			}
			c.Printf("slide: %s\nannotations: %d\n", ctx.Session.SlideID(), len(ctx.Session.Annotations()))
		},
	}
}
