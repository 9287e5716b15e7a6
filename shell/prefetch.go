package shell

import (
	"context"
	"errors"

	"github.com/abiosoft/ishell"
	flag "github.com/ogier/pflag"
)

// Prefetcher warms the metadata of many slides at once.
type Prefetcher interface {
	Prefetch(ctx context.Context, slideIDs []string, batchSize int64) map[string]error
}

func prefetchCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "prefetch",
		Help: "fetch slide metadata ahead of opening, usage: prefetch [--batch n] <slide>...",
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("prefetch", flag.ContinueOnError)
			batch := flagSet.Int64P("batch", "b", 4, "concurrent requests")
			if err := flagSet.Parse(c.Args); err != nil {
				if err != flag.ErrHelp {
					c.Err(err)
				}
				return
			}

			slides := flagSet.Args()
			if len(slides) == 0 {
				c.Err(errors.New("missing slides"))
				return
			}

			p, ok := ctx.fetcher.(Prefetcher)
			if !ok {
				c.Err(errors.New("prefetch is not supported by this slide server client"))
				return
			}

			failed := p.Prefetch(context.Background(), slides, *batch)
			for _, slide := range slides {
				if err, ok := failed[slide]; ok {
					c.Printf("%s: %v\n", slide, err)
				}
			}
			c.Printf("prefetched %d of %d slides\n", len(slides)-len(failed), len(slides))
		},
	}
}
