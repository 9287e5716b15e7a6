package shell

import (
	"errors"
	"strconv"

	"github.com/abiosoft/ishell"
	flag "github.com/ogier/pflag"
)

func tileCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "tile",
		Help: "resolve a viewer tile to its remote URL, usage: tile <level> <x> <y>",
		Func: func(c *ishell.Context) {
			d := ctx.Session.Descriptor()
			if d == nil {
				c.Err(errors.New("no slide open"))
				return
			}
			if len(c.Args) < 3 {
				c.Err(errors.New("missing tile coordinates"))
				return
			}

			var coords [3]int
			for i := range coords {
				v, err := strconv.Atoi(c.Args[i])
				if err != nil || v < 0 {
					c.Err(errors.New("tile coordinates must be non-negative integers"))
					return
				}
				coords[i] = v
			}
			if coords[0] >= d.LevelCount {
				c.Err(errors.New("level out of range"))
				return
			}

			addr := d.Address(coords[0], coords[1], coords[2])
			c.Printf("level: %d origin: %d,%d size: %dx%d\n", addr.Level, addr.X, addr.Y, addr.Width, addr.Height)
			c.Println(addr.URL(d.TileURLTemplate))
		},
	}
}

func tilesCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "tiles",
		Help: "list the tiles of the current view, usage: tiles [--json]",
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("tiles", flag.ContinueOnError)
			jsonOutput := flagSet.Bool("json", ctx.JSONOutput, "output in JSON format")
			if err := flagSet.Parse(c.Args); err != nil {
				if err != flag.ErrHelp {
					c.Err(err)
				}
				return
			}

			tiles := ctx.VisibleTiles()
			if *jsonOutput {
				if err := printJSON(c, tiles); err != nil {
					c.Err(err)
				}
				return
			}
			for _, t := range tiles {
				c.Printf("[%d] %d,%d\t%s\n", t.Level, t.X, t.Y, t.URL)
			}
		},
	}
}

func sourceCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "source",
		Help: "show the tile source of the current slide",
		Func: func(c *ishell.Context) {
			src := ctx.SourceJSON()
			if src == nil {
				c.Err(errors.New("no slide open"))
				return
			}
			if err := printJSON(c, src); err != nil {
				c.Err(err)
			}
		},
	}
}
