package shell

import (
	"github.com/abiosoft/ishell"

	"github.com/juruen/slideview/version"
)

func statusCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "status",
		Help: "show session and viewport state",
		Func: func(c *ishell.Context) {
			if err := printJSON(c, ctx.Status()); err != nil {
				c.Err(err)
			}
		},
	}
}

func versionCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "version",
		Help: "show slideview version",
		Func: func(c *ishell.Context) {
			c.Println("slideview:", version.Version)
		},
	}
}
