package shell

import (
	"github.com/abiosoft/ishell"
	flag "github.com/ogier/pflag"
)

func displayAnnotation(c *ishell.Context, a AnnotationJSON) {
	mark := " "
	if a.Selected {
		mark = "*"
	}
	c.Printf("%s[%d]\t%s\t%s\t%s\n", mark, a.Index, a.Hash[:12], a.Type, a.Name)
}

func lsCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "ls",
		Help: "list annotations, usage: ls [--json]",
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("ls", flag.ContinueOnError)
			jsonOutput := flagSet.Bool("json", ctx.JSONOutput, "output in JSON format")
			if err := flagSet.Parse(c.Args); err != nil {
				if err != flag.ErrHelp {
					c.Err(err)
				}
				return
			}

			list := ctx.AnnotationsJSON()
			if *jsonOutput {
				if err := printJSON(c, list); err != nil {
					c.Err(err)
				}
				return
			}

			for _, a := range list {
				displayAnnotation(c, a)
			}
		},
	}
}
