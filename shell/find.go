package shell

import (
	"errors"
	"regexp"

	"github.com/abiosoft/ishell"
	flag "github.com/ogier/pflag"
)

func findCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "find",
		Help: "find annotations by name or id, usage: find [--json] <regexp>",
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("find", flag.ContinueOnError)
			jsonOutput := flagSet.Bool("json", ctx.JSONOutput, "output in JSON format")
			if err := flagSet.Parse(c.Args); err != nil {
				if err != flag.ErrHelp {
					c.Err(err)
				}
				return
			}
			argRest := flagSet.Args()
			if len(argRest) == 0 {
				c.Err(errors.New("missing pattern"))
				return
			}

			matchRegexp, err := regexp.Compile(argRest[0])
			if err != nil {
				c.Err(errors.New("failed to compile regexp"))
				return
			}

			var matched []AnnotationJSON
			for _, a := range ctx.AnnotationsJSON() {
				if matchRegexp.MatchString(a.Name) || matchRegexp.MatchString(a.ID) {
					matched = append(matched, a)
				}
			}

			if *jsonOutput {
				if matched == nil {
					matched = []AnnotationJSON{}
				}
				if err := printJSON(c, matched); err != nil {
					c.Err(err)
				}
				return
			}
			for _, a := range matched {
				displayAnnotation(c, a)
			}
		},
	}
}
