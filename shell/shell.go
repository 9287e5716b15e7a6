package shell

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/abiosoft/ishell"
	shlex "github.com/flynn-archive/go-shlex"
	"github.com/pkg/errors"

	"github.com/juruen/slideview/annotations"
	"github.com/juruen/slideview/config"
	"github.com/juruen/slideview/deepzoom"
	"github.com/juruen/slideview/identity"
	"github.com/juruen/slideview/log"
	"github.com/juruen/slideview/model"
	"github.com/juruen/slideview/overlay"
	"github.com/juruen/slideview/viewer"
)

// ShellCtxt is the state shared by the shell commands and the API server.
type ShellCtxt struct {
	Session    *viewer.Session
	Viewer     *deepzoom.Viewer
	Overlay    *overlay.SVG
	Selection  *viewer.Selection
	JSONOutput bool

	fetcher viewer.Fetcher

	mu              sync.Mutex
	annotationsPath string
}

func NewShellCtxt(fetcher viewer.Fetcher, cfg config.Config) *ShellCtxt {
	ctx := &ShellCtxt{
		Viewer:    deepzoom.New(cfg.Container.Width, cfg.Container.Height),
		Overlay:   overlay.New(),
		Selection: viewer.NewSelection(),
		fetcher:   fetcher,
	}
	ctx.Session = viewer.NewSession(fetcher, ctx.Viewer, ctx.Overlay, ctx.Selection, viewer.Options{
		ReferenceStrokeWidth: cfg.ReferenceStrokeWidth,
		Notify: func(err error) {
			fmt.Fprintln(os.Stderr, "slide failed to load:", err)
		},
	})
	return ctx
}

func (ctx *ShellCtxt) prompt() string {
	slide := ctx.Session.SlideID()
	if slide == "" {
		return "[no slide]>"
	}
	return fmt.Sprintf("[%s]>", slide)
}

// Open loads the annotation file, if any, and opens slideID with it.
func (ctx *ShellCtxt) Open(c context.Context, slideID, annotationsPath string) error {
	var list []model.Annotation
	if annotationsPath != "" {
		var err error
		list, err = annotations.LoadFile(annotationsPath)
		if err != nil {
			return err
		}
	}
	return ctx.OpenWith(c, slideID, list, annotationsPath)
}

// OpenWith opens slideID with annotations already in memory.
func (ctx *ShellCtxt) OpenWith(c context.Context, slideID string, list []model.Annotation, source string) error {
	ctx.Selection.Clear()
	if err := ctx.Session.Open(c, slideID, list); err != nil {
		return err
	}
	ctx.setAnnotationsPath(source)
	return nil
}

// AnnotationsPath returns the file the current annotations were loaded from.
func (ctx *ShellCtxt) AnnotationsPath() string {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	return ctx.annotationsPath
}

func (ctx *ShellCtxt) setAnnotationsPath(path string) {
	ctx.mu.Lock()
	ctx.annotationsPath = path
	ctx.mu.Unlock()
}

// Find resolves ref to an annotation of the open slide. ref is either the
// annotation index as listed by ls or a prefix of its identity hash.
func (ctx *ShellCtxt) Find(ref string) (*model.Annotation, error) {
	list := ctx.Session.Annotations()
	if len(list) == 0 {
		return nil, errors.New("no annotations loaded")
	}

	if i, err := strconv.Atoi(ref); err == nil {
		if i < 0 || i >= len(list) {
			return nil, errors.Errorf("annotation index %d out of range [0,%d)", i, len(list))
		}
		return &list[i], nil
	}

	var found *model.Annotation
	for i := range list {
		if strings.HasPrefix(identity.Of(list[i].Geometry), ref) {
			if found != nil {
				return nil, errors.Errorf("ambiguous annotation hash %s", ref)
			}
			found = &list[i]
		}
	}
	if found == nil {
		return nil, errors.Errorf("annotation %s not found", ref)
	}
	return found, nil
}

func (ctx *ShellCtxt) requireSlide() error {
	if ctx.Session.Descriptor() == nil {
		return errors.New("no slide open")
	}
	return nil
}

func createAnnotationCompleter(ctx *ShellCtxt) func([]string) []string {
	return func(args []string) []string {
		list := ctx.Session.Annotations()
		out := make([]string, 0, len(list))
		for i := range list {
			out = append(out, strconv.Itoa(i))
		}
		return out
	}
}

func setCustomCompleter(shell *ishell.Shell) {
	cmdCompleter := make(cmdToCompleter)
	for _, cmd := range shell.Cmds() {
		cmdCompleter[cmd.Name] = cmd.Completer
	}

	completer := shellPathCompleter{cmdCompleter}
	shell.CustomCompleter(completer)
}

type cmdToCompleter map[string]func([]string) []string

type shellPathCompleter struct {
	cmdCompleter cmdToCompleter
}

func (i shellPathCompleter) Do(line []rune, pos int) (newLine [][]rune, length int) {
	var words []string
	if w, err := shlex.Split(string(line)); err == nil {
		words = w
	} else {
		words = strings.Fields(string(line))
	}

	var cWords []string
	prefix := ""
	if len(words) > 0 && pos >= 1 && line[pos-1] != ' ' {
		prefix = words[len(words)-1]
		cWords = i.getWords(words[:len(words)-1])
	} else {
		cWords = i.getWords(words)
	}

	var suggestions [][]rune
	for _, w := range cWords {
		if strings.HasPrefix(w, prefix) {
			suggestions = append(suggestions, []rune(strings.TrimPrefix(w, prefix)))
		}
	}
	if len(suggestions) == 1 && prefix != "" && string(suggestions[0]) == "" {
		suggestions = [][]rune{[]rune(" ")}
	}
	return suggestions, len(prefix)
}

func (i shellPathCompleter) getWords(w []string) []string {
	if len(w) == 0 {
		words := make([]string, 0, len(i.cmdCompleter))
		for k := range i.cmdCompleter {
			words = append(words, k)
		}
		return words
	}

	completer, ok := i.cmdCompleter[w[0]]
	if !ok || completer == nil {
		return []string{}
	}
	return completer(w[1:])
}

// RunShell starts the interactive shell, or runs args as one command.
func RunShell(ctx *ShellCtxt, args []string) error {
	shell := ishell.New()

	shell.SetPrompt(ctx.prompt())

	shell.AddCmd(openCmd(ctx))
	shell.AddCmd(refreshCmd(ctx))
	shell.AddCmd(closeCmd(ctx))
	shell.AddCmd(lsCmd(ctx))
	shell.AddCmd(findCmd(ctx))
	shell.AddCmd(selectCmd(ctx))
	shell.AddCmd(clickCmd(ctx))
	shell.AddCmd(zoomCmd(ctx))
	shell.AddCmd(panCmd(ctx))
	shell.AddCmd(tileCmd(ctx))
	shell.AddCmd(tilesCmd(ctx))
	shell.AddCmd(sourceCmd(ctx))
	shell.AddCmd(statusCmd(ctx))
	shell.AddCmd(svgCmd(ctx))
	shell.AddCmd(pdfCmd(ctx))
	shell.AddCmd(prefetchCmd(ctx))
	shell.AddCmd(versionCmd(ctx))

	setCustomCompleter(shell)

	if len(args) > 0 {
		log.Trace.Println("running", args)
		return shell.Process(args...)
	}

	shell.Printf("slideview, type 'help' for available commands\n")
	shell.Run()
	return nil
}
