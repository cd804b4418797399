// Command collide answers collision queries from the command line:
//
//	collide circle 10 10 2 rect 9 9 1 1
//	collide -f scenarios.yaml
//	collide             (interactive console on a terminal)
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/tomz197/shapecollide/internal/config"
	"github.com/tomz197/shapecollide/internal/console"
	"github.com/tomz197/shapecollide/internal/draw"
	"github.com/tomz197/shapecollide/internal/log"
	"github.com/tomz197/shapecollide/internal/service"
	"github.com/tomz197/shapecollide/internal/shape"
)

const (
	exitOK       = 0
	exitMismatch = 1
	exitError    = 2
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(exitError)
	}
	logger := log.New(log.ParseLevel(cfg.Log.Level))
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{
		svc: service.New(logger, service.Options{
			Name:     cfg.Name,
			Workers:  cfg.Batch.Workers,
			MaxPairs: cfg.Batch.MaxPairs,
		}),
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	os.Exit(a.run(ctx, os.Args[1:]))
}

type app struct {
	svc    *service.Service
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	// isTerminal reports whether stdin is an interactive terminal.
	isTerminal func() bool
}

// Scenario is one entry of a scenario file. Want is optional.
type Scenario struct {
	Name string           `yaml:"name"`
	A    shape.Descriptor `yaml:"a"`
	B    shape.Descriptor `yaml:"b"`
	Want *bool            `yaml:"want,omitempty"`
}

func (a *app) run(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("collide", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	file := fs.String("f", "", "evaluate the scenarios in a YAML `file`")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: collide [-f scenarios.yaml] [shape shape]")
		fmt.Fprintln(fs.Output(), "shapes: circle x y r | rect x y w h | line x1 y1 x2 y2")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitError
	}

	switch {
	case *file != "":
		return a.runScenarios(ctx, *file)
	case fs.NArg() > 0:
		return a.runPair(ctx, strings.Join(fs.Args(), " "))
	case a.terminal():
		return a.runConsole(ctx)
	default:
		return a.runLines(ctx)
	}
}

func (a *app) terminal() bool {
	if a.isTerminal != nil {
		return a.isTerminal()
	}
	f, ok := a.stdin.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// runPair evaluates one pair given on the command line.
func (a *app) runPair(ctx context.Context, text string) int {
	collides, err := a.collide(ctx, text)
	if err != nil {
		fmt.Fprintf(a.stderr, "collide: %v\n", err)
		return exitError
	}
	fmt.Fprintln(a.stdout, collides)
	return exitOK
}

// runLines evaluates one pair per line of stdin. Blank lines and lines
// starting with # are skipped.
func (a *app) runLines(ctx context.Context) int {
	code := exitOK
	scanner := bufio.NewScanner(a.stdin)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		collides, err := a.collide(ctx, line)
		if err != nil {
			fmt.Fprintf(a.stderr, "line %d: %v\n", n, err)
			code = exitError
			continue
		}
		fmt.Fprintln(a.stdout, collides)
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(a.stderr, "collide: %v\n", err)
		return exitError
	}
	return code
}

func (a *app) collide(ctx context.Context, text string) (bool, error) {
	da, db, err := shape.ParsePair(text)
	if err != nil {
		return false, err
	}
	res, err := a.svc.Collide(ctx, service.Pair{A: da, B: db})
	if err != nil {
		return false, err
	}
	return res.Collides, nil
}

func loadScenarios(r io.Reader) ([]Scenario, error) {
	var scenarios []Scenario
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&scenarios); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return scenarios, nil
}

// runScenarios evaluates a scenario file as one batch and compares each
// result with its expectation.
func (a *app) runScenarios(ctx context.Context, path string) int {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(a.stderr, "collide: %v\n", err)
		return exitError
	}
	defer f.Close()

	scenarios, err := loadScenarios(f)
	if err != nil {
		fmt.Fprintf(a.stderr, "collide: %s: %v\n", path, err)
		return exitError
	}

	pairs := make([]service.Pair, len(scenarios))
	for i, sc := range scenarios {
		pairs[i] = service.Pair{A: sc.A, B: sc.B}
	}
	results, err := a.svc.CollideBatch(ctx, pairs)
	if err != nil {
		var pe *service.PairError
		if errors.As(err, &pe) {
			fmt.Fprintf(a.stderr, "collide: scenario %q: %v\n", scenarios[pe.Index].label(pe.Index), pe.Err)
		} else {
			fmt.Fprintf(a.stderr, "collide: %v\n", err)
		}
		return exitError
	}

	code := exitOK
	for i, sc := range scenarios {
		got := results[i].Collides
		switch {
		case sc.Want == nil:
			fmt.Fprintf(a.stdout, "     %s: %t\n", sc.label(i), got)
		case *sc.Want == got:
			fmt.Fprintf(a.stdout, "ok   %s: %t\n", sc.label(i), got)
		default:
			fmt.Fprintf(a.stdout, "FAIL %s: got %t, want %t\n", sc.label(i), got, *sc.Want)
			code = exitMismatch
		}
	}
	return code
}

func (sc Scenario) label(i int) string {
	if sc.Name != "" {
		return sc.Name
	}
	return fmt.Sprintf("#%d", i+1)
}

// runConsole puts the terminal in raw mode and runs the interactive console.
// Session logs are dropped so they do not scribble over the screen.
func (a *app) runConsole(ctx context.Context) int {
	f, ok := a.stdin.(*os.File)
	if !ok {
		return a.runLines(ctx)
	}
	fd := int(f.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(a.stderr, "failed to enable raw mode: %v\n", err)
		return exitError
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	c := console.New(a.svc, a.stdin, a.stdout, console.Options{
		TermSizeFunc: draw.DefaultTermSizeFunc,
	})
	if err := c.Run(ctx); err != nil {
		fmt.Fprintf(a.stderr, "console error: %v\r\n", err)
		return exitError
	}
	return exitOK
}
