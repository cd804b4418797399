// Package console runs an interactive collision session on a terminal, either
// local or over SSH. Each line holds two shapes; the session draws them and
// prints whether they collide.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tomz197/shapecollide/internal/draw"
	"github.com/tomz197/shapecollide/internal/input"
	"github.com/tomz197/shapecollide/internal/log"
	"github.com/tomz197/shapecollide/internal/service"
	"github.com/tomz197/shapecollide/internal/shape"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	// Rows used by the title, the two status lines and the prompt.
	chromeRows = 4
	prompt     = "> "
)

var helpLines = []string{
	"shapes: circle x y r | rect x y w h | line x1 y1 x2 y2",
	"example: line 1 1 10 1 | circle 4 4 3    commands: help, clear, quit",
}

// Options configures a Session.
type Options struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Log          log.Log
}

// Session is one interactive console.
type Session struct {
	svc      *service.Service
	editor   *input.LineEditor
	writer   io.Writer
	out      *draw.ChunkWriter
	canvas   *draw.Canvas
	termSize draw.TermSizeFunc
	log      log.Log

	width, height int
	shapes        []shape.Shape
	status        []string
}

// New creates a session reading raw terminal bytes from r and drawing to w.
func New(svc *service.Service, r io.Reader, w io.Writer, opts Options) *Session {
	termSize := opts.TermSizeFunc
	if termSize == nil {
		termSize = draw.DefaultTermSizeFunc
	}
	l := opts.Log
	if l == nil {
		l = log.Nop()
	}
	if opts.Username != "" {
		l = l.With(log.String("user", opts.Username))
	}

	return &Session{
		svc:      svc,
		editor:   input.NewLineEditor(input.StartStream(r), w),
		writer:   w,
		out:      draw.NewChunkWriter(w),
		termSize: termSize,
		log:      l,
		status:   helpLines,
	}
}

// Run processes lines until the user quits, the input ends or ctx is done.
func (s *Session) Run(ctx context.Context) error {
	s.log.Info("console session started")
	defer s.log.Info("console session ended")

	draw.ShowCursor(s.writer)
	if err := s.redraw(); err != nil {
		return err
	}

	for {
		line, err := s.editor.ReadLine(ctx)
		switch {
		case errors.Is(err, io.EOF), errors.Is(err, input.ErrInterrupted),
			errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			draw.ClearScreen(s.writer)
			return nil
		case err != nil:
			return err
		}

		if quit := s.handle(ctx, strings.TrimSpace(line)); quit {
			draw.ClearScreen(s.writer)
			return nil
		}
		if err := s.redraw(); err != nil {
			return err
		}
	}
}

// handle executes one input line and reports whether the session should end.
func (s *Session) handle(ctx context.Context, line string) bool {
	switch strings.ToLower(line) {
	case "":
		return false
	case "quit", "exit":
		return true
	case "help":
		s.status = helpLines
		return false
	case "clear":
		s.shapes = nil
		s.status = nil
		return false
	}

	a, b, err := shape.ParsePair(line)
	if err != nil {
		s.status = []string{"error: " + err.Error(), helpLines[0]}
		return false
	}
	res, err := s.svc.Collide(ctx, service.Pair{A: a, B: b})
	if err != nil {
		s.log.Debug("query rejected", log.String("line", line), log.Err(err))
		s.status = []string{"error: " + err.Error(), helpLines[0]}
		return false
	}

	// Both descriptors converted inside Collide, so these cannot fail.
	sa, _ := a.Shape()
	sb, _ := b.Shape()
	s.shapes = []shape.Shape{sa, sb}
	s.status = []string{fmt.Sprintf("A: %s   B: %s", a, b), verdict(res.Collides)}
	return false
}

func verdict(collides bool) string {
	if collides {
		return "=> COLLIDE"
	}
	return "=> no collision"
}

// redraw paints the whole frame and leaves the cursor after the prompt.
func (s *Session) redraw() error {
	s.updateSize()

	draw.ClearScreen(s.out)
	s.out.WriteAt(1, 1, "shapecollide: type two shapes, 'help' or 'quit'")

	if len(s.shapes) > 0 {
		v := draw.RenderShapes(s.canvas, s.shapes...)
		if err := s.canvas.Render(s.out); err != nil {
			return err
		}
		for i, sh := range s.shapes {
			_, hi := sh.Bounds()
			col, row := s.canvas.LogicalToTerminal(v.Map(hi).X, v.Map(hi).Y)
			s.out.MoveCursor(col, max(row, 2))
			s.out.WriteString(string(rune('A' + i)))
		}
	}

	for i, line := range s.status {
		if i >= 2 {
			break
		}
		s.out.WriteAt(1, s.height-2+i, truncate(line, s.width))
	}
	s.out.WriteAt(1, s.height, prompt)
	return s.out.Flush()
}

// updateSize recreates the canvas when the terminal size changed.
func (s *Session) updateSize() {
	w, h, err := s.termSize()
	if err != nil || w <= 0 || h <= chromeRows {
		w, h = defaultWidth, defaultHeight
	}
	if s.canvas != nil && w == s.width && h == s.height {
		return
	}
	s.width, s.height = w, h
	s.canvas = draw.NewCanvas(w, h-chromeRows)
	// Row 1 holds the title.
	s.canvas.SetOffset(0, 1)
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	return s[:width]
}
