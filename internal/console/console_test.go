package console

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tomz197/shapecollide/internal/draw"
	"github.com/tomz197/shapecollide/internal/log"
	"github.com/tomz197/shapecollide/internal/service"
)

// syncBuffer guards a bytes.Buffer written by the session and read by the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func run(t *testing.T, raw string) string {
	t.Helper()
	svc := service.New(log.Nop(), service.Options{Name: "test"})
	var out syncBuffer
	s := New(svc, strings.NewReader(raw), &out, Options{TermSizeFunc: draw.FixedTermSize(100, 20)})
	require.NoError(t, s.Run(context.Background()))
	return out.String()
}

func TestSessionCollide(t *testing.T) {
	out := run(t, "circle 10 10 2 | rect 9 9 1 1\rquit\r")
	assert.Contains(t, out, "A: circle 10 10 2   B: rect 9 9 1 1")
	assert.Contains(t, out, "=> COLLIDE")
	assert.True(t, strings.ContainsAny(out, string([]rune{draw.BlockFull, draw.BlockUpperHalf, draw.BlockLowerHalf})))
}

func TestSessionNoCollision(t *testing.T) {
	out := run(t, "line 0 5 10 5 line 0 6 10 6\r")
	assert.Contains(t, out, "=> no collision")
}

func TestSessionErrors(t *testing.T) {
	out := run(t, "triangle 1 2 3\rrect 0 0 0 1 circle 0 0 1\r")
	assert.Contains(t, out, `error: invalid shape type: "triangle"`)
	assert.Contains(t, out, "error: shape a: shape is invalid, cannot convert to rect: width must be positive")
}

func TestSessionCommands(t *testing.T) {
	out := run(t, "help\rclear\r\x03")
	// Drawn by the first frame and again after "help".
	assert.Equal(t, 2, strings.Count(out, helpLines[0]))
	assert.True(t, strings.HasSuffix(out, "\033[H\033[2J"))
}

func TestSessionLogsUser(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	svc := service.New(log.Nop(), service.Options{})
	s := New(svc, strings.NewReader("quit\r"), &syncBuffer{}, Options{
		TermSizeFunc: draw.FixedTermSize(40, 12),
		Username:     "ada",
		Log:          log.NewWithCore(core, log.LevelInfo),
	})
	require.NoError(t, s.Run(context.Background()))

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "ada", logs.All()[0].ContextMap()["user"])
}

func TestSessionContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pr, pw := io.Pipe()
	defer pw.Close()

	svc := service.New(log.Nop(), service.Options{})
	s := New(svc, pr, &syncBuffer{}, Options{TermSizeFunc: draw.FixedTermSize(40, 12)})
	assert.NoError(t, s.Run(ctx))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abcdef", 3))
	assert.Equal(t, "ab", truncate("ab", 3))
}
