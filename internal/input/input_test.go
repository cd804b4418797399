package input

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, raw string) ([]string, string, error) {
	t.Helper()
	var echo bytes.Buffer
	e := NewLineEditor(StartStream(strings.NewReader(raw)), &echo)

	var lines []string
	for {
		line, err := e.ReadLine(context.Background())
		if err != nil {
			return lines, echo.String(), err
		}
		lines = append(lines, line)
	}
}

func TestReadLine(t *testing.T) {
	lines, echo, err := readAll(t, "circle 1 2 3\rrect 0 0 1 1\r\nline 0 0 1 1\n")
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, []string{"circle 1 2 3", "rect 0 0 1 1", "line 0 0 1 1"}, lines)
	assert.Equal(t, 3, strings.Count(echo, "\r\n"))
}

func TestReadLineEditing(t *testing.T) {
	lines, echo, err := readAll(t, "circlx\x7fe 1\b2\r")
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, []string{"circle 2"}, lines)
	assert.Contains(t, echo, "\b \b")
}

func TestReadLineSkipsEscapeSequences(t *testing.T) {
	lines, _, _ := readAll(t, "a\x1b[Ab\x1b[1;5Cc\x1bOd\r")
	// ESC O is not a CSI sequence; only the O is swallowed.
	assert.Equal(t, []string{"abcd"}, lines)
}

func TestReadLinePendingAtEOF(t *testing.T) {
	lines, _, err := readAll(t, "help")
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, []string{"help"}, lines)
}

func TestReadLineInterrupt(t *testing.T) {
	lines, _, err := readAll(t, "one\rtw\x03")
	assert.ErrorIs(t, err, ErrInterrupted)
	assert.Equal(t, []string{"one"}, lines)

	_, _, err = readAll(t, "\x04")
	assert.ErrorIs(t, err, ErrInterrupted)
}

func TestReadLineMaxLength(t *testing.T) {
	lines, _, _ := readAll(t, strings.Repeat("x", DefaultMaxLine+10)+"\r")
	require.Len(t, lines, 1)
	assert.Len(t, lines[0], DefaultMaxLine)
}

func TestReadLineContext(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	e := NewLineEditor(StartStream(r), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := e.ReadLine(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
