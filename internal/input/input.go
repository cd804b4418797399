// Package input turns raw terminal bytes into edited lines.
package input

import (
	"bufio"
	"context"
	"errors"
	"io"
)

// ErrInterrupted is returned when the user presses Ctrl-C, or Ctrl-D on an empty line.
var ErrInterrupted = errors.New("input interrupted")

// DefaultMaxLine bounds the length of a line; further printable bytes are dropped.
const DefaultMaxLine = 256

const (
	keyInterrupt = 0x03
	keyEOT       = 0x04
	keyBackspace = '\b'
	keyDelete    = 0x7f
	keyEscape    = 0x1b
)

// Stream delivers input bytes via a channel so reads can be abandoned on
// context cancellation.
type Stream struct {
	ch chan byte
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
// The channel is closed when r returns an error.
func StartStream(r io.Reader) *Stream {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		defer close(s.ch)
		for {
			b, err := br.ReadByte()
			if err != nil {
				return
			}
			s.ch <- b
		}
	}()
	return s
}

type escState uint8

const (
	escNone escState = iota
	escStart
	escCSI
)

// LineEditor assembles lines from a raw-mode byte stream and echoes the edits.
type LineEditor struct {
	stream  *Stream
	echo    io.Writer
	maxLine int
	buf     []byte
	esc     escState
	lastCR  bool
}

// NewLineEditor reads from s and echoes to echo, which may be nil.
func NewLineEditor(s *Stream, echo io.Writer) *LineEditor {
	if echo == nil {
		echo = io.Discard
	}
	return &LineEditor{stream: s, echo: echo, maxLine: DefaultMaxLine}
}

// ReadLine blocks until Enter is pressed and returns the line without the
// terminator. It returns io.EOF once the stream ends with nothing pending.
func (e *LineEditor) ReadLine(ctx context.Context) (string, error) {
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case b, ok := <-e.stream.ch:
			if !ok {
				if len(e.buf) > 0 {
					return e.take(), nil
				}
				return "", io.EOF
			}
			line, done, err := e.feed(b)
			if err != nil || done {
				return line, err
			}
		}
	}
}

// feed applies one byte. done is true when a full line is available.
func (e *LineEditor) feed(b byte) (line string, done bool, err error) {
	cr := e.lastCR
	e.lastCR = false

	switch e.esc {
	case escStart:
		if b == '[' {
			e.esc = escCSI
		} else {
			e.esc = escNone
		}
		return "", false, nil
	case escCSI:
		// Parameters and intermediates until the final byte.
		if b >= 0x40 && b <= 0x7e {
			e.esc = escNone
		}
		return "", false, nil
	}

	switch {
	case b == '\r':
		e.lastCR = true
		e.write("\r\n")
		return e.take(), true, nil
	case b == '\n':
		if cr {
			return "", false, nil
		}
		e.write("\r\n")
		return e.take(), true, nil
	case b == keyInterrupt:
		e.buf = e.buf[:0]
		return "", false, ErrInterrupted
	case b == keyEOT:
		if len(e.buf) == 0 {
			return "", false, ErrInterrupted
		}
	case b == keyBackspace || b == keyDelete:
		if len(e.buf) > 0 {
			e.buf = e.buf[:len(e.buf)-1]
			e.write("\b \b")
		}
	case b == keyEscape:
		e.esc = escStart
	case b >= 0x20 && b < 0x7f:
		if len(e.buf) < e.maxLine {
			e.buf = append(e.buf, b)
			e.write(string(b))
		}
	}
	return "", false, nil
}

func (e *LineEditor) take() string {
	line := string(e.buf)
	e.buf = e.buf[:0]
	return line
}

func (e *LineEditor) write(s string) {
	_, _ = io.WriteString(e.echo, s)
}
