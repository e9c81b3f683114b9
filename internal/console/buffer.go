// Package console keeps the tail of the application log in memory so the
// in-app console view can render it.
package console

import (
	"bytes"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"horizon-ai/internal/eventbus"
)

const (
	DefaultCapacity = 500

	EventLine    = "console.line"
	EventCleared = "console.cleared"
)

type Line struct {
	Time  time.Time
	Level zerolog.Level
	Text  string
}

// Buffer is a bounded ring of formatted log lines. It implements
// zerolog.LevelWriter and can be used directly as a log target.
type Buffer struct {
	mu      sync.Mutex
	lines   []Line
	start   int
	count   int
	bus     *eventbus.Bus
	scratch bytes.Buffer
	format  zerolog.ConsoleWriter
	now     func() time.Time
}

// NewBuffer returns a buffer holding at most capacity lines. bus may be nil.
func NewBuffer(capacity int, bus *eventbus.Bus) *Buffer {
	if capacity < 1 {
		capacity = DefaultCapacity
	}

	b := &Buffer{
		lines: make([]Line, capacity),
		bus:   bus,
		now:   time.Now,
	}
	b.format = zerolog.ConsoleWriter{
		Out:        &b.scratch,
		NoColor:    true,
		TimeFormat: time.TimeOnly,
	}
	return b
}

func (b *Buffer) Write(p []byte) (int, error) {
	return b.WriteLevel(zerolog.NoLevel, p)
}

func (b *Buffer) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	b.mu.Lock()
	line := Line{Time: b.now(), Level: level, Text: b.render(p)}
	b.push(line)
	b.mu.Unlock()

	if b.bus != nil {
		b.bus.Publish(eventbus.Event{
			Type:      EventLine,
			Timestamp: line.Time,
			Data:      map[string]interface{}{"line": line},
		})
	}

	return len(p), nil
}

// render formats a zerolog JSON record the way the stdout target does.
// Input that is not a JSON record is kept verbatim.
func (b *Buffer) render(p []byte) string {
	b.scratch.Reset()
	if _, err := b.format.Write(p); err != nil {
		return strings.TrimRight(string(p), "\r\n")
	}
	return strings.TrimRight(b.scratch.String(), "\r\n")
}

func (b *Buffer) push(line Line) {
	capacity := len(b.lines)
	if b.count < capacity {
		b.lines[(b.start+b.count)%capacity] = line
		b.count++
		return
	}
	b.lines[b.start] = line
	b.start = (b.start + 1) % capacity
}

// Lines returns the buffered lines, oldest first.
func (b *Buffer) Lines() []Line {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Line, b.count)
	for i := 0; i < b.count; i++ {
		out[i] = b.lines[(b.start+i)%len(b.lines)]
	}
	return out
}

// Text joins the buffered lines with newlines, for copying to the clipboard.
func (b *Buffer) Text() string {
	lines := b.Lines()
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text
	}
	return strings.Join(texts, "\n")
}

func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

func (b *Buffer) Capacity() int {
	return len(b.lines)
}

func (b *Buffer) Clear() {
	b.mu.Lock()
	b.start, b.count = 0, 0
	b.mu.Unlock()

	if b.bus != nil {
		b.bus.Publish(eventbus.Event{Type: EventCleared})
	}
}
