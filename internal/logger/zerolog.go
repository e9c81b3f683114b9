package logger

import (
	"errors"
	"io"
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// ZerologAdapter implements Logger on top of zerolog. The minimum level is
// held outside the zerolog.Logger so it can change while the app runs.
type ZerologAdapter struct {
	logger  zerolog.Logger
	level   *levelVar
	closers []io.Closer
}

type levelVar struct {
	v      atomic.Int32
	closed atomic.Bool
}

func newLevelVar(l zerolog.Level) *levelVar {
	lv := &levelVar{}
	lv.Set(l)
	return lv
}

func (lv *levelVar) Get() zerolog.Level  { return zerolog.Level(lv.v.Load()) }
func (lv *levelVar) Set(l zerolog.Level) { lv.v.Store(int32(l)) }

// gate drops records below its minimum level. A target with its own level
// ignores the shared one.
type gate struct {
	w      zerolog.LevelWriter
	fixed  zerolog.Level
	pinned bool
	shared *levelVar
}

func (g gate) Write(p []byte) (int, error) {
	if g.shared.closed.Load() {
		return len(p), nil
	}
	return g.w.Write(p)
}

// WriteLevel drops everything once the adapter is closed, so a late record
// cannot reopen a released log file.
func (g gate) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	if g.shared.closed.Load() {
		return len(p), nil
	}
	min := g.shared.Get()
	if g.pinned {
		min = g.fixed
	}
	if l < min {
		return len(p), nil
	}
	return g.w.WriteLevel(l, p)
}

func NewZerolog(writer io.Writer, level zerolog.Level) *ZerologAdapter {
	lv := newLevelVar(level)
	return newAdapter(gate{w: asLevelWriter(writer), shared: lv}, lv, nil)
}

func NewConsoleLogger(level zerolog.Level) *ZerologAdapter {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stdout}
	return NewZerolog(consoleWriter, level)
}

func newAdapter(w zerolog.LevelWriter, lv *levelVar, closers []io.Closer) *ZerologAdapter {
	allowTrace(lv.Get())

	logger := zerolog.New(w).
		Level(zerolog.TraceLevel).
		With().
		Timestamp().
		Logger()

	return &ZerologAdapter{logger: logger, level: lv, closers: closers}
}

// allowTrace lowers zerolog's process-wide floor, which sits at debug by
// default and would otherwise swallow trace records before the gates see them.
func allowTrace(l zerolog.Level) {
	if l < zerolog.GlobalLevel() {
		zerolog.SetGlobalLevel(l)
	}
}

func asLevelWriter(w io.Writer) zerolog.LevelWriter {
	if lw, ok := w.(zerolog.LevelWriter); ok {
		return lw
	}
	return zerolog.LevelWriterAdapter{Writer: w}
}

func (z *ZerologAdapter) Info(component, message string, fields map[string]interface{}) {
	z.Log(zerolog.InfoLevel, component, message, fields)
}

func (z *ZerologAdapter) Error(component string, err error, fields map[string]interface{}) {
	event := z.logger.Error().Str("component", component).Err(err)
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg("operation failed")
}

func (z *ZerologAdapter) Warning(component, message string, fields map[string]interface{}) {
	z.Log(zerolog.WarnLevel, component, message, fields)
}

func (z *ZerologAdapter) Debug(component, message string, fields map[string]interface{}) {
	z.Log(zerolog.DebugLevel, component, message, fields)
}

// Log writes one record at an arbitrary level.
func (z *ZerologAdapter) Log(level zerolog.Level, component, message string, fields map[string]interface{}) {
	event := z.logger.WithLevel(level)
	if component != "" {
		event = event.Str("component", component)
	}
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(message)
}

// SetLevel changes the minimum level of every target that has no level of
// its own.
func (z *ZerologAdapter) SetLevel(level zerolog.Level) {
	allowTrace(level)
	z.level.Set(level)
}

func (z *ZerologAdapter) Level() zerolog.Level {
	return z.level.Get()
}

// Zerolog exposes the underlying logger, e.g. to install it as the global
// zerolog logger.
func (z *ZerologAdapter) Zerolog() zerolog.Logger {
	return z.logger
}

// Close releases file targets. Records written afterwards are discarded.
func (z *ZerologAdapter) Close() error {
	z.level.closed.Store(true)

	var errs []error
	for _, c := range z.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	z.closers = nil
	return errors.Join(errs...)
}
