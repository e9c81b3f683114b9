package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

type TargetKind string

const (
	TargetStdout  TargetKind = "stdout"
	TargetLogDir  TargetKind = "log_dir"
	TargetConsole TargetKind = "console"
)

const (
	FormatText = "text"
	FormatJSON = "json"

	DefaultMaxSizeMB  = 1
	DefaultMaxBackups = 5
)

// Target is one sink of the application log. An empty Level inherits the
// logger's level; an empty FileName (log_dir only) uses Options.FileName.
type Target struct {
	Kind     TargetKind
	Level    string
	FileName string
}

type Options struct {
	Level      zerolog.Level
	Targets    []Target
	Dir        string
	FileName   string
	Format     string
	MaxSizeMB  int
	MaxBackups int

	// Stdout defaults to os.Stdout.
	Stdout io.Writer
	// Console receives records for the console target.
	Console zerolog.LevelWriter
}

// New builds a logger writing to every target in opts.
func New(opts Options) (*ZerologAdapter, error) {
	lv := newLevelVar(opts.Level)

	var (
		writers []io.Writer
		closers []io.Closer
	)
	fail := func(err error) (*ZerologAdapter, error) {
		for _, c := range closers {
			c.Close()
		}
		return nil, err
	}

	for _, t := range opts.Targets {
		w, closer, err := opts.open(t)
		if err != nil {
			return fail(fmt.Errorf("log target %s: %w", t.Kind, err))
		}
		if closer != nil {
			closers = append(closers, closer)
		}

		g := gate{w: asLevelWriter(w), shared: lv}
		if t.Level != "" {
			level, err := ParseLevel(t.Level)
			if err != nil {
				return fail(fmt.Errorf("log target %s: %w", t.Kind, err))
			}
			g.fixed, g.pinned = level, true
			allowTrace(level)
		}
		writers = append(writers, g)
	}

	if len(writers) == 0 {
		writers = append(writers, io.Discard)
	}

	return newAdapter(zerolog.MultiLevelWriter(writers...), lv, closers), nil
}

func (o Options) open(t Target) (io.Writer, io.Closer, error) {
	switch t.Kind {
	case TargetStdout:
		out := o.Stdout
		if out == nil {
			out = os.Stdout
		}
		return zerolog.ConsoleWriter{Out: out, TimeFormat: time.DateTime}, nil, nil

	case TargetLogDir:
		if o.Dir == "" {
			return nil, nil, errors.New("log directory not set")
		}
		name := t.FileName
		if name == "" {
			name = o.FileName
		}
		if name == "" {
			return nil, nil, errors.New("log file name not set")
		}
		if err := os.MkdirAll(o.Dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		file := &lumberjack.Logger{
			Filename:   filepath.Join(o.Dir, name),
			MaxSize:    positive(o.MaxSizeMB, DefaultMaxSizeMB),
			MaxBackups: o.MaxBackups,
		}
		if o.Format == FormatJSON {
			return file, file, nil
		}
		return zerolog.ConsoleWriter{Out: file, NoColor: true, TimeFormat: time.DateTime}, file, nil

	case TargetConsole:
		if o.Console == nil {
			return nil, nil, errors.New("no console attached")
		}
		return o.Console, nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown target kind %q", t.Kind)
	}
}

func positive(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
