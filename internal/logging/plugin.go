// Package logging is the log plugin: it owns the application logger and its
// stdout, log directory and in-app console targets.
package logging

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"horizon-ai/internal/app"
	"horizon-ai/internal/bridge"
	"horizon-ai/internal/config"
	"horizon-ai/internal/console"
	"horizon-ai/internal/eventbus"
	"horizon-ai/internal/logger"
)

const (
	PluginName = "log"

	consoleEventBuffer = 1024
)

type Option func(*Plugin)

// WithStdout redirects the stdout target.
func WithStdout(w io.Writer) Option {
	return func(p *Plugin) { p.stdout = w }
}

type Plugin struct {
	log         *logger.ZerologAdapter
	console     *console.Buffer
	events      *eventbus.Bus
	eventBuffer int
	dir         string
	stdout      io.Writer

	previous  zerolog.Logger
	installed bool
}

// New opens every target named in cfg.Log. The logger is usable before
// Setup so the shell can log its own start-up.
func New(cfg *config.Config, opts ...Option) (*Plugin, error) {
	p := &Plugin{eventBuffer: consoleEventBuffer}
	for _, opt := range opts {
		opt(p)
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	if cfg.HasTarget(string(logger.TargetLogDir)) {
		p.dir = cfg.Log.Dir
		if p.dir == "" {
			if p.dir, err = logger.DefaultDir(cfg.Identifier); err != nil {
				return nil, err
			}
		}
	}

	if cfg.HasTarget(string(logger.TargetConsole)) {
		p.events = eventbus.NewBus(p.eventBuffer)
		p.console = console.NewBuffer(cfg.Log.ConsoleLines, p.events)
	}

	targets := make([]logger.Target, len(cfg.Log.Targets))
	for i, t := range cfg.Log.Targets {
		targets[i] = logger.Target{
			Kind:     logger.TargetKind(t.Kind),
			Level:    t.Level,
			FileName: t.FileName,
		}
	}

	lopts := logger.Options{
		Level:      level,
		Targets:    targets,
		Dir:        p.dir,
		FileName:   cfg.LogFileName(),
		Format:     cfg.Log.Format,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		Stdout:     p.stdout,
	}
	if p.console != nil {
		lopts.Console = p.console
	}

	p.log, err = logger.New(lopts)
	if err != nil {
		if p.events != nil {
			p.events.Shutdown()
		}
		return nil, fmt.Errorf("failed to open log targets: %w", err)
	}
	return p, nil
}

func (p *Plugin) Name() string { return PluginName }

func (p *Plugin) Logger() logger.Logger { return p.log }

// Adapter exposes level control and the raw zerolog logger.
func (p *Plugin) Adapter() *logger.ZerologAdapter { return p.log }

// Console is the in-app console buffer, nil without a console target.
func (p *Plugin) Console() *console.Buffer { return p.console }

// Events carries console line notifications, nil without a console target.
func (p *Plugin) Events() *eventbus.Bus { return p.events }

// Dir is the resolved log directory, empty without a log_dir target.
func (p *Plugin) Dir() string { return p.dir }

func (p *Plugin) Setup(host *app.Host) error {
	p.previous, p.installed = zlog.Logger, true
	zlog.Logger = p.log.Zerolog()

	if err := host.Bridge.Register(bridge.PluginCommand(PluginName, "log"), bridge.Command(p.logFromUI)); err != nil {
		return err
	}

	p.log.Info("LogPlugin", "log targets ready", map[string]interface{}{
		"level":   p.log.Level().String(),
		"dir":     p.dir,
		"console": p.console != nil,
	})
	return nil
}

// Apply takes the log level of a reloaded config.
func (p *Plugin) Apply(cfg *config.Config) {
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		p.log.Error("LogPlugin", err, nil)
		return
	}
	if level == p.log.Level() {
		return
	}

	previous := p.log.Level()
	p.log.SetLevel(level)
	p.log.Info("LogPlugin", "log level changed", map[string]interface{}{
		"from": previous.String(),
		"to":   level.String(),
	})
}

// Shutdown closes every target and hands the zerolog global back to the
// logger that was installed before Setup.
func (p *Plugin) Shutdown() {
	p.log.Debug("LogPlugin", "closing log targets", nil)
	if p.events != nil {
		p.events.Shutdown()
		if dropped := p.events.Dropped(); dropped > 0 {
			p.log.Warning("LogPlugin", "console events dropped", map[string]interface{}{
				"dropped": dropped,
			})
		}
	}
	if p.installed {
		zlog.Logger = p.previous
		p.installed = false
	}
	if err := p.log.Close(); err != nil {
		zlog.Error().Err(err).Msg("failed to close log targets")
	}
}

// LogArgs is a record written by the UI layer.
type LogArgs struct {
	Level    string                 `json:"level"`
	Message  string                 `json:"message"`
	Location string                 `json:"location,omitempty"`
	Fields   map[string]interface{} `json:"fields,omitempty"`
}

func (p *Plugin) logFromUI(_ context.Context, args LogArgs) (any, error) {
	level, err := logger.ParseLevel(args.Level)
	if err != nil {
		return nil, bridge.InvalidArgs("%v", err)
	}
	p.write(level, args)
	return nil, nil
}

// write records a UI log entry under the "UI" component.
func (p *Plugin) write(level zerolog.Level, args LogArgs) {
	fields := make(map[string]interface{}, len(args.Fields)+1)
	for k, v := range args.Fields {
		fields[k] = v
	}
	if args.Location != "" {
		fields["location"] = args.Location
	}
	p.log.Log(level, "UI", args.Message, fields)
}
