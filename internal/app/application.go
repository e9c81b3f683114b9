package app

import (
	"context"
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"horizon-ai/internal/bridge"
	"horizon-ai/internal/config"
	"horizon-ai/internal/logger"
	"horizon-ai/internal/shutdown"
)

const (
	MinWindowWidth  = 480
	MinWindowHeight = 320
)

// Builder assembles the application shell: plugins first, then command
// registrations, then the window.
type Builder struct {
	cfg      *config.Config
	plugins  []Plugin
	commands []func(*bridge.Bridge) error
	fyneApp  fyne.App
}

func New(cfg *config.Config) *Builder {
	return &Builder{cfg: cfg}
}

func (b *Builder) Plugin(p Plugin) *Builder {
	b.plugins = append(b.plugins, p)
	return b
}

// Invoke adds a command registration run against the bridge after every
// plugin is set up.
func (b *Builder) Invoke(register func(*bridge.Bridge) error) *Builder {
	b.commands = append(b.commands, register)
	return b
}

// WithApp replaces the native fyne app, e.g. with the test driver.
func (b *Builder) WithApp(a fyne.App) *Builder {
	b.fyneApp = a
	return b
}

type Application struct {
	cfg       *config.Config
	fyneApp   fyne.App
	window    fyne.Window
	bridge    *bridge.Bridge
	logger    logger.Logger
	lifecycle *Lifecycle
}

func (b *Builder) Build() (*Application, error) {
	if b.cfg == nil {
		b.cfg = config.Default()
	}
	cfg := b.cfg
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid app config: %w", err)
	}

	log := logger.Nop()
	for _, p := range b.plugins {
		if lp, ok := p.(LoggerProvider); ok {
			log = lp.Logger()
			break
		}
	}

	fyneApp := b.fyneApp
	if fyneApp == nil {
		fyneapp.SetMetadata(fyne.AppMetadata{
			ID:      cfg.Identifier,
			Name:    cfg.ProductName,
			Version: cfg.Version,
		})
		fyneApp = fyneapp.NewWithID(cfg.Identifier)
	}

	window := fyneApp.NewWindow(cfg.Title())
	window.Resize(windowSize(cfg.Window))
	window.SetFixedSize(cfg.Window.FixedSize)
	window.CenterOnScreen()
	window.SetMaster()

	log.Info("Application", "starting application", map[string]interface{}{
		"product":     cfg.ProductName,
		"identifier":  cfg.Identifier,
		"version":     cfg.Version,
		"window_size": fmt.Sprintf("%dx%d", cfg.Window.Width, cfg.Window.Height),
		"plugins":     len(b.plugins),
	})

	br := bridge.New(log)
	lifecycle := NewLifecycle(log)
	host := &Host{
		App:    fyneApp,
		Window: window,
		Bridge: br,
		Logger: log,
		Config: cfg,
		ctx:    lifecycle.Context(),
	}

	if err := lifecycle.SetupPlugins(host, b.plugins); err != nil {
		return nil, err
	}

	for _, register := range b.commands {
		if err := register(br); err != nil {
			lifecycle.Shutdown()
			return nil, fmt.Errorf("failed to register commands: %w", err)
		}
	}

	log.Info("Application", "initialization complete", map[string]interface{}{
		"commands": br.Commands(),
	})

	return &Application{
		cfg:       cfg,
		fyneApp:   fyneApp,
		window:    window,
		bridge:    br,
		logger:    log,
		lifecycle: lifecycle,
	}, nil
}

func windowSize(w config.WindowConfig) fyne.Size {
	width, height := float32(w.Width), float32(w.Height)
	if width < MinWindowWidth {
		width = MinWindowWidth
	}
	if height < MinWindowHeight {
		height = MinWindowHeight
	}
	return fyne.NewSize(width, height)
}

// Run shows the main window and blocks in the run loop until the window
// closes, Quit is called or the process is signalled. A driver that fails
// to start by panicking is reported as an error after the plugins stop.
func (a *Application) Run() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("run loop failed: %v", r)
			a.logger.Error("Application", err, nil)
			a.lifecycle.Shutdown()
		}
	}()

	stop := a.lifecycle.ListenSignals(func(os.Signal) {
		fyne.Do(a.Quit)
	})
	defer stop()

	a.window.SetCloseIntercept(func() {
		a.logger.Info("Application", "shutdown requested", nil)
		a.Quit()
	})
	a.window.Show()

	a.logger.Info("Application", "GUI displayed", nil)
	a.fyneApp.Run()

	a.lifecycle.Shutdown()
	return nil
}

// Quit stops every plugin, then leaves the run loop.
func (a *Application) Quit() {
	a.lifecycle.Shutdown()
	a.fyneApp.Quit()
}

// OnShutdown runs fn when the application stops, before any plugin is
// shut down.
func (a *Application) OnShutdown(name string, fn func()) {
	a.lifecycle.Register(name, shutdown.Func(fn))
}

func (a *Application) Window() fyne.Window      { return a.window }
func (a *Application) Bridge() *bridge.Bridge   { return a.bridge }
func (a *Application) Logger() logger.Logger    { return a.logger }
func (a *Application) Config() *config.Config   { return a.cfg }
func (a *Application) FyneApp() fyne.App        { return a.fyneApp }
func (a *Application) Context() context.Context { return a.lifecycle.Context() }
