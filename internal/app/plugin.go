package app

import (
	"context"

	"fyne.io/fyne/v2"

	"horizon-ai/internal/bridge"
	"horizon-ai/internal/config"
	"horizon-ai/internal/logger"
)

// Plugin is a capability attached to the application shell. Setup runs
// once during Build, in registration order; Shutdown runs once when the
// application stops, in reverse order.
type Plugin interface {
	Name() string
	Setup(host *Host) error
	Shutdown()
}

// LoggerProvider is implemented by the plugin that owns the application
// log. The first such plugin becomes the shell's logger.
type LoggerProvider interface {
	Logger() logger.Logger
}

// Host is what a plugin sees of the shell during Setup.
type Host struct {
	App    fyne.App
	Window fyne.Window
	Bridge *bridge.Bridge
	Logger logger.Logger
	Config *config.Config

	ctx context.Context
}

// Context is cancelled when the application starts shutting down.
func (h *Host) Context() context.Context {
	return h.ctx
}
