package app

import (
	"context"
	"fmt"
	"os"

	"horizon-ai/internal/logger"
	"horizon-ai/internal/shutdown"
)

// Lifecycle owns plugin setup and the ordered, one-time shutdown.
type Lifecycle struct {
	manager *shutdown.Manager
	logger  logger.Logger
}

func NewLifecycle(log logger.Logger) *Lifecycle {
	return &Lifecycle{
		manager: shutdown.NewManager(log),
		logger:  log,
	}
}

// SetupPlugins runs Setup on each plugin in order. When one fails, the
// plugins already set up are shut down in reverse order.
func (l *Lifecycle) SetupPlugins(host *Host, plugins []Plugin) error {
	seen := make(map[string]bool, len(plugins))

	for _, p := range plugins {
		name := p.Name()
		if seen[name] {
			l.Shutdown()
			return fmt.Errorf("plugin %s registered twice", name)
		}
		seen[name] = true

		if err := p.Setup(host); err != nil {
			l.logger.Error("Lifecycle", err, map[string]interface{}{
				"plugin": name,
			})
			l.Shutdown()
			return fmt.Errorf("plugin %s setup failed: %w", name, err)
		}

		l.manager.Register(name, p)
		l.logger.Debug("Lifecycle", "plugin ready", map[string]interface{}{
			"plugin": name,
		})
	}
	return nil
}

// Register adds a component stopped before everything registered earlier.
func (l *Lifecycle) Register(name string, c shutdown.Shutdownable) {
	l.manager.Register(name, c)
}

// ListenSignals calls onSignal on SIGINT or SIGTERM until the returned
// stop function is called.
func (l *Lifecycle) ListenSignals(onSignal func(os.Signal)) (stop func()) {
	return l.manager.Listen(onSignal)
}

func (l *Lifecycle) Shutdown() {
	l.manager.Shutdown()
}

func (l *Lifecycle) Context() context.Context {
	return l.manager.Context()
}

func (l *Lifecycle) Done() <-chan struct{} {
	return l.manager.Done()
}
