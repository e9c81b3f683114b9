package dialogs

import (
	"context"

	"horizon-ai/internal/app"
	"horizon-ai/internal/bridge"
	"horizon-ai/internal/logger"
)

const PluginName = "dialog"

type Plugin struct {
	dialogs Dialogs
	logger  logger.Logger
}

// New returns a plugin that shows fyne dialogs over the main window.
func New() *Plugin {
	return &Plugin{}
}

// NewWith returns a plugin backed by d instead of fyne dialogs.
func NewWith(d Dialogs) *Plugin {
	return &Plugin{dialogs: d}
}

func (p *Plugin) Name() string { return PluginName }

// Dialogs is available once Setup has run.
func (p *Plugin) Dialogs() Dialogs { return p.dialogs }

func (p *Plugin) Setup(host *app.Host) error {
	p.logger = host.Logger
	if p.logger == nil {
		p.logger = logger.Nop()
	}
	if p.dialogs == nil {
		if host.Window == nil {
			return ErrNoWindow
		}
		p.dialogs = NewFyneDialogs(host.Window)
	}

	commands := map[string]bridge.Handler{
		"message": bridge.Command(p.message),
		"ask":     bridge.Command(p.ask),
		"confirm": bridge.Command(p.confirm),
		"open":    bridge.Command(p.open),
		"save":    bridge.Command(p.save),
	}
	for name, handler := range commands {
		if err := host.Bridge.Register(bridge.PluginCommand(PluginName, name), handler); err != nil {
			return err
		}
	}
	return nil
}

func (p *Plugin) Shutdown() {}

func (p *Plugin) message(ctx context.Context, opts MessageOptions) (any, error) {
	if err := validKind(opts.Kind); err != nil {
		return nil, err
	}
	p.logger.Debug("DialogPlugin", "message dialog", map[string]interface{}{
		"title": opts.Title,
		"kind":  string(opts.Kind),
	})
	return nil, p.dialogs.Message(ctx, opts)
}

func (p *Plugin) ask(ctx context.Context, opts AskOptions) (bool, error) {
	if err := validKind(opts.Kind); err != nil {
		return false, err
	}
	return p.dialogs.Ask(ctx, opts)
}

func (p *Plugin) confirm(ctx context.Context, opts AskOptions) (bool, error) {
	if err := validKind(opts.Kind); err != nil {
		return false, err
	}
	return p.dialogs.Confirm(ctx, opts)
}

// open and save answer null when the user cancels.
func (p *Plugin) open(ctx context.Context, opts OpenOptions) (*string, error) {
	path, err := p.dialogs.Open(ctx, opts)
	return pathOrNull(path), err
}

func (p *Plugin) save(ctx context.Context, opts SaveOptions) (*string, error) {
	path, err := p.dialogs.Save(ctx, opts)
	return pathOrNull(path), err
}

func pathOrNull(path string) *string {
	if path == "" {
		return nil
	}
	return &path
}

func validKind(kind MessageKind) error {
	switch kind {
	case "", KindInfo, KindWarning, KindError:
		return nil
	default:
		return bridge.InvalidArgs("unknown dialog kind %q", kind)
	}
}
