package gui

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"

	"horizon-ai/internal/bridge"
	"horizon-ai/internal/commands"
	"horizon-ai/internal/config"
	"horizon-ai/internal/console"
	"horizon-ai/internal/dialogs"
	"horizon-ai/internal/eventbus"
	"horizon-ai/internal/gui/components"
	"horizon-ai/internal/logger"
)

const subscriberID = "gui-console"

// Options carries what the main window needs from the shell. Console and
// Events are nil when the console log target is disabled.
type Options struct {
	Window  fyne.Window
	Bridge  *bridge.Bridge
	Dialogs dialogs.Dialogs
	Console *console.Buffer
	Events  *eventbus.Bus
	Logger  logger.Logger
	Config  *config.Config
	Context context.Context
	OnQuit  func()
}

type Manager struct {
	window  fyne.Window
	bridge  *bridge.Bridge
	dialogs dialogs.Dialogs
	buffer  *console.Buffer
	events  *eventbus.Bus
	logger  logger.Logger
	cfg     *config.Config
	ctx     context.Context
	onQuit  func()

	greeting    *components.GreetingForm
	consoleView *components.ConsoleView
	statusBar   *components.StatusBar

	subscriber     eventbus.Handler
	refreshPending atomic.Bool
	shutdownOnce   sync.Once
}

func NewManager(opts Options) *Manager {
	m := &Manager{
		window:      opts.Window,
		bridge:      opts.Bridge,
		dialogs:     opts.Dialogs,
		buffer:      opts.Console,
		events:      opts.Events,
		logger:      opts.Logger,
		cfg:         opts.Config,
		ctx:         opts.Context,
		onQuit:      opts.OnQuit,
		greeting:    components.NewGreetingForm(),
		consoleView: components.NewConsoleView(),
		statusBar:   components.NewStatusBar(),
	}
	if m.logger == nil {
		m.logger = logger.Nop()
	}
	if m.cfg == nil {
		m.cfg = config.Default()
	}
	if m.ctx == nil {
		m.ctx = context.Background()
	}

	m.greeting.SetGreetHandler(m.greet)
	m.consoleView.SetCopyHandler(m.copyConsole)
	m.consoleView.SetClearHandler(m.ClearConsole)
	m.statusBar.SetInfo(fmt.Sprintf("%s v%s", m.cfg.ProductName, m.cfg.Version))

	if m.events != nil && m.buffer != nil {
		m.subscriber = eventbus.Func(subscriberID, func(eventbus.Event) {
			m.scheduleRefresh()
		})
		m.events.Subscribe(console.EventLine, m.subscriber)
		m.events.Subscribe(console.EventCleared, m.subscriber)
	}

	m.logger.Debug("GUIManager", "initialized", map[string]interface{}{
		"console": m.buffer != nil,
	})
	return m
}

func (m *Manager) GetMainContainer() fyne.CanvasObject {
	top := container.NewPadded(m.greeting.GetContainer())
	if m.buffer == nil {
		return container.NewBorder(top, m.statusBar.GetContainer(), nil, nil)
	}

	split := container.NewVSplit(top, m.consoleView.GetContainer())
	split.SetOffset(0.3)
	return container.NewBorder(nil, m.statusBar.GetContainer(), nil, nil, split)
}

func (m *Manager) MainMenu() *fyne.MainMenu {
	quit := fyne.NewMenuItem("Quit", m.quit)
	quit.IsQuit = true

	clearItem := fyne.NewMenuItem("Clear console", m.ClearConsole)
	if m.buffer == nil {
		clearItem.Disabled = true
	}

	return fyne.NewMainMenu(
		fyne.NewMenu("File", quit),
		fyne.NewMenu("View", clearItem),
		fyne.NewMenu("Help", fyne.NewMenuItem("About", m.showAbout)),
	)
}

// Attach installs the content and menu on the window and renders whatever
// the console already holds.
func (m *Manager) Attach() {
	m.window.SetContent(m.GetMainContainer())
	m.window.SetMainMenu(m.MainMenu())
	m.refreshConsole()
}

func (m *Manager) greet(name string) {
	args, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		m.ShowError("Greeting failed", err)
		return
	}

	m.greeting.SetBusy(true)
	m.statusBar.SetStatus("Greeting...")

	m.bridge.InvokeAsync(m.ctx, commands.GreetCommand, args, func(raw json.RawMessage, err error) {
		var message string
		if err == nil {
			err = json.Unmarshal(raw, &message)
		}

		fyne.Do(func() {
			m.greeting.SetBusy(false)
			if err != nil {
				m.statusBar.SetStatus("Greeting failed")
				m.ShowError("Greeting failed", err)
				return
			}
			m.greeting.SetResult(message)
			m.statusBar.SetStatus("Ready")
		})
	})
}

func (m *Manager) ClearConsole() {
	if m.buffer == nil {
		return
	}
	m.buffer.Clear()
	if m.events == nil {
		m.refreshConsole()
	}
}

func (m *Manager) copyConsole() {
	if m.buffer == nil {
		return
	}
	m.window.Clipboard().SetContent(m.buffer.Text())
	m.statusBar.SetStatus(fmt.Sprintf("Copied %d lines", m.buffer.Len()))
}

// scheduleRefresh coalesces bursts of console events into one redraw.
func (m *Manager) scheduleRefresh() {
	if !m.refreshPending.CompareAndSwap(false, true) {
		return
	}
	fyne.Do(func() {
		m.refreshPending.Store(false)
		m.refreshConsole()
	})
}

func (m *Manager) refreshConsole() {
	if m.buffer == nil {
		return
	}
	m.consoleView.SetLines(m.buffer.Lines())
}

func (m *Manager) showAbout() {
	opts := dialogs.MessageOptions{
		Title:   "About " + m.cfg.ProductName,
		Message: fmt.Sprintf("%s\nVersion %s\n%s", m.cfg.ProductName, m.cfg.Version, m.cfg.Identifier),
		Kind:    dialogs.KindInfo,
	}
	m.present(func(ctx context.Context) error {
		return m.dialogs.Message(ctx, opts)
	})
}

func (m *Manager) ShowError(title string, err error) {
	m.logger.Error("GUIManager", err, map[string]interface{}{
		"title": title,
	})

	opts := dialogs.MessageOptions{
		Title:   title,
		Message: err.Error(),
		Kind:    dialogs.KindError,
	}
	m.present(func(ctx context.Context) error {
		return m.dialogs.Message(ctx, opts)
	})
}

// present runs a blocking dialog call off the UI goroutine.
func (m *Manager) present(show func(ctx context.Context) error) {
	if m.dialogs == nil {
		return
	}
	go func() {
		if err := show(m.ctx); err != nil && m.ctx.Err() == nil {
			m.logger.Warning("GUIManager", "dialog failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()
}

func (m *Manager) quit() {
	m.logger.Info("GUIManager", "quit requested from menu", nil)
	if m.onQuit != nil {
		m.onQuit()
	}
}

// Shutdown detaches from the event bus. It is safe to call more than once.
func (m *Manager) Shutdown() {
	m.shutdownOnce.Do(func() {
		if m.subscriber != nil {
			m.events.Unsubscribe(console.EventLine, m.subscriber)
			m.events.Unsubscribe(console.EventCleared, m.subscriber)
		}
		m.logger.Info("GUIManager", "shutdown complete", nil)
	})
}
