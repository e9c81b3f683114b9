package gui

import (
	"context"
	"sync"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"horizon-ai/internal/bridge"
	"horizon-ai/internal/commands"
	"horizon-ai/internal/config"
	"horizon-ai/internal/console"
	"horizon-ai/internal/dialogs"
	"horizon-ai/internal/eventbus"
	"horizon-ai/internal/logger"
)

// Test Plan:
// 1. Greeting goes through the bridge and lands in the result label
// 2. A failing command is reported through an error dialog
// 3. Console lines reach the view through the event bus; Clear empties it
// 4. Copy puts the console text on the clipboard
// 5. The menu offers Quit, Clear console and About

type fakeDialogs struct {
	mu       sync.Mutex
	messages []dialogs.MessageOptions
}

func (f *fakeDialogs) Message(_ context.Context, o dialogs.MessageOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, o)
	return nil
}

func (f *fakeDialogs) Ask(context.Context, dialogs.AskOptions) (bool, error)     { return true, nil }
func (f *fakeDialogs) Confirm(context.Context, dialogs.AskOptions) (bool, error) { return true, nil }
func (f *fakeDialogs) Open(context.Context, dialogs.OpenOptions) (string, error) { return "", nil }
func (f *fakeDialogs) Save(context.Context, dialogs.SaveOptions) (string, error) { return "", nil }

func (f *fakeDialogs) shown() []dialogs.MessageOptions {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]dialogs.MessageOptions(nil), f.messages...)
}

type fixture struct {
	manager *Manager
	dialogs *fakeDialogs
	buffer  *console.Buffer
	events  *eventbus.Bus
	log     *logger.ZerologAdapter
	quits   int
}

func newFixture(t *testing.T, withGreet bool) *fixture {
	test.NewApp()
	w := test.NewWindow(nil)
	t.Cleanup(w.Close)

	events := eventbus.NewBus(64)
	t.Cleanup(events.Shutdown)
	buffer := console.NewBuffer(50, events)
	log := logger.NewZerolog(buffer, zerolog.DebugLevel)

	b := bridge.New(log)
	if withGreet {
		require.NoError(t, commands.Register(b))
	}

	f := &fixture{dialogs: &fakeDialogs{}, buffer: buffer, events: events, log: log}
	f.manager = NewManager(Options{
		Window:  w,
		Bridge:  b,
		Dialogs: f.dialogs,
		Console: buffer,
		Events:  events,
		Logger:  log,
		Config:  config.Default(),
		Context: context.Background(),
		OnQuit:  func() { f.quits++ },
	})
	f.manager.Attach()
	t.Cleanup(f.manager.Shutdown)
	return f
}

func TestManager_Greet(t *testing.T) {
	f := newFixture(t, true)

	f.manager.greeting.SetName("World")
	f.manager.greeting.Submit()

	assert.Eventually(t, func() bool {
		return f.manager.greeting.Result() == "Hello, World!"
	}, time.Second, 10*time.Millisecond)
	assert.Empty(t, f.dialogs.shown())
}

func TestManager_GreetFailureShowsError(t *testing.T) {
	f := newFixture(t, false)

	f.manager.greeting.SetName("World")
	f.manager.greeting.Submit()

	assert.Eventually(t, func() bool {
		return len(f.dialogs.shown()) == 1
	}, time.Second, 10*time.Millisecond)

	shown := f.dialogs.shown()[0]
	assert.Equal(t, dialogs.KindError, shown.Kind)
	assert.Contains(t, shown.Message, "greet")
	assert.Empty(t, f.manager.greeting.Result())
}

func TestManager_ConsoleFollowsBuffer(t *testing.T) {
	f := newFixture(t, true)

	f.log.Info("Test", "first line", nil)
	f.log.Warning("Test", "second line", nil)

	assert.Eventually(t, func() bool {
		return f.manager.consoleView.Len() == f.buffer.Len() && f.buffer.Len() >= 2
	}, time.Second, 10*time.Millisecond)

	f.manager.ClearConsole()
	assert.Eventually(t, func() bool {
		return f.manager.consoleView.Len() == 0
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, f.buffer.Len())
}

func TestManager_CopyConsole(t *testing.T) {
	f := newFixture(t, true)
	f.log.Info("Test", "copy me", nil)

	f.manager.copyConsole()

	assert.Contains(t, f.manager.window.Clipboard().Content(), "copy me")
}

func TestManager_Menu(t *testing.T) {
	f := newFixture(t, true)
	menu := f.manager.MainMenu()

	require.Len(t, menu.Items, 3)
	assert.Equal(t, "File", menu.Items[0].Label)
	assert.Equal(t, "View", menu.Items[1].Label)
	assert.Equal(t, "Help", menu.Items[2].Label)

	quit := menu.Items[0].Items[0]
	assert.True(t, quit.IsQuit)
	quit.Action()
	assert.Equal(t, 1, f.quits)

	menu.Items[2].Items[0].Action()
	assert.Eventually(t, func() bool {
		return len(f.dialogs.shown()) == 1
	}, time.Second, 10*time.Millisecond)
	about := f.dialogs.shown()[0]
	assert.Equal(t, dialogs.KindInfo, about.Kind)
	assert.Contains(t, about.Message, "1.0.0")
}

func TestManager_WithoutConsole(t *testing.T) {
	test.NewApp()
	w := test.NewWindow(nil)
	defer w.Close()

	m := NewManager(Options{Window: w, Bridge: bridge.New(nil)})
	m.Attach()
	defer m.Shutdown()

	assert.True(t, m.MainMenu().Items[1].Items[0].Disabled)
	m.ClearConsole()
	m.copyConsole()
}
