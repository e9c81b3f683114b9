package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"horizon-ai/internal/app"
	"horizon-ai/internal/bridge"
	"horizon-ai/internal/config"
	"horizon-ai/internal/console"
	"horizon-ai/internal/eventbus"
)

// Test Plan:
// 1. A default config writes to stdout, the log directory and the console
// 2. The UI can log through plugin:log|log
// 3. Apply changes the level at runtime
// 4. Targets absent from the config are not opened
// 5. Shutdown restores the zerolog global and drops late records
// 6. Dropped console events are reported on shutdown

func testConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.Log.Dir = t.TempDir()
	return cfg
}

func setup(t *testing.T, p *Plugin) *bridge.Bridge {
	b := bridge.New(nil)
	require.NoError(t, p.Setup(&app.Host{Bridge: b, Logger: p.Logger()}))
	return b
}

func TestPlugin_AllTargets(t *testing.T) {
	cfg := testConfig(t)
	var stdout bytes.Buffer

	p, err := New(cfg, WithStdout(&stdout))
	require.NoError(t, err)
	require.NotNil(t, p.Console())
	assert.Equal(t, PluginName, p.Name())
	assert.Equal(t, cfg.Log.Dir, p.Dir())

	setup(t, p)
	p.Logger().Info("Shell", "hello targets", nil)
	p.Shutdown()

	assert.Contains(t, stdout.String(), "hello targets")
	assert.Contains(t, p.Console().Text(), "hello targets")

	data, err := os.ReadFile(filepath.Join(cfg.Log.Dir, "Horizon AI.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello targets")
	assert.Contains(t, string(data), "log targets ready")
}

func TestPlugin_LogCommand(t *testing.T) {
	cfg := testConfig(t)
	cfg.Log.Targets = []config.TargetConfig{{Kind: "console"}}

	p, err := New(cfg)
	require.NoError(t, err)
	b := setup(t, p)
	defer p.Shutdown()

	args, _ := json.Marshal(LogArgs{
		Level:    "warn",
		Message:  "button clicked twice",
		Location: "MainPanel",
		Fields:   map[string]interface{}{"count": 2},
	})
	out, err := b.Invoke(context.Background(), bridge.PluginCommand(PluginName, "log"), args)
	require.NoError(t, err)
	assert.JSONEq(t, "null", string(out))

	lines := p.Console().Lines()
	last := lines[len(lines)-1]
	assert.Equal(t, zerolog.WarnLevel, last.Level)
	assert.Contains(t, last.Text, "button clicked twice")
	assert.Contains(t, last.Text, "component=UI")
	assert.Contains(t, last.Text, "location=MainPanel")

	_, err = b.Invoke(context.Background(), bridge.PluginCommand(PluginName, "log"), json.RawMessage(`{"level":"loud","message":"x"}`))
	var be *bridge.Error
	require.ErrorAs(t, err, &be)
	assert.Equal(t, bridge.CodeInvalidArgs, be.Code)
}

func TestPlugin_Apply(t *testing.T) {
	cfg := testConfig(t)
	cfg.Log.Level = "warn"
	cfg.Log.Targets = []config.TargetConfig{{Kind: "console"}}

	p, err := New(cfg)
	require.NoError(t, err)
	defer p.Shutdown()

	p.Logger().Info("Test", "before", nil)
	assert.NotContains(t, p.Console().Text(), "before")

	reloaded := config.Default()
	reloaded.Log.Level = "debug"
	p.Apply(reloaded)
	assert.Equal(t, zerolog.DebugLevel, p.Adapter().Level())

	p.Logger().Debug("Test", "after", nil)
	text := p.Console().Text()
	assert.Contains(t, text, "after")
	assert.Contains(t, text, "log level changed")
}

func TestPlugin_OnlyConfiguredTargets(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Targets = []config.TargetConfig{{Kind: "stdout"}}
	var stdout bytes.Buffer

	p, err := New(cfg, WithStdout(&stdout))
	require.NoError(t, err)
	defer p.Shutdown()

	assert.Nil(t, p.Console())
	assert.Nil(t, p.Events())
	assert.Empty(t, p.Dir())

	p.Logger().Warning("Test", "stdout only", nil)
	assert.Equal(t, 1, strings.Count(stdout.String(), "stdout only"))
}

func TestNew_InvalidLevel(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "loud"
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestPlugin_ShutdownRestoresGlobal(t *testing.T) {
	original := zlog.Logger
	t.Cleanup(func() { zlog.Logger = original })

	var before bytes.Buffer
	zlog.Logger = zerolog.New(&before)

	cfg := testConfig(t)
	cfg.Log.Targets = []config.TargetConfig{{Kind: "log_dir"}}
	p, err := New(cfg)
	require.NoError(t, err)
	setup(t, p)

	zlog.Info().Msg("while running")
	p.Shutdown()

	p.Logger().Info("ShutdownManager", "shutdown sequence completed", nil)
	zlog.Info().Msg("after shutdown")

	assert.NotContains(t, before.String(), "while running")
	assert.Contains(t, before.String(), "after shutdown")

	data, err := os.ReadFile(filepath.Join(cfg.Log.Dir, "Horizon AI.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "while running")
	assert.NotContains(t, string(data), "shutdown sequence completed")
	assert.NotContains(t, string(data), "after shutdown")
}

func TestPlugin_ReportsDroppedEvents(t *testing.T) {
	cfg := testConfig(t)
	cfg.Log.Targets = []config.TargetConfig{{Kind: "stdout"}, {Kind: "console"}}
	var stdout bytes.Buffer

	p, err := New(cfg, WithStdout(&stdout), func(p *Plugin) { p.eventBuffer = 1 })
	require.NoError(t, err)

	release := make(chan struct{})
	p.Events().Subscribe(console.EventLine, eventbus.Func("stalled", func(eventbus.Event) {
		<-release
	}))

	for i := 0; i < 10; i++ {
		p.Logger().Info("Test", "burst", nil)
	}
	close(release)
	p.Shutdown()

	assert.Greater(t, p.Events().Dropped(), int64(0))
	assert.Contains(t, stdout.String(), "console events dropped")
}
