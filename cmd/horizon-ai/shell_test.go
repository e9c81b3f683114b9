package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"horizon-ai/internal/app"
	"horizon-ai/internal/logging"
)

// Test Plan:
// 1. A reloaded config file changes the log level
// 2. HORIZON_* variables keep precedence over a reloaded file
// 3. Flags keep precedence over a reloaded file

func writeConfig(t *testing.T, path, level string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: "+level+"\n"), 0o644))
}

func startWatched(t *testing.T, flags *Flags) *logging.Plugin {
	t.Helper()
	cfg, err := flags.loadConfig()
	require.NoError(t, err)

	logPlugin, err := logging.New(cfg, logging.WithStdout(io.Discard))
	require.NoError(t, err)

	application, err := app.New(cfg).WithApp(test.NewApp()).Plugin(logPlugin).Build()
	require.NoError(t, err)
	t.Cleanup(application.Quit)

	watchConfig(application, flags, logPlugin)
	return logPlugin
}

func reloaded(p *logging.Plugin) func() bool {
	return func() bool {
		return strings.Contains(p.Console().Text(), "config reloaded")
	}
}

func TestWatchConfig_AppliesFileLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "horizon.yaml")
	writeConfig(t, path, "info")

	p := startWatched(t, &Flags{ConfigPath: path, LogDir: t.TempDir()})
	assert.Equal(t, zerolog.InfoLevel, p.Adapter().Level())

	writeConfig(t, path, "warn")
	assert.Eventually(t, func() bool {
		return p.Adapter().Level() == zerolog.WarnLevel
	}, 2*time.Second, 20*time.Millisecond)
}

func TestWatchConfig_KeepsEnvOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "horizon.yaml")
	writeConfig(t, path, "info")
	t.Setenv("HORIZON_LOG_LEVEL", "debug")

	p := startWatched(t, &Flags{ConfigPath: path, LogDir: t.TempDir()})
	assert.Equal(t, zerolog.DebugLevel, p.Adapter().Level())

	writeConfig(t, path, "warn")
	assert.Eventually(t, reloaded(p), 2*time.Second, 20*time.Millisecond)
	assert.Equal(t, zerolog.DebugLevel, p.Adapter().Level())
}

func TestWatchConfig_KeepsFlagOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "horizon.yaml")
	writeConfig(t, path, "info")
	t.Setenv("HORIZON_LOG_LEVEL", "warn")

	p := startWatched(t, &Flags{ConfigPath: path, LogDir: t.TempDir(), LogLevel: "debug"})
	assert.Equal(t, zerolog.DebugLevel, p.Adapter().Level())

	writeConfig(t, path, "error")
	assert.Eventually(t, reloaded(p), 2*time.Second, 20*time.Millisecond)
	assert.Equal(t, zerolog.DebugLevel, p.Adapter().Level())
}
