package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"horizon-ai/internal/app"
	"horizon-ai/internal/bridge"
	"horizon-ai/internal/commands"
	"horizon-ai/internal/config"
	"horizon-ai/internal/logging"
)

// headless is a bridge with every command that needs no window. Its log
// plugin writes to stderr only, leaving stdout to results.
type headless struct {
	bridge    *bridge.Bridge
	logPlugin *logging.Plugin
}

func newHeadless(flags *Flags, logOut io.Writer) (*headless, error) {
	cfg, err := flags.loadConfig()
	if err != nil {
		return nil, err
	}
	cfg.Log.Targets = []config.TargetConfig{{Kind: "stdout"}}

	logPlugin, err := logging.New(cfg, logging.WithStdout(logOut))
	if err != nil {
		return nil, err
	}

	b := bridge.New(logPlugin.Logger())
	if err := logPlugin.Setup(&app.Host{Bridge: b, Logger: logPlugin.Logger(), Config: cfg}); err != nil {
		logPlugin.Shutdown()
		return nil, err
	}
	if err := commands.Register(b); err != nil {
		logPlugin.Shutdown()
		return nil, err
	}
	return &headless{bridge: b, logPlugin: logPlugin}, nil
}

func (h *headless) Close() {
	h.logPlugin.Shutdown()
}

func invoke(ctx context.Context, flags *Flags, out io.Writer, name, args string) error {
	h, err := newHeadless(flags, os.Stderr)
	if err != nil {
		return err
	}
	defer h.Close()

	var raw json.RawMessage
	if args != "" {
		raw = json.RawMessage(args)
	}

	result, err := h.bridge.Invoke(ctx, name, raw)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(result))
	return err
}

func listCommands(flags *Flags, out io.Writer) error {
	h, err := newHeadless(flags, os.Stderr)
	if err != nil {
		return err
	}
	defer h.Close()

	for _, name := range h.bridge.Commands() {
		if _, err := fmt.Fprintln(out, name); err != nil {
			return err
		}
	}
	return nil
}
