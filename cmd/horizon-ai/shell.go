package main

import (
	"context"

	"horizon-ai/internal/app"
	"horizon-ai/internal/commands"
	"horizon-ai/internal/config"
	"horizon-ai/internal/dialogs"
	"horizon-ai/internal/gui"
	"horizon-ai/internal/logging"
)

func runShell(ctx context.Context, flags *Flags) error {
	cfg, err := flags.loadConfig()
	if err != nil {
		return err
	}

	logPlugin, err := logging.New(cfg)
	if err != nil {
		return err
	}
	dialogPlugin := dialogs.New()

	application, err := app.New(cfg).
		Plugin(logPlugin).
		Plugin(dialogPlugin).
		Invoke(commands.Register).
		Build()
	if err != nil {
		return err
	}

	view := gui.NewManager(gui.Options{
		Window:  application.Window(),
		Bridge:  application.Bridge(),
		Dialogs: dialogPlugin.Dialogs(),
		Console: logPlugin.Console(),
		Events:  logPlugin.Events(),
		Logger:  application.Logger(),
		Config:  cfg,
		Context: application.Context(),
		OnQuit:  application.Quit,
	})
	view.Attach()
	application.OnShutdown("gui", view.Shutdown)

	if flags.ConfigPath != "" {
		watchConfig(application, flags, logPlugin)
	}

	return application.Run()
}

// watchConfig reapplies the log level whenever the config file changes.
// The reloaded file gets the same HORIZON_* and flag overlays as at start-up.
func watchConfig(application *app.Application, flags *Flags, logPlugin *logging.Plugin) {
	log := application.Logger()

	reloadFailed := func(err error) {
		log.Warning("ConfigWatcher", "config reload failed", map[string]interface{}{
			"path":  flags.ConfigPath,
			"error": err.Error(),
		})
	}

	watcher, err := config.NewWatcher(flags.ConfigPath,
		func(cfg *config.Config) {
			if err := cfg.ApplyEnv(nil); err != nil {
				reloadFailed(err)
				return
			}
			flags.override(cfg)
			if err := cfg.Validate(); err != nil {
				reloadFailed(err)
				return
			}

			log.Info("ConfigWatcher", "config reloaded", map[string]interface{}{
				"path":      flags.ConfigPath,
				"log_level": cfg.Log.Level,
			})
			logPlugin.Apply(cfg)
		},
		reloadFailed,
	)
	if err != nil {
		log.Warning("ConfigWatcher", "config reload disabled", map[string]interface{}{
			"path":  flags.ConfigPath,
			"error": err.Error(),
		})
		return
	}

	go func() {
		_ = watcher.Run(application.Context())
	}()
}
