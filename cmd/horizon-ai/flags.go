package main

import (
	"horizon-ai/internal/config"
)

// Flags are the global command line options.
type Flags struct {
	ConfigPath string
	LogLevel   string
	LogDir     string
}

// loadConfig layers the config file (or the embedded defaults), HORIZON_*
// variables and finally the flags.
func (f *Flags) loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if f.ConfigPath != "" {
		var err error
		if cfg, err = config.Load(f.ConfigPath); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(nil); err != nil {
		return nil, err
	}
	f.override(cfg)
	return cfg, cfg.Validate()
}

func (f *Flags) override(cfg *config.Config) {
	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
	if f.LogDir != "" {
		cfg.Log.Dir = f.LogDir
	}
}
