// Package config loads the application context: identity, window geometry
// and log settings.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v2"
)

//go:embed default.yaml
var defaultDocument []byte

// EnvPrefix prefixes every environment override.
const EnvPrefix = "HORIZON_"

type Config struct {
	ProductName string       `yaml:"product_name"`
	Identifier  string       `yaml:"identifier"`
	Version     string       `yaml:"version"`
	Window      WindowConfig `yaml:"window"`
	Log         LogConfig    `yaml:"log"`
}

type WindowConfig struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	FixedSize bool   `yaml:"fixed_size"`
}

type LogConfig struct {
	Level        string         `yaml:"level"`
	Dir          string         `yaml:"dir"`
	FileName     string         `yaml:"file_name"`
	Format       string         `yaml:"format"`
	MaxSizeMB    int            `yaml:"max_size_mb"`
	MaxBackups   int            `yaml:"max_backups"`
	ConsoleLines int            `yaml:"console_lines"`
	Targets      []TargetConfig `yaml:"targets"`
}

type TargetConfig struct {
	Kind     string `yaml:"kind"`
	Level    string `yaml:"level,omitempty"`
	FileName string `yaml:"file_name,omitempty"`
}

// envOverrides are read with EnvPrefix, e.g. HORIZON_LOG_LEVEL.
type envOverrides struct {
	LogLevel     string `env:"LOG_LEVEL"`
	LogDir       string `env:"LOG_DIR"`
	LogFormat    string `env:"LOG_FORMAT"`
	WindowWidth  int    `env:"WINDOW_WIDTH"`
	WindowHeight int    `env:"WINDOW_HEIGHT"`
}

var (
	validLevels  = []string{"trace", "debug", "info", "warn", "warning", "error"}
	validFormats = []string{"text", "json"}
	validTargets = []string{"stdout", "log_dir", "console"}
)

// Default returns the built-in configuration.
func Default() *Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultDocument, &cfg); err != nil {
		panic(fmt.Sprintf("embedded default config is invalid: %v", err))
	}
	return &cfg
}

// Load overlays the YAML file at filePath on the defaults and validates the
// result. Keys missing from the file keep their default; a targets list in
// the file replaces the default list.
func Load(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse is Load for an in-memory document.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unable to parse YAML config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays HORIZON_* variables. A nil environ reads the process
// environment.
func (c *Config) ApplyEnv(environ map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}

	var o envOverrides
	if err := env.ParseWithOptions(&o, opts); err != nil {
		return fmt.Errorf("invalid environment override: %w", err)
	}

	if o.LogLevel != "" {
		c.Log.Level = o.LogLevel
	}
	if o.LogDir != "" {
		c.Log.Dir = o.LogDir
	}
	if o.LogFormat != "" {
		c.Log.Format = o.LogFormat
	}
	if o.WindowWidth != 0 {
		c.Window.Width = o.WindowWidth
	}
	if o.WindowHeight != 0 {
		c.Window.Height = o.WindowHeight
	}
	return c.Validate()
}

// Validate checks for required fields and known values.
func (c *Config) Validate() error {
	if c.ProductName == "" {
		return errors.New("product_name is missing")
	}
	if c.Identifier == "" {
		return errors.New("identifier is missing")
	}
	if strings.ContainsAny(c.Identifier, `/\ `) {
		return fmt.Errorf("identifier %q must not contain slashes or spaces", c.Identifier)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}

	l := c.Log
	if !oneOf(strings.ToLower(l.Level), validLevels) {
		return fmt.Errorf("log.level %q is not one of %s", l.Level, strings.Join(validLevels, ", "))
	}
	if !oneOf(l.Format, validFormats) {
		return fmt.Errorf("log.format %q is not one of %s", l.Format, strings.Join(validFormats, ", "))
	}
	if l.MaxSizeMB <= 0 {
		return errors.New("log.max_size_mb must be positive")
	}
	if l.MaxBackups < 0 {
		return errors.New("log.max_backups must not be negative")
	}
	if l.ConsoleLines <= 0 {
		return errors.New("log.console_lines must be positive")
	}
	for i, t := range l.Targets {
		if !oneOf(t.Kind, validTargets) {
			return fmt.Errorf("log.targets[%d].kind %q is not one of %s", i, t.Kind, strings.Join(validTargets, ", "))
		}
		if t.Level != "" && !oneOf(strings.ToLower(t.Level), validLevels) {
			return fmt.Errorf("log.targets[%d].level %q is not one of %s", i, t.Level, strings.Join(validLevels, ", "))
		}
	}
	return nil
}

// Title is the window title, falling back to the product name.
func (c *Config) Title() string {
	if c.Window.Title != "" {
		return c.Window.Title
	}
	return c.ProductName
}

// LogFileName is the log_dir file name, falling back to "<product>.log".
func (c *Config) LogFileName() string {
	if c.Log.FileName != "" {
		return c.Log.FileName
	}
	return c.ProductName + ".log"
}

// HasTarget reports whether kind is among the configured log targets.
func (c *Config) HasTarget(kind string) bool {
	for _, t := range c.Log.Targets {
		if t.Kind == kind {
			return true
		}
	}
	return false
}

// oneOf matches exactly. Target kinds and formats are compared verbatim
// downstream, so only levels are lowercased by the callers.
func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
