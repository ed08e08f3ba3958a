// Package config loads the .beater.yaml settings shared by the beaterhtml
// commands. Values are layered: built-in defaults, then the YAML file, then
// whatever the caller overrides from flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"gopkg.in/yaml.v3"

	"github.com/chrisuehlinger/beaterhtml/css"
	"github.com/chrisuehlinger/beaterhtml/reporter"
)

// FileName is the name of the configuration file looked up by FindPath.
const FileName = ".beater.yaml"

// Constants for default values.
const (
	DefaultTitle         = "beater results"
	DefaultLogLevel      = "info"
	DefaultScriptTimeout = 10 * time.Second
)

// Config holds the settings of a rendering run.
type Config struct {
	ContainerID   string        `yaml:"container_id"`
	SuccessColor  string        `yaml:"success_color"`
	FailureColor  string        `yaml:"failure_color"`
	Title         string        `yaml:"title"`
	LogLevel      string        `yaml:"log_level"`
	ScriptTimeout time.Duration `yaml:"script_timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ContainerID:   reporter.DefaultContainerID,
		SuccessColor:  reporter.DefaultSuccessColor,
		FailureColor:  reporter.DefaultFailureColor,
		Title:         DefaultTitle,
		LogLevel:      DefaultLogLevel,
		ScriptTimeout: DefaultScriptTimeout,
	}
}

// Load returns the defaults overlaid with the YAML file at path. An empty path
// means FindPath is used, and finding nothing yields the defaults. The result
// is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = FindPath()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := cfg.overlay(data); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// overlay decodes data on top of c. Keys absent from data keep their current
// values and unknown keys are rejected.
func (c *Config) overlay(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// FindPath returns the configuration file to use: ./.beater.yaml if present,
// otherwise <user config dir>/beaterhtml/.beater.yaml if present, otherwise "".
func FindPath() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}

	configHome, err := os.UserConfigDir()
	if err != nil || configHome == "" || configHome == "/" {
		return ""
	}
	xdgPath := filepath.Join(configHome, "beaterhtml", FileName)
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath
	}
	return ""
}

// Validate checks that the configuration can be used to render a report.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.ContainerID) == "" {
		errs = append(errs, errors.New("container_id must not be empty"))
	}
	if _, ok := css.ParseColor(c.SuccessColor); !ok {
		errs = append(errs, fmt.Errorf("success_color %q is not a CSS color", c.SuccessColor))
	}
	if _, ok := css.ParseColor(c.FailureColor); !ok {
		errs = append(errs, fmt.Errorf("failure_color %q is not a CSS color", c.FailureColor))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.ScriptTimeout <= 0 {
		errs = append(errs, fmt.Errorf("script_timeout must be positive, got %s", c.ScriptTimeout))
	}
	return errors.Join(errs...)
}

// ReporterOptions returns the HTML reporter options this configuration implies.
func (c *Config) ReporterOptions(logger log.Logger) []reporter.Option {
	opts := []reporter.Option{
		reporter.WithContainerID(c.ContainerID),
		reporter.WithColors(c.SuccessColor, c.FailureColor),
	}
	if logger != nil {
		opts = append(opts, reporter.WithLogger(logger))
	}
	return opts
}

// Level returns the parsed log level, or info when it does not parse.
func (c *Config) Level() slog.Level {
	lvl, err := ParseLevel(c.LogLevel)
	if err != nil {
		return log.LevelInfo
	}
	return lvl
}

// ParseLevel converts a level name to a log level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "info", "":
		return log.LevelInfo, nil
	case "warn", "warning":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	case "crit":
		return log.LevelCrit, nil
	default:
		return log.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}
