// Package config loads the optional fiber.yaml configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/fiber/pkg/logging"
)

// FileName is the configuration file looked up by LoadOptional.
const FileName = "fiber.yaml"

const (
	// DefaultSliceThreshold is the idle time a slot must still offer before
	// another unit of work is started.
	DefaultSliceThreshold = time.Millisecond
	// DefaultFrameBudget is the length of the idle slots offered by
	// idle.Loop.
	DefaultFrameBudget = 16 * time.Millisecond
	// DefaultMetricsNamespace prefixes every metric name.
	DefaultMetricsNamespace = "fiber"
)

// Config represents the optional fiber.yaml configuration.
type Config struct {
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Log       LogConfig       `yaml:"log"`
	Errors    ErrorsConfig    `yaml:"errors"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// SchedulerConfig tunes the work loop.
type SchedulerConfig struct {
	SliceThreshold time.Duration `yaml:"slice_threshold,omitempty"`
	FrameBudget    time.Duration `yaml:"frame_budget,omitempty"`
}

// LogConfig selects the logger.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// ErrorsConfig tunes the error handler.
type ErrorsConfig struct {
	Verbose bool `yaml:"verbose,omitempty"`
}

// MetricsConfig names the metrics.
type MetricsConfig struct {
	Namespace string `yaml:"namespace,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	SliceThreshold   time.Duration
	FrameBudget      time.Duration
	LogLevel         slog.Level
	LogFormat        logging.Format
	VerboseErrors    bool
	MetricsNamespace string
}

// Load reads and parses the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	return &cfg, nil
}

// LoadOptional reads fiber.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	return cfg, nil
}

// Resolve fills defaults and validates.
func (c *Config) Resolve() (*Resolved, error) {
	r := &Resolved{
		SliceThreshold:   c.Scheduler.SliceThreshold,
		FrameBudget:      c.Scheduler.FrameBudget,
		VerboseErrors:    c.Errors.Verbose,
		MetricsNamespace: strings.TrimSpace(c.Metrics.Namespace),
	}
	if r.SliceThreshold == 0 {
		r.SliceThreshold = DefaultSliceThreshold
	}
	if r.FrameBudget == 0 {
		r.FrameBudget = DefaultFrameBudget
	}
	if r.SliceThreshold < 0 || r.FrameBudget < 0 {
		return nil, fmt.Errorf("scheduler durations must be positive")
	}
	if r.SliceThreshold > r.FrameBudget {
		return nil, fmt.Errorf("scheduler.slice_threshold %s exceeds scheduler.frame_budget %s",
			r.SliceThreshold, r.FrameBudget)
	}

	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	r.LogLevel = level

	switch format := logging.Format(strings.ToLower(strings.TrimSpace(c.Log.Format))); format {
	case "":
		r.LogFormat = logging.FormatText
	case logging.FormatText, logging.FormatJSON:
		r.LogFormat = format
	default:
		return nil, fmt.Errorf("unknown log format %q", c.Log.Format)
	}

	if r.MetricsNamespace == "" {
		r.MetricsNamespace = DefaultMetricsNamespace
	}
	return r, nil
}

// Defaults returns the resolved configuration of an empty file.
func Defaults() *Resolved {
	r, _ := (&Config{}).Resolve()
	return r
}
