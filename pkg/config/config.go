// Package config loads the optional delegapter.yaml configuration.
package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/delegapter/pkg/errors"
)

// FileName is the file LoadOptional looks for.
const FileName = "delegapter.yaml"

// Config represents delegapter.yaml.
type Config struct {
	Items ItemsConfig `yaml:"items"`
	Kinds KindsConfig `yaml:"kinds"`
	Diff  DiffConfig  `yaml:"diff"`
	Log   LogConfig   `yaml:"log"`
}

// ItemsConfig sizes entry storage.
type ItemsConfig struct {
	InitialCapacity int `yaml:"initial_capacity"`
}

// KindsConfig sizes the type registry and the resource pool.
type KindsConfig struct {
	InitialCapacity    int `yaml:"initial_capacity"`
	DefaultMaxRecycled int `yaml:"default_max_recycled"`
}

// DiffConfig holds replace defaults.
type DiffConfig struct {
	DetectMoves bool `yaml:"detect_moves"`
}

// LogConfig selects the log level: debug, info, warn or error.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Items: ItemsConfig{InitialCapacity: 64},
		Kinds: KindsConfig{InitialCapacity: 16, DefaultMaxRecycled: 5},
		Diff:  DiffConfig{DetectMoves: true},
		Log:   LogConfig{Level: "info"},
	}
}

// Load reads and validates the file at path. Keys missing from the file
// keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	return Parse(data)
}

// LoadOptional reads delegapter.yaml from dir if present and returns the
// defaults otherwise.
func LoadOptional(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Parse decodes and validates YAML. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, &errors.Error{Op: "config.Parse", Kind: errors.KindConfig, Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var problems []string
	if c.Items.InitialCapacity < 0 {
		problems = append(problems, fmt.Sprintf("items.initial_capacity %d is negative", c.Items.InitialCapacity))
	}
	if c.Kinds.InitialCapacity < 0 {
		problems = append(problems, fmt.Sprintf("kinds.initial_capacity %d is negative", c.Kinds.InitialCapacity))
	}
	if c.Kinds.DefaultMaxRecycled < 0 {
		problems = append(problems, fmt.Sprintf("kinds.default_max_recycled %d is negative", c.Kinds.DefaultMaxRecycled))
	}
	if _, ok := levels[strings.ToLower(strings.TrimSpace(c.Log.Level))]; !ok {
		problems = append(problems, fmt.Sprintf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	if len(problems) > 0 {
		return &errors.Error{
			Op:   "config.Validate",
			Kind: errors.KindConfig,
			Err:  stderrors.New(strings.Join(problems, "; ")),
		}
	}
	return nil
}

var levels = map[string]slog.Level{
	"":      slog.LevelInfo,
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// SlogLevel returns the configured log level. Invalid levels map to info.
func (c *Config) SlogLevel() slog.Level {
	return levels[strings.ToLower(strings.TrimSpace(c.Log.Level))]
}
