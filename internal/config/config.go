// Package config loads the optional YAML settings file for the plam driver.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable that overrides the config path.
const EnvVar = "PLAM_CONFIG"

// Config holds driver and interpreter settings.
type Config struct {
	Prompt             string `yaml:"prompt"`
	ContinuationPrompt string `yaml:"continuation_prompt"`
	HistoryFile        string `yaml:"history_file"`
	MaxCallDepth       int    `yaml:"max_call_depth"`
	Trace              bool   `yaml:"trace"`
}

// Default returns the settings used when no file is present, before the
// history path is expanded.
func Default() Config {
	return Config{
		Prompt:             "plam> ",
		ContinuationPrompt: ".... ",
		HistoryFile:        "~/.plam_history",
	}
}

// DefaultPath returns $PLAM_CONFIG, or ~/.plamrc.yaml when it is unset.
// An empty string means no location could be determined.
func DefaultPath() string {
	if path := os.Getenv(EnvVar); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".plamrc.yaml")
}

// Load reads the file at path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Parse(nil)
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Parse(nil)
	}
	if err != nil {
		return Config{}, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML settings on top of the defaults. Unknown keys are
// rejected so typos do not go unnoticed.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if cfg.MaxCallDepth < 0 {
		return Config{}, fmt.Errorf("config: max_call_depth must not be negative, got %d", cfg.MaxCallDepth)
	}
	cfg.HistoryFile = expandHome(cfg.HistoryFile)
	return cfg, nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
