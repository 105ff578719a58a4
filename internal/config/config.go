// Package config resolves braid's on-disk app directory and loads its
// YAML-backed user configuration, layered under the environment-variable
// overrides from spec.md §6.6.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const markerFile = ".braid-dir.txt"

// AgentPreset names a default agent a user can spawn from the agent picker
// overlay without typing a full command line.
type AgentPreset struct {
	Name    string `yaml:"name"`
	Command string `yaml:"command"`
}

// ReflowTuning holds the empirically-tuned reflow timer bounds from
// spec.md §9 — calibrated to whichever VT emulator is embedded, here
// vito/midterm. Re-calibrate when swapping emulators.
type ReflowTuning struct {
	SilenceMinMs int `yaml:"silence_min_ms"`
	SilenceMaxMs int `yaml:"silence_max_ms"`
	MaxMinMs     int `yaml:"max_min_ms"`
	MaxMaxMs     int `yaml:"max_max_ms"`
}

// KeybindingMode selects which input-escape dialect the host terminal
// speaks (plain legacy escapes, or the Kitty keyboard protocol).
type KeybindingMode string

const (
	KeybindingsLegacy KeybindingMode = "legacy"
	KeybindingsKitty  KeybindingMode = "kitty"
)

// ClipboardMode selects how the system-clipboard registers are bridged.
type ClipboardMode string

const (
	ClipboardOSC52 ClipboardMode = "osc52"
	ClipboardNone  ClipboardMode = "none"
)

// Config is the full set of user-configurable, file-backed settings.
type Config struct {
	KeybindingMode KeybindingMode `yaml:"keybinding_mode"`
	ClipboardMode  ClipboardMode  `yaml:"clipboard_mode"`
	DefaultAgents  []AgentPreset  `yaml:"default_agents"`
	Reflow         ReflowTuning   `yaml:"reflow"`
}

// Default returns the built-in configuration used when no file is present
// or the file fails validation.
func Default() Config {
	return Config{
		KeybindingMode: KeybindingsLegacy,
		ClipboardMode:  ClipboardOSC52,
		DefaultAgents: []AgentPreset{
			{Name: "claude", Command: "claude"},
			{Name: "codex", Command: "codex"},
			{Name: "gemini", Command: "gemini"},
		},
		Reflow: ReflowTuning{
			SilenceMinMs: 70,
			SilenceMaxMs: 120,
			MaxMinMs:     350,
			MaxMaxMs:     800,
		},
	}
}

// ErrInvalidConfig is returned (wrapped) when the file fails enum
// validation. Callers should fall back to Default(), never panic.
type ErrInvalidConfig struct {
	Field string
	Value string
}

func (e *ErrInvalidConfig) Error() string {
	return fmt.Sprintf("config: invalid value %q for %s", e.Value, e.Field)
}

func (c Config) validate() error {
	switch c.KeybindingMode {
	case KeybindingsLegacy, KeybindingsKitty, "":
	default:
		return &ErrInvalidConfig{Field: "keybinding_mode", Value: string(c.KeybindingMode)}
	}
	switch c.ClipboardMode {
	case ClipboardOSC52, ClipboardNone, "":
	default:
		return &ErrInvalidConfig{Field: "clipboard_mode", Value: string(c.ClipboardMode)}
	}
	return nil
}

// Load reads and validates a YAML config file, filling any zero-valued
// fields from Default(). A missing file is not an error — it returns
// Default() unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	var fromFile Config
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := fromFile.validate(); err != nil {
		return cfg, err
	}
	if fromFile.KeybindingMode != "" {
		cfg.KeybindingMode = fromFile.KeybindingMode
	}
	if fromFile.ClipboardMode != "" {
		cfg.ClipboardMode = fromFile.ClipboardMode
	}
	if len(fromFile.DefaultAgents) > 0 {
		cfg.DefaultAgents = fromFile.DefaultAgents
	}
	if fromFile.Reflow != (ReflowTuning{}) {
		cfg.Reflow = fromFile.Reflow
	}
	return applyEnvOverrides(cfg), nil
}

// Save writes cfg as YAML to path, creating parent directories as needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// applyEnvOverrides layers the spec.md §6.6 environment variables on top
// of the file-backed reflow tuning. Env vars always win, matching the
// teacher's convention (H2_DIR beats any discovered marker).
func applyEnvOverrides(cfg Config) Config {
	if v, ok := envInt("OUTPUT_SILENCE_DURATION_MS"); ok {
		cfg.Reflow.SilenceMinMs = v
		if cfg.Reflow.SilenceMaxMs < v {
			cfg.Reflow.SilenceMaxMs = v
		}
	}
	return cfg
}

func envInt(key string) (int, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

// EnvInt reads an integer environment variable, falling back to def.
func EnvInt(key string, def int) int {
	if v, ok := envInt(key); ok {
		return v
	}
	return def
}

// EnvDuration reads a millisecond integer environment variable as a
// time.Duration, falling back to def.
func EnvDuration(key string, def time.Duration) time.Duration {
	if v, ok := envInt(key); ok {
		return time.Duration(v) * time.Millisecond
	}
	return def
}

// EnvString reads a string environment variable, falling back to def.
func EnvString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

var (
	resolvedDir string
	resolveErr  error
	resolveOnce sync.Once
)

// IsBraidDir reports whether dir contains the marker file written by init.
func IsBraidDir(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, markerFile))
	return err == nil && !info.IsDir()
}

// WriteMarker writes the directory marker recording the current version.
func WriteMarker(dir, versionStr string) error {
	return os.WriteFile(filepath.Join(dir, markerFile), []byte("v"+versionStr+"\n"), 0o644)
}

// ResolveDir finds braid's app directory: $BRAID_DIR env var, else walk up
// from cwd looking for the marker, else fall back to
// $XDG_CONFIG_HOME/braid (or ~/.config/braid). Cached for the process
// lifetime, mirroring the teacher's config.ResolveDir/socketdir.Dir
// sync.Once pattern.
func ResolveDir() (string, error) {
	resolveOnce.Do(func() {
		resolvedDir, resolveErr = resolveDir()
	})
	return resolvedDir, resolveErr
}

// ResetResolveCache clears the cached ResolveDir result. Test-only.
func ResetResolveCache() {
	resolveOnce = sync.Once{}
	resolvedDir = ""
	resolveErr = nil
}

func resolveDir() (string, error) {
	if dir := os.Getenv("BRAID_DIR"); dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", fmt.Errorf("BRAID_DIR: %w", err)
		}
		return abs, nil
	}

	cwd, err := os.Getwd()
	if err == nil {
		dir := cwd
		for {
			if IsBraidDir(dir) {
				return dir, nil
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "braid"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "braid"), nil
}

// ConfigFilePath returns the path to the YAML config file within dir.
func ConfigFilePath(dir string) string {
	return filepath.Join(dir, "config.yaml")
}

// RuntimeDir returns the socket/runtime directory per spec.md §6.6's
// RUNTIME_DIR (default /tmp/braid).
func RuntimeDir() string {
	return EnvString("RUNTIME_DIR", filepath.Join(os.TempDir(), "braid"))
}

// SessionsDir returns the directory under which Session JSON documents are
// stored, per spec.md §6.5.
func SessionsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "braid", "sessions"), nil
}
