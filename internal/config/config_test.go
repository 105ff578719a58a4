package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.KeybindingMode != KeybindingsLegacy {
		t.Fatalf("expected default keybinding mode, got %q", cfg.KeybindingMode)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	cfg.KeybindingMode = KeybindingsKitty
	cfg.ClipboardMode = ClipboardNone

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.KeybindingMode != KeybindingsKitty {
		t.Fatalf("expected kitty, got %q", loaded.KeybindingMode)
	}
	if loaded.ClipboardMode != ClipboardNone {
		t.Fatalf("expected none, got %q", loaded.ClipboardMode)
	}
	if len(loaded.DefaultAgents) != len(cfg.DefaultAgents) {
		t.Fatalf("expected %d default agents, got %d", len(cfg.DefaultAgents), len(loaded.DefaultAgents))
	}
}

func TestLoadInvalidEnumFallsBackToDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("keybinding_mode: bogus\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if cfg.KeybindingMode != KeybindingsLegacy {
		t.Fatalf("expected fallback to default, got %q", cfg.KeybindingMode)
	}
}

func TestEnvOverrideWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := Save(path, Default()); err != nil {
		t.Fatalf("save: %v", err)
	}
	t.Setenv("OUTPUT_SILENCE_DURATION_MS", "999")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Reflow.SilenceMinMs != 999 {
		t.Fatalf("expected env override 999, got %d", cfg.Reflow.SilenceMinMs)
	}
}
