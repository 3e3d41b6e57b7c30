package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if !cfg.Audio.Enabled {
		t.Error("audio.enabled default = false, want true")
	}
	if cfg.Audio.Voice != "" {
		t.Errorf("audio.voice default = %q, want empty", cfg.Audio.Voice)
	}
	if !cfg.Journey.AutoAdvance {
		t.Error("journey.auto_advance default = false, want true")
	}
	if cfg.Journey.AutoAdvanceDelay != 3 {
		t.Errorf("journey.auto_advance_delay default = %d, want 3", cfg.Journey.AutoAdvanceDelay)
	}
	if cfg.Journey.ChoiceCount != 4 {
		t.Errorf("journey.choice_count default = %d, want 4", cfg.Journey.ChoiceCount)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log.level default = %q, want warn", cfg.Log.Level)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("TRAKAIDO_AUDIO_ENABLED", "false")
	t.Setenv("TRAKAIDO_JOURNEY_AUTO_ADVANCE_DELAY", "7")
	t.Setenv("TRAKAIDO_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Audio.Enabled {
		t.Error("audio.enabled = true, want false from env")
	}
	if cfg.Journey.AutoAdvanceDelay != 7 {
		t.Errorf("journey.auto_advance_delay = %d, want 7", cfg.Journey.AutoAdvanceDelay)
	}
	if got := cfg.Journey.Delay(); got != 7*time.Second {
		t.Errorf("delay = %v, want 7s", got)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want debug", cfg.Log.Level)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	cfg.Audio.Enabled = false
	cfg.Audio.Voice = "nova"
	cfg.Journey.AutoAdvanceDelay = 5

	if err := cfg.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Audio.Enabled {
		t.Error("audio.enabled = true after reload, want false")
	}
	if loaded.Audio.Voice != "nova" {
		t.Errorf("audio.voice = %q, want nova", loaded.Audio.Voice)
	}
	if loaded.Journey.AutoAdvanceDelay != 5 {
		t.Errorf("journey.auto_advance_delay = %d, want 5", loaded.Journey.AutoAdvanceDelay)
	}
}
