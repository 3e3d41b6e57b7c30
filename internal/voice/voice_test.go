package voice

import (
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func quietLog() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// writeVoiceFile creates <root>/<voice>/<name> with dummy content.
func writeVoiceFile(t *testing.T, root, voice, name string) {
	t.Helper()
	dir := filepath.Join(root, voice)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte("id3"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestSanitizeWord(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"katė", "katė"},
		{" Katė ", "katė"},
		{"vanduo!", "vanduo"},
		{"AŠ", "aš"},
		{"labas rytas", "labasrytas"},
		{"šešiasdešimt", "šešiasdešimt"},
		{"self-update", "self-update"},
		{"123", ""},
		{"", ""},
		{strings.Repeat("a", 101), ""},
	}
	for _, tt := range tests {
		if got := sanitizeWord(tt.in); got != tt.want {
			t.Errorf("sanitizeWord(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScanFindsVoicesWithAudio(t *testing.T) {
	root := t.TempDir()
	writeVoiceFile(t, root, "nova", "katė.mp3")
	writeVoiceFile(t, root, "onyx", "šuo.mp3")
	writeVoiceFile(t, root, "readme", "notes.txt") // no mp3, excluded
	if err := os.MkdirAll(filepath.Join(root, "empty"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "stray.mp3"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewManager(root, true, "", quietLog())
	want := []string{"nova", "onyx"}
	if !reflect.DeepEqual(m.Voices(), want) {
		t.Errorf("voices = %v, want %v", m.Voices(), want)
	}
}

func TestScanMissingDirectory(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "nope"), true, "", quietLog())
	if len(m.Voices()) != 0 {
		t.Errorf("expected no voices, got %v", m.Voices())
	}
	if m.Enabled() {
		t.Error("expected disabled with no voices")
	}
}

func TestEnabledRequiresFlagVoicesAndPlayer(t *testing.T) {
	root := t.TempDir()
	writeVoiceFile(t, root, "nova", "katė.mp3")

	m := NewManager(root, true, "", quietLog())
	m.player = "afplay"
	if !m.Enabled() {
		t.Error("expected enabled with flag, voices, and player")
	}

	m.player = ""
	if m.Enabled() {
		t.Error("expected disabled without player")
	}

	m = NewManager(root, false, "", quietLog())
	m.player = "afplay"
	if m.Enabled() {
		t.Error("expected disabled when config flag is off")
	}
}

func TestHas(t *testing.T) {
	root := t.TempDir()
	writeVoiceFile(t, root, "nova", "katė.mp3")

	m := NewManager(root, true, "", quietLog())
	if !m.Has("katė") {
		t.Error("expected recording for katė")
	}
	if !m.Has(" Katė ") {
		t.Error("expected sanitization before lookup")
	}
	if m.Has("šuo") {
		t.Error("expected no recording for šuo")
	}
	if m.Has("") {
		t.Error("expected no recording for empty word")
	}
}

func TestPickVoicePrefersConfigured(t *testing.T) {
	root := t.TempDir()
	writeVoiceFile(t, root, "nova", "katė.mp3")
	writeVoiceFile(t, root, "onyx", "katė.mp3")

	m := NewManager(root, true, "nova", quietLog())
	for range 20 {
		if v := m.pickVoice(); v != "nova" {
			t.Fatalf("picked %q, want nova", v)
		}
	}

	// Preference not on disk falls back to whatever exists.
	m = NewManager(root, true, "shimmer", quietLog())
	for range 20 {
		v := m.pickVoice()
		if v != "nova" && v != "onyx" {
			t.Fatalf("picked %q, want nova or onyx", v)
		}
	}
}

func TestPlayErrors(t *testing.T) {
	root := t.TempDir()
	writeVoiceFile(t, root, "nova", "katė.mp3")

	m := NewManager(root, true, "", quietLog())
	m.player = ""
	if err := m.Play(t.Context(), "katė"); err == nil {
		t.Error("expected error when no player available")
	}

	m.player = "afplay"
	if err := m.Play(t.Context(), "šuo"); err == nil {
		t.Error("expected error for missing recording")
	}
	if err := m.Play(t.Context(), "42"); err == nil {
		t.Error("expected error for unplayable word")
	}
}

func TestPlayerArgs(t *testing.T) {
	tests := []struct {
		player string
		want   []string
	}{
		{"afplay", []string{"/a/b.mp3"}},
		{"mpv", []string{"--no-video", "--really-quiet", "/a/b.mp3"}},
		{"mpg123", []string{"-q", "/a/b.mp3"}},
		{"ffplay", []string{"-nodisp", "-autoexit", "-loglevel", "quiet", "/a/b.mp3"}},
	}
	for _, tt := range tests {
		got := playerArgs(tt.player, "/a/b.mp3")
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("playerArgs(%q) = %v, want %v", tt.player, got, tt.want)
		}
	}
}
