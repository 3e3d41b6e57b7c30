package voice

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

// KnownVoices are the voice names the audio generation tooling produces.
// The manager plays whatever directories actually exist, so this list
// only feeds the settings picker.
var KnownVoices = []string{"alloy", "echo", "fable", "nova", "onyx", "shimmer"}

// players lists playback binaries in probe order.
var players = []string{"afplay", "mpv", "mpg123", "ffplay"}

// Manager plays pronunciation audio for Lithuanian words. Files live
// under <dir>/<voice>/<word>.mp3, one subdirectory per voice.
//
// enabled and preferred can change at runtime from the settings screen
// while a playback goroutine is running, so reads of those two fields go
// through mu.
type Manager struct {
	dir    string
	player string
	voices []string
	log    *logrus.Logger

	mu        sync.RWMutex
	enabled   bool
	preferred string
}

// NewManager scans dir for voice subdirectories and probes for a player
// binary. enabled is the user's config flag; preferred names a voice to
// use for every playback ("" picks a random voice each time).
func NewManager(dir string, enabled bool, preferred string, log *logrus.Logger) *Manager {
	if log == nil {
		log = logrus.StandardLogger()
	}
	m := &Manager{
		dir:       dir,
		enabled:   enabled,
		preferred: preferred,
		log:       log,
	}
	m.player = probePlayer()
	m.voices = scanVoices(dir)
	log.WithFields(logrus.Fields{
		"player": m.player,
		"voices": len(m.voices),
	}).Debug("voice: scanned audio directory")
	return m
}

// Enabled reports whether listening activities can actually play audio:
// the config flag is on, at least one voice directory has files, and a
// player binary was found.
func (m *Manager) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled && m.player != "" && len(m.voices) > 0
}

// SetEnabled flips the config half of Enabled. Missing voices or a
// missing player still keep playback off.
func (m *Manager) SetEnabled(enabled bool) {
	m.mu.Lock()
	m.enabled = enabled
	m.mu.Unlock()
}

// SetPreferred changes the voice used for playback. "" goes back to a
// random voice per word.
func (m *Manager) SetPreferred(voice string) {
	m.mu.Lock()
	m.preferred = voice
	m.mu.Unlock()
}

// Preferred returns the configured voice name, "" when random.
func (m *Manager) Preferred() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.preferred
}

// Voices returns the voice directories found on disk, sorted.
func (m *Manager) Voices() []string {
	return m.voices
}

// Dir returns the audio root directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Has reports whether any voice has a recording for the word.
func (m *Manager) Has(word string) bool {
	name := sanitizeWord(word)
	if name == "" {
		return false
	}
	for _, v := range m.voices {
		if _, err := os.Stat(filepath.Join(m.dir, v, name+".mp3")); err == nil {
			return true
		}
	}
	return false
}

// Play plays the word's pronunciation and blocks until playback ends.
// Callers run it from a goroutine so the UI stays responsive.
func (m *Manager) Play(ctx context.Context, word string) error {
	if !m.Enabled() {
		return fmt.Errorf("audio playback is not available")
	}
	name := sanitizeWord(word)
	if name == "" {
		return fmt.Errorf("word %q has no playable form", word)
	}

	voice := m.pickVoice()
	path := filepath.Join(m.dir, voice, name+".mp3")
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("no recording for %q (voice %s)", word, voice)
	}

	cmd := exec.CommandContext(ctx, m.player, playerArgs(m.player, path)...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("play %s: %w", filepath.Base(path), err)
	}
	return nil
}

// pickVoice returns the preferred voice when it exists on disk,
// otherwise a random one.
func (m *Manager) pickVoice() string {
	m.mu.RLock()
	preferred := m.preferred
	m.mu.RUnlock()
	if preferred != "" {
		for _, v := range m.voices {
			if v == preferred {
				return v
			}
		}
	}
	return m.voices[rand.IntN(len(m.voices))]
}

// probePlayer returns the first playback binary found on PATH.
func probePlayer() string {
	for _, p := range players {
		if _, err := exec.LookPath(p); err == nil {
			return p
		}
	}
	return ""
}

// playerArgs builds the argument list that makes each player run
// headless and exit when the file ends.
func playerArgs(player, path string) []string {
	switch player {
	case "mpv":
		return []string{"--no-video", "--really-quiet", path}
	case "mpg123":
		return []string{"-q", path}
	case "ffplay":
		return []string{"-nodisp", "-autoexit", "-loglevel", "quiet", path}
	default: // afplay
		return []string{path}
	}
}

// scanVoices lists subdirectories of dir that contain at least one mp3.
func scanVoices(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var voices []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		for _, f := range files {
			if !f.IsDir() && strings.HasSuffix(f.Name(), ".mp3") {
				voices = append(voices, e.Name())
				break
			}
		}
	}
	sort.Strings(voices)
	return voices
}

// sanitizeWord lowercases the word and strips everything that is not a
// Lithuanian letter, hyphen, or underscore, matching how the audio
// generation tooling names its files. Returns "" for unusable input.
func sanitizeWord(word string) string {
	word = strings.ToLower(strings.TrimSpace(word))

	var b strings.Builder
	for _, r := range word {
		switch {
		case r >= 'a' && r <= 'z', r == '-', r == '_':
			b.WriteRune(r)
		case strings.ContainsRune("ąčęėįšųūž", r):
			b.WriteRune(r)
		}
	}

	s := b.String()
	if s == "" || utf8.RuneCountInString(s) > 100 {
		return ""
	}
	return s
}
