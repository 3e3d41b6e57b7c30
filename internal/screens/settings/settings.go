package settings

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/trakaido/trakaido/internal/config"
	"github.com/trakaido/trakaido/internal/router"
	"github.com/trakaido/trakaido/internal/screen"
	"github.com/trakaido/trakaido/internal/ui/layout"
	"github.com/trakaido/trakaido/internal/ui/theme"
	"github.com/trakaido/trakaido/internal/voice"
)

// Value bounds for the numeric rows.
const (
	minDelay   = 1
	maxDelay   = 10
	minChoices = 2
	maxChoices = 6
)

// row identifies one editable setting.
type row int

const (
	rowAudio row = iota
	rowVoice
	rowAutoAdvance
	rowDelay
	rowChoices
	rowCount
)

// SettingsScreen edits the config in place and persists it on exit.
// Audio changes also apply to the voice manager immediately so the next
// listening turn uses them.
type SettingsScreen struct {
	cfg   *config.Config
	voice *voice.Manager

	selected row
	// voiceOptions is "" (random) followed by the voices available for
	// playback. When no files are on disk the known voice names stand in
	// so the choice can still be made ahead of downloading audio.
	voiceOptions []string

	saveErr error
}

var _ screen.Screen = (*SettingsScreen)(nil)
var _ screen.KeyHintProvider = (*SettingsScreen)(nil)

// New creates a settings screen bound to the shared config.
func New(cfg *config.Config, vm *voice.Manager) *SettingsScreen {
	names := voice.KnownVoices
	if vm != nil && len(vm.Voices()) > 0 {
		names = vm.Voices()
	}
	options := append([]string{""}, names...)

	return &SettingsScreen{
		cfg:          cfg,
		voice:        vm,
		voiceOptions: options,
	}
}

func (s *SettingsScreen) Init() tea.Cmd {
	return nil
}

func (s *SettingsScreen) Title() string {
	return "Settings"
}

func (s *SettingsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑/↓", Description: "Select"},
		{Key: "←/→", Description: "Change"},
		{Key: "Esc", Description: "Save & Back"},
	}
}

func (s *SettingsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < rowCount-1 {
			s.selected++
		}
	case "left", "h":
		s.cycle(-1)
	case "right", "l", "enter", "space", " ":
		s.cycle(1)
	case "esc":
		if s.saveErr != nil {
			// Second esc leaves without retrying the write.
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		if err := s.cfg.Save(); err != nil {
			s.saveErr = err
			return s, nil
		}
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return s, nil
}

// cycle moves the selected row's value by delta. Toggles flip either
// way, the voice wraps around, and the numeric rows stop at their
// bounds.
func (s *SettingsScreen) cycle(delta int) {
	s.saveErr = nil

	switch s.selected {
	case rowAudio:
		s.cfg.Audio.Enabled = !s.cfg.Audio.Enabled
		if s.voice != nil {
			s.voice.SetEnabled(s.cfg.Audio.Enabled)
		}
	case rowVoice:
		i := s.voiceIndex() + delta
		n := len(s.voiceOptions)
		i = ((i % n) + n) % n
		s.cfg.Audio.Voice = s.voiceOptions[i]
		if s.voice != nil {
			s.voice.SetPreferred(s.cfg.Audio.Voice)
		}
	case rowAutoAdvance:
		s.cfg.Journey.AutoAdvance = !s.cfg.Journey.AutoAdvance
	case rowDelay:
		d := s.cfg.Journey.AutoAdvanceDelay + delta
		s.cfg.Journey.AutoAdvanceDelay = max(minDelay, min(maxDelay, d))
	case rowChoices:
		c := s.cfg.Journey.ChoiceCount + delta
		s.cfg.Journey.ChoiceCount = max(minChoices, min(maxChoices, c))
	}
}

// voiceIndex finds the configured voice in voiceOptions, falling back
// to 0 (random) when the config names a voice that is not offered.
func (s *SettingsScreen) voiceIndex() int {
	for i, v := range s.voiceOptions {
		if v == s.cfg.Audio.Voice {
			return i
		}
	}
	return 0
}

func (s *SettingsScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("SETTINGS"))
	b.WriteString("\n\n")

	rows := []struct {
		label string
		value string
	}{
		{"Audio", onOff(s.cfg.Audio.Enabled)},
		{"Voice", voiceName(s.cfg.Audio.Voice)},
		{"Auto-advance", onOff(s.cfg.Journey.AutoAdvance)},
		{"Auto-advance delay", fmt.Sprintf("%d s", s.cfg.Journey.AutoAdvanceDelay)},
		{"Choices per question", fmt.Sprintf("%d", s.cfg.Journey.ChoiceCount)},
	}

	var lines []string
	for i, r := range rows {
		lines = append(lines, s.renderRow(row(i), r.label, r.value))
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(lines, "\n")))
	b.WriteString("\n\n")

	if s.cfg.Audio.Enabled && s.voice != nil && !s.voice.Enabled() {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("Audio is on but no player or voice files were found in %s.", s.voice.Dir())))
		b.WriteString("\n")
	}

	if s.saveErr != nil {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(fmt.Sprintf("Could not save: %v. Esc again leaves without saving.", s.saveErr)))
	} else {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("Changes are saved when you leave this screen."))
	}

	return b.String()
}

func (s *SettingsScreen) renderRow(r row, label, value string) string {
	line := fmt.Sprintf("%-22s %s", label, value)
	if r == s.selected {
		return lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			Render("▸ " + line)
	}
	return lipgloss.NewStyle().
		Foreground(theme.Text).
		Render("  " + line)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func voiceName(v string) string {
	if v == "" {
		return "random"
	}
	return v
}
