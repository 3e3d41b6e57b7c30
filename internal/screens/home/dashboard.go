package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/trakaido/trakaido/internal/ui/components"
	"github.com/trakaido/trakaido/internal/ui/theme"
)

// Block-letter title (half-block style, fits the dashboard column).
const dashTitleFull = `▀█▀ █▀█ ▄▀█ █▄▀ ▄▀█ █ █▀▄ █▀█
 █  █▀▄ █▀█ █ █ █▀█ █ █▄▀ █▄█`

const dashTitleCompact = "T · R · A · K · A · I · D · O"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if compact {
		return lipgloss.NewStyle().
			Width(cw).
			Align(lipgloss.Center).
			Render(style.Render(dashTitleCompact))
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(dashTitleFull))
}

// renderStatsBar renders the dashboard stats in a bordered box matching content width.
func renderStatsBar(mastered, seen, streak, cw int, compact bool) string {
	masteredStyle := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	seenStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	streakStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s %s",
			masteredStyle.Render(fmt.Sprintf("★%d", mastered)),
			seenStyle.Render(fmt.Sprintf("✦%d", seen)),
			streakText(streak, true, streakStyle, dimStyle),
		)
	} else {
		stats = fmt.Sprintf("%s  %s  %s",
			masteredStyle.Render(fmt.Sprintf("★ %d MASTERED", mastered)),
			seenStyle.Render(fmt.Sprintf("✦ %d SEEN", seen)),
			streakText(streak, false, streakStyle, dimStyle),
		)
	}

	// Wrap in a double-border box at the same content width
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2). // account for border chars
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

func streakText(streak int, compact bool, active, dim lipgloss.Style) string {
	if streak == 0 {
		if compact {
			return dim.Render("⚡0")
		}
		return dim.Render("⚡ NO STREAK")
	}
	if compact {
		return active.Render(fmt.Sprintf("⚡%d", streak))
	}
	if streak == 1 {
		return active.Render("⚡ 1 DAY STREAK")
	}
	return active.Render(fmt.Sprintf("⚡ %d DAY STREAK", streak))
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 22

// renderHomeMenu renders each menu item as a fixed-width button.
func renderHomeMenu(items []string, selected int, cw int) string {
	var buttons []string
	for i, label := range items {
		buttons = append(buttons, components.MenuButton(label, i == selected, buttonWidth))
	}
	block := strings.Join(buttons, "\n")

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(block)
}

// renderHomeMenuCompact renders menu items as simple text lines (no borders)
// for very small terminals where bordered buttons would overflow.
func renderHomeMenuCompact(items []string, selected int, cw int) string {
	var lines []string
	for i, label := range items {
		var line string
		if i == selected {
			line = lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.Primary).
				Bold(true).
				Render(" ▸ " + label + " ")
		} else {
			line = lipgloss.NewStyle().
				Foreground(theme.Text).
				Render("   " + label)
		}
		lines = append(lines, line)
	}
	block := strings.Join(lines, "\n")

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(block)
}

// renderTipsBanner renders a note when no LLM API key is configured and
// grammar breaks fall back to the embedded tip set.
func renderTipsBanner(cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Width(cw).
		Align(lipgloss.Center).
		Render("No LLM key set, grammar tips use the built-in set (see trakaido --help)")
}

// renderUpdateNote renders a dim one-line update notification.
func renderUpdateNote(latestVersion string, cw int) string {
	text := fmt.Sprintf("New version %s available, run trakaido update", latestVersion)
	return lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Width(cw).
		Align(lipgloss.Center).
		Render(text)
}

// renderMascotBox renders the mascot centered in a box matching content width.
func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}
