package summary

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
)

func testSummary() Summary {
	return Summary{
		Answered: 14,
		Correct:  11,
		Duration: 15 * time.Minute,
		NewWords: []string{"katė", "šuo", "ranka"},
	}
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New(testSummary())
	if s.Title() != "Session Summary" {
		t.Errorf("Title = %q, want %q", s.Title(), "Session Summary")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	s := New(testSummary())
	view := s.View(80, 24)
	if view == "" {
		t.Fatal("expected non-empty summary view")
	}
	for _, want := range []string{"Session complete!", "14", "11", "79%", "katė"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSummaryScreen_Display_NothingAnswered(t *testing.T) {
	s := New(Summary{Duration: time.Minute})
	view := s.View(80, 24)
	if !strings.Contains(view, "Nothing graded") {
		t.Error("expected the empty-session line")
	}
	if strings.Contains(view, "New words") {
		t.Error("expected no new-words section")
	}
}

func TestSummaryScreen_NewWordsTruncated(t *testing.T) {
	sum := testSummary()
	sum.NewWords = []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	view := New(sum).View(80, 24)
	if !strings.Contains(view, "+2 more") {
		t.Error("expected overflow words to collapse into a count")
	}
}

func TestSummaryScreen_Navigation_Enter(t *testing.T) {
	s := New(testSummary())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Error("expected a command on Enter (pop)")
	}
}

func TestSummaryScreen_Navigation_Esc(t *testing.T) {
	s := New(testSummary())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Error("expected a command on Esc (pop)")
	}
}

func TestSummaryScreen_KeyHints(t *testing.T) {
	s := New(testSummary())
	hints := s.KeyHints()
	if len(hints) != 2 {
		t.Errorf("KeyHints length = %d, want 2", len(hints))
	}
}
