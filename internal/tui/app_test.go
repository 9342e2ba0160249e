package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quantumsync/attune/internal/models"
)

func TestInitialModelDefaults(t *testing.T) {
	m := initialModel(Config{SubjectName: "Dana", DurationMinutes: 99, Theme: "no-such-theme"})

	if m.styles.Theme.Name != "default" {
		t.Errorf("Expected fallback to default theme, got %q", m.styles.Theme.Name)
	}
	if m.duration != 5 {
		t.Errorf("Expected duration clamped to 5, got %d", m.duration)
	}
	if m.mode != models.SelectionModeAll {
		t.Errorf("Expected default mode all, got %q", m.mode)
	}
}

func TestViewRendersSubjectAndShortcuts(t *testing.T) {
	m := initialModel(Config{SubjectName: "Dana", DurationMinutes: 2})
	m.width = 100
	m.height = 40

	view := m.View()
	if !strings.Contains(view, "Dana") {
		t.Errorf("Expected subject name in view, got: %s", view)
	}
	if !strings.Contains(view, "q quit") {
		t.Errorf("Expected shortcut hints in view, got: %s", view)
	}
	if !strings.Contains(view, "Root") || !strings.Contains(view, "Crown") {
		t.Errorf("Expected full catalog listed in view, got: %s", view)
	}
}

func TestViewRendersDiagnosisBadges(t *testing.T) {
	m := initialModel(Config{
		SubjectName:     "Dana",
		DurationMinutes: 2,
		Diagnostics: []models.Diagnostic{
			{StageName: "Heart", State: models.DiagnosticBlocked},
			{StageName: "throat", State: models.DiagnosticClosed},
		},
	})
	m.width = 100
	m.height = 40

	view := m.View()
	if !strings.Contains(view, "Blocked") {
		t.Errorf("expected blocked badge in view, got: %s", view)
	}
	if !strings.Contains(view, "Closed") {
		t.Errorf("expected closed badge for lowercased stage name, got: %s", view)
	}
	if strings.Contains(view, "Open") {
		t.Errorf("undiagnosed stages must carry no badge, got: %s", view)
	}
}

func TestViewSmallTerminal(t *testing.T) {
	m := initialModel(Config{SubjectName: "Dana", DurationMinutes: 2})
	m.width = 20
	m.height = 5

	view := m.View()
	if !strings.Contains(view, "Terminal too small") {
		t.Errorf("Expected small-terminal message, got: %s", view)
	}
}

func TestDurationAndModeKeysWhileIdle(t *testing.T) {
	m := initialModel(Config{SubjectName: "Dana", DurationMinutes: 2})

	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	m = next.(model)
	if m.duration != 3 {
		t.Errorf("Expected duration 3 after +, got %d", m.duration)
	}

	next, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}})
	m = next.(model)
	if m.mode != models.SelectionModeUnbalanced {
		t.Errorf("Expected mode toggle to only-unbalanced, got %q", m.mode)
	}
}
