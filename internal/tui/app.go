// Package tui implements the Attune terminal user interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quantumsync/attune/internal/config"
	"github.com/quantumsync/attune/internal/models"
	"github.com/quantumsync/attune/internal/sequencer"
	"github.com/quantumsync/attune/internal/tui/components"
	"github.com/quantumsync/attune/internal/tui/styles"
)

// Config carries the dependencies and defaults for the TUI.
type Config struct {
	Orchestrator    *sequencer.Orchestrator
	SubjectName     string
	DurationMinutes int
	Mode            models.SelectionMode
	Theme           string

	// Diagnostics is the subject's recorded diagnosis, shown next to
	// the catalog stages. May be empty.
	Diagnostics []models.Diagnostic
}

// Run launches the Attune TUI program.
func Run(cfg Config) error {
	program := tea.NewProgram(initialModel(cfg), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

const (
	minWidth         = 60
	minHeight        = 18
	pollInterval     = 250 * time.Millisecond
	progressBarWidth = 40
)

type model struct {
	width  int
	height int
	styles styles.Styles

	orchestrator *sequencer.Orchestrator
	subjectName  string
	duration     int
	mode         models.SelectionMode
	diagnostics  map[string]models.DiagnosticState

	state   sequencer.State
	lastErr error
}

func initialModel(cfg Config) model {
	theme, ok := styles.Themes[cfg.Theme]
	if !ok {
		theme = styles.DefaultTheme
	}
	duration := cfg.DurationMinutes
	if duration < config.MinDurationMinutes {
		duration = config.MinDurationMinutes
	}
	if duration > config.MaxDurationMinutes {
		duration = config.MaxDurationMinutes
	}
	mode := cfg.Mode
	if mode == "" {
		mode = models.SelectionModeAll
	}
	diagnostics := make(map[string]models.DiagnosticState, len(cfg.Diagnostics))
	for _, diagnostic := range cfg.Diagnostics {
		diagnostics[strings.ToLower(strings.TrimSpace(diagnostic.StageName))] = diagnostic.State
	}
	m := model{
		styles:       styles.BuildStyles(theme),
		orchestrator: cfg.Orchestrator,
		subjectName:  cfg.SubjectName,
		duration:     duration,
		mode:         mode,
		diagnostics:  diagnostics,
	}
	if m.orchestrator != nil {
		m.state = m.orchestrator.State()
	}
	return m
}

func (m model) Init() tea.Cmd {
	return pollCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case pollMsg:
		if m.orchestrator != nil {
			m.state = m.orchestrator.State()
		}
		return m, pollCmd()
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "s", "enter":
		if m.orchestrator != nil {
			m.lastErr = m.orchestrator.Start(context.Background(), m.subjectName, m.mode, m.duration)
			m.state = m.orchestrator.State()
		}
	case "x":
		if m.orchestrator != nil {
			m.orchestrator.Stop(context.Background())
			m.state = m.orchestrator.State()
		}
	case "m":
		if m.state.Phase != sequencer.PhaseRunning {
			if m.mode == models.SelectionModeAll {
				m.mode = models.SelectionModeUnbalanced
			} else {
				m.mode = models.SelectionModeAll
			}
		}
	case "+", "=":
		if m.state.Phase != sequencer.PhaseRunning && m.duration < config.MaxDurationMinutes {
			m.duration++
		}
	case "-":
		if m.state.Phase != sequencer.PhaseRunning && m.duration > config.MinDurationMinutes {
			m.duration--
		}
	case "q", "esc", "ctrl+c":
		if m.orchestrator != nil {
			m.orchestrator.Stop(context.Background())
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string {
	if m.width > 0 && m.height > 0 {
		if m.width < minWidth || m.height < minHeight {
			return fmt.Sprintf("%s\n", joinLines(m.smallViewLines()))
		}
	}

	lines := []string{
		m.styles.Title.Render("Attune"),
		"",
		m.styles.Text.Render(fmt.Sprintf("Subject: %s", m.subjectName)),
		m.styles.Muted.Render(fmt.Sprintf("Mode: %s | %d min per stage", m.mode, m.duration)),
		"",
		m.phaseLine(),
		"",
	}

	lines = append(lines, m.stageLines()...)

	if m.lastErr != nil {
		lines = append(lines, "", m.styles.Error.Render(m.lastErr.Error()))
	}

	lines = append(lines, "", m.styles.Muted.Render("Shortcuts: s start | x stop | m mode | +/- duration | q quit"))

	return fmt.Sprintf("%s\n", joinLines(lines))
}

func (m model) smallViewLines() []string {
	message := fmt.Sprintf("Terminal too small (%dx%d).", m.width, m.height)
	hint := fmt.Sprintf("Resize to at least %dx%d.", minWidth, minHeight)

	return []string{
		m.styles.Warning.Render(message),
		m.styles.Muted.Render(hint),
		m.styles.Muted.Render("Press q to quit."),
	}
}

func (m model) phaseLine() string {
	switch m.state.Phase {
	case sequencer.PhaseRunning:
		stage := "?"
		if m.state.Stage != nil {
			stage = m.state.Stage.Name
		}
		return m.styles.PhaseRunning.Render(fmt.Sprintf("Running: %s (stage %d of %d)",
			stage, m.state.StageIndex+1, m.state.StageCount))
	case sequencer.PhaseCompleted:
		return m.styles.PhaseCompleted.Render("Session complete")
	default:
		return m.styles.PhaseIdle.Render("Idle. Press s to begin.")
	}
}

func (m model) stageLines() []string {
	lines := make([]string, 0, models.StageCount+2)
	activeName := ""
	if m.state.Phase == sequencer.PhaseRunning && m.state.Stage != nil {
		activeName = m.state.Stage.Name
	}
	for _, stage := range models.Catalog() {
		active := strings.EqualFold(stage.Name, activeName)
		line := components.RenderStageBadge(m.styles, stage, active)
		if state, ok := m.diagnostics[strings.ToLower(stage.Name)]; ok {
			line += "  " + components.RenderDiagnosticBadge(m.styles, state)
		}
		lines = append(lines, line)
	}
	if m.state.Phase == sequencer.PhaseRunning {
		lines = append(lines, "", components.RenderProgressBar(m.styles, progressBarWidth, m.state.Percent))
	}
	return lines
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	out := lines[0]
	for _, line := range lines[1:] {
		out += "\n" + line
	}
	return out
}

type pollMsg time.Time

func pollCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return pollMsg(t)
	})
}
