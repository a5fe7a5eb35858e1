package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sokinpui/splice/model"
	"github.com/sokinpui/splice/splice"
)

// --- Styles ---
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")) // Mauve
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))            // Green
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))            // Cyan
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))           // Red
	pathStyle    = lipgloss.NewStyle()
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// --- Messages ---
type resultMsg struct {
	summary model.Summary
	err     error
}

type progressMsg struct {
	current, total int
}

// --- Model ---
type Model struct {
	app      *splice.App
	spinner  spinner.Model
	state    state
	summary  model.Summary
	err      error
	current  int
	total    int
	quitting bool
}

type state int

const (
	stateProcessing state = iota
	stateDone
)

func New(app *splice.App) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{
		app:     app,
		spinner: s,
		state:   stateProcessing,
	}
}

// SetProgram routes the app's progress updates into the running program.
func (m *Model) SetProgram(p *tea.Program) {
	m.app.SetProgressCallback(func(current, total int) {
		p.Send(progressMsg{current: current, total: total})
	})
}

// Err returns the error the app finished with, if any.
func (m Model) Err() error {
	if m.quitting && m.state == stateProcessing {
		return errors.New("interrupted")
	}
	return m.err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runApp)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case progressMsg:
		m.current, m.total = msg.current, msg.total
		return m, nil

	case resultMsg:
		m.state = stateDone
		m.summary = msg.summary
		m.err = msg.err
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		if m.state == stateProcessing {
			m.spinner, cmd = m.spinner.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	switch m.state {
	case stateProcessing:
		if m.total > 0 {
			return fmt.Sprintf("%s Patching... [%d/%d]\n", m.spinner.View(), m.current, m.total)
		}
		return fmt.Sprintf("%s Patching...\n", m.spinner.View())
	case stateDone:
		return RenderSummary(m.summary, m.err)
	default:
		return ""
	}
}

// RenderSummary formats a summary and the final error for the terminal.
func RenderSummary(summary model.Summary, err error) string {
	var b strings.Builder

	if summary.Message != "" {
		b.WriteString(headerStyle.Render(summary.Message))
		b.WriteString("\n\n")
	}

	hasContent := false
	section := func(title string, style lipgloss.Style, paths []string) {
		if len(paths) == 0 {
			return
		}
		hasContent = true
		b.WriteString(style.Render(title))
		b.WriteString("\n")
		for _, f := range paths {
			b.WriteString(fmt.Sprintf("  %s\n", pathStyle.Render(f)))
		}
	}
	section("Patched:", successStyle, summary.Modified)
	section("Already up to date:", infoStyle, summary.Unchanged)
	section("Failed:", errorStyle, summary.Failed)

	if err != nil {
		b.WriteString(errorStyle.Render("Error: " + err.Error()))
		b.WriteString("\n")
	} else if !hasContent && summary.Message == "" {
		b.WriteString(faintStyle.Render("Nothing to do."))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) runApp() tea.Msg {
	summary, err := m.app.Execute()
	return resultMsg{summary: summary, err: err}
}
