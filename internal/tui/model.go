package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/commitsense/commitsense/internal/models"
)

type stage int

const (
	stageReading stage = iota
	stageGenerating
	stageResult
	stageDone
)

// Stage lines shown next to the spinner.
const (
	readingText      = "Reading activity log..."
	analyzingText    = "Analyzing changes..."
	regeneratingText = "Regenerating..."
)

type menuItem int

const (
	itemCopy menuItem = iota
	itemCommit
	itemRegenerate
	itemQuit
)

var menuLabels = []string{
	itemCopy:       "Copy to Clipboard",
	itemCommit:     "Use in Git",
	itemRegenerate: "Regenerate",
	itemQuit:       "Quit",
}

// Model is the Bubbletea model for the picker.
type Model struct {
	ctx  context.Context
	flow Flow

	stage     stage
	stageText string
	spinner   spinner.Model
	entries   []models.LogEntry
	cursor    int

	outcome Outcome
}

// NewModel creates a picker in the reading stage.
func NewModel(ctx context.Context, flow Flow) Model {
	return Model{
		ctx:       ctx,
		flow:      flow,
		stage:     stageReading,
		stageText: readingText,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(spinnerStyle),
		),
	}
}

// Outcome returns the result of the run so far.
func (m Model) Outcome() Outcome {
	return m.outcome
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, readActivityCmd(m.flow))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.stage != stageReading && m.stage != stageGenerating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case activityLoadedMsg:
		if msg.err != nil {
			return m.fail(fmt.Errorf("failed to read activity log: %w", msg.err))
		}
		if len(msg.entries) == 0 {
			return m.fail(ErrNoActivity)
		}
		m.entries = msg.entries
		m.stage = stageGenerating
		m.stageText = analyzingText
		return m, generateCmd(m.ctx, m.flow, m.entries)

	case generatedMsg:
		if msg.err != nil {
			return m.fail(msg.err)
		}
		m.outcome.Message = msg.message
		m.stage = stageResult
		m.cursor = int(itemCopy)
		return m, nil

	case actionDoneMsg:
		m.outcome = msg.outcome
		m.stage = stageDone
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) fail(err error) (tea.Model, tea.Cmd) {
	m.outcome.Err = err
	m.stage = stageDone
	return m, tea.Quit
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.stage != stageResult {
		if key.Matches(msg, interruptKey) {
			return m.fail(context.Canceled)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, resultKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, resultKeys.Down):
		if m.cursor < len(menuLabels)-1 {
			m.cursor++
		}
	case key.Matches(msg, resultKeys.Select):
		return m.choose(menuItem(m.cursor))
	case key.Matches(msg, resultKeys.Copy):
		return m.choose(itemCopy)
	case key.Matches(msg, resultKeys.Commit):
		return m.choose(itemCommit)
	case key.Matches(msg, resultKeys.Regenerate):
		return m.choose(itemRegenerate)
	case key.Matches(msg, resultKeys.Quit):
		return m.choose(itemQuit)
	}
	return m, nil
}

func (m Model) choose(item menuItem) (tea.Model, tea.Cmd) {
	switch item {
	case itemCopy:
		return m, copyCmd(m.flow, m.outcome)
	case itemCommit:
		return m, commitCmd(m.flow, m.outcome)
	case itemRegenerate:
		m.stage = stageGenerating
		m.stageText = regeneratingText
		return m, tea.Batch(m.spinner.Tick, generateCmd(m.ctx, m.flow, m.entries))
	default:
		m.stage = stageDone
		return m, tea.Quit
	}
}

func (m Model) View() string {
	switch m.stage {
	case stageReading, stageGenerating:
		return fmt.Sprintf("%s %s\n", m.spinner.View(), stageStyle.Render(m.stageText))

	case stageResult:
		return m.resultView()

	default:
		if m.outcome.Err != nil {
			return ""
		}
		summary := m.outcome.Summary()
		switch {
		case summary == "":
			return ""
		case m.outcome.Action == ActionCopiedFallback:
			return warningStyle.Render("! "+summary) + "\n"
		case m.outcome.Action == ActionNone:
			return errorStyle.Render("✗ "+summary) + "\n"
		default:
			return successStyle.Render("✓ "+summary) + "\n"
		}
	}
}

func (m Model) resultView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Suggested commit message"))
	b.WriteString("\n")
	b.WriteString(messageStyle.Render(m.outcome.Message.Message))
	b.WriteString("\n")
	b.WriteString(confidenceStyle.Render(fmt.Sprintf("confidence %.0f%%", m.outcome.Message.Confidence*100)))
	b.WriteString("\n\n")

	for i, label := range menuLabels {
		if i == m.cursor {
			b.WriteString(selectedItemStyle.Render("> " + label))
		} else {
			b.WriteString(itemStyle.Render("  " + label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(helpLine()))
	b.WriteString("\n")
	return b.String()
}

func helpLine() string {
	bindings := []key.Binding{resultKeys.Up, resultKeys.Select, resultKeys.Copy, resultKeys.Commit, resultKeys.Regenerate, resultKeys.Quit}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}
