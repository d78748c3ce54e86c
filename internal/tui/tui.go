// Package tui provides a Bubble Tea terminal user interface for tunetag.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ferrovax/tunetag/internal/config"
	"github.com/ferrovax/tunetag/internal/process"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

// State represents the current UI state.
type State int

const (
	StateReady State = iota
	StateProcessing
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   process.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	spinner  spinner.Model
	progress progress.Model
	settings *config.Settings
	logs     []LogEntry
	err      error

	// Run context
	ctx    context.Context
	cancel context.CancelFunc

	// Processing manager and its event feed
	manager *process.Manager
	events  chan process.ProgressEvent

	// Run progress
	totalFiles     int32
	processedFiles int32
	succeededFiles int32
	failedFiles    int32

	// Options
	verbose bool

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(settings *config.Settings) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:    StateReady,
		spinner:  sp,
		progress: prog,
		settings: settings,
		logs:     make([]LogEntry, 0),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Message types
type (
	// ProgressMsg carries one manager event into the UI.
	ProgressMsg struct {
		Event process.ProgressEvent
	}

	// EventsDrainedMsg is sent once the event feed is exhausted.
	EventsDrainedMsg struct{}

	// RunDoneMsg is sent when the batch run completes.
	RunDoneMsg struct {
		Err error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateReady {
				return m, tea.Quit
			}
			if m.state == StateProcessing {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "enter":
			if m.state == StateReady {
				if err := m.settings.Validate(); err != nil {
					m.state = StateError
					m.err = err
					return m, nil
				}

				m.events = make(chan process.ProgressEvent, 64)
				manager, err := process.NewManager(m.settings, m.feedEvents())
				if err != nil {
					m.state = StateError
					m.err = err
					return m, nil
				}
				m.manager = manager
				m.state = StateProcessing
				return m, tea.Batch(m.startRun(), m.waitForEvent(), m.tickProgress(), m.spinner.Tick)
			}

		case "v":
			if m.state == StateReady {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		if msg.Event.Level != process.LevelVerbose || m.verbose {
			m.logs = append(m.logs, LogEntry{
				Message: msg.Event.Message,
				Level:   msg.Event.Level,
			})
			// Keep only last 10 logs
			if len(m.logs) > 10 {
				m.logs = m.logs[len(m.logs)-10:]
			}
		}
		cmds = append(cmds, m.waitForEvent())

	case EventsDrainedMsg:
		// Nothing left to subscribe to; RunDoneMsg settles the state.

	case RunDoneMsg:
		m.syncProgress()
		if msg.Err != nil && m.ctx.Err() == nil {
			m.state = StateError
			m.err = msg.Err
		} else if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else {
			m.state = StateComplete
		}

	case TickMsg:
		if m.manager != nil && m.state == StateProcessing {
			m.syncProgress()

			var percent float64
			if m.totalFiles > 0 {
				percent = float64(m.processedFiles) / float64(m.totalFiles)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// syncProgress copies the manager's counters into the model.
func (m *Model) syncProgress() {
	if m.manager == nil {
		return
	}
	m.processedFiles, m.succeededFiles, m.failedFiles, m.totalFiles = m.manager.GetProgress()
}

// feedEvents returns the progress callback handed to the manager.
func (m *Model) feedEvents() func(process.ProgressEvent) {
	events := m.events
	return func(event process.ProgressEvent) {
		events <- event
	}
}

// startRun runs the batch in the background and reports completion.
func (m *Model) startRun() tea.Cmd {
	manager, events, ctx := m.manager, m.events, m.ctx
	return func() tea.Msg {
		err := manager.Run(ctx)
		close(events)
		return RunDoneMsg{Err: err}
	}
}

// waitForEvent forwards the next manager event to the UI.
func (m *Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return EventsDrainedMsg{}
		}
		return ProgressMsg{Event: event}
	}
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("tunetag"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Identify, tag and organize unlabeled audio files"))
	b.WriteString("\n\n")

	switch m.state {
	case StateReady:
		b.WriteString(m.viewReady())
	case StateProcessing:
		b.WriteString(m.viewProcessing())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewReady() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Ready to process the input directory."))
	b.WriteString("\n\n")

	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[x]"
	}
	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Verbose output (v)\n", verboseCheck))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Input: %s  Output: %s  Failed: %s",
		m.settings.InputDir, m.settings.OutputDir, m.settings.FailedDir)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewProcessing() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Processing files..."))
	b.WriteString("\n\n")

	var percent float64
	if m.totalFiles > 0 {
		percent = float64(m.processedFiles) / float64(m.totalFiles)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Files: %d/%d | Tagged: %d | Quarantined: %d",
		m.processedFiles, m.totalFiles, m.succeededFiles, m.failedFiles,
	)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	return boxStyle.Render(fmt.Sprintf(
		"Run Complete!\n\n"+
			"Processed: %d\n"+
			"Tagged: %d\n"+
			"Quarantined: %d",
		m.processedFiles, m.succeededFiles, m.failedFiles,
	))
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case process.LevelError:
			style = errorStyle
			prefix = "✗"
		case process.LevelWarning:
			style = warningStyle
			prefix = "!"
		case process.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case process.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateReady:
		return "enter: start • v: verbose • esc: quit"
	case StateProcessing:
		return "esc: cancel"
	case StateComplete, StateError:
		return "q: quit"
	}
	return ""
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
