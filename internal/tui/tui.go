// Package tui provides a Bubble Tea terminal user interface for imgfetch.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/srihari-humbarwadi/imgfetch/internal/config"
	"github.com/srihari-humbarwadi/imgfetch/internal/download"
	"github.com/srihari-humbarwadi/imgfetch/internal/fetch"
	"github.com/srihari-humbarwadi/imgfetch/internal/input"
	"github.com/srihari-humbarwadi/imgfetch/internal/report"
	"github.com/srihari-humbarwadi/imgfetch/internal/store"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#74C0FC")).
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
	StateInput State = iota
	StateDownloading
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []LogEntry
	err       error

	ctx    context.Context
	cancel context.CancelFunc

	dispatcher *download.Dispatcher
	events     chan download.ProgressEvent

	total     int
	completed int64
	succeeded int
	failed    []string
	elapsed   time.Duration

	// Options
	shuffle     bool
	randomSleep bool
	verbose     bool

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(settings *config.Settings) Model {
	ti := textinput.New()
	ti.Placeholder = "urls.txt"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#74C0FC"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		logs:      make([]LogEntry, 0),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Message types
type (
	// ProgressMsg carries one dispatcher progress event.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// DownloadDoneMsg is sent when the whole run finishes.
	DownloadDoneMsg struct {
		Results download.RunResult
		Elapsed time.Duration
		Err     error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

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
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateDownloading {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "enter":
			if m.state == StateInput && m.textInput.Value() != "" {
				return m.startRun()
			}

		case "s":
			if m.state == StateInput {
				m.shuffle = !m.shuffle
			}

		case "r":
			if m.state == StateInput {
				m.randomSleep = !m.randomSleep
			}

		case "v":
			if m.state == StateInput {
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
		if msg.Event.Level != download.LevelDebug || m.verbose {
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

	case DownloadDoneMsg:
		m.elapsed = msg.Elapsed
		if msg.Err != nil || m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else {
			m.succeeded, m.failed = report.Summarize(msg.Results)
			if len(m.failed) > 0 {
				if err := report.WriteFailed(m.settings.FailedURLsPath, m.failed); err != nil {
					m.logs = append(m.logs, LogEntry{Message: err.Error(), Level: download.LevelError})
				}
			}
			m.state = StateComplete
		}

	case TickMsg:
		if m.dispatcher != nil && m.state == StateDownloading {
			m.completed = m.dispatcher.Completed()

			var percent float64
			if m.total > 0 {
				percent = float64(m.completed) / float64(m.total)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// startRun reads the URL list and kicks off the dispatcher.
func (m Model) startRun() (tea.Model, tea.Cmd) {
	urls, err := input.FromTextFile(m.textInput.Value())
	if err != nil {
		m.state = StateError
		m.err = err
		return m, nil
	}

	settings := m.settings
	settings.ShuffleURLs = m.shuffle
	settings.RandomSleepTime = m.randomSleep
	urls = input.Limit(urls, settings.MaxImages, settings.ShuffleURLs)

	sink := store.NewFileSink()
	sink.MaxDimension = settings.MaxDimension

	m.events = make(chan download.ProgressEvent, 64)
	events := m.events
	m.dispatcher = download.NewDispatcher(download.Options{
		Workers:      settings.MaxWorkers,
		Policy:       settings.ToRetryPolicy(),
		OutputFolder: settings.OutputFolder,
		Fetcher:      fetch.NewClient(),
		Sink:         sink,
		OnProgress: func(e download.ProgressEvent) {
			// Drop events rather than block a worker on a full buffer.
			select {
			case events <- e:
			default:
			}
		},
	})

	m.total = len(urls)
	m.state = StateDownloading

	return m, tea.Batch(
		m.runDownload(urls),
		m.waitForEvent(),
		m.tickProgress(),
		m.spinner.Tick,
	)
}

// runDownload runs the dispatcher in the background.
func (m Model) runDownload(urls []string) tea.Cmd {
	d := m.dispatcher
	ctx := m.ctx
	return func() tea.Msg {
		start := time.Now()
		results, err := d.Run(ctx, urls)
		return DownloadDoneMsg{
			Results: results,
			Elapsed: time.Since(start),
			Err:     err,
		}
	}
}

// waitForEvent receives the next progress event from the dispatcher.
func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		return ProgressMsg{Event: <-events}
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

	b.WriteString(titleStyle.Render("imgfetch"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Download images from a list of URLs"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Path to URL list (one per line):"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Shuffle URLs (s)\n", checkbox(m.shuffle)))
	b.WriteString(fmt.Sprintf("  %s Random sleep time (r)\n", checkbox(m.randomSleep)))
	b.WriteString(fmt.Sprintf("  %s Verbose output (v)\n", checkbox(m.verbose)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Output folder: %s | Workers: %d | Attempts: %d",
		m.settings.OutputFolder, m.settings.MaxWorkers, m.settings.MaxAttempts)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Downloading %d urls...", m.total)))
	b.WriteString("\n\n")

	var percent float64
	if m.total > 0 {
		percent = float64(m.completed) / float64(m.total)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf("Completed: %d/%d", m.completed, m.total)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	status := fmt.Sprintf(
		"Download complete!\n\n"+
			"Succeeded: %d\n"+
			"Failed:    %d\n"+
			"Elapsed:   %s",
		m.succeeded,
		len(m.failed),
		report.FormatDuration(m.elapsed),
	)
	if len(m.failed) > 0 {
		status += fmt.Sprintf("\n\nFailed urls written to %s", m.settings.FailedURLsPath)
	}
	return boxStyle.Render(status)
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error:"))
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
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
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

func (m Model) helpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • s: shuffle • r: random sleep • v: verbose • esc: quit"
	case StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "q: quit"
	}
	return ""
}

func checkbox(checked bool) string {
	if checked {
		return "[×]"
	}
	return "[ ]"
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
