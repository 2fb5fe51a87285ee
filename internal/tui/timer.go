package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kelsos/timecamp-cli/internal/models"
	"github.com/kelsos/timecamp-cli/internal/services"
	"github.com/kelsos/timecamp-cli/internal/utils"
)

// workdayReference scales the elapsed-time bar.
const workdayReference = 8 * time.Hour

const pollInterval = 5 * time.Second

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	stoppedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type statusMsg struct {
	status *models.TimerStatus
	err    error
}

type pollMsg struct{}

// TimerModel renders a live view of the running timer.
type TimerModel struct {
	timer    *services.TimerService
	spinner  spinner.Model
	progress progress.Model
	status   *models.TimerStatus
	err      error
	width    int
	quit     bool
}

// NewTimerModel creates a timer watch model bound to the given service.
func NewTimerModel(timerService *services.TimerService) TimerModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	pr := progress.New(progress.WithDefaultGradient())

	return TimerModel{
		timer:    timerService,
		spinner:  sp,
		progress: pr,
		width:    80,
	}
}

func (m TimerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchStatus)
}

func (m TimerModel) fetchStatus() tea.Msg {
	status, err := m.timer.Status()
	return statusMsg{status: status, err: err}
}

func schedulePoll() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg {
		return pollMsg{}
	})
}

func (m TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quit = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = msg.Width - 10
		if m.progress.Width > 60 {
			m.progress.Width = 60
		}

	case statusMsg:
		m.status = msg.status
		m.err = msg.err
		return m, schedulePoll()

	case pollMsg:
		return m, m.fetchStatus

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m TimerModel) View() string {
	if m.quit {
		return ""
	}

	var body string
	switch {
	case m.err != nil:
		body = errorStyle.Render(fmt.Sprintf("Failed to fetch timer status: %v", m.err))
	case m.status == nil:
		body = fmt.Sprintf("%s Fetching timer status...", m.spinner.View())
	case !m.status.IsTimerRunning:
		body = stoppedStyle.Render("No timer running")
	default:
		elapsed := m.elapsed()
		ratio := float64(elapsed) / float64(workdayReference)
		if ratio > 1 {
			ratio = 1
		}

		line := runningStyle.Render(fmt.Sprintf("Timer running since %s", m.status.StartTime))
		if m.status.TaskID.Int() != 0 {
			line += stoppedStyle.Render(fmt.Sprintf("  (task %d)", m.status.TaskID.Int()))
		}

		body = fmt.Sprintf("%s %s\n\nElapsed: %s\n%s",
			m.spinner.View(),
			line,
			formatDuration(elapsed),
			m.progress.ViewAs(ratio),
		)
	}

	return fmt.Sprintf("\n%s\n\n%s\n\n%s\n",
		titleStyle.Render("TimeCamp Timer"),
		body,
		helpStyle.Render("q: quit"),
	)
}

func (m TimerModel) elapsed() time.Duration {
	if m.status.Elapsed.Int() > 0 {
		return time.Duration(m.status.Elapsed.Int()) * time.Second
	}

	started, err := time.ParseInLocation(utils.TimestampLayout, m.status.StartTime, time.Local)
	if err != nil {
		return 0
	}
	return time.Since(started)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	min := d / time.Minute
	d -= min * time.Minute
	sec := d / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, min, sec)
}

// WatchTimer runs the timer watch view until the user quits.
func WatchTimer(timerService *services.TimerService) error {
	program := tea.NewProgram(NewTimerModel(timerService), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("timer watch failed: %w", err)
	}
	return nil
}
