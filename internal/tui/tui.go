package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/wheelibin/klyqa/internal/capabilities"
	"github.com/wheelibin/klyqa/internal/models"
)

const (
	commandTimeout = 15 * time.Second
	// roughly 10% of the 0-255 range
	brightnessStep = 25
)

var baseStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("240"))

var errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

type lightService interface {
	Refresh(ctx context.Context) (models.Snapshot, error)
	TurnOn(ctx context.Context, req models.LightRequest) error
	TurnOff(ctx context.Context) error
}

// RefreshMsg carries a refresh outcome into the program.
type RefreshMsg struct {
	Result models.RefreshResult
}

type commandDoneMsg struct {
	err error
}

type TUI struct {
	program *tea.Program
}

func NewTUI(service lightService) *TUI {
	return &TUI{program: tea.NewProgram(NewModel(service), tea.WithAltScreen())}
}

// OnRefresh forwards a refresh outcome to the program, waiting until the
// program is running and returning at once after it has exited.
func (t *TUI) OnRefresh(result models.RefreshResult) {
	t.program.Send(RefreshMsg{Result: result})
}

func (t *TUI) Run() error {
	_, err := t.program.Run()
	return err
}

type Model struct {
	service   lightService
	table     table.Model
	status    *models.LightStatus
	available bool
	lastErr   string
	updated   time.Time
}

func NewModel(service lightService) Model {
	columns := []table.Column{
		{Title: "Light", Width: 16},
		{Title: "Reachable", Width: 10},
		{Title: "On", Width: 5},
		{Title: "Brightness", Width: 11},
		{Title: "Mode", Width: 11},
		{Title: "Colour", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(4),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return Model{service: service, table: t}
}

func (m Model) Init() tea.Cmd {
	return m.refresh()
}

func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := message.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, m.refresh()
		case " ":
			if m.status == nil {
				return m, nil
			}
			if m.status.On {
				return m, m.command(m.service.TurnOff)
			}
			return m, m.turnOn(models.LightRequest{})
		case "+", "=":
			return m, m.stepBrightness(brightnessStep)
		case "-":
			return m, m.stepBrightness(-brightnessStep)
		}

	case RefreshMsg:
		m.available = msg.Result.Err == nil
		m.lastErr = ""
		if msg.Result.Err != nil {
			m.lastErr = msg.Result.Err.Error()
		}
		if msg.Result.HasSnapshot {
			status := capabilities.StatusFromSnapshot(msg.Result.Snapshot)
			m.status = &status
		}
		m.updated = msg.Result.Time
		m.table.SetRows(m.rows())
		return m, nil

	case commandDoneMsg:
		m.lastErr = ""
		if msg.err != nil {
			m.lastErr = msg.err.Error()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(message)
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(baseStyle.Render(m.table.View()))
	b.WriteString("\n")
	if !m.updated.IsZero() {
		b.WriteString(helpStyle.Render("updated " + m.updated.Format(time.TimeOnly)))
		b.WriteString("\n")
	}
	if m.lastErr != "" {
		b.WriteString(errorStyle.Render(m.lastErr))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("space toggle • +/- brightness • r refresh • q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) rows() []table.Row {
	if m.status == nil {
		return nil
	}
	s := m.status

	colour := "-"
	switch {
	case s.ColorMode == models.ColorModeColorTemp && s.TemperatureKelvin != nil:
		colour = fmt.Sprintf("%dK", *s.TemperatureKelvin)
	case s.RGB != nil:
		colour = fmt.Sprintf("#%02x%02x%02x", s.RGB.Red, s.RGB.Green, s.RGB.Blue)
	}

	return []table.Row{{
		s.Name,
		fmt.Sprint(m.available),
		fmt.Sprint(s.On),
		fmt.Sprint(s.Brightness),
		string(s.ColorMode),
		colour,
	}}
}

func (m Model) stepBrightness(delta int) tea.Cmd {
	if m.status == nil {
		return nil
	}
	brightness := lo.Clamp(m.status.Brightness+delta, 0, 255)
	return m.turnOn(models.LightRequest{Brightness: &brightness})
}

func (m Model) turnOn(req models.LightRequest) tea.Cmd {
	return m.command(func(ctx context.Context) error {
		return m.service.TurnOn(ctx, req)
	})
}

func (m Model) command(run func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		return commandDoneMsg{err: run(ctx)}
	}
}

func (m Model) refresh() tea.Cmd {
	service := m.service
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		snap, err := service.Refresh(ctx)
		return RefreshMsg{Result: models.RefreshResult{Snapshot: snap, HasSnapshot: err == nil, Err: err, Time: time.Now()}}
	}
}
