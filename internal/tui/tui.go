// Package tui is the local terminal client: an in-process game engine behind
// a bubbletea prompt, with a side panel tracking level, missions, and badges.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hackersim/backend/internal/command"
	"github.com/hackersim/backend/internal/game"
	"github.com/hackersim/backend/internal/progress"
	"github.com/hackersim/backend/internal/state"
	"github.com/hackersim/backend/internal/telemetry"
)

type model struct {
	engine    *game.Engine
	textInput textinput.Model
	viewport  viewport.Model
	gameLog   string
	width     int
	height    int
	host      telemetry.HostStatus
}

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF41")).
			Bold(true).
			PaddingLeft(1)

	okStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF41"))

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF3333"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF41")).
			Bold(true).
			Underline(true)
)

func NewModel(engine *game.Engine) model {
	ti := textinput.New()
	ti.Placeholder = "scan, connect, decrypt, bruteforce, bypass, inject, download, trace..."
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 50

	return model{
		engine:    engine,
		textInput: ti,
		host:      telemetry.Sample(),
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

type commandResultMsg struct {
	result game.CommandResult
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			line := strings.TrimSpace(m.textInput.Value())
			if line == "" {
				return m, nil
			}
			m.textInput.Reset()

			if line == "/quit" {
				return m, tea.Quit
			}

			logWidth := m.logWidth()
			m.gameLog += userStyle.Width(logWidth).Render("> "+line) + "\n"
			m.viewport.SetContent(m.gameLog)
			m.viewport.GotoBottom()
			return m, m.execute(line)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.viewport.Width == 0 {
			m.viewport = viewport.New(m.logWidth(), msg.Height-6)
		} else {
			m.viewport.Width = m.logWidth()
			m.viewport.Height = msg.Height - 6
		}
		m.viewport.SetContent(m.gameLog)

	case commandResultMsg:
		m.gameLog += m.renderResult(msg.result) + "\n"
		m.viewport.SetContent(m.gameLog)
		m.viewport.GotoBottom()
		return m, nil
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m model) execute(line string) tea.Cmd {
	return func() tea.Msg {
		cmd := strings.ToLower(strings.Fields(line)[0])
		return commandResultMsg{result: m.engine.ExecuteCommand(cmd, nil)}
	}
}

func (m model) renderResult(res game.CommandResult) string {
	logWidth := m.logWidth()
	var b strings.Builder

	switch {
	case res.LockedOut && !res.Success:
		b.WriteString(failStyle.Render(fmt.Sprintf(
			"%s locked out after %d failures. Try something else.", res.Command, res.Retries)))
	case res.Success:
		b.WriteString(okStyle.Render(fmt.Sprintf("%s succeeded (%.0f%%)", res.Command, res.Probability*100)))
	default:
		b.WriteString(failStyle.Render(fmt.Sprintf(
			"%s failed (%.0f%%), retry %d/%d", res.Command, res.Probability*100, res.Retries, command.MaxRetries)))
	}

	for _, step := range res.StepsCompleted {
		b.WriteString("\n  step complete: " + step.MissionID + "/" + step.StepID)
	}
	for _, c := range res.Completions {
		b.WriteString(okStyle.Render(fmt.Sprintf("\n  MISSION COMPLETE: %s (+%d XP)", c.Title, c.RewardXP)))
		if c.UnlockedNext != "" {
			b.WriteString("\n  new mission unlocked: " + c.UnlockedNext)
		}
	}
	if res.LeveledUp {
		b.WriteString(okStyle.Render(fmt.Sprintf("\n  LEVEL UP: now level %d", res.Level)))
	}

	return lipgloss.NewStyle().Width(logWidth).Render(b.String())
}

func (m model) View() string {
	logView := m.viewport.View()
	panelView := m.renderPanel()

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, logView, panelView)
	help := helpStyle.Render("Type a command and press enter. /quit to exit.")

	return "\n" + lipgloss.JoinVertical(lipgloss.Left,
		mainView,
		"\n"+m.textInput.View(),
		"\n"+help,
	) + "\n"
}

func (m model) renderPanel() string {
	snap := m.engine.Store().Snapshot()
	prog := progress.XPProgress(snap.XP)

	var b strings.Builder
	b.WriteString(titleStyle.Render("OPERATOR") + "\n")
	if snap.Title != "" {
		b.WriteString(snap.Title + "\n")
	}
	b.WriteString(fmt.Sprintf("Level %d  (%d/%d XP)\n", prog.Level, prog.CurrentXP, prog.XPForNextLevel))
	b.WriteString(fmt.Sprintf("Streak: %d days\n\n", snap.LoginStreak))

	b.WriteString(titleStyle.Render("MISSIONS") + "\n")
	active := 0
	for _, ms := range snap.Missions {
		if ms.Status != state.StatusActive {
			continue
		}
		active++
		b.WriteString(fmt.Sprintf("%s [%d%%]\n", ms.Title, ms.Progress))
		for _, s := range ms.Steps {
			mark := "[ ]"
			if s.Completed {
				mark = "[x]"
			}
			b.WriteString("  " + mark + " " + s.Text + "\n")
		}
	}
	if active == 0 {
		b.WriteString("(none active)\n")
	}
	b.WriteString("\n")

	b.WriteString(titleStyle.Render("BADGES") + "\n")
	if len(snap.UnlockedBadges) == 0 {
		b.WriteString("(none yet)\n")
	} else {
		for _, id := range snap.UnlockedBadges {
			b.WriteString("- " + id + "\n")
		}
	}
	b.WriteString("\n")

	b.WriteString(titleStyle.Render("HOST") + "\n")
	b.WriteString(fmt.Sprintf("%s  cpu %.0f%%  mem %.0f%%\n", m.host.Hostname, m.host.CPUPercent, m.host.MemPercent))

	panelWidth := m.width - m.logWidth() - 4
	if panelWidth < 20 {
		panelWidth = 20
	}
	return panelStyle.Width(panelWidth).Height(m.viewport.Height).Render(b.String())
}

func (m model) logWidth() int {
	w := int(float64(m.width) * 0.6)
	if w < 40 {
		w = 40
	}
	return w
}

func Run(engine *game.Engine) error {
	p := tea.NewProgram(NewModel(engine), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
