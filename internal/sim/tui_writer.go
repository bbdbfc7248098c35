package sim

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"campaign-sim/internal/config"
	"campaign-sim/internal/telemetry"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// logMsg carries a log line for the viewport.
type logMsg struct{ line string }

// eventMsg carries a mission event for the mission table.
type eventMsg struct{ telemetry.MissionEventRow }

// interestMsg carries an interest change.
type interestMsg struct{ telemetry.InterestRow }

// stateMsg carries a campaign state update.
type stateMsg struct{ telemetry.CampaignStateRow }

// adminMsg reports admin UI status.
type adminMsg struct{ active bool }

const maxLogLines = 1000

// TUIWriter renders the campaign using a bubbletea TUI.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
func NewTUIWriter(cfg *config.CampaignConfig) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	w.sendSignal.Store(true)
	p := tea.NewProgram(newTUIModel(cfg), tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
		// quitting the TUI stops the whole simulator
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// WriteEvent implements EventWriter.
func (w *TUIWriter) WriteEvent(row telemetry.MissionEventRow) error {
	line := fmt.Sprintf("%s[%s]%s %smission=%s%s %s%s%s %sstage=%s%s",
		colorGray, row.Timestamp.Format(time.RFC3339), colorReset,
		colorBlue, shortID(row.MissionID), colorReset,
		eventColor(row.Event), row.Event, colorReset,
		colorMagenta, row.Stage, colorReset)
	if row.Installation != "" {
		line += fmt.Sprintf(" %sinstallation=%s%s", colorYellow, row.Installation, colorReset)
	}
	if row.Details != "" {
		line += " " + row.Details
	}
	w.program.Send(logMsg{line: line})
	w.program.Send(eventMsg{row})
	return nil
}

// WriteInterest implements InterestWriter.
func (w *TUIWriter) WriteInterest(row telemetry.InterestRow) error {
	w.program.Send(interestMsg{row})
	return nil
}

// WriteState implements StateWriter.
func (w *TUIWriter) WriteState(row telemetry.CampaignStateRow) error {
	w.program.Send(stateMsg{row})
	return nil
}

// SetAdminStatus updates the admin UI indicator.
func (w *TUIWriter) SetAdminStatus(active bool) {
	w.program.Send(adminMsg{active: active})
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

type missionLine struct {
	stage        string
	installation string
	finalDate    time.Time
}

type tuiModel struct {
	cfg          *config.CampaignConfig
	table        table.Model
	vp           viewport.Model
	logs         []string
	missions     map[string]missionLine
	interest     map[string]float64
	state        telemetry.CampaignStateRow
	admin        bool
	wrap         bool
	autoscroll   bool
	showInterest bool
	help         bool
	header       string
	headerHeight int
	height       int
}

func newTUIModel(cfg *config.CampaignConfig) tuiModel {
	cols := []table.Column{
		{Title: "Mission", Width: 10},
		{Title: "Stage", Width: 16},
		{Title: "Target", Width: 20},
		{Title: "Until", Width: 17},
	}
	t := table.New(table.WithColumns(cols), table.WithHeight(6))
	interest := make(map[string]float64)
	if cfg != nil {
		for k, v := range cfg.Interest {
			interest[k] = v
		}
	}
	return tuiModel{
		cfg:          cfg,
		table:        t,
		vp:           viewport.New(0, 0),
		missions:     make(map[string]missionLine),
		interest:     interest,
		autoscroll:   true,
		showInterest: true,
	}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.vp.Width = msg.Width
		m.table.SetWidth(msg.Width / 2)
		m.height = msg.Height
		m.refreshHeader()
		m.refreshViewport()
	case tea.KeyMsg:
		if m.help {
			switch msg.String() {
			case "?", "h", "esc":
				m.help = false
			}
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "w":
			m.wrap = !m.wrap
			m.refreshViewport()
			return m, nil
		case "s":
			m.autoscroll = !m.autoscroll
			if m.autoscroll {
				m.vp.GotoBottom()
			}
			return m, nil
		case "i":
			m.showInterest = !m.showInterest
			m.refreshHeader()
			return m, nil
		case "h", "?":
			m.help = true
			return m, nil
		}
		if !m.autoscroll {
			switch msg.String() {
			case "j", "down":
				m.vp.LineDown(1)
			case "k", "up":
				m.vp.LineUp(1)
			case "pgdown":
				m.vp.LineDown(10)
			case "pgup":
				m.vp.LineUp(10)
			default:
				var cmd tea.Cmd
				m.vp, cmd = m.vp.Update(msg)
				return m, cmd
			}
		}
		return m, nil
	case logMsg:
		m.logs = append(m.logs, msg.line)
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}
		m.refreshViewport()
	case eventMsg:
		if msg.Event == telemetry.EventMissionRemoved {
			delete(m.missions, msg.MissionID)
		} else {
			m.missions[msg.MissionID] = missionLine{
				stage:        msg.Stage,
				installation: msg.Installation,
				finalDate:    msg.FinalDate,
			}
		}
		m.refreshHeader()
	case interestMsg:
		m.interest[msg.Category] = msg.Value
		m.refreshHeader()
	case stateMsg:
		m.state = msg.CampaignStateRow
		m.refreshHeader()
	case adminMsg:
		m.admin = msg.active
	}
	return m, nil
}

func (m *tuiModel) refreshHeader() {
	ids := make([]string, 0, len(m.missions))
	for id := range m.missions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	rows := make([]table.Row, 0, len(ids))
	for _, id := range ids {
		ml := m.missions[id]
		target := ml.installation
		if target == "" {
			target = "aircraft"
		}
		until := "arrival"
		if !ml.finalDate.IsZero() {
			until = ml.finalDate.Format("2006-01-02 15:04")
		}
		rows = append(rows, table.Row{shortID(id), ml.stage, target, until})
	}
	m.table.SetRows(rows)
	m.header = m.renderHeader()
	m.headerHeight = lipgloss.Height(m.header)
	h := m.height - m.headerHeight - lipgloss.Height(m.renderBottom()) - 2
	if h < 0 {
		h = 0
	}
	m.vp.Height = h
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m *tuiModel) refreshViewport() {
	lines := make([]string, 0, len(m.logs))
	for _, l := range m.logs {
		if m.wrap && m.vp.Width > 0 {
			lines = append(lines, wordwrap.String(l, m.vp.Width))
		} else {
			lines = append(lines, l)
		}
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m tuiModel) View() string {
	if m.help {
		return m.renderHelp()
	}
	divider := strings.Repeat("─", m.vp.Width)
	return strings.Join([]string{m.header, divider, m.vp.View(), divider, m.renderBottom()}, "\n")
}

func (m tuiModel) renderHeader() string {
	tableView := m.table.View()
	if !m.showInterest {
		return tableView
	}
	sep := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("│")
	return lipgloss.JoinHorizontal(lipgloss.Top, tableView, sep, renderInterest(m.interest))
}

func renderInterest(interest map[string]float64) string {
	cats := make([]string, 0, len(interest))
	for c := range interest {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	var b strings.Builder
	b.WriteString("Alien interest\n")
	for i, c := range cats {
		prefix := "├─"
		if i == len(cats)-1 {
			prefix = "└─"
		}
		fmt.Fprintf(&b, "%s %-14s %6.2f\n", prefix, c, interest[c])
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m tuiModel) renderBottom() string {
	admin := "admin: off"
	if m.admin {
		admin = "admin: on"
	}
	ts := "-"
	if !m.state.Timestamp.IsZero() {
		ts = m.state.Timestamp.Format("2006-01-02 15:04")
	}
	status := fmt.Sprintf("%s | phase: %s | missions: %d | ufos: %d | installations: %d | xvi: %t | %s",
		ts, m.state.Phase, m.state.ActiveMissions, m.state.UFOs, m.state.Installations, m.state.XVIStarted, admin)
	keys := "q quit • w wrap • s autoscroll • i interest • h help"
	return lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(status + "\n" + keys)
}

func (m tuiModel) renderHelp() string {
	return strings.Join([]string{
		"Keys",
		"  q        quit",
		"  w        toggle line wrap",
		"  s        toggle autoscroll",
		"  j/k      scroll when autoscroll is off",
		"  i        toggle alien interest panel",
		"  h/?/esc  close help",
	}, "\n")
}
