package sim

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"campaign-sim/internal/config"
	"campaign-sim/internal/telemetry"
)

type fakeProgram struct{ msgs []tea.Msg }

func (f *fakeProgram) Send(msg tea.Msg) { f.msgs = append(f.msgs, msg) }

func TestTUIWriterMessages(t *testing.T) {
	p := &fakeProgram{}
	w := &TUIWriter{program: p}
	row := telemetry.MissionEventRow{MissionID: "m1", Event: telemetry.EventStageChanged, Stage: "intercept", Timestamp: time.Unix(0, 0).UTC()}
	if err := w.WriteEvent(row); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, ok := p.msgs[0].(logMsg); !ok {
		t.Fatalf("expected logMsg, got %T", p.msgs[0])
	}
	if _, ok := p.msgs[1].(eventMsg); !ok {
		t.Fatalf("expected eventMsg, got %T", p.msgs[1])
	}
	if err := w.WriteState(telemetry.CampaignStateRow{ActiveMissions: 1}); err != nil {
		t.Fatalf("state: %v", err)
	}
	if _, ok := p.msgs[2].(stateMsg); !ok {
		t.Fatalf("expected stateMsg, got %T", p.msgs[2])
	}
	w.SetAdminStatus(true)
	if _, ok := p.msgs[3].(adminMsg); !ok {
		t.Fatalf("expected adminMsg, got %T", p.msgs[3])
	}
	if err := w.WriteInterest(telemetry.InterestRow{Category: "recon", Value: 1}); err != nil {
		t.Fatalf("interest: %v", err)
	}
	if _, ok := p.msgs[4].(interestMsg); !ok {
		t.Fatalf("expected interestMsg, got %T", p.msgs[4])
	}
}

func TestTUIMissionTable(t *testing.T) {
	m := newTUIModel(&config.CampaignConfig{Interest: map[string]float64{"recon": 1}})
	mi, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	m = mi.(tuiModel)

	mi, _ = m.Update(eventMsg{telemetry.MissionEventRow{MissionID: "m1", Stage: "mission_goto", Installation: "SAM Site"}})
	m = mi.(tuiModel)
	if rows := m.table.Rows(); len(rows) != 1 || rows[0][2] != "SAM Site" || rows[0][3] != "arrival" {
		t.Fatalf("unexpected rows %v", m.table.Rows())
	}
	mi, _ = m.Update(eventMsg{telemetry.MissionEventRow{MissionID: "m1", Event: telemetry.EventMissionRemoved}})
	m = mi.(tuiModel)
	if len(m.table.Rows()) != 0 {
		t.Fatalf("removed mission still listed")
	}

	mi, _ = m.Update(interestMsg{telemetry.InterestRow{Category: "recon", Value: 1.3}})
	m = mi.(tuiModel)
	if !strings.Contains(m.header, "1.30") {
		t.Fatalf("interest panel not updated: %q", m.header)
	}
}

func TestWrapToggle(t *testing.T) {
	m := newTUIModel(nil)
	mi, _ := m.Update(tea.WindowSizeMsg{Width: 20, Height: 40})
	m = mi.(tuiModel)
	mi, _ = m.Update(logMsg{line: "one two three four five six"})
	m = mi.(tuiModel)
	lines := strings.Split(m.vp.View(), "\n")
	if len(lines) < 2 || strings.TrimSpace(lines[1]) != "" {
		t.Fatalf("expected single line before wrap")
	}
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'w'}})
	m = mi.(tuiModel)
	if !m.wrap {
		t.Fatalf("wrap not toggled")
	}
	lines = strings.Split(m.vp.View(), "\n")
	if strings.TrimSpace(lines[1]) == "" {
		t.Fatalf("expected wrapped content on second line")
	}
}

func TestScrollToggle(t *testing.T) {
	m := newTUIModel(nil)
	m.vp.Height = 1
	m.vp.Width = 20
	mi, _ := m.Update(logMsg{line: "l1"})
	m = mi.(tuiModel)
	mi, _ = m.Update(logMsg{line: "l2"})
	m = mi.(tuiModel)
	if m.vp.YOffset != 1 {
		t.Fatalf("expected YOffset 1, got %d", m.vp.YOffset)
	}
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = mi.(tuiModel)
	if m.autoscroll {
		t.Fatalf("autoscroll should be off")
	}
	mi, _ = m.Update(logMsg{line: "l3"})
	m = mi.(tuiModel)
	if m.vp.YOffset != 1 {
		t.Fatalf("expected YOffset unchanged, got %d", m.vp.YOffset)
	}
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = mi.(tuiModel)
	if m.vp.YOffset != 0 {
		t.Fatalf("expected YOffset 0 after scrolling up, got %d", m.vp.YOffset)
	}
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = mi.(tuiModel)
	if !m.autoscroll {
		t.Fatalf("autoscroll should be on")
	}
	if want := len(m.logs) - m.vp.Height; m.vp.YOffset != want {
		t.Fatalf("expected YOffset %d, got %d", want, m.vp.YOffset)
	}
}
