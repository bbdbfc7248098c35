package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"

	"campaign-sim/internal/telemetry"
)

type mockGreptimeClient struct {
	table *table.Table
	err   error
}

func (m *mockGreptimeClient) Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error) {
	if len(tables) > 0 {
		m.table = tables[0]
	}
	return &gpb.GreptimeResponse{}, m.err
}

func TestGreptimeWriterEvents(t *testing.T) {
	ts := time.Unix(0, 0).UTC()
	rows := []telemetry.MissionEventRow{
		{CampaignID: "c1", MissionID: "m1", Event: telemetry.EventInstallationTargeted, Stage: "mission_goto", Installation: "SAM Site", Timestamp: ts},
		{CampaignID: "c1", MissionID: "m2", Event: telemetry.EventMissionSucceeded, Stage: "return_to_orbit", Timestamp: ts},
	}
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, eventTable: "mission_events"}

	if err := w.WriteEvents(rows); err != nil {
		t.Fatalf("WriteEvents: %v", err)
	}
	if m.table == nil {
		t.Fatalf("expected table to be captured")
	}
	got := m.table.GetRows()
	if len(got.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got.Rows))
	}
	if got.Schema[0].Datatype != gpb.ColumnDataType_STRING || got.Schema[0].SemanticType != gpb.SemanticType_TAG {
		t.Fatalf("campaign_id column = %v/%v", got.Schema[0].Datatype, got.Schema[0].SemanticType)
	}
	if v := got.Rows[0].Values[2].GetStringValue(); v != telemetry.EventInstallationTargeted {
		t.Fatalf("event = %s", v)
	}
	if v := got.Rows[0].Values[5].GetStringValue(); v != "SAM Site" {
		t.Fatalf("installation = %s", v)
	}
}

func TestGreptimeWriterInterest(t *testing.T) {
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, interestTable: "alien_interest"}
	row := telemetry.InterestRow{CampaignID: "c1", Category: "recon", Delta: 0.3, Value: 1.3, Timestamp: time.Unix(0, 0)}
	if err := w.WriteInterest(row); err != nil {
		t.Fatalf("WriteInterest: %v", err)
	}
	got := m.table.GetRows()
	if got.Schema[2].Datatype != gpb.ColumnDataType_FLOAT64 {
		t.Fatalf("delta column type = %v", got.Schema[2].Datatype)
	}
	if v := got.Rows[0].Values[2].GetF64Value(); v != 0.3 {
		t.Fatalf("delta = %v", v)
	}
}

func TestGreptimeWriterStateError(t *testing.T) {
	m := &mockGreptimeClient{err: errors.New("unavailable")}
	w := &GreptimeDBWriter{client: m, stateTable: "campaign_state"}
	err := w.WriteState(telemetry.CampaignStateRow{CampaignID: "c1", ActiveMissions: 2, Timestamp: time.Unix(0, 0)})
	if err == nil {
		t.Fatalf("expected client error to surface")
	}
	if v := m.table.GetRows().Rows[0].Values[2].GetI64Value(); v != 2 {
		t.Fatalf("active_missions = %v", v)
	}
}

func TestGreptimeWriterSkipsEmptyBatch(t *testing.T) {
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, eventTable: "mission_events"}
	if err := w.WriteEvents(nil); err != nil || m.table != nil {
		t.Fatalf("empty batch should not write: %v", err)
	}
}
