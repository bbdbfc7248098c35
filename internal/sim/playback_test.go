package sim

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"campaign-sim/internal/telemetry"
)

func TestReplayLog(t *testing.T) {
	rows := []telemetry.MissionEventRow{
		{CampaignID: "c1", MissionID: "m1", Event: telemetry.EventStageChanged, Timestamp: time.Unix(0, 0)},
		{CampaignID: "c1", MissionID: "m1", Event: telemetry.EventMissionSucceeded, Timestamp: time.Unix(3600, 0)},
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	cw := &collectWriter{}
	if err := ReplayLog(context.Background(), &buf, cw, 0); err != nil {
		t.Fatalf("ReplayLog: %v", err)
	}
	if len(cw.events) != len(rows) {
		t.Fatalf("expected %d rows, got %d", len(rows), len(cw.events))
	}
	for i, r := range rows {
		if cw.events[i].Event != r.Event {
			t.Fatalf("row %d mismatch: %+v vs %+v", i, cw.events[i], r)
		}
	}
}

func TestReplayLogCancelled(t *testing.T) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	_ = enc.Encode(telemetry.MissionEventRow{MissionID: "m1", Timestamp: time.Unix(0, 0)})
	_ = enc.Encode(telemetry.MissionEventRow{MissionID: "m1", Timestamp: time.Unix(3600*24, 0)})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cw := &collectWriter{}
	if err := ReplayLog(ctx, &buf, cw, 1); err == nil {
		t.Fatalf("expected context error")
	}
	if len(cw.events) != 1 {
		t.Fatalf("expected only the first row before cancel, got %d", len(cw.events))
	}
}
