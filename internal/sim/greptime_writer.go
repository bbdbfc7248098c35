package sim

import (
	"context"
	"fmt"
	"log/slog"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"campaign-sim/internal/telemetry"
)

// greptimeClient is the subset of the ingester client the writer uses.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes campaign rows to GreptimeDB via the ingester client.
type GreptimeDBWriter struct {
	client        greptimeClient
	eventTable    string
	interestTable string
	stateTable    string
	log           *slog.Logger
}

// NewGreptimeDBWriter connects to host and writes into database.
func NewGreptimeDBWriter(host, database string, log *slog.Logger) (*GreptimeDBWriter, error) {
	cfg := greptime.NewConfig(host).WithDatabase(database)
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("greptime client: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &GreptimeDBWriter{
		client:        client,
		eventTable:    telemetry.MissionEventTableName,
		interestTable: telemetry.InterestTableName,
		stateTable:    telemetry.CampaignStateTableName,
		log:           log,
	}, nil
}

func (w *GreptimeDBWriter) write(name string, tbl *table.Table, n int) error {
	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		if w.log != nil {
			w.log.Error("greptime write failed", "table", name, "err", err)
		}
		return err
	}
	if w.log != nil {
		w.log.Debug("greptime rows written", "table", name, "rows", n)
	}
	return nil
}

// WriteEvent inserts a single mission event.
func (w *GreptimeDBWriter) WriteEvent(row telemetry.MissionEventRow) error {
	return w.WriteEvents([]telemetry.MissionEventRow{row})
}

// WriteEvents inserts multiple mission events.
func (w *GreptimeDBWriter) WriteEvents(rows []telemetry.MissionEventRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.eventTable)
	if err != nil {
		return err
	}
	tbl.AddTagColumn("campaign_id", types.STRING)
	tbl.AddTagColumn("mission_id", types.STRING)
	tbl.AddFieldColumn("event", types.STRING)
	tbl.AddFieldColumn("stage", types.STRING)
	tbl.AddFieldColumn("ufo_id", types.STRING)
	tbl.AddFieldColumn("installation", types.STRING)
	tbl.AddFieldColumn("lon", types.FLOAT64)
	tbl.AddFieldColumn("lat", types.FLOAT64)
	tbl.AddFieldColumn("final_date", types.TIMESTAMP_MILLISECOND)
	tbl.AddFieldColumn("details", types.STRING)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND)

	for _, r := range rows {
		if err := tbl.AddRow(r.CampaignID, r.MissionID, r.Event, r.Stage, r.UFOID, r.Installation,
			r.Lon, r.Lat, r.FinalDate, r.Details, r.Timestamp); err != nil {
			return err
		}
	}
	return w.write(w.eventTable, tbl, len(rows))
}

// WriteInterest inserts a single interest change.
func (w *GreptimeDBWriter) WriteInterest(row telemetry.InterestRow) error {
	return w.WriteInterests([]telemetry.InterestRow{row})
}

// WriteInterests inserts multiple interest changes.
func (w *GreptimeDBWriter) WriteInterests(rows []telemetry.InterestRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.interestTable)
	if err != nil {
		return err
	}
	tbl.AddTagColumn("campaign_id", types.STRING)
	tbl.AddTagColumn("category", types.STRING)
	tbl.AddFieldColumn("delta", types.FLOAT64)
	tbl.AddFieldColumn("value", types.FLOAT64)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND)

	for _, r := range rows {
		if err := tbl.AddRow(r.CampaignID, r.Category, r.Delta, r.Value, r.Timestamp); err != nil {
			return err
		}
	}
	return w.write(w.interestTable, tbl, len(rows))
}

// WriteState inserts a campaign state row.
func (w *GreptimeDBWriter) WriteState(row telemetry.CampaignStateRow) error {
	tbl, err := table.New(w.stateTable)
	if err != nil {
		return err
	}
	tbl.AddTagColumn("campaign_id", types.STRING)
	tbl.AddFieldColumn("phase", types.STRING)
	tbl.AddFieldColumn("active_missions", types.INT64)
	tbl.AddFieldColumn("ufos", types.INT64)
	tbl.AddFieldColumn("installations", types.INT64)
	tbl.AddFieldColumn("xvi_started", types.BOOLEAN)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND)

	if err := tbl.AddRow(row.CampaignID, row.Phase, int64(row.ActiveMissions), int64(row.UFOs),
		int64(row.Installations), row.XVIStarted, row.Timestamp); err != nil {
		return err
	}
	return w.write(w.stateTable, tbl, 1)
}
