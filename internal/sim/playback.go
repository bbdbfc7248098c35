package sim

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"time"

	"campaign-sim/internal/telemetry"
)

// ReplayLog replays mission events from r to writer. A speed >0 scales the
// gaps between campaign timestamps into wall time; speed <= 0 replays without
// delay. Campaign gaps are usually hours, so callers pass large speeds.
func ReplayLog(ctx context.Context, r io.Reader, writer EventWriter, speed float64) error {
	dec := json.NewDecoder(r)
	var prev time.Time
	for {
		var row telemetry.MissionEventRow
		if err := dec.Decode(&row); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if !prev.IsZero() && speed > 0 {
			diff := time.Duration(float64(row.Timestamp.Sub(prev)) / speed)
			if diff > 0 {
				select {
				case <-time.After(diff):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
		if err := writer.WriteEvent(row); err != nil {
			return err
		}
		prev = row.Timestamp
	}
}

// ReplayLogFile opens a file and replays its mission events.
func ReplayLogFile(ctx context.Context, path string, writer EventWriter, speed float64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ReplayLog(ctx, f, writer, speed)
}
