package sim

import "campaign-sim/internal/telemetry"

// EventWriter handles mission lifecycle events.
type EventWriter interface {
	WriteEvent(telemetry.MissionEventRow) error
}

// Optional: event writers may support batch mode.
type batchEventWriter interface {
	WriteEvents([]telemetry.MissionEventRow) error
}

// InterestWriter handles alien interest changes.
type InterestWriter interface {
	WriteInterest(telemetry.InterestRow) error
}

// Optional: interest writers may support batch mode.
type batchInterestWriter interface {
	WriteInterests([]telemetry.InterestRow) error
}

// StateWriter handles per-tick campaign state rows.
type StateWriter interface {
	WriteState(telemetry.CampaignStateRow) error
}

// Writer is the full set of outputs the simulator feeds.
type Writer interface {
	EventWriter
	InterestWriter
	StateWriter
}

// AdminStatusWriter allows writers to receive admin UI status updates.
type AdminStatusWriter interface {
	SetAdminStatus(listening bool)
}

func writeEvents(w EventWriter, rows []telemetry.MissionEventRow) error {
	if len(rows) == 0 || w == nil {
		return nil
	}
	if bw, ok := w.(batchEventWriter); ok {
		return bw.WriteEvents(rows)
	}
	for _, r := range rows {
		if err := w.WriteEvent(r); err != nil {
			return err
		}
	}
	return nil
}

func writeInterests(w InterestWriter, rows []telemetry.InterestRow) error {
	if len(rows) == 0 || w == nil {
		return nil
	}
	if bw, ok := w.(batchInterestWriter); ok {
		return bw.WriteInterests(rows)
	}
	for _, r := range rows {
		if err := w.WriteInterest(r); err != nil {
			return err
		}
	}
	return nil
}
