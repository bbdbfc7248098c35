package sim

import (
	"errors"

	"campaign-sim/internal/telemetry"
)

// MultiWriter fans rows out to multiple writers. Every writer receives every
// row; errors are joined.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a new MultiWriter. Nil writers are skipped.
func NewMultiWriter(ws ...Writer) *MultiWriter {
	mw := &MultiWriter{}
	for _, w := range ws {
		if w != nil {
			mw.writers = append(mw.writers, w)
		}
	}
	return mw
}

// WriteEvent sends an event to all writers.
func (mw *MultiWriter) WriteEvent(row telemetry.MissionEventRow) error {
	return mw.WriteEvents([]telemetry.MissionEventRow{row})
}

// WriteEvents sends multiple events to all writers, using batch if supported.
func (mw *MultiWriter) WriteEvents(rows []telemetry.MissionEventRow) error {
	var errs []error
	for _, w := range mw.writers {
		if err := writeEvents(w, rows); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WriteInterest sends an interest change to all writers.
func (mw *MultiWriter) WriteInterest(row telemetry.InterestRow) error {
	return mw.WriteInterests([]telemetry.InterestRow{row})
}

// WriteInterests sends multiple interest changes to all writers, using batch if supported.
func (mw *MultiWriter) WriteInterests(rows []telemetry.InterestRow) error {
	var errs []error
	for _, w := range mw.writers {
		if err := writeInterests(w, rows); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WriteState sends a state row to all writers.
func (mw *MultiWriter) WriteState(row telemetry.CampaignStateRow) error {
	var errs []error
	for _, w := range mw.writers {
		if err := w.WriteState(row); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SetAdminStatus forwards the admin status to writers that show it.
func (mw *MultiWriter) SetAdminStatus(listening bool) {
	for _, w := range mw.writers {
		if aw, ok := w.(AdminStatusWriter); ok {
			aw.SetAdminStatus(listening)
		}
	}
}
