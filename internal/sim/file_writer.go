package sim

import (
	"encoding/json"
	"errors"
	"os"

	"campaign-sim/internal/telemetry"
)

// FileWriter writes mission events, interest changes and state rows to JSONL files.
type FileWriter struct {
	eventFile    *os.File
	interestFile *os.File
	stateFile    *os.File
	eventEnc     *json.Encoder
	interestEnc  *json.Encoder
	stateEnc     *json.Encoder
}

// NewFileWriter creates a FileWriter. interestPath or statePath may be empty to skip those logs.
func NewFileWriter(eventPath, interestPath, statePath string) (*FileWriter, error) {
	ef, err := os.Create(eventPath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{eventFile: ef, eventEnc: json.NewEncoder(ef)}
	if interestPath != "" {
		f, err := os.Create(interestPath)
		if err != nil {
			fw.Close()
			return nil, err
		}
		fw.interestFile = f
		fw.interestEnc = json.NewEncoder(f)
	}
	if statePath != "" {
		f, err := os.Create(statePath)
		if err != nil {
			fw.Close()
			return nil, err
		}
		fw.stateFile = f
		fw.stateEnc = json.NewEncoder(f)
	}
	return fw, nil
}

// WriteEvent logs a single mission event.
func (f *FileWriter) WriteEvent(row telemetry.MissionEventRow) error {
	return f.eventEnc.Encode(row)
}

// WriteEvents logs multiple mission events.
func (f *FileWriter) WriteEvents(rows []telemetry.MissionEventRow) error {
	for _, r := range rows {
		if err := f.WriteEvent(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteInterest logs an interest change, if enabled.
func (f *FileWriter) WriteInterest(row telemetry.InterestRow) error {
	if f.interestEnc == nil {
		return nil
	}
	return f.interestEnc.Encode(row)
}

// WriteState logs a campaign state row, if enabled.
func (f *FileWriter) WriteState(row telemetry.CampaignStateRow) error {
	if f.stateEnc == nil {
		return nil
	}
	return f.stateEnc.Encode(row)
}

// Close closes any underlying files.
func (f *FileWriter) Close() error {
	var errs []error
	for _, file := range []*os.File{f.eventFile, f.interestFile, f.stateFile} {
		if file != nil {
			errs = append(errs, file.Close())
		}
	}
	return errors.Join(errs...)
}
