package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"campaign-sim/internal/telemetry"
)

// JSONStdoutWriter prints every row as one JSON line.
type JSONStdoutWriter struct {
	out io.Writer
}

// NewJSONStdoutWriter creates a JSONStdoutWriter writing to out, or os.Stdout if out is nil.
func NewJSONStdoutWriter(out io.Writer) *JSONStdoutWriter {
	if out == nil {
		out = os.Stdout
	}
	return &JSONStdoutWriter{out: out}
}

func (w *JSONStdoutWriter) print(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w.out, string(data))
	return err
}

// WriteEvent outputs a mission event in JSON format.
func (w *JSONStdoutWriter) WriteEvent(row telemetry.MissionEventRow) error { return w.print(row) }

// WriteInterest outputs an interest change in JSON format.
func (w *JSONStdoutWriter) WriteInterest(row telemetry.InterestRow) error { return w.print(row) }

// WriteState outputs a state row in JSON format.
func (w *JSONStdoutWriter) WriteState(row telemetry.CampaignStateRow) error { return w.print(row) }
