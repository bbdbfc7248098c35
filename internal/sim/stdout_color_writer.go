// ColorStdoutWriter prints human-friendly, colorized campaign output to STDOUT.
package sim

import (
	"fmt"
	"io"
	"os"
	"sync"
	"text/tabwriter"
	"time"

	"campaign-sim/internal/config"
	"campaign-sim/internal/telemetry"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorGray    = "\x1b[90m"
)

var missionPalette = []string{colorRed, colorGreen, colorYellow, colorBlue, colorMagenta, colorCyan}

// eventColor picks the color of an event kind.
func eventColor(event string) string {
	switch event {
	case telemetry.EventMissionSucceeded, telemetry.EventInstallationDestroyed:
		return colorRed
	case telemetry.EventMissionFailed:
		return colorGreen
	case telemetry.EventInstallationTargeted:
		return colorYellow
	case telemetry.EventAircraftLaunched:
		return colorCyan
	default:
		return colorBlue
	}
}

// ColorStdoutWriter prints campaign rows using ANSI colors.
type ColorStdoutWriter struct {
	cfg           *config.CampaignConfig
	out           io.Writer
	once          sync.Once
	mu            sync.Mutex
	missionColors map[string]string
	colorIdx      int
}

// NewColorStdoutWriter creates a ColorStdoutWriter writing to os.Stdout.
func NewColorStdoutWriter(cfg *config.CampaignConfig) *ColorStdoutWriter {
	return &ColorStdoutWriter{
		cfg:           cfg,
		out:           os.Stdout,
		missionColors: make(map[string]string),
	}
}

func (w *ColorStdoutWriter) missionColor(id string) string {
	if c, ok := w.missionColors[id]; ok {
		return c
	}
	c := missionPalette[w.colorIdx%len(missionPalette)]
	w.missionColors[id] = c
	w.colorIdx++
	return c
}

func (w *ColorStdoutWriter) printOverview() {
	if w.cfg == nil {
		return
	}
	fmt.Fprintln(w.out, "Campaign Configuration:")
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Campaign:\t%s\n", w.cfg.CampaignID)
	fmt.Fprintf(tw, "Start:\t%s\n", w.cfg.Start)
	fmt.Fprintf(tw, "Scenario:\t%s\n", w.cfg.Scenario)
	fmt.Fprintf(tw, "XVI started:\t%t\n", w.cfg.XVIStarted)
	tw.Flush()

	fmt.Fprintln(w.out, "\nInstallations:")
	tw = tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Name\tLat\tLon\tAlien interest\n")
	for _, i := range w.cfg.Installations {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\n", i.Name, i.Lat, i.Lon, i.AlienInterest)
	}
	tw.Flush()
	fmt.Fprintln(w.out)
}

// WriteEvent prints a mission event.
func (w *ColorStdoutWriter) WriteEvent(row telemetry.MissionEventRow) error {
	w.once.Do(w.printOverview)
	w.mu.Lock()
	defer w.mu.Unlock()

	fmt.Fprintf(w.out, "%s[%s]%s ", colorGray, row.Timestamp.Format(time.RFC3339), colorReset)
	fmt.Fprintf(w.out, "%smission=%s%s ", w.missionColor(row.MissionID), shortID(row.MissionID), colorReset)
	fmt.Fprintf(w.out, "%s%s%s ", eventColor(row.Event), row.Event, colorReset)
	fmt.Fprintf(w.out, "%sstage=%s%s", colorMagenta, row.Stage, colorReset)
	if row.Installation != "" {
		fmt.Fprintf(w.out, " %sinstallation=%s%s", colorYellow, row.Installation, colorReset)
	}
	if row.Details != "" {
		fmt.Fprintf(w.out, " %s%s%s", colorGray, row.Details, colorReset)
	}
	fmt.Fprintln(w.out)
	return nil
}

// WriteInterest prints an interest change.
func (w *ColorStdoutWriter) WriteInterest(row telemetry.InterestRow) error {
	w.once.Do(w.printOverview)
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.out, "%s[%s]%s %sINTEREST%s %s %+.2f -> %.2f\n",
		colorGray, row.Timestamp.Format(time.RFC3339), colorReset,
		colorCyan, colorReset, row.Category, row.Delta, row.Value)
	return nil
}

// WriteState prints campaign state metrics.
func (w *ColorStdoutWriter) WriteState(row telemetry.CampaignStateRow) error {
	w.once.Do(w.printOverview)
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.out, "%s[%s]%s %sSTATE%s phase=%s missions=%d ufos=%d installations=%d xvi=%t\n",
		colorGray, row.Timestamp.Format(time.RFC3339), colorReset,
		colorBlue, colorReset, row.Phase, row.ActiveMissions, row.UFOs, row.Installations, row.XVIStarted)
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
