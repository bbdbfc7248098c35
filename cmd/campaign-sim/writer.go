package main

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"campaign-sim/internal/config"
	"campaign-sim/internal/sim"
)

// writerSet owns the writers built for a run and closes them together.
type writerSet struct {
	writers []sim.Writer
	feed    *sim.Broadcaster
	closers []io.Closer
	multi   *sim.MultiWriter
}

// Writer returns the fan-out writer the simulator feeds.
func (ws *writerSet) Writer() *sim.MultiWriter {
	if ws.multi == nil {
		ws.multi = sim.NewMultiWriter(ws.writers...)
	}
	return ws.multi
}

func (ws *writerSet) add(w sim.Writer) {
	ws.writers = append(ws.writers, w)
	if c, ok := w.(io.Closer); ok {
		ws.closers = append(ws.closers, c)
	}
}

// Close closes every writer that holds resources, last opened first.
func (ws *writerSet) Close() error {
	var errs []error
	for i := len(ws.closers) - 1; i >= 0; i-- {
		errs = append(errs, ws.closers[i].Close())
	}
	return errors.Join(errs...)
}

// newWriters sets up the outputs based on the runtime settings:
// a TUI or STDOUT writer, GreptimeDB when an endpoint is configured,
// SQLite and JSONL logs when paths are given, and the live feed for the
// admin websocket.
func newWriters(cfg *config.CampaignConfig, rt config.Runtime, tui bool, log *slog.Logger) (*writerSet, error) {
	ws := &writerSet{}
	switch {
	case tui:
		ws.add(sim.NewTUIWriter(cfg))
	case rt.PrintOnly:
		ws.add(sim.NewJSONStdoutWriter(os.Stdout))
	default:
		ws.add(sim.NewColorStdoutWriter(cfg))
	}

	if !rt.PrintOnly && rt.GreptimeHost != "" {
		gw, err := sim.NewGreptimeDBWriter(rt.GreptimeHost, rt.GreptimeDB, log)
		if err != nil {
			ws.Close()
			return nil, err
		}
		log.Info("writing to GreptimeDB", "endpoint", rt.GreptimeHost, "database", rt.GreptimeDB)
		ws.add(gw)
	}

	if rt.SQLitePath != "" {
		sw, err := sim.NewSQLWriter(rt.SQLitePath)
		if err != nil {
			ws.Close()
			return nil, err
		}
		ws.add(sw)
	}

	if rt.LogFile != "" {
		fw, err := sim.NewFileWriter(rt.LogFile, rt.LogFile+".interest", rt.LogFile+".state")
		if err != nil {
			ws.Close()
			return nil, err
		}
		ws.add(fw)
	}

	ws.feed = sim.NewBroadcaster()
	ws.add(ws.feed)
	return ws, nil
}
