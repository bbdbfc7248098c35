package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"campaign-sim/internal/config"
	"campaign-sim/internal/logging"
	"campaign-sim/internal/sim"
)

var (
	replayInput     string
	replayPrintOnly bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a mission event log",
	Long:  "replay feeds mission events from a JSONL log back into GreptimeDB, SQLite or STDOUT.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}
		log := logging.FromContext(cmd.Context())
		rt := config.LoadRuntime(v)
		rt.PrintOnly = replayPrintOnly
		rt.LogFile = ""

		ws, err := newWriters(nil, rt, false, log)
		if err != nil {
			return err
		}
		defer ws.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		log.Info("replaying mission log", "input", replayInput, "speed", rt.ReplaySpeed)
		return sim.ReplayLogFile(ctx, replayInput, ws.Writer(), rt.ReplaySpeed)
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to mission event log file")
	replayCmd.Flags().Float64("speed", 3600, "Campaign seconds replayed per wall second, 0 for no delay")
	replayCmd.Flags().BoolVar(&replayPrintOnly, "print-only", false, "Print rows to STDOUT instead of writing to GreptimeDB")
	_ = v.BindPFlag("replay_speed", replayCmd.Flags().Lookup("speed"))
	_ = replayCmd.MarkFlagRequired("input")
}
