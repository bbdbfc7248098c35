package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"campaign-sim/internal/config"
	"campaign-sim/internal/logging"
)

// v holds the runtime settings shared by all subcommands.
var v = config.NewViper()

var rootCmd = &cobra.Command{
	Use:   "campaign-sim",
	Short: "Alien campaign intercept simulator",
	Long:  "campaign-sim runs the intercept missions of an alien campaign and replays recorded mission logs.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		rt := config.LoadRuntime(v)
		out, err := logOutput(cmd, rt)
		if err != nil {
			return err
		}
		log := logging.New(rt.LogLevel, out)
		cmd.SetContext(logging.NewContext(cmd.Context(), log))
		return nil
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// logOutput keeps log lines off the terminal while the TUI owns it.
func logOutput(cmd *cobra.Command, rt config.Runtime) (io.Writer, error) {
	if cmd.Name() != "simulate" || !useTUI(rt) {
		return os.Stderr, nil
	}
	return os.OpenFile("campaign-sim.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("cluster-id", "", "Campaign identifier attached to every row (defaults to campaign_id from the campaign file)")
	rootCmd.PersistentFlags().String("sqlite", "", "Path to a SQLite database receiving every row")
	_ = v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("cluster_id", rootCmd.PersistentFlags().Lookup("cluster-id"))
	_ = v.BindPFlag("sqlite_path", rootCmd.PersistentFlags().Lookup("sqlite"))

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(replayCmd)
}
