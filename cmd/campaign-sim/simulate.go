package main

import (
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"campaign-sim/internal/admin"
	"campaign-sim/internal/config"
	"campaign-sim/internal/logging"
	"campaign-sim/internal/scenario"
	"campaign-sim/internal/sim"
)

var (
	simConfigPath string
	simSchemaPath string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the campaign against the wall clock",
	Long:  "simulate spawns intercept missions, advances the campaign clock and writes mission events, interest changes and state rows.",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.FromContext(cmd.Context())
		rt := config.LoadRuntime(v)

		cfg, err := config.Load(simConfigPath, simSchemaPath)
		if err != nil {
			return err
		}
		sc, err := resolveScenario(rt, cfg)
		if err != nil {
			return err
		}

		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		camp, err := cfg.Build(rt.ClusterID, log, rand.New(rand.NewSource(seed)))
		if err != nil {
			return err
		}

		ws, err := newWriters(cfg, rt, useTUI(rt), log)
		if err != nil {
			return err
		}
		defer ws.Close()

		simulator := sim.NewSimulator(sim.Options{
			Campaign:          camp,
			Scenario:          sc,
			Writer:            ws.Writer(),
			Tick:              rt.Tick,
			TimeScale:         rt.TimeScale,
			MissionRatePerDay: cfg.MissionRatePerDay,
			Rand:              rand.New(rand.NewSource(seed + 1)),
			Logger:            log,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if rt.AdminAddr != "" {
			srv := admin.NewServer(simulator, ws.feed, log)
			go func() {
				log.Info("admin UI listening", "addr", rt.AdminAddr)
				ws.Writer().SetAdminStatus(true)
				if err := srv.Start(ctx, rt.AdminAddr); err != nil {
					log.Error("admin server failed", "err", err)
				}
				ws.Writer().SetAdminStatus(false)
			}()
		}

		simulator.Run(logging.NewContext(ctx, log))
		st := simulator.Status()
		log.Info("campaign stopped", "succeeded", st.Succeeded, "failed", st.Failed, "installations_destroyed", st.Destroyed)
		return nil
	},
}

// resolveScenario prefers the --scenario flag over the campaign file.
func resolveScenario(rt config.Runtime, cfg *config.CampaignConfig) (*scenario.Scenario, error) {
	name := rt.ScenarioFile
	if name == "" {
		name = cfg.Scenario
	}
	if name == "" {
		return nil, nil
	}
	return scenario.Resolve(name)
}

// useTUI honours an explicit --tui/TUI setting and otherwise enables the TUI
// when stdout is a terminal.
func useTUI(rt config.Runtime) bool {
	if rt.PrintOnly {
		return false
	}
	if v.IsSet("tui") {
		return rt.EnableTUI
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func init() {
	f := simulateCmd.Flags()
	f.StringVar(&simConfigPath, "config", "config/campaign.yaml", "Path to campaign configuration YAML")
	f.StringVar(&simSchemaPath, "schema", "schemas/campaign.cue", "Path to CUE schema file")
	f.Duration("tick", time.Second, "Wall-clock tick interval (e.g. 500ms, 2s)")
	f.Float64("time-scale", 3600, "Campaign seconds per wall second")
	f.String("scenario", "", "Built-in scenario name or path to a scenario YAML")
	f.String("log-file", "", "Path to export mission events as JSONL (interest and state go to .interest and .state)")
	f.Bool("print-only", false, "Print JSON rows to STDOUT instead of writing to GreptimeDB")
	f.Bool("tui", false, "Render the campaign in a terminal UI")
	f.String("admin-addr", ":8080", "Admin UI listen address, empty to disable")
	_ = v.BindPFlag("tick", f.Lookup("tick"))
	_ = v.BindPFlag("time_scale", f.Lookup("time-scale"))
	_ = v.BindPFlag("scenario_file", f.Lookup("scenario"))
	_ = v.BindPFlag("log_file", f.Lookup("log-file"))
	_ = v.BindPFlag("print_only", f.Lookup("print-only"))
	_ = v.BindPFlag("tui", f.Lookup("tui"))
	_ = v.BindPFlag("admin_addr", f.Lookup("admin-addr"))
}
