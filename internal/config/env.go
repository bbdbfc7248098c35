package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Runtime holds the process settings that come from flags and environment
// variables rather than from the campaign file.
type Runtime struct {
	ClusterID    string
	LogLevel     string
	Tick         time.Duration
	TimeScale    float64
	AdminAddr    string
	GreptimeHost string
	GreptimeDB   string
	SQLitePath   string
	LogFile      string
	ScenarioFile string
	EnableTUI    bool
	PrintOnly    bool
	ReplaySpeed  float64
}

// envBindings maps runtime keys to the environment variables that override them.
var envBindings = map[string]string{
	"cluster_id":    "CLUSTER_ID",
	"log_level":     "LOG_LEVEL",
	"tick":          "TICK_INTERVAL",
	"time_scale":    "TIME_SCALE",
	"admin_addr":    "ADMIN_ADDR",
	"greptime_host": "GREPTIMEDB_ENDPOINT",
	"greptime_db":   "GREPTIMEDB_DATABASE",
	"sqlite_path":   "SQLITE_PATH",
}

// NewViper returns a viper instance with runtime defaults and environment
// bindings. Callers may bind cobra flags onto it before calling LoadRuntime.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("log_level", "info")
	v.SetDefault("tick", time.Second)
	// one wall second is one campaign hour
	v.SetDefault("time_scale", 3600.0)
	v.SetDefault("admin_addr", ":8080")
	v.SetDefault("greptime_db", "public")
	v.SetDefault("replay_speed", 3600.0)
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	return v
}

// LoadRuntime reads the runtime settings from v.
func LoadRuntime(v *viper.Viper) Runtime {
	return Runtime{
		ClusterID:    v.GetString("cluster_id"),
		LogLevel:     v.GetString("log_level"),
		Tick:         v.GetDuration("tick"),
		TimeScale:    v.GetFloat64("time_scale"),
		AdminAddr:    v.GetString("admin_addr"),
		GreptimeHost: v.GetString("greptime_host"),
		GreptimeDB:   v.GetString("greptime_db"),
		SQLitePath:   v.GetString("sqlite_path"),
		LogFile:      v.GetString("log_file"),
		ScenarioFile: v.GetString("scenario_file"),
		EnableTUI:    v.GetBool("tui"),
		PrintOnly:    v.GetBool("print_only"),
		ReplaySpeed:  v.GetFloat64("replay_speed"),
	}
}
