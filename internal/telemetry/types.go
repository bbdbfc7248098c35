// Row types emitted by the campaign and consumed by the output writers.
package telemetry

import (
	"os"
	"time"
)

// Mission event kinds.
const (
	EventStageChanged          = "stage_changed"
	EventInstallationTargeted  = "installation_targeted"
	EventInstallationDestroyed = "installation_destroyed"
	EventMissionSucceeded      = "mission_succeeded"
	EventMissionFailed         = "mission_failed"
	EventMissionRemoved        = "mission_removed"
	EventAircraftLaunched      = "aircraft_launched"
)

// MissionEventRow is one mission lifecycle event. Timestamp is campaign time.
type MissionEventRow struct {
	CampaignID   string    `json:"campaign_id"`
	MissionID    string    `json:"mission_id"`
	Event        string    `json:"event"`
	Stage        string    `json:"stage"`
	UFOID        string    `json:"ufo_id,omitempty"`
	Installation string    `json:"installation,omitempty"`
	Lon          float64   `json:"lon"`
	Lat          float64   `json:"lat"`
	FinalDate    time.Time `json:"final_date"`
	Details      string    `json:"details,omitempty"`
	Timestamp    time.Time `json:"ts"`
}

// InterestRow records one change of an alien interest category.
type InterestRow struct {
	CampaignID string    `json:"campaign_id"`
	Category   string    `json:"category"`
	Delta      float64   `json:"delta"`
	Value      float64   `json:"value"`
	Timestamp  time.Time `json:"ts"`
}

// CampaignStateRow captures per-tick campaign metrics.
type CampaignStateRow struct {
	CampaignID     string    `json:"campaign_id"`
	Phase          string    `json:"phase,omitempty"`
	ActiveMissions int       `json:"active_missions"`
	UFOs           int       `json:"ufos"`
	Installations  int       `json:"installations"`
	XVIStarted     bool      `json:"xvi_started"`
	Timestamp      time.Time `json:"ts"`
}

// Table names used when writing to GreptimeDB or SQL. Each can be
// overridden through the environment.
var (
	MissionEventTableName  = envOr("MISSION_EVENT_TABLE", "mission_events")
	InterestTableName      = envOr("INTEREST_TABLE", "alien_interest")
	CampaignStateTableName = envOr("CAMPAIGN_STATE_TABLE", "campaign_state")
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (MissionEventRow) TableName() string  { return MissionEventTableName }
func (InterestRow) TableName() string      { return InterestTableName }
func (CampaignStateRow) TableName() string { return CampaignStateTableName }
