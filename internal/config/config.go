// YAML campaign loader with CUE validation integration
package config

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"campaign-sim/internal/campaign"
	"campaign-sim/internal/geo"
	"campaign-sim/internal/ufo"
)

// Weapon is a weapon slot with its remaining ammo.
type Weapon struct {
	Name string `yaml:"name"`
	Ammo int    `yaml:"ammo"`
}

// UFOType describes one kind of alien craft.
type UFOType struct {
	Name     string   `yaml:"name"`
	SpeedKMH float64  `yaml:"speed_kmh"`
	Missions []string `yaml:"missions"`
	Weapons  []Weapon `yaml:"weapons"`
}

// Base is a player base on the geoscape.
type Base struct {
	ID            int      `yaml:"id"`
	Name          string   `yaml:"name"`
	Lat           float64  `yaml:"lat"`
	Lon           float64  `yaml:"lon"`
	CommandCentre bool     `yaml:"command_centre"`
	Hangars       int      `yaml:"hangars"`
	Quarters      int      `yaml:"quarters"`
	Employees     int      `yaml:"employees"`
	Batteries     []Weapon `yaml:"batteries"`
	Lasers        []Weapon `yaml:"lasers"`
}

// Installation is a player installation the aliens may attack.
type Installation struct {
	ID            int      `yaml:"id"`
	Name          string   `yaml:"name"`
	Lat           float64  `yaml:"lat"`
	Lon           float64  `yaml:"lon"`
	AlienInterest float64  `yaml:"alien_interest"`
	Batteries     []Weapon `yaml:"batteries"`
}

// Aircraft is a player craft stationed at the base named by Homebase.
type Aircraft struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Homebase    string   `yaml:"homebase"`
	Pilot       string   `yaml:"pilot"`
	TeamSize    int      `yaml:"team_size"`
	MaxTeamSize int      `yaml:"max_team_size"`
	SpeedKMH    float64  `yaml:"speed_kmh"`
	RangeKM     float64  `yaml:"range_km"`
	Weapons     []Weapon `yaml:"weapons"`
}

// CampaignConfig is the root configuration of a campaign run.
type CampaignConfig struct {
	CampaignID        string             `yaml:"campaign_id"`
	Start             string             `yaml:"start"`
	Seed              int64              `yaml:"seed"`
	XVIStarted        bool               `yaml:"xvi_started"`
	MissionRatePerDay float64            `yaml:"mission_rate_per_day"`
	DescentMin        string             `yaml:"descent_min"`
	DescentMax        string             `yaml:"descent_max"`
	Scenario          string             `yaml:"scenario"`
	Credits           int                `yaml:"credits"`
	BaseCost          int                `yaml:"base_cost"`
	Interest          map[string]float64 `yaml:"interest"`
	UFOTypes          []UFOType          `yaml:"ufo_types"`
	Bases             []Base             `yaml:"bases"`
	Installations     []Installation     `yaml:"installations"`
	Aircraft          []Aircraft         `yaml:"aircraft"`
}

// Load loads the YAML campaign and validates it against a CUE schema.
func Load(configPath, cueSchemaPath string) (*CampaignConfig, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg CampaignConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", configPath, err)
	}
	return &cfg, nil
}

// StartTime parses Start as RFC 3339. An empty value yields the zero time.
func (c *CampaignConfig) StartTime() (time.Time, error) {
	if c.Start == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, c.Start)
	if err != nil {
		return time.Time{}, fmt.Errorf("start: %w", err)
	}
	return t, nil
}

// Descent returns the configured descent window. Unset bounds are zero.
func (c *CampaignConfig) Descent() (time.Duration, time.Duration, error) {
	var lo, hi time.Duration
	var err error
	if c.DescentMin != "" {
		if lo, err = time.ParseDuration(c.DescentMin); err != nil {
			return 0, 0, fmt.Errorf("descent_min: %w", err)
		}
	}
	if c.DescentMax != "" {
		if hi, err = time.ParseDuration(c.DescentMax); err != nil {
			return 0, 0, fmt.Errorf("descent_max: %w", err)
		}
	}
	return lo, hi, nil
}

// Build creates the campaign described by the configuration.
func (c *CampaignConfig) Build(id string, log *slog.Logger, rng *rand.Rand) (*campaign.Campaign, error) {
	start, err := c.StartTime()
	if err != nil {
		return nil, err
	}
	lo, hi, err := c.Descent()
	if err != nil {
		return nil, err
	}
	if id == "" {
		id = c.CampaignID
	}
	interest := make(map[campaign.InterestCategory]float64, len(c.Interest))
	for k, v := range c.Interest {
		interest[campaign.InterestCategory(k)] = v
	}
	types := make([]*ufo.Type, 0, len(c.UFOTypes))
	for _, t := range c.UFOTypes {
		types = append(types, &ufo.Type{
			Name:     t.Name,
			SpeedKMH: t.SpeedKMH,
			Missions: append([]string(nil), t.Missions...),
			Weapons:  weapons(t.Weapons),
		})
	}

	camp := campaign.New(campaign.Options{
		ID:         id,
		Start:      start,
		Seed:       c.Seed,
		Rand:       rng,
		Logger:     log,
		XVIStarted: c.XVIStarted,
		Interest:   interest,
		UFOTypes:   types,
		DescentMin: lo,
		DescentMax: hi,
		Credits:    c.Credits,
		BaseCost:   c.BaseCost,
	})

	bases := make(map[string]*campaign.Base, len(c.Bases))
	for _, b := range c.Bases {
		base := &campaign.Base{
			ID:        b.ID,
			Name:      b.Name,
			Pos:       geo.Vector2{Lon: b.Lon, Lat: b.Lat},
			Employees: b.Employees,
			Batteries: batteries(b.Batteries),
			Lasers:    batteries(b.Lasers),
		}
		for _, bld := range buildings(b) {
			base.AddBuilding(bld)
		}
		bases[b.Name] = base
		camp.Bases = append(camp.Bases, base)
	}
	for _, i := range c.Installations {
		camp.AddInstallation(&campaign.Installation{
			ID:            i.ID,
			Name:          i.Name,
			Pos:           geo.Vector2{Lon: i.Lon, Lat: i.Lat},
			AlienInterest: i.AlienInterest,
			Batteries:     batteries(i.Batteries),
		})
	}
	for _, a := range c.Aircraft {
		home, ok := bases[a.Homebase]
		if !ok {
			return nil, fmt.Errorf("aircraft %s: unknown homebase %q", a.Name, a.Homebase)
		}
		camp.Aircraft = append(camp.Aircraft, &campaign.Aircraft{
			ID:          a.ID,
			Name:        a.Name,
			Pos:         home.Pos,
			Status:      campaign.AircraftHome,
			Homebase:    home,
			Pilot:       a.Pilot,
			TeamSize:    a.TeamSize,
			MaxTeamSize: a.MaxTeamSize,
			SpeedKMH:    a.SpeedKMH,
			RangeKM:     a.RangeKM,
			FuelKM:      a.RangeKM,
			Weapons:     weapons(a.Weapons),
		})
	}
	return camp, nil
}

// buildings lays out a configured base: an entrance, the command centre, one
// hangar per aircraft slot and a single quarters block.
func buildings(b Base) []*campaign.Building {
	out := []*campaign.Building{{Type: campaign.BuildingEntrance, Working: true}}
	if b.CommandCentre {
		out = append(out, &campaign.Building{Type: campaign.BuildingCommandCentre, Working: true})
	}
	for range b.Hangars {
		out = append(out, &campaign.Building{Type: campaign.BuildingHangar, Capacity: 1, Working: true})
	}
	if b.Quarters > 0 {
		out = append(out, &campaign.Building{Type: campaign.BuildingQuarters, Capacity: b.Quarters, Working: true})
	}
	return out
}

func weapons(in []Weapon) []ufo.Weapon {
	out := make([]ufo.Weapon, 0, len(in))
	for _, w := range in {
		out = append(out, ufo.Weapon{Name: w.Name, Ammo: w.Ammo})
	}
	return out
}

func batteries(in []Weapon) []campaign.Battery {
	out := make([]campaign.Battery, 0, len(in))
	for _, w := range in {
		out = append(out, campaign.Battery{Weapon: ufo.Weapon{Name: w.Name, Ammo: w.Ammo}})
	}
	return out
}
