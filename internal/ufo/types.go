package ufo

import "campaign-sim/internal/geo"

// Status represents what a UFO is currently doing on the geoscape.
type Status string

const (
	StatusFlying  Status = "flying"
	StatusLanded  Status = "landed"
	StatusCrashed Status = "crashed"
)

// MissionInterceptBombing is the capability needed to attack installations.
const MissionInterceptBombing = "interceptbombing"

// Weapon is one weapon slot of a UFO or a defence battery.
type Weapon struct {
	Name string `json:"name" yaml:"name"`
	Ammo int    `json:"ammo" yaml:"ammo"`
}

// Type is the template a UFO is spawned from.
type Type struct {
	Name     string
	SpeedKMH float64
	Missions []string
	Weapons  []Weapon
}

// CanDoMission reports whether the UFO type is allowed to run the given mission kind.
func (t *Type) CanDoMission(kind string) bool {
	if t == nil {
		return false
	}
	for _, m := range t.Missions {
		if m == kind {
			return true
		}
	}
	return false
}

type moveMode int

const (
	modeDirect moveMode = iota
	modeRoam
	modeCircle
)

// UFO is one enemy craft on the geoscape.
type UFO struct {
	ID      string
	Type    *Type
	Pos     geo.Vector2
	Dest    geo.Vector2
	Status  Status
	Weapons []Weapon
	Landed  bool
	// Arrived is set once a direct or roaming flight reached Dest.
	Arrived bool

	mode   moveMode
	center geo.Vector2
}

// CanShoot reports whether at least one weapon still has ammo.
func (u *UFO) CanShoot() bool {
	for _, w := range u.Weapons {
		if w.Ammo > 0 {
			return true
		}
	}
	return false
}

// Disarm empties every weapon slot.
func (u *UFO) Disarm() {
	for i := range u.Weapons {
		u.Weapons[i].Ammo = 0
	}
}
