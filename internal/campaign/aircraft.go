package campaign

import (
	"time"

	"campaign-sim/internal/geo"
	"campaign-sim/internal/telemetry"
	"campaign-sim/internal/ufo"
)

// AircraftStatus is the state of a player aircraft.
type AircraftStatus string

const (
	AircraftHome      AircraftStatus = "at homebase"
	AircraftIdle      AircraftStatus = "idle"
	AircraftTransfer  AircraftStatus = "in transfer"
	AircraftMission   AircraftStatus = "moving to mission"
	AircraftPursuing  AircraftStatus = "pursuing a UFO"
	AircraftReturning AircraftStatus = "returning to homebase"
	AircraftCrashed   AircraftStatus = "crashed"
)

// Aircraft is a player craft stationed at a base.
type Aircraft struct {
	ID          string
	Name        string
	Pos         geo.Vector2
	Status      AircraftStatus
	Homebase    *Base
	Pilot       string
	TeamSize    int
	MaxTeamSize int
	SpeedKMH    float64
	RangeKM     float64
	FuelKM      float64
	Weapons     []ufo.Weapon

	Mission *Mission
	Target  *ufo.UFO
}

// CanIntercept reports whether the aircraft may be launched at all.
func (a *Aircraft) CanIntercept() bool {
	switch a.Status {
	case AircraftCrashed, AircraftTransfer:
		return false
	}
	return a.Homebase != nil && a.Pilot != ""
}

// CanShoot reports whether at least one weapon has ammo.
func (a *Aircraft) CanShoot() bool {
	for _, w := range a.Weapons {
		if w.Ammo > 0 {
			return true
		}
	}
	return false
}

// HasEnoughFuel reports whether the aircraft can reach dest and then fly home.
func (a *Aircraft) HasEnoughFuel(dest geo.Vector2) bool {
	if a.Homebase == nil {
		return false
	}
	need := geo.DistanceKM(a.Pos, dest) + geo.DistanceKM(dest, a.Homebase.Pos)
	return need <= a.FuelKM
}

// TimeTo returns how long the aircraft needs to reach dest.
func (a *Aircraft) TimeTo(dest geo.Vector2) time.Duration {
	if a.SpeedKMH <= 0 {
		return 0
	}
	hours := geo.DistanceKM(a.Pos, dest) / a.SpeedKMH
	return time.Duration(hours * float64(time.Hour)).Truncate(time.Second)
}

// SendAircraftToMission launches a toward the mission site.
func (c *Campaign) SendAircraftToMission(a *Aircraft, m *Mission) {
	a.Status = AircraftMission
	a.Mission = m
	a.Target = nil
	c.emit(m, telemetry.EventAircraftLaunched, a.Name)
}

// SendAircraftPursuingUFO launches a after the UFO.
func (c *Campaign) SendAircraftPursuingUFO(a *Aircraft, u *ufo.UFO) {
	a.Status = AircraftPursuing
	a.Target = u
	a.Mission = nil
	if m := c.missionForUFO(u); m != nil {
		c.emit(m, telemetry.EventAircraftLaunched, a.Name)
	}
}

// CheckMoveIntoNewHomebase returns an empty string when a may be based at b,
// otherwise the reason it may not.
func (c *Campaign) CheckMoveIntoNewHomebase(a *Aircraft, b *Base) string {
	if a.Homebase == b {
		return "aircraft already based here"
	}
	if a.Status != AircraftHome {
		return "aircraft is not in its homebase"
	}
	if c.aircraftAt(b) >= b.Hangars {
		return "no free hangar"
	}
	return ""
}

// MoveAircraftIntoNewHomebase transfers a to b.
func (c *Campaign) MoveAircraftIntoNewHomebase(a *Aircraft, b *Base) {
	a.Homebase = b
	a.Status = AircraftReturning
}

func (c *Campaign) aircraftAt(b *Base) int {
	n := 0
	for _, a := range c.Aircraft {
		if a.Homebase == b {
			n++
		}
	}
	return n
}

func (c *Campaign) moveAircraft(elapsed time.Duration) {
	for _, a := range c.Aircraft {
		var dest geo.Vector2
		switch a.Status {
		case AircraftIdle:
			if a.Mission == nil || !c.active(a.Mission) {
				c.sendHome(a)
			}
			continue
		case AircraftMission:
			if a.Mission == nil || !c.active(a.Mission) {
				c.sendHome(a)
				continue
			}
			dest = a.Mission.Pos
		case AircraftPursuing:
			if a.Target == nil || a.Target.Status == ufo.StatusCrashed || c.UFOs.Get(a.Target.ID) == nil {
				c.sendHome(a)
				continue
			}
			dest = a.Target.Pos
		case AircraftReturning:
			if a.Homebase == nil {
				continue
			}
			dest = a.Homebase.Pos
		default:
			continue
		}
		before := a.Pos
		pos, arrived := geo.MoveToward(a.Pos, dest, a.SpeedKMH*elapsed.Hours())
		a.Pos = pos
		a.FuelKM -= geo.DistanceKM(before, pos)
		if a.Status == AircraftReturning && arrived {
			a.Status = AircraftHome
			a.FuelKM = a.RangeKM
			continue
		}
		if a.Status == AircraftMission && arrived {
			a.Status = AircraftIdle
			continue
		}
		if a.Status != AircraftReturning && a.Homebase != nil && a.FuelKM <= geo.DistanceKM(a.Pos, a.Homebase.Pos) {
			c.sendHome(a)
		}
	}
}

func (c *Campaign) sendHome(a *Aircraft) {
	a.Mission = nil
	a.Target = nil
	a.Status = AircraftReturning
}
