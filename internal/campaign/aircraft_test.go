package campaign

import (
	"testing"
	"time"

	"campaign-sim/internal/geo"
	"campaign-sim/internal/ufo"
)

func newInterceptor(home *Base) *Aircraft {
	return &Aircraft{
		ID:          "a1",
		Name:        "Interceptor-1",
		Pos:         home.Pos,
		Status:      AircraftHome,
		Homebase:    home,
		Pilot:       "Ivanova",
		TeamSize:    1,
		MaxTeamSize: 2,
		SpeedKMH:    2000,
		RangeKM:     8000,
		FuelKM:      8000,
		Weapons:     []ufo.Weapon{{Name: "avalanche", Ammo: 2}},
	}
}

func TestAircraftReturnsAndRefuels(t *testing.T) {
	c := newTestCampaign(0.5)
	home := &Base{ID: 1, Name: "Alpha", Pos: geo.Vector2{Lon: 10, Lat: 50}, Hangars: 2}
	a := newInterceptor(home)
	a.Pos = geo.Vector2{Lon: 12, Lat: 50}
	a.FuelKM = 1000
	a.Status = AircraftReturning
	c.Aircraft = append(c.Aircraft, a)

	c.Advance(c.Now().Add(time.Hour))

	if a.Status != AircraftHome {
		t.Fatalf("status = %s, want at homebase", a.Status)
	}
	if a.FuelKM != a.RangeKM {
		t.Fatalf("fuel = %v, want full tank", a.FuelKM)
	}
}

func TestAircraftPursuitEndsWithUFO(t *testing.T) {
	c := newTestCampaign(0.5, scout)
	home := &Base{ID: 1, Name: "Alpha", Pos: geo.Vector2{Lon: 10, Lat: 50}, Hangars: 2}
	a := newInterceptor(home)
	c.Aircraft = append(c.Aircraft, a)
	m := addMission(c, StageIntercept, scout)
	m.FinalDate = c.Now().Add(24 * time.Hour)

	c.SendAircraftPursuingUFO(a, m.UFO)
	if a.Status != AircraftPursuing {
		t.Fatalf("status = %s, want pursuing", a.Status)
	}
	if err := c.ShootDownUFO(m.UFO.ID); err != nil {
		t.Fatalf("shoot down: %v", err)
	}
	c.Advance(c.Now().Add(time.Minute))
	if a.Status != AircraftReturning || a.Target != nil {
		t.Fatalf("expected aircraft to head home, got %s", a.Status)
	}
}

func TestCheckMoveIntoNewHomebase(t *testing.T) {
	c := newTestCampaign(0.5)
	alpha := &Base{ID: 1, Name: "Alpha", Hangars: 1}
	beta := &Base{ID: 2, Name: "Beta", Hangars: 1}
	a := newInterceptor(alpha)
	other := newInterceptor(beta)
	c.Aircraft = append(c.Aircraft, a, other)

	if got := c.CheckMoveIntoNewHomebase(a, alpha); got != "aircraft already based here" {
		t.Fatalf("same base: %q", got)
	}
	if got := c.CheckMoveIntoNewHomebase(a, beta); got != "no free hangar" {
		t.Fatalf("full base: %q", got)
	}
	beta.Hangars = 2
	a.Status = AircraftPursuing
	if got := c.CheckMoveIntoNewHomebase(a, beta); got != "aircraft is not in its homebase" {
		t.Fatalf("away: %q", got)
	}
	a.Status = AircraftHome
	if got := c.CheckMoveIntoNewHomebase(a, beta); got != "" {
		t.Fatalf("allowed move refused: %q", got)
	}
	c.MoveAircraftIntoNewHomebase(a, beta)
	if a.Homebase != beta || a.Status != AircraftReturning {
		t.Fatalf("transfer not started: %+v", a)
	}
}

func TestAircraftHasEnoughFuel(t *testing.T) {
	home := &Base{Pos: geo.Vector2{Lon: 0, Lat: 0}}
	a := newInterceptor(home)
	a.FuelKM = 1000
	if !a.HasEnoughFuel(geo.Vector2{Lon: 2, Lat: 0}) {
		t.Fatalf("expected ~445km round trip to fit in 1000km")
	}
	if a.HasEnoughFuel(geo.Vector2{Lon: 10, Lat: 0}) {
		t.Fatalf("expected ~2200km round trip to exceed 1000km")
	}
}
