package ufo

import (
	"math/rand"
	"testing"
	"time"

	"campaign-sim/internal/geo"
)

var scout = &Type{Name: "scout", SpeedKMH: 1000, Missions: []string{"intercept"}, Weapons: []Weapon{{Name: "laser", Ammo: 2}}}

func TestEngine_SpawnCopiesWeapons(t *testing.T) {
	eng := NewEngine(rand.New(rand.NewSource(1)))
	u := eng.Spawn(scout)
	if len(eng.UFOs) != 1 || eng.Get(u.ID) != u {
		t.Fatalf("expected spawned ufo to be registered")
	}
	u.Disarm()
	if scout.Weapons[0].Ammo != 2 {
		t.Fatalf("disarming a ufo must not touch its type")
	}
	if u.CanShoot() {
		t.Fatalf("expected disarmed ufo to be unable to shoot")
	}
}

func TestEngine_SendToArrives(t *testing.T) {
	eng := NewEngine(rand.New(rand.NewSource(1)))
	u := eng.Spawn(scout)
	u.Pos = geo.Vector2{Lon: 0, Lat: 0}
	dest := geo.Vector2{Lon: 1, Lat: 0}
	eng.SendTo(u, dest)
	eng.Step(time.Minute)
	if u.Arrived {
		t.Fatalf("should not arrive after one minute")
	}
	eng.Step(time.Hour)
	if !u.Arrived || u.Pos != dest {
		t.Fatalf("expected arrival at %+v, got %+v", dest, u.Pos)
	}
}

func TestEngine_CircleNeverArrives(t *testing.T) {
	eng := NewEngine(rand.New(rand.NewSource(2)))
	u := eng.Spawn(scout)
	center := geo.Vector2{Lon: 10, Lat: 10}
	u.Pos = center
	eng.SetRandomDestAround(u, center)
	for i := 0; i < 20; i++ {
		eng.Step(time.Hour)
	}
	if u.Arrived {
		t.Fatalf("circling ufo must keep flying")
	}
	if geo.DistanceKM(u.Pos, center) > 2*circleRadiusKM {
		t.Fatalf("circling ufo drifted away: %+v", u.Pos)
	}
}

func TestEngine_LandedDoesNotMove(t *testing.T) {
	eng := NewEngine(rand.New(rand.NewSource(1)))
	u := eng.Spawn(scout)
	start := u.Pos
	u.Landed = true
	eng.Step(time.Hour)
	if u.Pos != start {
		t.Fatalf("landed ufo moved")
	}
}

func TestEngine_Remove(t *testing.T) {
	eng := NewEngine(rand.New(rand.NewSource(1)))
	a := eng.Spawn(scout)
	b := eng.Spawn(scout)
	eng.Remove(a)
	if len(eng.UFOs) != 1 || eng.UFOs[0] != b {
		t.Fatalf("unexpected fleet after remove: %v", eng.UFOs)
	}
}

func TestTypeCanDoMission(t *testing.T) {
	bomber := &Type{Missions: []string{"intercept", MissionInterceptBombing}}
	if !bomber.CanDoMission(MissionInterceptBombing) {
		t.Fatalf("bomber should attack installations")
	}
	if scout.CanDoMission(MissionInterceptBombing) {
		t.Fatalf("scout should not attack installations")
	}
	var none *Type
	if none.CanDoMission("intercept") {
		t.Fatalf("nil type can do nothing")
	}
}
