package campaign

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"campaign-sim/internal/geo"
	"campaign-sim/internal/telemetry"
	"campaign-sim/internal/ufo"
)

var (
	bomber = &ufo.Type{Name: "bomber", SpeedKMH: 1500, Missions: []string{MissionIntercept, ufo.MissionInterceptBombing}, Weapons: []ufo.Weapon{{Name: "plasma", Ammo: 4}}}
	scout  = &ufo.Type{Name: "scout", SpeedKMH: 2000, Missions: []string{MissionIntercept}, Weapons: []ufo.Weapon{{Name: "laser", Ammo: 4}}}
)

// newTestCampaign returns a campaign whose float draws always return draw.
// A negative draw keeps the seeded random source.
func newTestCampaign(draw float64, types ...*ufo.Type) *Campaign {
	if len(types) == 0 {
		types = []*ufo.Type{bomber}
	}
	c := New(Options{
		ID:       "test",
		Seed:     1,
		UFOTypes: types,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if draw >= 0 {
		c.randFloat = func() float64 { return draw }
	}
	return c
}

func addMission(c *Campaign, stage Stage, t *ufo.Type) *Mission {
	m := &Mission{ID: "m-" + stage.String(), Stage: stage, UFO: c.UFOs.Spawn(t)}
	c.Missions = append(c.Missions, m)
	return m
}

func within(got, lo, hi time.Time) bool {
	return !got.Before(lo) && !got.After(hi)
}

func TestNotActiveBeginsMission(t *testing.T) {
	c := newTestCampaign(-1)
	m := c.SpawnIntercept()
	now := c.Now()
	c.Advance(now)
	if m.Stage != StageComeFromOrbit {
		t.Fatalf("stage = %s, want come_from_orbit", m.Stage)
	}
	if m.UFO == nil || c.UFOs.Get(m.UFO.ID) == nil {
		t.Fatalf("expected a UFO on the geoscape")
	}
	if !within(m.FinalDate, now.Add(time.Hour), now.Add(3*time.Hour)) {
		t.Fatalf("final date %s outside descent window", m.FinalDate)
	}
}

func TestBeginWithoutCapableUFORemovesMission(t *testing.T) {
	c := newTestCampaign(-1, &ufo.Type{Name: "harvester", Missions: []string{"harvest"}})
	c.SpawnIntercept()
	c.Advance(c.Now())
	if len(c.Missions) != 0 {
		t.Fatalf("expected mission to be removed")
	}
}

func TestComeFromOrbitTargetsInstallation(t *testing.T) {
	c := newTestCampaign(0.1)
	inst := &Installation{Name: "sam-site", Pos: geo.Vector2{Lon: 12, Lat: 45}, AlienInterest: 1}
	c.AddInstallation(inst)
	m := addMission(c, StageComeFromOrbit, bomber)
	m.FinalDate = c.Now()

	c.Advance(c.Now())

	if m.Stage != StageMissionGoto {
		t.Fatalf("stage = %s, want mission_goto", m.Stage)
	}
	if m.Target.Installation != inst || m.Pos != inst.Pos || !m.PosAssigned {
		t.Fatalf("installation not assigned: %+v", m)
	}
	if m.HasTimeLimit() {
		t.Fatalf("mission_goto must wait for the UFO, not a timer")
	}
	if m.UFO.Dest != inst.Pos {
		t.Fatalf("ufo heading to %+v, want %+v", m.UFO.Dest, inst.Pos)
	}
}

func TestComeFromOrbitHuntsAircraft(t *testing.T) {
	cases := []struct {
		name  string
		draw  float64
		typ   *ufo.Type
		insts bool
	}{
		{"draw above probability", 0.5, bomber, true},
		{"type cannot bomb", 0.1, scout, true},
		{"no installations", 0.1, bomber, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestCampaign(tc.draw, tc.typ)
			if tc.insts {
				c.AddInstallation(&Installation{Name: "radar", AlienInterest: 1})
			}
			m := addMission(c, StageComeFromOrbit, tc.typ)
			m.FinalDate = c.Now()
			now := c.Now()
			c.Advance(now)
			if m.Stage != StageIntercept {
				t.Fatalf("stage = %s, want intercept", m.Stage)
			}
			if !within(m.FinalDate, now.Add(3*24*time.Hour), now.Add(6*24*time.Hour)) {
				t.Fatalf("final date %s outside hunt window", m.FinalDate)
			}
		})
	}
}

func TestGoToInstallationWithoutWeightRemovesMission(t *testing.T) {
	c := newTestCampaign(0.1)
	c.AddInstallation(&Installation{Name: "ignored", AlienInterest: 0})
	m := addMission(c, StageComeFromOrbit, bomber)
	m.FinalDate = c.Now()
	c.Advance(c.Now())
	if len(c.Missions) != 0 {
		t.Fatalf("expected mission to be removed")
	}
	if len(c.UFOs.UFOs) != 0 {
		t.Fatalf("expected the UFO to leave with the mission")
	}
}

func TestMissionGotoStartsAttack(t *testing.T) {
	c := newTestCampaign(0.5)
	inst := &Installation{Name: "sam-site", Pos: geo.Vector2{Lon: 12, Lat: 45}, AlienInterest: 1}
	c.AddInstallation(inst)
	m := addMission(c, StageMissionGoto, bomber)
	m.Target.Installation = inst
	m.Pos = geo.Vector2{Lon: 12.000001, Lat: 45}
	m.UFO.Pos = m.Pos
	m.UFO.Arrived = true

	now := c.Now()
	c.Advance(now)

	if m.Stage != StageIntercept {
		t.Fatalf("stage = %s, want intercept", m.Stage)
	}
	if !within(m.FinalDate, now.Add(time.Hour), now.Add(6*time.Hour)) {
		t.Fatalf("final date %s outside attack window", m.FinalDate)
	}
	if m.UFO.Arrived {
		t.Fatalf("ufo should circle the installation")
	}
}

func TestMissionGotoMissedInstallation(t *testing.T) {
	c := newTestCampaign(0.5)
	inst := &Installation{Name: "moved", Pos: geo.Vector2{Lon: 12, Lat: 45}, AlienInterest: 1}
	c.AddInstallation(inst)
	m := addMission(c, StageMissionGoto, bomber)
	m.Target.Installation = inst
	m.Pos = geo.Vector2{Lon: 13, Lat: 45}
	m.UFO.Arrived = true

	now := c.Now()
	c.Advance(now)
	if m.Stage != StageIntercept || !m.FinalDate.Equal(now) {
		t.Fatalf("expected immediate intercept check, got stage %s final %s", m.Stage, m.FinalDate)
	}
}

func TestInterceptRearmsEveryHour(t *testing.T) {
	c := newTestCampaign(0.5)
	m := addMission(c, StageIntercept, scout)
	start := c.Now()
	m.FinalDate = start

	for i := 1; i <= 3; i++ {
		c.Advance(m.FinalDate)
		if m.Stage != StageIntercept {
			t.Fatalf("tick %d: stage = %s, want intercept", i, m.Stage)
		}
		want := start.Add(time.Duration(i) * time.Hour)
		if !m.FinalDate.Equal(want) {
			t.Fatalf("tick %d: final date %s, want %s", i, m.FinalDate, want)
		}
	}
}

func TestInterceptLeavesWhenDisarmed(t *testing.T) {
	c := newTestCampaign(0.5)
	m := addMission(c, StageIntercept, scout)
	m.FinalDate = c.Now()
	m.OnGeoscape = true
	if err := c.DisarmUFO(m.UFO.ID); err != nil {
		t.Fatalf("disarm: %v", err)
	}
	c.Advance(c.Now())
	if m.Stage != StageReturnToOrbit {
		t.Fatalf("stage = %s, want return_to_orbit", m.Stage)
	}
	if m.HasTimeLimit() || m.OnGeoscape {
		t.Fatalf("leaving mission must drop time limit and geoscape marker")
	}
}

func TestInterceptDestroysTargetInstallation(t *testing.T) {
	c := newTestCampaign(0.5)
	inst := &Installation{Name: "sam-site", Pos: geo.Vector2{Lon: 12, Lat: 45}, AlienInterest: 1}
	c.AddInstallation(inst)
	m := addMission(c, StageIntercept, bomber)
	m.Target.Installation = inst
	m.Pos = inst.Pos
	m.FinalDate = c.Now()

	c.Advance(c.Now())

	if c.HasInstallations() {
		t.Fatalf("expected installation to be destroyed")
	}
	if m.Stage != StageReturnToOrbit {
		t.Fatalf("stage = %s, want return_to_orbit", m.Stage)
	}
	events, _ := c.DrainEvents()
	found := false
	for _, e := range events {
		if e.Event == telemetry.EventInstallationDestroyed && e.Installation == "sam-site" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected installation_destroyed event, got %+v", events)
	}
}

func TestDestroyedInstallationSendsOtherRaidersHome(t *testing.T) {
	c := newTestCampaign(0.5)
	inst := &Installation{Name: "sam-site", Pos: geo.Vector2{Lon: 12, Lat: 45}, AlienInterest: 1}
	c.AddInstallation(inst)
	attacker := addMission(c, StageIntercept, bomber)
	attacker.Target.Installation = inst
	attacker.Pos = inst.Pos
	attacker.FinalDate = c.Now()

	raider := &Mission{ID: "raider", Stage: StageMissionGoto, UFO: c.UFOs.Spawn(bomber), Pos: inst.Pos, PosAssigned: true, OnGeoscape: true}
	raider.Target.Installation = inst
	c.Missions = append(c.Missions, raider)
	c.UFOs.SendTo(raider.UFO, inst.Pos)
	raider.UFO.Pos = geo.Vector2{Lon: -60, Lat: -30}

	c.Advance(c.Now())

	if c.HasInstallations() {
		t.Fatalf("expected installation to be destroyed")
	}
	if raider.Stage != StageReturnToOrbit || raider.Target.Installation != nil {
		t.Fatalf("raider stage = %s target = %v, want return_to_orbit without target", raider.Stage, raider.Target.Installation)
	}
	if raider.OnGeoscape || raider.HasTimeLimit() {
		t.Fatalf("raider must leave the geoscape without a time limit")
	}
	events, _ := c.DrainEvents()
	destroyed := 0
	for _, e := range events {
		if e.Event == telemetry.EventInstallationDestroyed {
			destroyed++
		}
	}
	if destroyed != 1 {
		t.Fatalf("expected one installation_destroyed event, got %d", destroyed)
	}

	for i := 0; i < 30*24 && c.active(raider); i++ {
		c.Advance(c.Now().Add(time.Hour))
	}
	if c.active(raider) {
		t.Fatalf("raider never returned to orbit, stage %s", raider.Stage)
	}
}

func TestReturnToOrbitSucceedsOnce(t *testing.T) {
	c := newTestCampaign(0.5)
	m := addMission(c, StageReturnToOrbit, scout)
	m.UFO.Arrived = true

	c.Advance(c.Now())
	c.Advance(c.Now().Add(time.Hour))
	c.Advance(c.Now().Add(time.Hour))

	if len(c.Missions) != 0 {
		t.Fatalf("expected mission to be removed")
	}
	if got := c.Interest.Value(InterestRecon); got != 0.3 {
		t.Fatalf("recon = %v, want 0.3", got)
	}
	events, interest := c.DrainEvents()
	succeeded := 0
	for _, e := range events {
		if e.Event == telemetry.EventMissionSucceeded {
			succeeded++
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected one success event, got %d", succeeded)
	}
	if len(interest) != 3 {
		t.Fatalf("expected 3 interest rows without XVI, got %d", len(interest))
	}
}

func TestReturnToOrbitWaitsForUFO(t *testing.T) {
	c := newTestCampaign(0.5)
	m := addMission(c, StageIntercept, scout)
	m.FinalDate = c.Now()
	m.UFO.Disarm()
	c.Advance(c.Now())
	if m.Stage != StageReturnToOrbit {
		t.Fatalf("stage = %s, want return_to_orbit", m.Stage)
	}
	for i := 0; i < 48 && len(c.Missions) > 0; i++ {
		c.Advance(c.Now().Add(time.Hour))
	}
	if len(c.Missions) != 0 {
		t.Fatalf("ufo never made it back to orbit")
	}
}

func TestUnknownStageRemovesMission(t *testing.T) {
	c := newTestCampaign(0.5)
	m := addMission(c, Stage(42), scout)
	m.FinalDate = c.Now()
	c.Advance(c.Now())
	if len(c.Missions) != 0 {
		t.Fatalf("expected mission to be removed")
	}
	if got := c.Interest.Value(InterestRecon); got != 0 {
		t.Fatalf("unknown stage must not apply interest, recon = %v", got)
	}
}

func TestFailMissionAppliesDeltaSet(t *testing.T) {
	c := newTestCampaign(0.5)
	m := addMission(c, StageIntercept, scout)
	if err := c.FailMission(m.ID); err != nil {
		t.Fatalf("fail mission: %v", err)
	}
	if len(c.Missions) != 0 {
		t.Fatalf("expected mission to be removed")
	}
	_, interest := c.DrainEvents()
	if len(interest) != 4 {
		t.Fatalf("expected the full failure set, got %d rows", len(interest))
	}
	if err := c.FailMission(m.ID); !errors.Is(err, ErrMissionNotFound) {
		t.Fatalf("expected ErrMissionNotFound, got %v", err)
	}
}

func TestShootDownUFOFailsMission(t *testing.T) {
	c := newTestCampaign(0.5)
	m := addMission(c, StageIntercept, scout)
	if err := c.ShootDownUFO(m.UFO.ID); err != nil {
		t.Fatalf("shoot down: %v", err)
	}
	if len(c.Missions) != 0 || len(c.UFOs.UFOs) != 0 {
		t.Fatalf("expected mission and ufo to be gone")
	}
	if got := c.Interest.Value(InterestIntercept); got != 0.1 {
		t.Fatalf("intercept = %v, want 0.1", got)
	}
	if err := c.ShootDownUFO("nope"); !errors.Is(err, ErrUFONotFound) {
		t.Fatalf("expected ErrUFONotFound, got %v", err)
	}
}

func TestUFOStageWithoutUFOPanics(t *testing.T) {
	c := newTestCampaign(0.5)
	m := &Mission{ID: "broken", Stage: StageIntercept, FinalDate: c.Now()}
	c.Missions = append(c.Missions, m)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for intercept stage without UFO")
		}
	}()
	c.Advance(c.Now())
}

func TestAdvanceNeverGoesBackwards(t *testing.T) {
	c := newTestCampaign(0.5)
	start := c.Now()
	c.Advance(start.Add(-time.Hour))
	if !c.Now().Equal(start) {
		t.Fatalf("clock moved backwards to %s", c.Now())
	}
}
