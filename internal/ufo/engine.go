// Package ufo maintains the enemy craft flying over the geoscape.
package ufo

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"campaign-sim/internal/geo"
)

// circleRadiusKM bounds the random waypoints used while circling a target.
const circleRadiusKM = 50.0

// Engine maintains and moves the UFO fleet.
type Engine struct {
	UFOs []*UFO
	rand *rand.Rand
}

// NewEngine creates an empty fleet using rng for every random decision.
func NewEngine(rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{rand: rng}
}

// Spawn adds a UFO of type t at a random position, heading to a random destination.
func (e *Engine) Spawn(t *Type) *UFO {
	u := &UFO{
		ID:      uuid.New().String(),
		Type:    t,
		Pos:     geo.RandomPos(e.rand),
		Status:  StatusFlying,
		Weapons: append([]Weapon(nil), t.Weapons...),
	}
	e.SetRandomDest(u)
	e.UFOs = append(e.UFOs, u)
	return u
}

// Get returns the UFO with the given id, or nil.
func (e *Engine) Get(id string) *UFO {
	for _, u := range e.UFOs {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// Remove drops the UFO from the fleet.
func (e *Engine) Remove(u *UFO) {
	for i, cur := range e.UFOs {
		if cur == u {
			e.UFOs = append(e.UFOs[:i], e.UFOs[i+1:]...)
			return
		}
	}
}

// SendTo makes the UFO fly straight to dest and stop there.
func (e *Engine) SendTo(u *UFO, dest geo.Vector2) {
	u.Dest = dest
	u.mode = modeDirect
	u.Arrived = false
	u.Landed = false
	u.Status = StatusFlying
}

// SetRandomDest makes the UFO roam toward a random position.
func (e *Engine) SetRandomDest(u *UFO) {
	u.Dest = geo.RandomPos(e.rand)
	u.mode = modeRoam
	u.Arrived = false
}

// SetRandomDestAround makes the UFO circle around center until told otherwise.
func (e *Engine) SetRandomDestAround(u *UFO, center geo.Vector2) {
	u.center = center
	u.Dest = geo.RandomAround(e.rand, center, circleRadiusKM)
	u.mode = modeCircle
	u.Arrived = false
}

// Step moves every flying UFO for the elapsed campaign time.
func (e *Engine) Step(elapsed time.Duration) {
	hours := elapsed.Hours()
	for _, u := range e.UFOs {
		if u.Status != StatusFlying || u.Landed || u.Arrived || u.Type == nil {
			continue
		}
		pos, arrived := geo.MoveToward(u.Pos, u.Dest, u.Type.SpeedKMH*hours)
		u.Pos = pos
		if !arrived {
			continue
		}
		if u.mode == modeCircle {
			u.Dest = geo.RandomAround(e.rand, u.center, circleRadiusKM)
			continue
		}
		u.Arrived = true
	}
}
