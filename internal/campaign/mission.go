package campaign

import (
	"time"

	"campaign-sim/internal/geo"
	"campaign-sim/internal/ufo"
)

// Target is what an intercept mission goes after. A nil Installation means
// the UFO hunts aircraft.
type Target struct {
	Installation *Installation
}

// Mission is one intercept mission. A zero FinalDate means the stage has no
// time limit and ends when the UFO reaches its destination.
type Mission struct {
	ID          string
	Stage       Stage
	FinalDate   time.Time
	UFO         *ufo.UFO
	Pos         geo.Vector2
	PosAssigned bool
	OnGeoscape  bool
	Target      Target
	Created     time.Time
}

// HasTimeLimit reports whether the current stage ends at FinalDate.
func (m *Mission) HasTimeLimit() bool {
	return !m.FinalDate.IsZero()
}
