// Package campaign runs the intercept missions of the alien campaign on the
// geoscape. All state is owned by a Campaign value and mutated only through
// Advance and the explicit outcome calls, from a single goroutine.
package campaign

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"campaign-sim/internal/telemetry"
	"campaign-sim/internal/ufo"
)

var (
	// ErrMissionNotFound is returned when no active mission has the given id.
	ErrMissionNotFound = errors.New("mission not found")
	// ErrUFONotFound is returned when no UFO on the geoscape has the given id.
	ErrUFONotFound = errors.New("ufo not found")
)

// MissionIntercept is the mission kind a UFO type must support to fly
// intercept missions.
const MissionIntercept = "intercept"

// Options configure a new Campaign.
type Options struct {
	ID         string
	Start      time.Time
	Seed       int64
	Rand       *rand.Rand
	Logger     *slog.Logger
	XVIStarted bool
	Interest   map[InterestCategory]float64
	UFOTypes   []*ufo.Type
	// DescentMin and DescentMax bound how long a UFO flies around after
	// coming from orbit before it picks its target.
	DescentMin time.Duration
	DescentMax time.Duration
	// Credits is the starting budget; BaseCost is charged per new base.
	Credits  int
	BaseCost int
}

// Campaign is the explicit campaign context: clock, registries, interest
// table and the random source every decision draws from.
type Campaign struct {
	ID            string
	Missions      []*Mission
	Bases         []*Base
	Installations []*Installation
	Aircraft      []*Aircraft
	UFOs          *ufo.Engine
	Interest      *InterestTable
	XVIStarted    bool
	Credits       int
	BaseCost      int

	basesBuilt int
	now        time.Time
	ufoTypes   []*ufo.Type
	rand       *rand.Rand
	randFloat  func() float64
	log        *slog.Logger
	handlers   map[Stage]stageHandler
	descentMin time.Duration
	descentMax time.Duration

	events   []telemetry.MissionEventRow
	interest []telemetry.InterestRow
}

// New creates a campaign starting at opts.Start.
func New(opts Options) *Campaign {
	rng := opts.Rand
	if rng == nil {
		rng = newRand(opts.Seed)
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	start := opts.Start
	if start.IsZero() {
		start = time.Date(2084, time.March, 1, 0, 0, 0, 0, time.UTC)
	}
	descentMin, descentMax := opts.DescentMin, opts.DescentMax
	if descentMin <= 0 {
		descentMin = time.Hour
	}
	if descentMax < descentMin {
		descentMax = 3 * time.Hour
	}
	c := &Campaign{
		ID:         opts.ID,
		UFOs:       ufo.NewEngine(rng),
		Interest:   NewInterestTable(opts.Interest),
		XVIStarted: opts.XVIStarted,
		Credits:    opts.Credits,
		BaseCost:   opts.BaseCost,
		now:        start,
		ufoTypes:   opts.UFOTypes,
		rand:       rng,
		randFloat:  rng.Float64,
		log:        log.With("campaign", opts.ID),
		descentMin: descentMin,
		descentMax: descentMax,
	}
	c.handlers = interceptHandlers()
	return c
}

// Now returns the campaign clock.
func (c *Campaign) Now() time.Time { return c.now }

// SpawnIntercept queues a new intercept mission. It becomes active on the
// next Advance.
func (c *Campaign) SpawnIntercept() *Mission {
	m := &Mission{
		ID:        uuid.New().String(),
		Stage:     StageNotActive,
		FinalDate: c.now,
		Created:   c.now,
	}
	c.Missions = append(c.Missions, m)
	return m
}

// Advance moves the campaign clock to now, flies every craft and runs at most
// one stage transition per mission. The clock never goes backwards.
func (c *Campaign) Advance(now time.Time) {
	elapsed := now.Sub(c.now)
	if elapsed < 0 {
		elapsed = 0
		now = c.now
	}
	c.now = now
	c.UFOs.Step(elapsed)
	c.moveAircraft(elapsed)

	pending := append([]*Mission(nil), c.Missions...)
	for _, m := range pending {
		if !c.active(m) {
			continue
		}
		if m.HasTimeLimit() {
			if !m.FinalDate.After(now) {
				c.NextStage(m)
			} else if m.UFO != nil && m.UFO.Arrived {
				c.UFOs.SetRandomDest(m.UFO)
			}
			continue
		}
		if m.UFO != nil && m.UFO.Arrived {
			c.NextStage(m)
		}
	}
}

// NextStage runs the handler of the mission's current stage. Unknown stages
// remove the mission.
func (c *Campaign) NextStage(m *Mission) {
	h, ok := c.handlers[m.Stage]
	if !ok {
		c.log.Warn("unknown stage, removing mission", "mission_id", m.ID, "stage", m.Stage)
		c.Remove(m)
		return
	}
	prev := m.Stage
	h(c, m)
	if c.active(m) && m.Stage != prev {
		c.emit(m, telemetry.EventStageChanged, prev.String()+" -> "+m.Stage.String())
	}
}

// Mission returns the active mission with the given id.
func (c *Campaign) Mission(id string) (*Mission, error) {
	for _, m := range c.Missions {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrMissionNotFound, id)
}

// FailMission ends the mission as a player victory.
func (c *Campaign) FailMission(id string) error {
	m, err := c.Mission(id)
	if err != nil {
		return err
	}
	c.MissionFailed(m)
	return nil
}

// ShootDownUFO marks the UFO as crashed and fails its mission.
func (c *Campaign) ShootDownUFO(id string) error {
	u := c.UFOs.Get(id)
	if u == nil {
		return fmt.Errorf("%w: %s", ErrUFONotFound, id)
	}
	u.Status = ufo.StatusCrashed
	if m := c.missionForUFO(u); m != nil {
		c.MissionFailed(m)
		return nil
	}
	c.UFOs.Remove(u)
	return nil
}

// DisarmUFO empties every weapon of the UFO.
func (c *Campaign) DisarmUFO(id string) error {
	u := c.UFOs.Get(id)
	if u == nil {
		return fmt.Errorf("%w: %s", ErrUFONotFound, id)
	}
	u.Disarm()
	return nil
}

// Remove deletes the mission and its UFO from the campaign.
func (c *Campaign) Remove(m *Mission) {
	for i, cur := range c.Missions {
		if cur != m {
			continue
		}
		c.Missions = append(c.Missions[:i], c.Missions[i+1:]...)
		c.emit(m, telemetry.EventMissionRemoved, "")
		if m.UFO != nil {
			c.UFOs.Remove(m.UFO)
		}
		return
	}
}

// HasInstallations reports whether at least one installation exists.
func (c *Campaign) HasInstallations() bool {
	return len(c.Installations) > 0
}

// DestroyInstallation removes the installation. Missions still heading for
// it give up and return to orbit.
func (c *Campaign) DestroyInstallation(inst *Installation) {
	for i, cur := range c.Installations {
		if cur == inst {
			c.Installations = append(c.Installations[:i], c.Installations[i+1:]...)
			break
		}
	}
	for _, m := range append([]*Mission(nil), c.Missions...) {
		if m.Target.Installation != inst {
			continue
		}
		m.Target.Installation = nil
		if m.Stage == StageReturnToOrbit {
			continue
		}
		prev := m.Stage
		c.Leave(m, false)
		c.emit(m, telemetry.EventStageChanged, prev.String()+" -> "+m.Stage.String())
	}
	c.log.Info("installation destroyed", "installation", inst.Name)
}

// AddInstallation registers a new installation.
func (c *Campaign) AddInstallation(inst *Installation) {
	c.Installations = append(c.Installations, inst)
}

// DrainEvents returns and clears the events produced since the last call.
func (c *Campaign) DrainEvents() ([]telemetry.MissionEventRow, []telemetry.InterestRow) {
	ev, in := c.events, c.interest
	c.events, c.interest = nil, nil
	return ev, in
}

func (c *Campaign) installationWeights() iter.Seq2[float64, *Installation] {
	return func(yield func(float64, *Installation) bool) {
		for _, inst := range c.Installations {
			if !yield(inst.AlienInterest, inst) {
				return
			}
		}
	}
}

func (c *Campaign) applyInterest(deltas []Delta) {
	c.Interest.Apply(deltas)
	for _, d := range deltas {
		c.interest = append(c.interest, telemetry.InterestRow{
			CampaignID: c.ID,
			Category:   string(d.Category),
			Delta:      d.Amount,
			Value:      c.Interest.Value(d.Category),
			Timestamp:  c.now,
		})
	}
}

func (c *Campaign) active(m *Mission) bool {
	for _, cur := range c.Missions {
		if cur == m {
			return true
		}
	}
	return false
}

func (c *Campaign) missionForUFO(u *ufo.UFO) *Mission {
	for _, m := range c.Missions {
		if m.UFO == u {
			return m
		}
	}
	return nil
}

func (c *Campaign) emit(m *Mission, event, details string) {
	row := telemetry.MissionEventRow{
		CampaignID: c.ID,
		MissionID:  m.ID,
		Event:      event,
		Stage:      m.Stage.String(),
		Lon:        m.Pos.Lon,
		Lat:        m.Pos.Lat,
		FinalDate:  m.FinalDate,
		Details:    details,
		Timestamp:  c.now,
	}
	if m.UFO != nil {
		row.UFOID = m.UFO.ID
	}
	if m.Target.Installation != nil {
		row.Installation = m.Target.Installation.Name
	}
	c.events = append(c.events, row)
}
