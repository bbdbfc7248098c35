// Simulator driving a campaign against the wall clock
package sim

import (
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"campaign-sim/internal/campaign"
	"campaign-sim/internal/intercept"
	"campaign-sim/internal/scenario"
	"campaign-sim/internal/telemetry"
)

// Options configure a Simulator.
type Options struct {
	Campaign *campaign.Campaign
	Scenario *scenario.Scenario
	Writer   Writer
	// Tick is the wall-clock interval between steps.
	Tick time.Duration
	// TimeScale is how many campaign seconds pass per wall second.
	TimeScale float64
	// MissionRatePerDay is used when no scenario is set.
	MissionRatePerDay float64
	Rand              *rand.Rand
	Logger            *slog.Logger
}

// MissionView is the admin and TUI view of one mission.
type MissionView struct {
	ID           string    `json:"id"`
	Stage        string    `json:"stage"`
	FinalDate    time.Time `json:"final_date"`
	UFOID        string    `json:"ufo_id,omitempty"`
	UFOType      string    `json:"ufo_type,omitempty"`
	UFOArmed     bool      `json:"ufo_armed"`
	Installation string    `json:"installation,omitempty"`
	Lon          float64   `json:"lon"`
	Lat          float64   `json:"lat"`
	OnGeoscape   bool      `json:"on_geoscape"`
}

// Status summarizes the campaign for the admin page.
type Status struct {
	CampaignID    string             `json:"campaign_id"`
	Now           time.Time          `json:"now"`
	Phase         string             `json:"phase,omitempty"`
	XVIStarted    bool               `json:"xvi_started"`
	Missions      []MissionView      `json:"missions"`
	Interest      map[string]float64 `json:"interest"`
	Installations []string           `json:"installations"`
	Succeeded     int                `json:"succeeded"`
	Failed        int                `json:"failed"`
	Destroyed     int                `json:"destroyed"`
}

// Simulator advances a campaign on a ticker and fans its rows out to writers.
// Every exported method is safe for concurrent use.
type Simulator struct {
	mu        sync.Mutex
	camp      *campaign.Campaign
	tracker   *scenario.Tracker
	writer    Writer
	tick      time.Duration
	timeScale float64
	baseRate  float64
	rand      *rand.Rand
	log       *slog.Logger
	start     time.Time

	succeeded int
	failed    int
	destroyed int
}

// NewSimulator wraps opts.Campaign.
func NewSimulator(opts Options) *Simulator {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	tick := opts.Tick
	if tick <= 0 {
		tick = time.Second
	}
	scale := opts.TimeScale
	if scale <= 0 {
		scale = 3600
	}
	s := &Simulator{
		camp:      opts.Campaign,
		writer:    opts.Writer,
		tick:      tick,
		timeScale: scale,
		baseRate:  opts.MissionRatePerDay,
		rand:      rng,
		log:       log,
		start:     opts.Campaign.Now(),
	}
	if opts.Scenario != nil {
		s.tracker = scenario.NewTracker(opts.Scenario)
		s.camp.XVIStarted = s.camp.XVIStarted || s.tracker.Current().XVI
	}
	return s
}

// Step advances the campaign by one tick's worth of campaign time.
func (s *Simulator) Step() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.step(time.Duration(float64(s.tick) * s.timeScale))
}

// StepFor advances the campaign by d of campaign time.
func (s *Simulator) StepFor(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.step(d)
}

func (s *Simulator) step(d time.Duration) {
	s.spawnMissions(d)
	s.camp.Advance(s.camp.Now().Add(d))
	s.flush()
	s.advanceScenario()
	s.writeState()
}

// spawnMissions draws how many missions start during d from the phase rate.
func (s *Simulator) spawnMissions(d time.Duration) {
	rate := s.missionRate()
	if rate <= 0 {
		return
	}
	expected := rate * d.Hours() / 24
	n := int(expected)
	if s.rand.Float64() < expected-float64(n) {
		n++
	}
	for i := 0; i < n; i++ {
		m := s.camp.SpawnIntercept()
		s.log.Debug("intercept mission spawned", "mission_id", m.ID)
	}
}

func (s *Simulator) missionRate() float64 {
	if s.tracker != nil {
		return s.tracker.Current().MissionRatePerDay
	}
	return s.baseRate
}

func (s *Simulator) flush() {
	events, interest := s.camp.DrainEvents()
	for _, e := range events {
		switch e.Event {
		case telemetry.EventMissionSucceeded:
			s.succeeded++
		case telemetry.EventMissionFailed:
			s.failed++
		case telemetry.EventInstallationDestroyed:
			s.destroyed++
		}
	}
	if s.writer == nil {
		return
	}
	if err := writeEvents(s.writer, events); err != nil {
		s.log.Error("write mission events", "err", err)
	}
	if err := writeInterests(s.writer, interest); err != nil {
		s.log.Error("write interest", "err", err)
	}
}

func (s *Simulator) advanceScenario() {
	if s.tracker == nil {
		return
	}
	days := int(s.camp.Now().Sub(s.start).Hours() / 24)
	changed := s.tracker.Observe(map[string]int{
		scenario.EventDaysElapsed:            days,
		scenario.EventMissionsSucceeded:      s.succeeded,
		scenario.EventMissionsFailed:         s.failed,
		scenario.EventInstallationsDestroyed: s.destroyed,
	})
	if !changed {
		return
	}
	p := s.tracker.Current()
	if p.XVI && !s.camp.XVIStarted {
		s.camp.XVIStarted = true
		s.log.Info("xvi outbreak started")
	}
	s.log.Info("scenario phase changed", "phase", p.Name, "mission_rate_per_day", p.MissionRatePerDay)
}

func (s *Simulator) phase() string {
	if s.tracker == nil {
		return ""
	}
	return s.tracker.Current().Name
}

func (s *Simulator) writeState() {
	if s.writer == nil {
		return
	}
	row := telemetry.CampaignStateRow{
		CampaignID:     s.camp.ID,
		Phase:          s.phase(),
		ActiveMissions: len(s.camp.Missions),
		UFOs:           len(s.camp.UFOs.UFOs),
		Installations:  len(s.camp.Installations),
		XVIStarted:     s.camp.XVIStarted,
		Timestamp:      s.camp.Now(),
	}
	if err := s.writer.WriteState(row); err != nil {
		s.log.Error("write state", "err", err)
	}
}

// Status returns a snapshot of the campaign.
func (s *Simulator) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Status{
		CampaignID: s.camp.ID,
		Now:        s.camp.Now(),
		Phase:      s.phase(),
		XVIStarted: s.camp.XVIStarted,
		Missions:   s.missions(),
		Interest:   s.interest(),
		Succeeded:  s.succeeded,
		Failed:     s.failed,
		Destroyed:  s.destroyed,
	}
	for _, i := range s.camp.Installations {
		st.Installations = append(st.Installations, i.Name)
	}
	return st
}

// Missions returns a snapshot of the active missions.
func (s *Simulator) Missions() []MissionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.missions()
}

func (s *Simulator) missions() []MissionView {
	out := make([]MissionView, 0, len(s.camp.Missions))
	for _, m := range s.camp.Missions {
		v := MissionView{
			ID:         m.ID,
			Stage:      m.Stage.String(),
			FinalDate:  m.FinalDate,
			Lon:        m.Pos.Lon,
			Lat:        m.Pos.Lat,
			OnGeoscape: m.OnGeoscape,
		}
		if m.UFO != nil {
			v.UFOID = m.UFO.ID
			v.UFOArmed = m.UFO.CanShoot()
			if m.UFO.Type != nil {
				v.UFOType = m.UFO.Type.Name
			}
		}
		if m.Target.Installation != nil {
			v.Installation = m.Target.Installation.Name
		}
		out = append(out, v)
	}
	return out
}

// Interest returns the current alien interest values.
func (s *Simulator) Interest() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interest()
}

func (s *Simulator) interest() map[string]float64 {
	snap := s.camp.Interest.Snapshot()
	out := make(map[string]float64, len(snap))
	for k, v := range snap {
		out[string(k)] = v
	}
	return out
}

// FailMission ends the mission as a player victory and flushes its rows.
func (s *Simulator) FailMission(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.camp.FailMission(id); err != nil {
		return err
	}
	s.flush()
	return nil
}

// ShootDownUFO crashes the UFO and fails its mission.
func (s *Simulator) ShootDownUFO(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.camp.ShootDownUFO(id); err != nil {
		return err
	}
	s.flush()
	return nil
}

// DisarmUFO empties the UFO's weapons so its mission leaves on the next check.
func (s *Simulator) DisarmUFO(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.camp.DisarmUFO(id)
}

// ErrNoTarget is returned when an intercept request names neither a mission nor a UFO.
var ErrNoTarget = errors.New("intercept needs a mission or a ufo")

// InterceptPopup lists the aircraft that can be sent to the mission or UFO.
func (s *Simulator) InterceptPopup(missionID, ufoID string) (*intercept.Popup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.popup(missionID, ufoID)
}

func (s *Simulator) popup(missionID, ufoID string) (*intercept.Popup, error) {
	switch {
	case missionID != "":
		m, err := s.camp.Mission(missionID)
		if err != nil {
			return nil, err
		}
		return intercept.ForMission(s.camp, m), nil
	case ufoID != "":
		u := s.camp.UFOs.Get(ufoID)
		if u == nil {
			return nil, campaign.ErrUFONotFound
		}
		return intercept.ForUFO(s.camp, u), nil
	}
	return nil, ErrNoTarget
}

// SendAircraft launches row i of the intercept popup and returns the aircraft name.
func (s *Simulator) SendAircraft(missionID, ufoID string, i int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.popup(missionID, ufoID)
	if err != nil {
		return "", err
	}
	a, err := p.Send(s.camp, i)
	if err != nil {
		return "", err
	}
	s.flush()
	return a.Name, nil
}
