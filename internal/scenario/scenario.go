package scenario

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Trigger events fed by the simulator.
const (
	EventDaysElapsed            = "days_elapsed"
	EventMissionsSucceeded      = "missions_succeeded"
	EventMissionsFailed         = "missions_failed"
	EventInstallationsDestroyed = "installations_destroyed"
)

// Scenario defines a campaign script with ordered phases and an overall description.
type Scenario struct {
	Name        string  `yaml:"name,omitempty"`
	Description string  `yaml:"description,omitempty"`
	Phases      []Phase `yaml:"phases"`
}

// Phase sets how often intercept missions spawn and whether XVI is spreading.
type Phase struct {
	Name              string    `yaml:"name"`
	Description       string    `yaml:"description,omitempty"`
	MissionRatePerDay float64   `yaml:"mission_rate_per_day"`
	XVI               bool      `yaml:"xvi,omitempty"`
	Triggers          []Trigger `yaml:"triggers,omitempty"`
}

// Trigger moves the scenario to another phase once an event counter reaches Value.
type Trigger struct {
	Event string `yaml:"event"`
	Value int    `yaml:"value"`
	Next  string `yaml:"next"`
}

// Event represents a runtime counter that may advance the scenario.
type Event struct {
	Type  string
	Value int
}

// Load reads a YAML scenario definition from disk.
func Load(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Resolve returns the built-in arc called name, or loads name as a file.
func Resolve(name string) (*Scenario, error) {
	if arc, ok := BuiltIn()[name]; ok {
		return &arc, nil
	}
	return Load(name)
}

// Validate checks that the scenario has phases and every trigger points to
// a known phase.
func (s *Scenario) Validate() error {
	if len(s.Phases) == 0 {
		return errors.New("scenario has no phases")
	}
	names := make(map[string]bool, len(s.Phases))
	for _, p := range s.Phases {
		names[p.Name] = true
	}
	for _, p := range s.Phases {
		if p.MissionRatePerDay < 0 {
			return fmt.Errorf("phase %s: negative mission rate", p.Name)
		}
		for _, tr := range p.Triggers {
			if !names[tr.Next] {
				return fmt.Errorf("phase %s: trigger %s points to unknown phase %q", p.Name, tr.Event, tr.Next)
			}
		}
	}
	return nil
}

// Phase returns the phase called name.
func (s *Scenario) Phase(name string) (Phase, bool) {
	for _, p := range s.Phases {
		if p.Name == name {
			return p, true
		}
	}
	return Phase{}, false
}

// NextPhase returns the name of the next phase given the current phase and event.
// If no trigger matches, ok will be false.
func (s *Scenario) NextPhase(current string, ev Event) (next string, ok bool) {
	for _, p := range s.Phases {
		if p.Name != current {
			continue
		}
		for _, tr := range p.Triggers {
			if tr.Event == ev.Type && ev.Value >= tr.Value {
				return tr.Next, true
			}
		}
	}
	return "", false
}

// Tracker follows a running scenario. Counters are relative to the moment the
// current phase was entered.
type Tracker struct {
	s       *Scenario
	current string
	base    map[string]int
}

// NewTracker starts s at its first phase.
func NewTracker(s *Scenario) *Tracker {
	t := &Tracker{s: s, base: map[string]int{}}
	if len(s.Phases) > 0 {
		t.current = s.Phases[0].Name
	}
	return t
}

// Current returns the active phase.
func (t *Tracker) Current() Phase {
	p, _ := t.s.Phase(t.current)
	return p
}

// Observe feeds absolute counters and moves through as many phases as they
// allow. It returns true if the phase changed.
func (t *Tracker) Observe(counters map[string]int) bool {
	changed := false
	// bounded by the phase count so a trigger cycle cannot spin forever
	for range t.s.Phases {
		moved := false
		for _, typ := range []string{EventDaysElapsed, EventMissionsSucceeded, EventMissionsFailed, EventInstallationsDestroyed} {
			ev := Event{Type: typ, Value: counters[typ] - t.base[typ]}
			if next, ok := t.s.NextPhase(t.current, ev); ok {
				t.current = next
				for k, v := range counters {
					t.base[k] = v
				}
				moved, changed = true, true
				break
			}
		}
		if !moved {
			break
		}
	}
	return changed
}
