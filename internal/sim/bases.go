package sim

import (
	"errors"
	"fmt"

	"campaign-sim/internal/campaign"
	"campaign-sim/internal/geo"
)

// ErrNoBuilding is returned when a building index is out of range.
var ErrNoBuilding = errors.New("no building at that index")

// BuildingView is one building of a base as the admin page lists it.
type BuildingView struct {
	Type     string `json:"type"`
	Capacity int    `json:"capacity,omitempty"`
	Working  bool   `json:"working"`
}

// BaseView is the admin view of a base.
type BaseView struct {
	ID            int            `json:"id"`
	Name          string         `json:"name"`
	Lon           float64        `json:"lon"`
	Lat           float64        `json:"lat"`
	CommandCentre bool           `json:"command_centre"`
	Hangars       int            `json:"hangars"`
	Employees     int            `json:"employees"`
	UnderAttack   bool           `json:"under_attack"`
	Buildings     []BuildingView `json:"buildings"`
}

// BasesView lists the bases together with the budget for new ones.
type BasesView struct {
	Credits  int        `json:"credits"`
	BaseCost int        `json:"base_cost"`
	NextName string     `json:"next_name,omitempty"`
	Bases    []BaseView `json:"bases"`
}

func newBaseView(b *campaign.Base) BaseView {
	v := BaseView{
		ID:            b.ID,
		Name:          b.Name,
		Lon:           b.Pos.Lon,
		Lat:           b.Pos.Lat,
		CommandCentre: b.CommandCentre,
		Hangars:       b.Hangars,
		Employees:     b.Employees,
		UnderAttack:   b.UnderAttack,
		Buildings:     []BuildingView{},
	}
	for _, bld := range b.Buildings {
		v.Buildings = append(v.Buildings, BuildingView{Type: string(bld.Type), Capacity: bld.Capacity, Working: bld.Working})
	}
	return v
}

// Bases returns a snapshot of the player bases.
func (s *Simulator) Bases() BasesView {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := BasesView{Credits: s.camp.Credits, BaseCost: s.camp.BaseCost, Bases: []BaseView{}}
	// the limit leaves NextName empty
	v.NextName, _ = s.camp.NextBaseName()
	for _, b := range s.camp.Bases {
		v.Bases = append(v.Bases, newBaseView(b))
	}
	return v
}

// BuildBase founds a base at the given position.
func (s *Simulator) BuildBase(name string, pos geo.Vector2) (BaseView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.camp.BuildBase(name, pos)
	if err != nil {
		return BaseView{}, err
	}
	return newBaseView(b), nil
}

// RenameBase renames the base with the given id.
func (s *Simulator) RenameBase(id int, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.camp.Base(id)
	if err != nil {
		return err
	}
	return s.camp.RenameBase(b, name)
}

// DestroyBuilding tears down building i of the base with the given id.
func (s *Simulator) DestroyBuilding(id, i int, confirmed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.camp.Base(id)
	if err != nil {
		return err
	}
	if i < 0 || i >= len(b.Buildings) {
		return fmt.Errorf("%w: %d", ErrNoBuilding, i)
	}
	return s.camp.DestroyBuilding(b, b.Buildings[i], confirmed)
}
