package campaign

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"campaign-sim/internal/geo"
)

// MaxBases is how many bases a campaign may found.
const MaxBases = 8

var (
	// ErrBaseLimit is returned when MaxBases bases already exist.
	ErrBaseLimit = errors.New("base limit reached")
	// ErrNotEnoughCredits is returned when the base cost would use up the budget.
	ErrNotEnoughCredits = errors.New("not enough credits to set up a new base")
	// ErrInvalidBaseName is returned for blank names and names with a double quote.
	ErrInvalidBaseName = errors.New("invalid base name")
	// ErrBaseNotFound is returned when no base has the given id.
	ErrBaseNotFound = errors.New("base not found")
	// ErrBuildingNotFound is returned when the building is not part of the base.
	ErrBuildingNotFound = errors.New("building not found")
	// ErrBaseUnderAttack is returned for any teardown while the base is attacked.
	ErrBaseUnderAttack = errors.New("base is under attack, buildings cannot be destroyed")
	// ErrEntrance is returned for attempts to tear down the entrance.
	ErrEntrance = errors.New("the entrance of a base cannot be destroyed")
	// ErrNeedsConfirmation wraps the warning shown before aircraft or
	// employees are lost with a building.
	ErrNeedsConfirmation = errors.New("destroying this building needs confirmation")
)

// BuildingType is the kind of a base building.
type BuildingType string

const (
	BuildingEntrance      BuildingType = "entrance"
	BuildingCommandCentre BuildingType = "command_centre"
	BuildingHangar        BuildingType = "hangar"
	BuildingQuarters      BuildingType = "quarters"
)

// Building is one building of a base. Capacity counts aircraft for hangars
// and employees for quarters.
type Building struct {
	Type     BuildingType
	Capacity int
	Working  bool
}

// AddBuilding puts bld into the base and updates the capabilities it grants.
func (b *Base) AddBuilding(bld *Building) {
	b.Buildings = append(b.Buildings, bld)
	switch bld.Type {
	case BuildingCommandCentre:
		b.CommandCentre = true
	case BuildingHangar:
		b.Hangars += bld.Capacity
	}
}

// QuartersCapacity is the number of employees the base can house.
func (b *Base) QuartersCapacity() int {
	n := 0
	for _, bld := range b.Buildings {
		if bld.Type == BuildingQuarters {
			n += bld.Capacity
		}
	}
	return n
}

// ValidBaseName reports whether name may be used for a base. Names must not be
// blank and may not contain a double quote.
func ValidBaseName(name string) bool {
	return strings.TrimSpace(name) != "" && !strings.ContainsRune(name, '"')
}

// NextBaseName returns the title offered for the next base: "Home" for the
// first one, then the lowest "Base #i" (i >= 2) not yet in use.
func (c *Campaign) NextBaseName() (string, error) {
	if len(c.Bases) >= MaxBases {
		return "", ErrBaseLimit
	}
	if len(c.Bases) == 0 {
		return "Home", nil
	}
	for i := 2; ; i++ {
		name := fmt.Sprintf("Base #%d", i)
		if !slices.ContainsFunc(c.Bases, func(b *Base) bool { return b.Name == name }) {
			return name, nil
		}
	}
}

// BuildBase founds a new base at pos and charges the base cost. An empty name
// takes NextBaseName; an invalid one falls back to "Base". The first base of
// a campaign comes with a command centre, a hangar and living quarters.
func (c *Campaign) BuildBase(name string, pos geo.Vector2) (*Base, error) {
	if len(c.Bases) >= MaxBases {
		return nil, ErrBaseLimit
	}
	if c.Credits-c.BaseCost <= 0 {
		return nil, ErrNotEnoughCredits
	}
	if name == "" {
		var err error
		if name, err = c.NextBaseName(); err != nil {
			return nil, err
		}
	}
	if !ValidBaseName(name) {
		name = "Base"
	}

	id := 1
	for _, b := range c.Bases {
		id = max(id, b.ID+1)
	}
	b := &Base{ID: id, Name: name, Pos: pos}
	b.AddBuilding(&Building{Type: BuildingEntrance, Working: true})
	if c.basesBuilt == 0 && len(c.Bases) == 0 {
		b.AddBuilding(&Building{Type: BuildingCommandCentre, Working: true})
		b.AddBuilding(&Building{Type: BuildingHangar, Capacity: 1, Working: true})
		b.AddBuilding(&Building{Type: BuildingQuarters, Capacity: 10, Working: true})
	}
	c.Bases = append(c.Bases, b)
	c.basesBuilt++
	c.Credits -= c.BaseCost
	c.log.Info("base built", "base", b.Name, "credits", c.Credits)
	return b, nil
}

// Base returns the base with the given id.
func (c *Campaign) Base(id int) (*Base, error) {
	for _, b := range c.Bases {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrBaseNotFound, id)
}

// RenameBase gives b a new name. Invalid names leave the old one in place.
func (c *Campaign) RenameBase(b *Base, name string) error {
	if !ValidBaseName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidBaseName, name)
	}
	c.log.Info("base renamed", "base", b.Name, "name", name)
	b.Name = name
	return nil
}

// DestroyBuilding tears bld down. Buildings are never destroyed while the base
// is under attack and the entrance is never destroyed. Tearing down a working
// hangar that is full or quarters whose staff would lose their beds returns
// ErrNeedsConfirmation unless confirmed is set; confirmed destruction takes
// the parked aircraft or the homeless employees with it.
func (c *Campaign) DestroyBuilding(b *Base, bld *Building, confirmed bool) error {
	i := slices.Index(b.Buildings, bld)
	if i < 0 {
		return ErrBuildingNotFound
	}
	if b.UnderAttack {
		return ErrBaseUnderAttack
	}
	if bld.Type == BuildingEntrance {
		return ErrEntrance
	}
	if bld.Working && !confirmed {
		switch bld.Type {
		case BuildingHangar:
			if b.Hangars-c.aircraftAt(b) <= 0 {
				return fmt.Errorf("%w: aircraft inside the hangar will be destroyed", ErrNeedsConfirmation)
			}
		case BuildingQuarters:
			if b.QuartersCapacity()-b.Employees < bld.Capacity {
				return fmt.Errorf("%w: employees inside the quarters will be killed", ErrNeedsConfirmation)
			}
		}
	}

	b.Buildings = slices.Delete(b.Buildings, i, i+1)
	switch bld.Type {
	case BuildingCommandCentre:
		b.CommandCentre = slices.ContainsFunc(b.Buildings, func(o *Building) bool {
			return o.Type == BuildingCommandCentre
		})
	case BuildingHangar:
		b.Hangars = max(0, b.Hangars-bld.Capacity)
		c.scrapParkedAircraft(b)
	case BuildingQuarters:
		b.Employees = min(b.Employees, b.QuartersCapacity())
	}
	c.log.Info("building destroyed", "base", b.Name, "building", string(bld.Type))
	return nil
}

// scrapParkedAircraft removes aircraft parked at b until the rest fit into its
// hangars. Aircraft away from the base are left alone.
func (c *Campaign) scrapParkedAircraft(b *Base) {
	for i := len(c.Aircraft) - 1; i >= 0 && c.aircraftAt(b) > b.Hangars; i-- {
		a := c.Aircraft[i]
		if a.Homebase != b || a.Status != AircraftHome {
			continue
		}
		c.Aircraft = slices.Delete(c.Aircraft, i, i+1)
		c.log.Info("aircraft destroyed with its hangar", "aircraft", a.Name, "base", b.Name)
	}
}
