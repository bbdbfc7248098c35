// Package intercept builds the player-side intercept choices: which aircraft
// can be sent to a mission or after a UFO, which defences can fire at it, and
// which base an aircraft may be moved to.
package intercept

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"time"

	"campaign-sim/internal/campaign"
	"campaign-sim/internal/geo"
	"campaign-sim/internal/ufo"
)

// MaxAircraft caps how many aircraft a popup lists.
const MaxAircraft = 64

// Notices shown when a list is empty.
const (
	NoticeNoMissionCraft = "No craft available, no pilot assigned, or no tactical teams assigned to available craft."
	NoticeNoUFOCraft     = "No craft available, no pilot assigned, or no weapon or ammo equipped."
	NoticeNoDefence      = "No defence system operational or no weapon or ammo equipped."
)

var (
	ErrInvalidSelection = errors.New("invalid selection")
	ErrNoCommandCentre  = errors.New("no command centre operational in homebase of this aircraft, aircraft cannot start")
)

// Row is one aircraft entry of a popup.
type Row struct {
	Aircraft   *campaign.Aircraft `json:"-"`
	Name       string             `json:"name"`
	Text       string             `json:"text"`
	ETA        time.Duration      `json:"eta"`
	EnoughFuel bool               `json:"enough_fuel"`
}

// Defence is a base or installation able to fire at the UFO.
type Defence struct {
	Name         string                 `json:"name"`
	Base         *campaign.Base         `json:"-"`
	Installation *campaign.Installation `json:"-"`
}

// Popup is the list of aircraft that can be sent to a mission or a UFO.
// Exactly one of Mission and UFO is set.
type Popup struct {
	Mission       *campaign.Mission `json:"-"`
	UFO           *ufo.UFO          `json:"-"`
	Rows          []Row             `json:"rows"`
	Notice        string            `json:"notice,omitempty"`
	Defences      []Defence         `json:"defences,omitempty"`
	DefenceNotice string            `json:"defence_notice,omitempty"`
}

func byDistance(list []*campaign.Aircraft, pos geo.Vector2) []*campaign.Aircraft {
	sorted := slices.Clone(list)
	slices.SortStableFunc(sorted, func(a, b *campaign.Aircraft) int {
		return cmp.Compare(geo.DistanceOnGlobe(a.Pos, pos), geo.DistanceOnGlobe(b.Pos, pos))
	})
	return sorted
}

// ForMission lists the aircraft that can fly to m, closest first. Aircraft
// without a team cannot go on a ground mission. Missions without a site on
// the geoscape get an empty list.
func ForMission(c *campaign.Campaign, m *campaign.Mission) *Popup {
	p := &Popup{Mission: m}
	// only missions with a known site on the geoscape can be flown to
	if !m.PosAssigned || !m.OnGeoscape {
		p.Notice = NoticeNoMissionCraft
		return p
	}
	for _, a := range byDistance(c.Aircraft, m.Pos) {
		if a.Status == campaign.AircraftCrashed {
			continue
		}
		if a.TeamSize <= 0 || !a.CanIntercept() {
			continue
		}
		eta := a.TimeTo(m.Pos)
		p.Rows = append(p.Rows, Row{
			Aircraft:   a,
			Name:       a.Name,
			ETA:        eta,
			EnoughFuel: a.HasEnoughFuel(m.Pos),
			Text: fmt.Sprintf("%s (%d/%d)\t%s\t%s\t%s",
				a.Name, a.TeamSize, a.MaxTeamSize, a.Status, a.Homebase.Name, FormatETA(eta)),
		})
		if len(p.Rows) >= MaxAircraft {
			break
		}
	}
	if len(p.Rows) == 0 {
		p.Notice = NoticeNoMissionCraft
	}
	return p
}

// ForUFO lists the armed aircraft that can chase u and the defences that can
// shoot at it. Aircraft short on fuel are listed but flagged.
func ForUFO(c *campaign.Campaign, u *ufo.UFO) *Popup {
	p := &Popup{UFO: u}
	for _, a := range byDistance(c.Aircraft, u.Pos) {
		if !a.CanIntercept() || !a.CanShoot() {
			continue
		}
		p.Rows = append(p.Rows, Row{
			Aircraft:   a,
			Name:       a.Name,
			ETA:        a.TimeTo(u.Pos),
			EnoughFuel: a.HasEnoughFuel(u.Pos),
			Text: fmt.Sprintf("%s (%d/%d)\t%s\t%s",
				a.Name, a.TeamSize, a.MaxTeamSize, a.Status, a.Homebase.Name),
		})
		if len(p.Rows) >= MaxAircraft {
			break
		}
	}
	if len(p.Rows) == 0 {
		p.Notice = NoticeNoUFOCraft
	}

	// range is not checked, the UFO may still come closer
	for _, b := range c.Bases {
		if b.CanShoot() {
			p.Defences = append(p.Defences, Defence{Name: b.Name, Base: b})
		}
	}
	for _, inst := range c.Installations {
		if inst.CanShoot() {
			p.Defences = append(p.Defences, Defence{Name: inst.Name, Installation: inst})
		}
	}
	if len(p.Defences) == 0 {
		p.DefenceNotice = NoticeNoDefence
	}
	return p
}

// Select returns the aircraft of row i.
func (p *Popup) Select(i int) (*campaign.Aircraft, error) {
	if i < 0 || i >= len(p.Rows) || p.Rows[i].Aircraft == nil {
		return nil, fmt.Errorf("%w: aircraft %d of %d", ErrInvalidSelection, i, len(p.Rows))
	}
	return p.Rows[i].Aircraft, nil
}

// Send launches the aircraft of row i toward the popup's mission or UFO.
func (p *Popup) Send(c *campaign.Campaign, i int) (*campaign.Aircraft, error) {
	a, err := p.Select(i)
	if err != nil {
		return nil, err
	}
	if a.Homebase == nil || !a.Homebase.CommandCentre {
		return nil, ErrNoCommandCentre
	}
	switch {
	case p.Mission != nil:
		c.SendAircraftToMission(a, p.Mission)
	case p.UFO != nil:
		c.SendAircraftPursuingUFO(a, p.UFO)
	}
	return a, nil
}

// AssignDefence points every battery of defence i at the popup's UFO.
func (p *Popup) AssignDefence(i int) error {
	if p.UFO == nil {
		return fmt.Errorf("%w: popup has no UFO", ErrInvalidSelection)
	}
	if i < 0 || i >= len(p.Defences) {
		return fmt.Errorf("%w: defence %d of %d", ErrInvalidSelection, i, len(p.Defences))
	}
	d := p.Defences[i]
	if d.Installation != nil {
		for j := range d.Installation.Batteries {
			d.Installation.Batteries[j].Target = p.UFO
		}
		return nil
	}
	for j := range d.Base.Batteries {
		d.Base.Batteries[j].Target = p.UFO
	}
	for j := range d.Base.Lasers {
		d.Base.Lasers[j].Target = p.UFO
	}
	return nil
}

// FormatETA renders a flight time as hours and minutes.
func FormatETA(d time.Duration) string {
	d = d.Round(time.Minute)
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%dh %02dmin", h, m)
}
