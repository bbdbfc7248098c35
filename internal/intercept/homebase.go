package intercept

import (
	"fmt"

	"campaign-sim/internal/campaign"
)

// Status texts of the homebase list.
const (
	StatusCurrentHomebase = "current homebase of aircraft"
	StatusCanHold         = "base can hold aircraft"
)

// HomebaseEntry is one base of the homebase list.
type HomebaseEntry struct {
	Base      *campaign.Base `json:"-"`
	Name      string         `json:"name"`
	Status    string         `json:"status"`
	Current   bool           `json:"current"`
	Available bool           `json:"available"`
}

// HomebaseList lists every base with the reason a may or may not move there,
// and how many bases are available.
func HomebaseList(c *campaign.Campaign, a *campaign.Aircraft) ([]HomebaseEntry, int) {
	entries := make([]HomebaseEntry, 0, len(c.Bases))
	available := 0
	for _, b := range c.Bases {
		e := HomebaseEntry{Base: b, Name: b.Name}
		switch {
		case b == a.Homebase:
			e.Status = StatusCurrentHomebase
			e.Current = true
		default:
			if reason := c.CheckMoveIntoNewHomebase(a, b); reason != "" {
				e.Status = reason
			} else {
				e.Status = StatusCanHold
				e.Available = true
				available++
			}
		}
		entries = append(entries, e)
	}
	return entries, available
}

// ChangeHomebase moves a to the i-th base of its homebase list.
func ChangeHomebase(c *campaign.Campaign, a *campaign.Aircraft, i int) error {
	entries, _ := HomebaseList(c, a)
	if i < 0 || i >= len(entries) {
		return fmt.Errorf("%w: base %d of %d", ErrInvalidSelection, i, len(entries))
	}
	e := entries[i]
	if !e.Available {
		return fmt.Errorf("%w: %s: %s", ErrInvalidSelection, e.Name, e.Status)
	}
	c.MoveAircraftIntoNewHomebase(a, e.Base)
	return nil
}
