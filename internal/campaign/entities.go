package campaign

import (
	"campaign-sim/internal/geo"
	"campaign-sim/internal/ufo"
)

// Battery is one defence weapon of a base or installation.
type Battery struct {
	Weapon ufo.Weapon
	Target *ufo.UFO
}

func batteriesCanShoot(bs []Battery) bool {
	for _, b := range bs {
		if b.Weapon.Ammo > 0 {
			return true
		}
	}
	return false
}

// Base is a player base that hosts aircraft. CommandCentre and Hangars follow
// the buildings added with AddBuilding. UnderAttack is set while a base
// attack is being fought.
type Base struct {
	ID            int
	Name          string
	Pos           geo.Vector2
	CommandCentre bool
	Hangars       int
	Employees     int
	UnderAttack   bool
	Buildings     []*Building
	Batteries     []Battery
	Lasers        []Battery
}

// CanShoot reports whether any battery or laser of the base has ammo.
func (b *Base) CanShoot() bool {
	return batteriesCanShoot(b.Batteries) || batteriesCanShoot(b.Lasers)
}

// Installation is a player-owned defensive structure. AlienInterest weights
// how likely it is to be picked as a target.
type Installation struct {
	ID            int
	Name          string
	Pos           geo.Vector2
	AlienInterest float64
	Batteries     []Battery
}

// CanShoot reports whether any battery of the installation has ammo.
func (i *Installation) CanShoot() bool {
	return batteriesCanShoot(i.Batteries)
}
