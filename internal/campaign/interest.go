package campaign

import "sort"

// InterestCategory names one alien interest accumulator.
type InterestCategory string

const (
	InterestRecon        InterestCategory = "recon"
	InterestTerrorAttack InterestCategory = "terror_attack"
	InterestBaseAttack   InterestCategory = "base_attack"
	InterestBuilding     InterestCategory = "building"
	InterestIntercept    InterestCategory = "intercept"
	InterestHarvest      InterestCategory = "harvest"
	InterestXVI          InterestCategory = "xvi"
	InterestSupply       InterestCategory = "supply"
	InterestUFOCarrier   InterestCategory = "ufo_carrier"
)

// Delta is an additive change to one category.
type Delta struct {
	Category InterestCategory
	Amount   float64
}

// InterceptSuccessDeltas returns the changes applied when an intercept
// mission ends with the UFO back in orbit.
func InterceptSuccessDeltas(xviStarted bool) []Delta {
	d := []Delta{
		{InterestRecon, 0.3},
		{InterestIntercept, -0.3},
		{InterestHarvest, 0.1},
	}
	if xviStarted {
		d = append(d, Delta{InterestXVI, 0.1})
	}
	return d
}

// InterceptFailureDeltas returns the changes applied when the player stops
// an intercept mission.
func InterceptFailureDeltas() []Delta {
	return []Delta{
		{InterestIntercept, 0.1},
		{InterestBuilding, 0.05},
		{InterestBaseAttack, 0.05},
		{InterestTerrorAttack, 0.05},
	}
}

// InterestTable holds the global interest values. Values are never clamped
// or normalised here.
type InterestTable struct {
	values map[InterestCategory]float64
}

// NewInterestTable returns a table seeded with initial values.
func NewInterestTable(initial map[InterestCategory]float64) *InterestTable {
	t := &InterestTable{values: make(map[InterestCategory]float64, len(initial))}
	for k, v := range initial {
		t.values[k] = v
	}
	return t
}

// Value returns the current value of a category.
func (t *InterestTable) Value(c InterestCategory) float64 {
	return t.values[c]
}

// Apply adds every delta of the set. The whole set is applied before the
// caller can observe the table again.
func (t *InterestTable) Apply(deltas []Delta) {
	for _, d := range deltas {
		t.values[d.Category] += d.Amount
	}
}

// Snapshot returns a copy of all values.
func (t *InterestTable) Snapshot() map[InterestCategory]float64 {
	out := make(map[InterestCategory]float64, len(t.values))
	for k, v := range t.values {
		out[k] = v
	}
	return out
}

// Categories returns the known categories in name order.
func (t *InterestTable) Categories() []InterestCategory {
	cats := make([]InterestCategory, 0, len(t.values))
	for k := range t.values {
		cats = append(cats, k)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}
