package campaign

import (
	"errors"
	"iter"
	"math/rand"
	"time"
)

// ErrNoCandidate is returned when a weighted draw has nothing to pick from.
var ErrNoCandidate = errors.New("no candidate with positive weight")

// ChooseWeighted picks one item with probability weight/sum(weights).
// draw must return a uniform value in [0,1).
func ChooseWeighted[T any](draw func() float64, candidates iter.Seq2[float64, T]) (T, error) {
	type entry struct {
		weight float64
		item   T
	}
	var (
		entries []entry
		sum     float64
		zero    T
	)
	for w, item := range candidates {
		entries = append(entries, entry{w, item})
		sum += w
	}
	if sum <= 0 {
		return zero, ErrNoCandidate
	}
	r := draw() * sum
	for _, e := range entries {
		r -= e.weight
		if r < 0 {
			return e.item, nil
		}
	}
	return zero, ErrNoCandidate
}

// RandomDelay returns a duration uniformly drawn from [min, max], truncated to
// whole seconds.
func RandomDelay(draw func() float64, min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	d := min + time.Duration(draw()*float64(max-min))
	return d.Truncate(time.Second)
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
