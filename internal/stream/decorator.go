package stream

import "math/rand"

// Decorator chooses which decoration slots of a segment are revealed.
type Decorator struct {
	inclusive bool
}

// NewDecorator creates a decorator. With inclusive set, the reveal count is
// drawn from [0, n]; otherwise from [0, n) so a segment never shows every
// slot of a group.
func NewDecorator(inclusive bool) *Decorator {
	return &Decorator{inclusive: inclusive}
}

// Populate rewrites slot visibility for the segment. Coin and obstacle slots
// are handled independently: each group is shuffled, a count k is drawn and
// the first k shuffled slots become visible, the rest hidden.
func (d *Decorator) Populate(seg *Segment, rng *rand.Rand) {
	d.populateKind(seg, SlotCoin, rng)
	d.populateKind(seg, SlotObstacle, rng)
}

func (d *Decorator) populateKind(seg *Segment, kind SlotKind, rng *rand.Rand) {
	group := make([]int, 0, len(seg.slots))
	for i, sl := range seg.slots {
		if sl.Kind == kind {
			group = append(group, i)
		}
	}

	n := len(group)
	if n == 0 {
		return
	}

	// Fisher-Yates from the back
	for i := n - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		group[i], group[j] = group[j], group[i]
	}

	k := d.revealCount(n, rng)
	for i, idx := range group {
		seg.slots[idx].Visible = i < k
	}
}

// revealCount draws how many slots of a group of size n are shown.
func (d *Decorator) revealCount(n int, rng *rand.Rand) int {
	if d.inclusive {
		return rng.Intn(n + 1)
	}
	return rng.Intn(n)
}
