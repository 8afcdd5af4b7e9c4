package stream

import (
	"math/rand"
	"sort"
)

// Pool owns every segment and partitions them into Available and Active.
//
// Segments live in an arena indexed by SegmentID. The Available set is kept
// dense (with a reverse index) so take, release and random pick are O(1).
type Pool struct {
	segments  []*Segment
	available []SegmentID // Dense set of Available ids
	slot      []int       // Position of each id in available, -1 when Active
}

// NewPool builds one segment per template. All segments start Available.
func NewPool(templates []Template) *Pool {
	p := &Pool{
		segments:  make([]*Segment, len(templates)),
		available: make([]SegmentID, 0, len(templates)),
		slot:      make([]int, len(templates)),
	}
	for i, t := range templates {
		id := SegmentID(i)
		p.segments[i] = newSegment(id, t)
		p.slot[i] = len(p.available)
		p.available = append(p.available, id)
	}
	return p
}

// Len returns the total number of segments.
func (p *Pool) Len() int { return len(p.segments) }

// AvailableCount returns the size of the Available set.
func (p *Pool) AvailableCount() int { return len(p.available) }

// ActiveCount returns the size of the Active set.
func (p *Pool) ActiveCount() int { return len(p.segments) - len(p.available) }

// Segment returns the segment with the given id, or nil if unknown.
func (p *Pool) Segment(id SegmentID) *Segment {
	if !p.valid(id) {
		return nil
	}
	return p.segments[id]
}

// Segments returns every segment in id order.
func (p *Pool) Segments() []*Segment {
	out := make([]*Segment, len(p.segments))
	copy(out, p.segments)
	return out
}

// Available returns the Available ids in ascending order.
func (p *Pool) Available() []SegmentID {
	out := make([]SegmentID, len(p.available))
	copy(out, p.available)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// IsAvailable reports whether the segment is in the Available set.
func (p *Pool) IsAvailable(id SegmentID) bool {
	return p.valid(id) && p.segments[id].membership == Available
}

// Take moves a segment from Available to Active.
func (p *Pool) Take(id SegmentID) error {
	if !p.valid(id) {
		return &PoolStateError{Op: "take", ID: id, Reason: "unknown segment"}
	}
	seg := p.segments[id]
	if seg.membership != Available {
		return &PoolStateError{Op: "take", ID: id, Reason: "segment is " + seg.membership.String()}
	}

	// Swap-remove from the dense set
	pos := p.slot[id]
	last := len(p.available) - 1
	moved := p.available[last]
	p.available[pos] = moved
	p.slot[moved] = pos
	p.available = p.available[:last]
	p.slot[id] = -1

	seg.membership = Active
	return nil
}

// Release moves a segment from Active to Available.
func (p *Pool) Release(id SegmentID) error {
	if !p.valid(id) {
		return &PoolStateError{Op: "release", ID: id, Reason: "unknown segment"}
	}
	seg := p.segments[id]
	if seg.membership != Active {
		return &PoolStateError{Op: "release", ID: id, Reason: "segment is " + seg.membership.String()}
	}

	p.slot[id] = len(p.available)
	p.available = append(p.available, id)
	seg.membership = Available
	return nil
}

// PickRandomAvailable returns an Available id chosen uniformly at random.
// The second result is false when the pool is exhausted.
func (p *Pool) PickRandomAvailable(rng *rand.Rand) (SegmentID, bool) {
	if len(p.available) == 0 {
		return NoSegment, false
	}
	return p.available[rng.Intn(len(p.available))], true
}

func (p *Pool) valid(id SegmentID) bool {
	return id >= 0 && int(id) < len(p.segments)
}
