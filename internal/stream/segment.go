// Package stream implements the segment-streaming engine behind the endless
// side scroller. A fixed set of pre-built level chunks is pooled, scrolled
// left every tick, recycled once off-screen and re-decorated on every spawn.
//
// The package is pure simulation: no rendering, no input, no goroutines.
// Hosts drive it through Controller.Tick and read segment positions and
// slot visibility to decide what to draw and what is collidable.
package stream

import "fmt"

// SegmentID identifies a segment for its whole lifetime. It is the index of
// the segment in the pool arena and never changes.
type SegmentID int

// NoSegment marks the absence of a segment in results.
const NoSegment SegmentID = -1

// Membership is the pool partition a segment currently belongs to.
type Membership int

const (
	Available Membership = iota // Parked off-screen, eligible for spawn
	Active                      // On the stream and moving
)

// String returns a human-readable name for the membership.
func (m Membership) String() string {
	switch m {
	case Available:
		return "available"
	case Active:
		return "active"
	default:
		return "unknown"
	}
}

// SlotKind distinguishes decoration slots.
type SlotKind int

const (
	SlotCoin SlotKind = iota
	SlotObstacle
)

// String returns a human-readable name for the slot kind.
func (k SlotKind) String() string {
	switch k {
	case SlotCoin:
		return "coin"
	case SlotObstacle:
		return "obstacle"
	default:
		return "unknown"
	}
}

// ParseSlotKind converts a config string into a SlotKind.
func ParseSlotKind(s string) (SlotKind, error) {
	switch s {
	case "coin":
		return SlotCoin, nil
	case "obstacle":
		return SlotObstacle, nil
	default:
		return 0, fmt.Errorf("stream: unknown slot kind %q", s)
	}
}

// SlotTemplate describes a decoration placement point relative to the
// segment anchor.
type SlotTemplate struct {
	Kind   SlotKind
	Offset float64 // Distance from the segment start edge
	Lift   float64 // Height above the segment surface
}

// Template is a pre-authored level chunk. One Segment is built per template.
type Template struct {
	Name   string
	Length float64
	Slots  []SlotTemplate
}

// Slot is a decoration slot on a live segment.
type Slot struct {
	Kind    SlotKind
	Offset  float64
	Lift    float64
	Visible bool
}

// Segment is a pooled level chunk. Its shape (length, slot layout) is fixed
// at construction; its position, enable flag and slot visibility are
// rewritten by the stream.
type Segment struct {
	id         SegmentID
	name       string
	length     float64
	x, y       float64
	enabled    bool
	membership Membership
	slots      []Slot
}

// newSegment builds a segment from its template. The segment starts
// disabled and Available.
func newSegment(id SegmentID, t Template) *Segment {
	slots := make([]Slot, len(t.Slots))
	for i, st := range t.Slots {
		slots[i] = Slot{Kind: st.Kind, Offset: st.Offset, Lift: st.Lift}
	}
	return &Segment{
		id:         id,
		name:       t.Name,
		length:     t.Length,
		membership: Available,
		slots:      slots,
	}
}

// ID returns the stable identity of the segment.
func (s *Segment) ID() SegmentID { return s.id }

// Name returns the template name the segment was built from.
func (s *Segment) Name() string { return s.name }

// Length returns the horizontal extent of the segment.
func (s *Segment) Length() float64 { return s.length }

// StartEdge returns the world X of the left anchor.
func (s *Segment) StartEdge() float64 { return s.x }

// EndEdge returns the world X of the right anchor.
func (s *Segment) EndEdge() float64 { return s.x + s.length }

// Y returns the world height of the segment surface.
func (s *Segment) Y() float64 { return s.y }

// Membership returns the pool partition the segment belongs to.
func (s *Segment) Membership() Membership { return s.membership }

// Place moves the segment anchor to (x, y).
func (s *Segment) Place(x, y float64) {
	s.x = x
	s.y = y
}

// SetActive toggles whether the host should draw and collide with the
// segment. It is independent of pool membership.
func (s *Segment) SetActive(enabled bool) { s.enabled = enabled }

// IsActive reports the enable flag set by SetActive.
func (s *Segment) IsActive() bool { return s.enabled }

// Slots returns a copy of the decoration slots.
func (s *Segment) Slots() []Slot {
	out := make([]Slot, len(s.slots))
	copy(out, s.slots)
	return out
}

// SlotCount returns the number of decoration slots.
func (s *Segment) SlotCount() int { return len(s.slots) }

// Slot returns the slot at index i.
func (s *Segment) Slot(i int) Slot { return s.slots[i] }

// SlotX returns the world X of slot i.
func (s *Segment) SlotX(i int) float64 { return s.x + s.slots[i].Offset }

// SlotY returns the world Y of slot i.
func (s *Segment) SlotY(i int) float64 { return s.y + s.slots[i].Lift }

// HideSlot hides a single slot, e.g. after a coin is collected.
// Out-of-range indices are ignored.
func (s *Segment) HideSlot(i int) {
	if i < 0 || i >= len(s.slots) {
		return
	}
	s.slots[i].Visible = false
}

// VisibleCount returns how many slots of the given kind are visible.
func (s *Segment) VisibleCount(kind SlotKind) int {
	n := 0
	for _, sl := range s.slots {
		if sl.Kind == kind && sl.Visible {
			n++
		}
	}
	return n
}

// CountKind returns how many slots of the given kind the segment has.
func (s *Segment) CountKind(kind SlotKind) int {
	n := 0
	for _, sl := range s.slots {
		if sl.Kind == kind {
			n++
		}
	}
	return n
}

// Contains reports whether world X lies within the segment span.
func (s *Segment) Contains(x float64) bool {
	return x >= s.x && x <= s.x+s.length
}
