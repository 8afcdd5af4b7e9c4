package runner

import "github.com/deliciousfudge/2d-side-scroller/internal/stream"

// jumpLead is how far ahead of a hazard, in seconds of travel, the
// autopilot takes off.
const jumpLead = 0.12

// shouldJump decides whether the attract player jumps this tick. It jumps
// when the edge of the segment under it or the nearest visible obstacle is
// within reach.
func (g *Game) shouldJump() bool {
	p := g.player
	if !p.Grounded {
		return false
	}

	reach := g.stream.Speed() * jumpLead
	seg, ok := g.stream.SegmentAt(p.X)
	if !ok {
		return false
	}
	if d := seg.EndEdge() - p.X; d <= reach {
		return true
	}

	front := p.Box().MaxX
	for _, s := range g.stream.Active() {
		for i := 0; i < s.SlotCount(); i++ {
			sl := s.Slot(i)
			if !sl.Visible || sl.Kind != stream.SlotObstacle {
				continue
			}
			d := slotBox(s, i).MinX - front
			if d >= 0 && d <= reach {
				return true
			}
		}
	}
	return false
}
