package runner

import (
	"github.com/deliciousfudge/2d-side-scroller/internal/config"
	"github.com/deliciousfudge/2d-side-scroller/internal/core"
	"github.com/deliciousfudge/2d-side-scroller/internal/stream"
)

// Player is the runner's body in world units. X is the centre of the
// body and Y its feet; Y grows upward.
type Player struct {
	X, Y     float64
	VelY     float64
	Grounded bool
	Blocked  bool // Pressed against the side of a segment this tick
	cfg      config.PlayerConfig
}

// newPlayer places a player on the surface at its spawn X.
func newPlayer(cfg config.PlayerConfig, surface float64) *Player {
	return &Player{X: cfg.SpawnX, Y: surface, Grounded: true, cfg: cfg}
}

// Box returns the collision box of the player.
func (p *Player) Box() core.Box {
	return core.BoxAt(p.X, p.Y, p.cfg.Width, p.cfg.Height)
}

// Jump launches the player if it stands on a segment.
func (p *Player) Jump() bool {
	if !p.Grounded {
		return false
	}
	p.VelY = p.cfg.JumpImpulse
	p.Grounded = false
	return true
}

// update integrates one tick of vertical motion, resolves support from the
// active segments and pulls the player back toward its spawn X.
// shift is how far the world scrolled this tick.
func (p *Player) update(dt, shift, surface float64, sc *stream.Controller) {
	_, supported := sc.SegmentAt(p.X)

	// Walked off an edge
	if p.Grounded && !supported {
		p.Grounded = false
		p.VelY = 0
	}

	prevY := p.Y
	if !p.Grounded {
		g := p.cfg.Gravity
		if p.VelY < 0 {
			g *= p.cfg.FallMultiplier
		}
		p.VelY -= g * dt
		if p.VelY < -p.cfg.MaxFallSpeed {
			p.VelY = -p.cfg.MaxFallSpeed
		}
		p.Y += p.VelY * dt

		// Land only when crossing the surface from above
		if supported && prevY >= surface && p.Y <= surface {
			p.Y = surface
			p.VelY = 0
			p.Grounded = true
		}
	}

	p.Blocked = false
	if p.Y < surface {
		p.pushBack(shift, sc)
	}
	if !p.Blocked && p.X != p.cfg.SpawnX {
		step := core.ClampF(p.cfg.CatchUpRate*dt, 0, 1)
		p.X += (p.cfg.SpawnX - p.X) * step
	}
}

// pushBack keeps a player that sank below the surface from passing through
// the side of the next segment. The segment carries it left.
func (p *Player) pushBack(shift float64, sc *stream.Controller) {
	half := p.cfg.Width / 2
	for _, seg := range sc.Active() {
		face := seg.StartEdge()
		if p.X+half > face && p.X < face+shift {
			p.X = face - half
			p.Blocked = true
			return
		}
	}
}
