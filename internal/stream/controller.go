package stream

import (
	"io"
	"math/rand"

	"github.com/charmbracelet/log"
)

// Observer receives stream transitions. Implementations must not mutate
// the stream from inside a callback.
type Observer interface {
	SegmentSpawned(seg *Segment)
	SegmentRecycled(seg *Segment)
	PoolExhausted()
	StreamCleared(released int)
	StreamRespawned(starting *Segment)
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for transition tracing.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver registers an observer for stream transitions.
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		c.observer = o
	}
}

// TickResult reports what happened during one tick.
type TickResult struct {
	Recycled  SegmentID // NoSegment if nothing was recycled
	Spawned   SegmentID // NoSegment if nothing was spawned
	Exhausted bool      // A spawn was due but the pool was empty
	Events    int       // Events drained at the start of the tick
}

// Controller drives the stream. It owns the pool and the active order and
// is the only thing that mutates segment membership and position.
type Controller struct {
	cfg      Config
	pool     *Pool
	decor    *Decorator
	rng      *rand.Rand
	order    []SegmentID // Active ids, oldest (leftmost) first
	starting SegmentID
	speed    float64
	running  bool
	ticks    uint64
	events   EventQueue
	resets   *ResetController
	observer Observer
	logger   *log.Logger
}

// New validates cfg, builds the pool and activates the starting segment.
// rng is the single random source shared by spawn selection and decoration.
func New(cfg Config, rng *rand.Rand, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, &ConfigError{Field: "rng", Reason: "a random source is required"}
	}

	c := &Controller{
		cfg:      cfg,
		pool:     NewPool(cfg.Templates),
		decor:    NewDecorator(cfg.InclusiveReveal),
		rng:      rng,
		order:    make([]SegmentID, 0, len(cfg.Templates)),
		starting: SegmentID(cfg.StartingIndex),
		speed:    cfg.MovementSpeed,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}

	for _, seg := range c.pool.segments {
		seg.Place(cfg.HoldingX, cfg.SpawnHeight)
	}

	c.resets = &ResetController{stream: c}
	if err := c.resets.Respawn(); err != nil {
		return nil, err
	}
	return c, nil
}

// Notify queues an event for the next tick boundary.
func (c *Controller) Notify(ev Event) {
	c.events.Push(ev)
}

// Pending returns the number of queued events.
func (c *Controller) Pending() int { return c.events.Len() }

// Resets returns the reset controller bound to this stream.
func (c *Controller) Resets() *ResetController { return c.resets }

// Tick runs one simulation step of dt seconds. Queued events are handled
// first; a tick that handled events ends there so the reset state is what
// the host observes. Otherwise active segments advance and at most one
// recycle and one spawn take place. A returned error is a *PoolStateError
// and means the stream bookkeeping is corrupt.
func (c *Controller) Tick(dt float64) (TickResult, error) {
	res := TickResult{Recycled: NoSegment, Spawned: NoSegment}

	for _, ev := range c.events.Drain() {
		res.Events++
		if err := c.resets.Handle(ev); err != nil {
			return res, err
		}
	}

	if res.Events > 0 || !c.running {
		return res, nil
	}
	c.ticks++

	if dt > 0 {
		c.advance(c.speed * dt)
	}

	recycled, err := c.recycle()
	if err != nil {
		return res, err
	}
	res.Recycled = recycled

	spawned, exhausted, err := c.spawn()
	if err != nil {
		return res, err
	}
	res.Spawned = spawned
	res.Exhausted = exhausted

	return res, nil
}

// advance shifts every active segment left by dx.
func (c *Controller) advance(dx float64) {
	for _, id := range c.order {
		seg := c.pool.segments[id]
		seg.Place(seg.x-dx, seg.y)
	}
}

// recycle parks the oldest segment once its right edge has left the screen.
func (c *Controller) recycle() (SegmentID, error) {
	if len(c.order) == 0 {
		return NoSegment, nil
	}

	id := c.order[0]
	seg := c.pool.segments[id]
	if seg.EndEdge() >= c.cfg.ScreenLeftBound {
		return NoSegment, nil
	}

	if err := c.pool.Release(id); err != nil {
		return NoSegment, err
	}
	copy(c.order, c.order[1:])
	c.order = c.order[:len(c.order)-1]

	seg.SetActive(false)
	seg.Place(c.cfg.HoldingX, c.cfg.SpawnHeight)

	c.logger.Debug("segment recycled", "id", id, "name", seg.name)
	if c.observer != nil {
		c.observer.SegmentRecycled(seg)
	}
	return id, nil
}

// spawn appends a random Available segment once the newest segment's start
// edge is within the trigger distance of the right bound.
func (c *Controller) spawn() (SegmentID, bool, error) {
	// With nothing active the stream restarts from the right bound.
	anchor := c.cfg.ScreenRightBound - c.cfg.SpawnGap
	if n := len(c.order); n > 0 {
		newest := c.pool.segments[c.order[n-1]]
		if newest.StartEdge() >= c.cfg.ScreenRightBound-c.cfg.SpawnTriggerDistance {
			return NoSegment, false, nil
		}
		anchor = newest.EndEdge()
	}

	id, ok := c.pool.PickRandomAvailable(c.rng)
	if !ok {
		c.logger.Debug("spawn skipped", "reason", ErrPoolEmpty)
		if c.observer != nil {
			c.observer.PoolExhausted()
		}
		return NoSegment, true, nil
	}

	seg := c.pool.segments[id]
	c.decor.Populate(seg, c.rng)
	seg.Place(anchor+c.cfg.SpawnGap, c.cfg.SpawnHeight)
	seg.SetActive(true)
	if err := c.pool.Take(id); err != nil {
		return NoSegment, false, err
	}
	c.order = append(c.order, id)

	c.logger.Debug("segment spawned", "id", id, "name", seg.name, "x", seg.x)
	if c.observer != nil {
		c.observer.SegmentSpawned(seg)
	}
	return id, false, nil
}

// ActiveOrder returns the active ids, oldest first.
func (c *Controller) ActiveOrder() []SegmentID {
	out := make([]SegmentID, len(c.order))
	copy(out, c.order)
	return out
}

// Active returns the active segments, oldest first.
func (c *Controller) Active() []*Segment {
	out := make([]*Segment, len(c.order))
	for i, id := range c.order {
		out[i] = c.pool.segments[id]
	}
	return out
}

// SegmentAt returns the active segment whose span contains world X.
func (c *Controller) SegmentAt(x float64) (*Segment, bool) {
	for _, id := range c.order {
		seg := c.pool.segments[id]
		if seg.Contains(x) {
			return seg, true
		}
	}
	return nil, false
}

// Pool returns the segment pool.
func (c *Controller) Pool() *Pool { return c.pool }

// Starting returns the id of the starting segment.
func (c *Controller) Starting() SegmentID { return c.starting }

// Running reports whether the stream is scrolling. It is false between a
// PlayerKilled and the next PlayerRespawned.
func (c *Controller) Running() bool { return c.running }

// Ticks returns the number of running ticks since construction.
func (c *Controller) Ticks() uint64 { return c.ticks }

// Config returns the configuration the stream was built with.
func (c *Controller) Config() Config { return c.cfg }

// Speed returns the current movement speed.
func (c *Controller) Speed() float64 { return c.speed }

// SetSpeed overrides the movement speed. Non-positive values are ignored.
func (c *Controller) SetSpeed(v float64) {
	if v > 0 {
		c.speed = v
	}
}
