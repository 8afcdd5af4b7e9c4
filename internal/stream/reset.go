package stream

// ResetController handles the death and respawn transitions of a stream.
// Both transitions are idempotent.
type ResetController struct {
	stream *Controller
}

// Handle dispatches a single event.
func (r *ResetController) Handle(ev Event) error {
	switch ev.(type) {
	case PlayerKilled:
		return r.DisableAll()
	case PlayerRespawned:
		return r.Respawn()
	}
	return nil
}

// DisableAll deactivates every active segment, parks it at the holding
// position and returns it to the pool. The stream stops scrolling.
func (r *ResetController) DisableAll() error {
	released, err := r.clear()
	if err != nil {
		return err
	}

	c := r.stream
	c.logger.Debug("stream cleared", "released", released)
	if c.observer != nil {
		c.observer.StreamCleared(released)
	}
	return nil
}

// Respawn clears the stream and activates the starting segment alone at the
// canonical start position with fresh decorations. Segments still active
// are reported as cleared first.
func (r *ResetController) Respawn() error {
	released, err := r.clear()
	if err != nil {
		return err
	}

	c := r.stream
	if released > 0 && c.observer != nil {
		c.observer.StreamCleared(released)
	}
	seg := c.pool.segments[c.starting]
	seg.Place(c.cfg.StartX, c.cfg.SpawnHeight)
	c.decor.Populate(seg, c.rng)
	seg.SetActive(true)
	if err := c.pool.Take(c.starting); err != nil {
		return err
	}
	c.order = append(c.order, c.starting)
	c.running = true

	c.logger.Debug("stream respawned", "starting", seg.name, "x", seg.x)
	if c.observer != nil {
		c.observer.StreamRespawned(seg)
	}
	return nil
}

func (r *ResetController) clear() (int, error) {
	c := r.stream
	released := 0
	for _, id := range c.order {
		seg := c.pool.segments[id]
		seg.SetActive(false)
		seg.Place(c.cfg.HoldingX, c.cfg.SpawnHeight)
		if err := c.pool.Release(id); err != nil {
			return released, err
		}
		released++
	}
	c.order = c.order[:0]
	c.running = false
	return released, nil
}
