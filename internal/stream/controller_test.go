package stream

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

const epsilon = 1e-6

func scenarioConfig() Config {
	return Config{
		MovementSpeed:        1,
		SpawnGap:             2,
		ScreenLeftBound:      -10,
		ScreenRightBound:     10,
		SpawnTriggerDistance: 22,
		StartX:               -10,
		HoldingX:             30,
		StartingIndex:        0,
		Templates:            threeTemplates(),
	}
}

func newTestController(t *testing.T, cfg Config, seed int64, opts ...Option) *Controller {
	t.Helper()
	c, err := New(cfg, rand.New(rand.NewSource(seed)), opts...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return c
}

// checkInvariants verifies partition, ordering and spacing of the stream.
func checkInvariants(t *testing.T, c *Controller) {
	t.Helper()
	p := c.Pool()
	order := c.ActiveOrder()

	inOrder := make(map[SegmentID]bool, len(order))
	for _, id := range order {
		if inOrder[id] {
			t.Fatalf("segment %d appears twice in active order %v", id, order)
		}
		inOrder[id] = true
	}

	for _, seg := range p.Segments() {
		switch seg.Membership() {
		case Active:
			if !inOrder[seg.ID()] {
				t.Fatalf("segment %d is active but missing from active order", seg.ID())
			}
			if !seg.IsActive() {
				t.Fatalf("segment %d is active but disabled", seg.ID())
			}
		case Available:
			if inOrder[seg.ID()] {
				t.Fatalf("segment %d is available but in active order", seg.ID())
			}
			if seg.IsActive() {
				t.Fatalf("segment %d is available but still enabled", seg.ID())
			}
		}
	}

	if p.ActiveCount() != len(order) {
		t.Fatalf("ActiveCount() = %d, active order has %d", p.ActiveCount(), len(order))
	}
	if p.ActiveCount()+p.AvailableCount() != p.Len() {
		t.Fatalf("partition does not cover the pool: %d + %d != %d", p.ActiveCount(), p.AvailableCount(), p.Len())
	}

	gap := c.Config().SpawnGap
	segs := c.Active()
	for i := 1; i < len(segs); i++ {
		prev, next := segs[i-1], segs[i]
		if next.StartEdge() <= prev.StartEdge() {
			t.Fatalf("active order not sorted: %g after %g", next.StartEdge(), prev.StartEdge())
		}
		if d := next.StartEdge() - prev.EndEdge(); math.Abs(d-gap) > epsilon {
			t.Fatalf("gap between %d and %d is %g, expected %g", prev.ID(), next.ID(), d, gap)
		}
	}
}

func TestNewActivatesStartingSegment(t *testing.T) {
	cfg := scenarioConfig()
	cfg.StartingIndex = 2
	c := newTestController(t, cfg, 1)

	order := c.ActiveOrder()
	if len(order) != 1 || order[0] != 2 {
		t.Fatalf("ActiveOrder() = %v, expected [2]", order)
	}
	seg := c.Pool().Segment(2)
	if seg.StartEdge() != cfg.StartX {
		t.Errorf("starting segment at %g, expected %g", seg.StartEdge(), cfg.StartX)
	}
	if !c.Running() {
		t.Error("stream should be running after New")
	}
	for _, id := range c.Pool().Available() {
		if got := c.Pool().Segment(id).StartEdge(); got != cfg.HoldingX {
			t.Errorf("available segment %d at %g, expected holding %g", id, got, cfg.HoldingX)
		}
	}
	checkInvariants(t, c)
}

func TestNewRejectsNilRNG(t *testing.T) {
	_, err := New(scenarioConfig(), nil)
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ConfigError, got %v", err)
	}
}

func TestAdvanceIsLinear(t *testing.T) {
	cfg := scenarioConfig()
	cfg.MovementSpeed = 4
	c := newTestController(t, cfg, 1)

	if _, err := c.Tick(0.5); err != nil {
		t.Fatalf("Tick() failed: %v", err)
	}
	seg := c.Pool().Segment(c.Starting())
	if seg.StartEdge() != -12 {
		t.Errorf("start edge = %g, expected -12", seg.StartEdge())
	}
	if seg.EndEdge() != 0 {
		t.Errorf("end edge = %g, expected 0", seg.EndEdge())
	}
}

func TestSpawnScenario(t *testing.T) {
	c := newTestController(t, scenarioConfig(), 7)
	starting := c.Pool().Segment(c.Starting())

	if c.Pool().AvailableCount() != 2 {
		t.Fatalf("AvailableCount() = %d, expected 2", c.Pool().AvailableCount())
	}

	// Trigger line is 10 - 22 = -12; the start edge crosses it on tick 3.
	for tick := 1; tick <= 3; tick++ {
		res, err := c.Tick(1)
		if err != nil {
			t.Fatalf("Tick() failed: %v", err)
		}
		if tick < 3 && res.Spawned != NoSegment {
			t.Fatalf("unexpected spawn on tick %d", tick)
		}
		if tick == 3 && res.Spawned == NoSegment {
			t.Fatal("expected a spawn on tick 3")
		}
		checkInvariants(t, c)
	}

	order := c.ActiveOrder()
	if len(order) != 2 {
		t.Fatalf("active order length = %d, expected 2", len(order))
	}
	spawned := c.Pool().Segment(order[1])
	if want := starting.EndEdge() + 2; spawned.StartEdge() != want {
		t.Errorf("spawned at %g, expected %g", spawned.StartEdge(), want)
	}
	if spawned.Y() != 0 {
		t.Errorf("spawned at height %g, expected 0", spawned.Y())
	}
	if !spawned.IsActive() {
		t.Error("spawned segment should be enabled")
	}
	if c.Pool().AvailableCount() != 1 {
		t.Errorf("AvailableCount() = %d, expected 1", c.Pool().AvailableCount())
	}
}

func TestRecycleScenario(t *testing.T) {
	cfg := scenarioConfig()
	cfg.SpawnTriggerDistance = 0
	cfg.Templates = []Template{
		{Name: "short", Length: 4, Slots: []SlotTemplate{{Kind: SlotCoin, Offset: 1}}},
		{Name: "long-a", Length: 30, Slots: []SlotTemplate{{Kind: SlotCoin, Offset: 1}}},
		{Name: "long-b", Length: 30, Slots: []SlotTemplate{{Kind: SlotCoin, Offset: 1}}},
	}
	c := newTestController(t, cfg, 3)
	starting := c.Pool().Segment(c.Starting())

	// The starting segment ends at -6 and is past the left bound after 5 ticks.
	for tick := 1; tick <= 4; tick++ {
		res, err := c.Tick(1)
		if err != nil {
			t.Fatalf("Tick() failed: %v", err)
		}
		if res.Recycled != NoSegment {
			t.Fatalf("unexpected recycle on tick %d", tick)
		}
		checkInvariants(t, c)
	}

	res, err := c.Tick(1)
	if err != nil {
		t.Fatalf("Tick() failed: %v", err)
	}
	if res.Recycled != c.Starting() {
		t.Fatalf("Recycled = %d, expected %d", res.Recycled, c.Starting())
	}
	for _, id := range c.ActiveOrder() {
		if id == c.Starting() {
			t.Fatal("recycled segment still in active order")
		}
	}
	if !c.Pool().IsAvailable(c.Starting()) {
		t.Error("recycled segment should be available")
	}
	if starting.IsActive() {
		t.Error("recycled segment should be disabled")
	}
	if starting.StartEdge() != cfg.HoldingX {
		t.Errorf("recycled segment at %g, expected holding %g", starting.StartEdge(), cfg.HoldingX)
	}
	checkInvariants(t, c)
}

func TestPoolExhaustionIsBackpressure(t *testing.T) {
	cfg := scenarioConfig()
	cfg.SpawnTriggerDistance = 1000
	cfg.Templates = threeTemplates()[:2]
	c := newTestController(t, cfg, 1)

	res, err := c.Tick(1)
	if err != nil {
		t.Fatalf("Tick() failed: %v", err)
	}
	if res.Spawned == NoSegment {
		t.Fatal("expected a spawn on the first tick")
	}

	res, err = c.Tick(1)
	if err != nil {
		t.Fatalf("Tick() with empty pool should not fail: %v", err)
	}
	if !res.Exhausted {
		t.Error("expected Exhausted when the pool is empty")
	}
	if res.Spawned != NoSegment {
		t.Errorf("Spawned = %d, expected none", res.Spawned)
	}
	if len(c.ActiveOrder()) != 2 {
		t.Errorf("active order length = %d, expected 2", len(c.ActiveOrder()))
	}
	checkInvariants(t, c)
}

func TestBoundedChurnAndInvariants(t *testing.T) {
	c := newTestController(t, DefaultConfig(), 42)
	rng := rand.New(rand.NewSource(8))

	for tick := 0; tick < 5000; tick++ {
		before := make(map[SegmentID]Membership)
		for _, seg := range c.Pool().Segments() {
			before[seg.ID()] = seg.Membership()
		}

		dt := 1.0 / 60
		if rng.Intn(10) == 0 {
			dt = rng.Float64() * 0.1
		}
		res, err := c.Tick(dt)
		if err != nil {
			t.Fatalf("tick %d failed: %v", tick, err)
		}
		checkInvariants(t, c)

		took, released := 0, 0
		for _, seg := range c.Pool().Segments() {
			switch {
			case before[seg.ID()] == Available && seg.Membership() == Active:
				took++
			case before[seg.ID()] == Active && seg.Membership() == Available:
				released++
			}
		}
		if took > 1 || released > 1 {
			t.Fatalf("tick %d: %d takes and %d releases", tick, took, released)
		}
		if res.Spawned == NoSegment && took != 0 {
			t.Fatalf("tick %d: %d takes without a reported spawn", tick, took)
		}
	}
}

func TestKillIsIdempotent(t *testing.T) {
	c := newTestController(t, DefaultConfig(), 5)
	for i := 0; i < 200; i++ {
		if _, err := c.Tick(1.0 / 60); err != nil {
			t.Fatalf("Tick() failed: %v", err)
		}
	}

	c.Notify(PlayerKilled{})
	c.Notify(PlayerKilled{})
	res, err := c.Tick(1.0 / 60)
	if err != nil {
		t.Fatalf("Tick() after double kill failed: %v", err)
	}
	if res.Events != 2 {
		t.Errorf("Events = %d, expected 2", res.Events)
	}

	for round := 0; round < 2; round++ {
		if len(c.ActiveOrder()) != 0 {
			t.Fatalf("round %d: active order = %v, expected empty", round, c.ActiveOrder())
		}
		if c.Pool().AvailableCount() != c.Pool().Len() {
			t.Fatalf("round %d: %d of %d available", round, c.Pool().AvailableCount(), c.Pool().Len())
		}
		if c.Running() {
			t.Fatalf("round %d: stream should be stopped", round)
		}
		for _, seg := range c.Pool().Segments() {
			if seg.StartEdge() != c.Config().HoldingX {
				t.Fatalf("round %d: segment %d not parked", round, seg.ID())
			}
		}
		checkInvariants(t, c)

		if err := c.Resets().DisableAll(); err != nil {
			t.Fatalf("DisableAll() failed: %v", err)
		}
	}

	// A stopped stream does not move or spawn
	res, err = c.Tick(1)
	if err != nil {
		t.Fatalf("Tick() on stopped stream failed: %v", err)
	}
	if res.Spawned != NoSegment || res.Recycled != NoSegment {
		t.Errorf("stopped stream changed: %+v", res)
	}
}

func TestRespawnRestoresBaseline(t *testing.T) {
	cfg := DefaultConfig()
	c := newTestController(t, cfg, 17)
	for i := 0; i < 500; i++ {
		if _, err := c.Tick(1.0 / 30); err != nil {
			t.Fatalf("Tick() failed: %v", err)
		}
	}

	c.Notify(PlayerKilled{})
	if _, err := c.Tick(1.0 / 30); err != nil {
		t.Fatalf("Tick() failed: %v", err)
	}
	c.Notify(PlayerRespawned{})
	if _, err := c.Tick(1.0 / 30); err != nil {
		t.Fatalf("Tick() failed: %v", err)
	}

	order := c.ActiveOrder()
	if len(order) != 1 || order[0] != c.Starting() {
		t.Fatalf("ActiveOrder() = %v, expected [%d]", order, c.Starting())
	}
	seg := c.Pool().Segment(c.Starting())
	if seg.StartEdge() != cfg.StartX {
		t.Errorf("starting segment at %g, expected %g", seg.StartEdge(), cfg.StartX)
	}
	if !c.Running() {
		t.Error("stream should be running after respawn")
	}
	checkInvariants(t, c)

	// The next tick resumes the cycle
	if _, err := c.Tick(1.0 / 30); err != nil {
		t.Fatalf("Tick() failed: %v", err)
	}
	if seg.StartEdge() >= cfg.StartX {
		t.Error("starting segment did not move after respawn")
	}
}

func TestRespawnIsIdempotent(t *testing.T) {
	c := newTestController(t, DefaultConfig(), 23)
	for i := 0; i < 120; i++ {
		if _, err := c.Tick(1.0 / 60); err != nil {
			t.Fatalf("Tick() failed: %v", err)
		}
	}

	c.Notify(PlayerRespawned{})
	c.Notify(PlayerRespawned{})
	if _, err := c.Tick(1.0 / 60); err != nil {
		t.Fatalf("Tick() failed: %v", err)
	}
	if err := c.Resets().Respawn(); err != nil {
		t.Fatalf("Respawn() failed: %v", err)
	}

	order := c.ActiveOrder()
	if len(order) != 1 || order[0] != c.Starting() {
		t.Fatalf("ActiveOrder() = %v, expected [%d]", order, c.Starting())
	}
	if c.Pool().ActiveCount() != 1 {
		t.Errorf("ActiveCount() = %d, expected 1", c.Pool().ActiveCount())
	}
	checkInvariants(t, c)
}

func TestStreamDeterminism(t *testing.T) {
	run := func() []float64 {
		c := newTestController(t, DefaultConfig(), 2024)
		var trace []float64
		for i := 0; i < 1500; i++ {
			res, err := c.Tick(1.0 / 60)
			if err != nil {
				t.Fatalf("Tick() failed: %v", err)
			}
			trace = append(trace, float64(res.Spawned))
		}
		for _, seg := range c.Active() {
			trace = append(trace, seg.StartEdge(), float64(seg.VisibleCount(SlotCoin)))
		}
		return trace
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("trace lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("traces diverge at %d: %g vs %g", i, a[i], b[i])
		}
	}
}

func TestSetSpeed(t *testing.T) {
	c := newTestController(t, scenarioConfig(), 1)

	c.SetSpeed(3)
	if c.Speed() != 3 {
		t.Errorf("Speed() = %g, expected 3", c.Speed())
	}
	c.SetSpeed(0)
	if c.Speed() != 3 {
		t.Errorf("SetSpeed(0) should be ignored, Speed() = %g", c.Speed())
	}

	if _, err := c.Tick(1); err != nil {
		t.Fatalf("Tick() failed: %v", err)
	}
	if got := c.Pool().Segment(c.Starting()).StartEdge(); got != -13 {
		t.Errorf("start edge = %g, expected -13", got)
	}
}

func TestSegmentAt(t *testing.T) {
	c := newTestController(t, scenarioConfig(), 1)

	seg, ok := c.SegmentAt(-5)
	if !ok || seg.ID() != c.Starting() {
		t.Errorf("SegmentAt(-5) = %v, %v, expected starting segment", seg, ok)
	}
	if _, ok := c.SegmentAt(5); ok {
		t.Error("SegmentAt(5) should find nothing")
	}
}

type countingObserver struct {
	spawned, recycled, exhausted, cleared, respawned int
}

func (o *countingObserver) SegmentSpawned(*Segment)  { o.spawned++ }
func (o *countingObserver) SegmentRecycled(*Segment) { o.recycled++ }
func (o *countingObserver) PoolExhausted()           { o.exhausted++ }
func (o *countingObserver) StreamCleared(int)        { o.cleared++ }
func (o *countingObserver) StreamRespawned(*Segment) { o.respawned++ }

func TestObserverReceivesTransitions(t *testing.T) {
	obs := &countingObserver{}
	c := newTestController(t, DefaultConfig(), 9, WithObserver(obs))

	if obs.respawned != 1 {
		t.Errorf("respawned = %d after New, expected 1", obs.respawned)
	}

	spawned, recycled := 0, 0
	for i := 0; i < 2000; i++ {
		res, err := c.Tick(1.0 / 60)
		if err != nil {
			t.Fatalf("Tick() failed: %v", err)
		}
		if res.Spawned != NoSegment {
			spawned++
		}
		if res.Recycled != NoSegment {
			recycled++
		}
	}
	if obs.spawned != spawned || obs.recycled != recycled {
		t.Errorf("observer saw %d/%d spawns/recycles, results reported %d/%d",
			obs.spawned, obs.recycled, spawned, recycled)
	}
	if spawned == 0 || recycled == 0 {
		t.Errorf("expected spawns and recycles over 2000 ticks, got %d and %d", spawned, recycled)
	}

	c.Notify(PlayerKilled{})
	if _, err := c.Tick(0); err != nil {
		t.Fatalf("Tick() failed: %v", err)
	}
	if obs.cleared != 1 {
		t.Errorf("cleared = %d, expected 1", obs.cleared)
	}

	// Respawn after a kill has nothing left to clear
	c.Notify(PlayerRespawned{})
	if _, err := c.Tick(0); err != nil {
		t.Fatalf("Tick() failed: %v", err)
	}
	if obs.cleared != 1 || obs.respawned != 2 {
		t.Errorf("cleared/respawned = %d/%d, expected 1/2", obs.cleared, obs.respawned)
	}

	// Respawn while running reports the segments it released
	c.Notify(PlayerRespawned{})
	if _, err := c.Tick(0); err != nil {
		t.Fatalf("Tick() failed: %v", err)
	}
	if obs.cleared != 2 || obs.respawned != 3 {
		t.Errorf("cleared/respawned = %d/%d, expected 2/3", obs.cleared, obs.respawned)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"no templates", func(c *Config) { c.Templates = nil }, "templates"},
		{"zero gap", func(c *Config) { c.SpawnGap = 0 }, "spawn_gap"},
		{"negative gap", func(c *Config) { c.SpawnGap = -1 }, "spawn_gap"},
		{"zero speed", func(c *Config) { c.MovementSpeed = 0 }, "movement_speed"},
		{"inverted bounds", func(c *Config) { c.ScreenLeftBound = 20 }, "screen_bounds"},
		{"negative trigger", func(c *Config) { c.SpawnTriggerDistance = -1 }, "spawn_trigger_distance"},
		{"starting out of range", func(c *Config) { c.StartingIndex = 3 }, "starting_segment"},
		{"zero length", func(c *Config) { c.Templates[1].Length = 0 }, "templates[1]"},
		{"no slots", func(c *Config) { c.Templates[2].Slots = nil }, "templates[2]"},
		{"slot outside", func(c *Config) { c.Templates[0].Slots[0].Offset = 50 }, "templates[0].slots[0]"},
		{"NaN speed", func(c *Config) { c.MovementSpeed = math.NaN() }, "movement_speed"},
		{"infinite gap", func(c *Config) { c.SpawnGap = math.Inf(1) }, "spawn_gap"},
		{"NaN left bound", func(c *Config) { c.ScreenLeftBound = math.NaN() }, "screen_left_bound"},
		{"infinite right bound", func(c *Config) { c.ScreenRightBound = math.Inf(1) }, "screen_right_bound"},
		{"infinite trigger", func(c *Config) { c.SpawnTriggerDistance = math.Inf(1) }, "spawn_trigger_distance"},
		{"NaN spawn height", func(c *Config) { c.SpawnHeight = math.NaN() }, "spawn_height"},
		{"infinite start", func(c *Config) { c.StartX = math.Inf(-1) }, "start_x"},
		{"NaN holding", func(c *Config) { c.HoldingX = math.NaN() }, "holding_x"},
		{"holding on screen", func(c *Config) { c.HoldingX = 0 }, "holding_x"},
		{"infinite length", func(c *Config) { c.Templates[1].Length = math.Inf(1) }, "templates[1]"},
		{"NaN offset", func(c *Config) { c.Templates[0].Slots[1].Offset = math.NaN() }, "templates[0].slots[1]"},
		{"NaN lift", func(c *Config) { c.Templates[2].Slots[0].Lift = math.NaN() }, "templates[2].slots[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("expected *ConfigError, got %v", err)
			}
			if ce.Field != tt.field {
				t.Errorf("Field = %q, expected %q", ce.Field, tt.field)
			}
			if _, err := New(cfg, rand.New(rand.NewSource(1))); err == nil {
				t.Error("New() should reject an invalid config")
			}
		})
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestEventQueueOrder(t *testing.T) {
	var q EventQueue
	q.Push(PlayerKilled{})
	q.Push(nil)
	q.Push(PlayerRespawned{})

	if q.Len() != 2 {
		t.Fatalf("Len() = %d, expected 2", q.Len())
	}
	evs := q.Drain()
	if _, ok := evs[0].(PlayerKilled); !ok {
		t.Errorf("first event = %T, expected PlayerKilled", evs[0])
	}
	if _, ok := evs[1].(PlayerRespawned); !ok {
		t.Errorf("second event = %T, expected PlayerRespawned", evs[1])
	}
	if q.Drain() != nil {
		t.Error("Drain() on empty queue should return nil")
	}
}
