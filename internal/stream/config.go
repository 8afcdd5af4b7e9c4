package stream

import (
	"fmt"
	"math"
)

// Config holds the constants a stream is initialized with.
type Config struct {
	MovementSpeed        float64 // World units per second
	SpawnGap             float64 // Distance between consecutive segments
	ScreenLeftBound      float64 // Segments ending left of this are recycled
	ScreenRightBound     float64 // Right edge of the visible region
	SpawnTriggerDistance float64 // Spawn once the newest start edge is this close to the right bound
	SpawnHeight          float64 // Surface height of spawned segments
	StartX               float64 // Canonical start edge of the starting segment
	HoldingX             float64 // Off-screen parking X for Available segments
	StartingIndex        int     // Template index of the starting segment
	InclusiveReveal      bool    // Allow revealing every slot of a group
	Templates            []Template
}

// DefaultConfig returns the stream constants of the stock level: a
// 20 unit wide view centred on the origin, three segment templates.
func DefaultConfig() Config {
	return Config{
		MovementSpeed:        7.0,
		SpawnGap:             2.0,
		ScreenLeftBound:      -10.0,
		ScreenRightBound:     10.0,
		SpawnTriggerDistance: 0,
		SpawnHeight:          0,
		StartX:               -10.0,
		HoldingX:             20.0,
		StartingIndex:        0,
		Templates: []Template{
			{
				Name:   "meadow",
				Length: 20,
				Slots: []SlotTemplate{
					{Kind: SlotCoin, Offset: 6, Lift: 1},
					{Kind: SlotCoin, Offset: 8, Lift: 1},
					{Kind: SlotCoin, Offset: 10, Lift: 1},
					{Kind: SlotCoin, Offset: 12, Lift: 1},
					{Kind: SlotObstacle, Offset: 16, Lift: 0},
				},
			},
			{
				Name:   "ridge",
				Length: 16,
				Slots: []SlotTemplate{
					{Kind: SlotCoin, Offset: 3, Lift: 2},
					{Kind: SlotCoin, Offset: 4, Lift: 2.5},
					{Kind: SlotCoin, Offset: 5, Lift: 2},
					{Kind: SlotObstacle, Offset: 4, Lift: 0},
					{Kind: SlotObstacle, Offset: 11, Lift: 0},
				},
			},
			{
				Name:   "canyon",
				Length: 12,
				Slots: []SlotTemplate{
					{Kind: SlotCoin, Offset: 2, Lift: 1},
					{Kind: SlotCoin, Offset: 9, Lift: 1},
					{Kind: SlotObstacle, Offset: 5, Lift: 0},
					{Kind: SlotObstacle, Offset: 7, Lift: 0},
				},
			},
		},
	}
}

// Validate checks the configuration and returns a *ConfigError describing
// the first problem found.
func (c Config) Validate() error {
	if len(c.Templates) == 0 {
		return &ConfigError{Field: "templates", Reason: "at least one segment template is required"}
	}
	for _, f := range []struct {
		field string
		v     float64
	}{
		{"movement_speed", c.MovementSpeed},
		{"spawn_gap", c.SpawnGap},
		{"screen_left_bound", c.ScreenLeftBound},
		{"screen_right_bound", c.ScreenRightBound},
		{"spawn_trigger_distance", c.SpawnTriggerDistance},
		{"spawn_height", c.SpawnHeight},
		{"start_x", c.StartX},
		{"holding_x", c.HoldingX},
	} {
		if !finite(f.v) {
			return &ConfigError{Field: f.field, Reason: fmt.Sprintf("must be finite, got %g", f.v)}
		}
	}
	if c.MovementSpeed <= 0 {
		return &ConfigError{Field: "movement_speed", Reason: fmt.Sprintf("must be positive, got %g", c.MovementSpeed)}
	}
	if c.SpawnGap <= 0 {
		return &ConfigError{Field: "spawn_gap", Reason: fmt.Sprintf("must be positive, got %g", c.SpawnGap)}
	}
	if c.ScreenLeftBound >= c.ScreenRightBound {
		return &ConfigError{
			Field:  "screen_bounds",
			Reason: fmt.Sprintf("left bound %g must be less than right bound %g", c.ScreenLeftBound, c.ScreenRightBound),
		}
	}
	if c.HoldingX < c.ScreenRightBound {
		return &ConfigError{
			Field:  "holding_x",
			Reason: fmt.Sprintf("holding position %g is inside the screen (right bound %g)", c.HoldingX, c.ScreenRightBound),
		}
	}
	if c.SpawnTriggerDistance < 0 {
		return &ConfigError{Field: "spawn_trigger_distance", Reason: "must not be negative"}
	}
	if c.StartingIndex < 0 || c.StartingIndex >= len(c.Templates) {
		return &ConfigError{
			Field:  "starting_segment",
			Reason: fmt.Sprintf("index %d out of range [0, %d)", c.StartingIndex, len(c.Templates)),
		}
	}
	for i, t := range c.Templates {
		field := fmt.Sprintf("templates[%d]", i)
		if !finite(t.Length) || t.Length <= 0 {
			return &ConfigError{Field: field, Reason: fmt.Sprintf("length must be positive, got %g", t.Length)}
		}
		if len(t.Slots) == 0 {
			return &ConfigError{Field: field, Reason: "no decoration slots"}
		}
		for j, s := range t.Slots {
			if !finite(s.Offset) || !finite(s.Lift) || s.Offset < 0 || s.Offset > t.Length {
				return &ConfigError{
					Field:  fmt.Sprintf("%s.slots[%d]", field, j),
					Reason: fmt.Sprintf("offset %g (lift %g) outside segment length %g", s.Offset, s.Lift, t.Length),
				}
			}
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
