// Package config provides YAML-based configuration loading for the side
// scroller: stream constants, segment templates, player physics and the
// difficulty progression.
package config

import (
	"fmt"

	"github.com/deliciousfudge/2d-side-scroller/internal/stream"
)

// ScrollerConfig contains all configuration for the side scroller.
type ScrollerConfig struct {
	Stream     StreamConfig     `yaml:"stream"`
	Decor      DecorConfig      `yaml:"decor"`
	Player     PlayerConfig     `yaml:"player"`
	Segments   []SegmentConfig  `yaml:"segments"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// StreamConfig defines the segment stream constants. Coordinates are in
// world units.
type StreamConfig struct {
	MovementSpeed        float64 `yaml:"movement_speed"`
	SpawnGap             float64 `yaml:"spawn_gap"`
	ScreenLeftBound      float64 `yaml:"screen_left_bound"`
	ScreenRightBound     float64 `yaml:"screen_right_bound"`
	SpawnTriggerDistance float64 `yaml:"spawn_trigger_distance"`
	SpawnHeight          float64 `yaml:"spawn_height"`
	HoldingOffset        float64 `yaml:"holding_offset"`   // Parking X is right bound + offset
	StartingSegment      string  `yaml:"starting_segment"` // Template name; empty = first template
}

// DecorConfig defines how segments are decorated on spawn.
type DecorConfig struct {
	InclusiveReveal bool `yaml:"inclusive_reveal"` // Allow revealing every slot of a group
}

// PlayerConfig defines player physics for the runner.
type PlayerConfig struct {
	SpawnX         float64 `yaml:"spawn_x"`
	Width          float64 `yaml:"width"`
	Height         float64 `yaml:"height"`
	JumpImpulse    float64 `yaml:"jump_impulse"`    // Upward velocity on jump, units/s
	Gravity        float64 `yaml:"gravity"`         // Downward acceleration, units/s^2
	FallMultiplier float64 `yaml:"fall_multiplier"` // Gravity scale while descending
	MaxFallSpeed   float64 `yaml:"max_fall_speed"`
	CatchUpRate    float64 `yaml:"catch_up_rate"` // Fraction of the distance to spawn X recovered per second
	DeathDepth     float64 `yaml:"death_depth"`   // How far below the surface the player dies
}

// SegmentConfig is a segment template as written in YAML.
type SegmentConfig struct {
	Name   string       `yaml:"name"`
	Length float64      `yaml:"length"`
	Slots  []SlotConfig `yaml:"slots"`
}

// SlotConfig is a decoration slot as written in YAML.
type SlotConfig struct {
	Kind   string  `yaml:"kind"` // "coin" or "obstacle"
	Offset float64 `yaml:"offset"`
	Lift   float64 `yaml:"lift"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Coins/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Added to the speed factor at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a CLI string into a preset. Unknown values yield "".
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// ToStream converts the YAML view into a validated stream configuration.
func (c ScrollerConfig) ToStream() (stream.Config, error) {
	sc := stream.Config{
		MovementSpeed:        c.Stream.MovementSpeed,
		SpawnGap:             c.Stream.SpawnGap,
		ScreenLeftBound:      c.Stream.ScreenLeftBound,
		ScreenRightBound:     c.Stream.ScreenRightBound,
		SpawnTriggerDistance: c.Stream.SpawnTriggerDistance,
		SpawnHeight:          c.Stream.SpawnHeight,
		StartX:               c.Stream.ScreenLeftBound,
		HoldingX:             c.Stream.ScreenRightBound + c.Stream.HoldingOffset,
		InclusiveReveal:      c.Decor.InclusiveReveal,
		Templates:            make([]stream.Template, 0, len(c.Segments)),
	}

	startFound := c.Stream.StartingSegment == ""
	for i, seg := range c.Segments {
		t := stream.Template{
			Name:   seg.Name,
			Length: seg.Length,
			Slots:  make([]stream.SlotTemplate, 0, len(seg.Slots)),
		}
		for j, sl := range seg.Slots {
			kind, err := stream.ParseSlotKind(sl.Kind)
			if err != nil {
				return sc, &stream.ConfigError{
					Field:  fmt.Sprintf("segments[%d].slots[%d].kind", i, j),
					Reason: err.Error(),
				}
			}
			t.Slots = append(t.Slots, stream.SlotTemplate{Kind: kind, Offset: sl.Offset, Lift: sl.Lift})
		}
		if !startFound && seg.Name == c.Stream.StartingSegment {
			sc.StartingIndex = i
			startFound = true
		}
		sc.Templates = append(sc.Templates, t)
	}

	if !startFound {
		return sc, &stream.ConfigError{
			Field:  "starting_segment",
			Reason: fmt.Sprintf("no segment named %q", c.Stream.StartingSegment),
		}
	}
	if err := sc.Validate(); err != nil {
		return sc, err
	}
	return sc, nil
}
