package config

import (
	_ "embed"
)

//go:embed defaults/scroller.yaml
var defaultScrollerYAML []byte

// DefaultScrollerConfig returns the hardcoded fallback configuration: the
// constants of defaults/scroller.yaml with its first three templates.
func DefaultScrollerConfig() ScrollerConfig {
	return ScrollerConfig{
		Stream: StreamConfig{
			MovementSpeed:        7.0,
			SpawnGap:             2.0,
			ScreenLeftBound:      -10.0,
			ScreenRightBound:     10.0,
			SpawnTriggerDistance: 0.0,
			SpawnHeight:          0.0,
			HoldingOffset:        10.0,
			StartingSegment:      "meadow",
		},
		Player: PlayerConfig{
			SpawnX:         -8.0,
			Width:          0.8,
			Height:         1.2,
			JumpImpulse:    11.0,
			Gravity:        25.0,
			FallMultiplier: 1.2,
			MaxFallSpeed:   30.0,
			CatchUpRate:    0.6,
			DeathDepth:     4.0,
		},
		Segments: []SegmentConfig{
			{
				Name:   "meadow",
				Length: 20,
				Slots: []SlotConfig{
					{Kind: "coin", Offset: 6, Lift: 1},
					{Kind: "coin", Offset: 8, Lift: 1},
					{Kind: "coin", Offset: 10, Lift: 1},
					{Kind: "coin", Offset: 12, Lift: 1},
					{Kind: "obstacle", Offset: 16},
				},
			},
			{
				Name:   "ridge",
				Length: 16,
				Slots: []SlotConfig{
					{Kind: "coin", Offset: 3, Lift: 2},
					{Kind: "coin", Offset: 4, Lift: 2.5},
					{Kind: "coin", Offset: 5, Lift: 2},
					{Kind: "obstacle", Offset: 4},
					{Kind: "obstacle", Offset: 11},
				},
			},
			{
				Name:   "canyon",
				Length: 12,
				Slots: []SlotConfig{
					{Kind: "coin", Offset: 2, Lift: 1},
					{Kind: "coin", Offset: 9, Lift: 1},
					{Kind: "obstacle", Offset: 5},
					{Kind: "obstacle", Offset: 7.5},
				},
			},
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 200,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 0.8,
			},
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultScrollerYAML
}
