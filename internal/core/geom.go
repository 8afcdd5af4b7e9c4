// Package core provides fundamental types shared by the scroller game and
// its terminal host. It has no UI dependencies so game logic stays pure and
// testable.
package core

import "math"

// Rect is an axis-aligned rectangle in screen cells.
type Rect struct {
	X, Y int // Top-left corner
	W, H int
}

// NewRect creates a rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate one past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate one past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Box is an axis-aligned bounding box in world units. Y grows upward.
type Box struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// BoxAt builds a box of size w x h whose bottom-centre sits at (x, y).
func BoxAt(x, y, w, h float64) Box {
	return Box{MinX: x - w/2, MinY: y, MaxX: x + w/2, MaxY: y + h}
}

// Overlaps reports whether two boxes share any interior area.
// Touching edges do not count.
func (b Box) Overlaps(o Box) bool {
	if b.MinX >= o.MaxX || o.MinX >= b.MaxX {
		return false
	}
	if b.MinY >= o.MaxY || o.MinY >= b.MaxY {
		return false
	}
	return true
}

// Viewport maps world coordinates onto a grid of screen cells.
// World X in [Left, Right] spans the full screen width; world Y = Ground
// sits on GroundRow and each world unit up is RowsPerUnit rows.
type Viewport struct {
	Left, Right float64
	Ground      float64
	Cols        int
	GroundRow   int
	RowsPerUnit float64
}

// Col converts world X to a screen column.
func (v Viewport) Col(x float64) int {
	span := v.Right - v.Left
	if span <= 0 || v.Cols <= 0 {
		return 0
	}
	return int(math.Floor((x - v.Left) / span * float64(v.Cols)))
}

// Row converts world Y to a screen row.
func (v Viewport) Row(y float64) int {
	return v.GroundRow - int(math.Floor((y-v.Ground)*v.RowsPerUnit))
}

// CellWidth returns how many columns one world unit covers.
func (v Viewport) CellWidth() float64 {
	span := v.Right - v.Left
	if span <= 0 {
		return 0
	}
	return float64(v.Cols) / span
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
