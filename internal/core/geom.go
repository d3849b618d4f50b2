// Package core provides fundamental types shared by games and the platform.
// It has no external dependencies (especially no Bubble Tea) so game logic
// stays pure and testable.
package core

// Rect is an axis-aligned area on the screen, in character cells.
type Rect struct {
	X, Y int
	W, H int
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Centered returns a w×h rectangle centered in an areaW×areaH area.
// A rectangle larger than the area starts at the area's origin.
func Centered(areaW, areaH, w, h int) Rect {
	return Rect{X: max((areaW-w)/2, 0), Y: max((areaH-h)/2, 0), W: w, H: h}
}

// Right returns the x-coordinate one past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate one past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Inset returns the rectangle shrunk by n cells on every side.
func (r Rect) Inset(n int) Rect {
	return Rect{X: r.X + n, Y: r.Y + n, W: max(r.W-2*n, 0), H: max(r.H-2*n, 0)}
}

// SplitRight cuts a column of width w, plus a gap, off the right side.
// It returns the remaining left part and the cut column.
func (r Rect) SplitRight(w, gap int) (left, right Rect) {
	w = min(w, r.W)
	leftW := max(r.W-w-gap, 0)
	return Rect{X: r.X, Y: r.Y, W: leftW, H: r.H}, Rect{X: r.Right() - w, Y: r.Y, W: w, H: r.H}
}
