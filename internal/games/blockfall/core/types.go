// Package core provides the rules engine for the Blockfall puzzle game.
// This package is UI-agnostic and deterministic: it owns the playing field,
// the active/held/queued blocks, scoring and the event bus, and never touches
// timers, terminals or storage.
package core

import "fmt"

// MaxBlockSpan is the tallest extent (in rows) any block may occupy.
// The line scan after a placement never looks at more rows than this.
const MaxBlockSpan = 4

// Rotation direction for Board.Rotate.
const (
	Clockwise        = 1
	CounterClockwise = -1
)

// Offset is a (row, col) delta relative to a block's anchor.
// Row increases downward, Col increases to the right.
type Offset struct {
	Row int
	Col int
}

// Pos represents an absolute position on the board.
type Pos struct {
	Row int
	Col int
}

// P is a convenience constructor for Pos.
func P(row, col int) Pos {
	return Pos{Row: row, Col: col}
}

// String returns a string representation of the position.
func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Add returns the position translated by an offset.
func (p Pos) Add(o Offset) Pos {
	return Pos{Row: p.Row + o.Row, Col: p.Col + o.Col}
}

// Cell is a renderable square: a position plus its color.
// Ghost cells are colorless previews of a hard-drop landing spot.
type Cell struct {
	Pos
	Color Color
	Ghost bool
}
