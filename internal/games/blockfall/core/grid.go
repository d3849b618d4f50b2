package core

import "fmt"

// Grid is the persisted playing field: settled cell colors stored as a
// slice of rows, top row first. Rows are owned by the grid and never
// handed out; Rows returns copies.
type Grid struct {
	W    int // Number of columns
	H    int // Number of rows
	rows [][]Color
}

// NewGrid creates an empty grid with the given dimensions.
func NewGrid(w, h int) *Grid {
	g := &Grid{W: w, H: h, rows: make([][]Color, h)}
	for r := range g.rows {
		g.rows[r] = make([]Color, w)
	}
	return g
}

// InBounds returns true if the position is within the grid boundaries.
func (g *Grid) InBounds(p Pos) bool {
	return p.Col >= 0 && p.Col < g.W && p.Row >= 0 && p.Row < g.H
}

// mustBeInBounds panics on out-of-range coordinates.
func (g *Grid) mustBeInBounds(p Pos) {
	if !g.InBounds(p) {
		panic(fmt.Sprintf("core: position %v outside %dx%d grid", p, g.H, g.W))
	}
}

// Get returns the color at a position. ColorNone means empty.
// Panics if the position is out of bounds.
func (g *Grid) Get(p Pos) Color {
	g.mustBeInBounds(p)
	return g.rows[p.Row][p.Col]
}

// Set stores a color at a position. Panics if the position is out of bounds.
func (g *Grid) Set(p Pos, c Color) {
	g.mustBeInBounds(p)
	g.rows[p.Row][p.Col] = c
}

// IsEmpty reports whether an in-bounds position holds no settled cell.
func (g *Grid) IsEmpty(p Pos) bool {
	return g.Get(p) == ColorNone
}

// RowFull reports whether every cell of a row is occupied.
func (g *Grid) RowFull(row int) bool {
	for _, c := range g.rows[row] {
		if c == ColorNone {
			return false
		}
	}
	return true
}

// RemoveRow deletes a row, shifts every row above it down by one and
// inserts an empty row at the top.
func (g *Grid) RemoveRow(row int) {
	g.mustBeInBounds(P(row, 0))
	removed := g.rows[row]
	copy(g.rows[1:row+1], g.rows[:row])
	clear(removed)
	g.rows[0] = removed
}

// Clear empties every cell.
func (g *Grid) Clear() {
	for _, row := range g.rows {
		clear(row)
	}
}

// FilledCount returns the number of occupied cells.
func (g *Grid) FilledCount() int {
	count := 0
	for _, row := range g.rows {
		for _, c := range row {
			if c != ColorNone {
				count++
			}
		}
	}
	return count
}

// FilledCells returns every occupied cell, ordered by row then column.
func (g *Grid) FilledCells() []Cell {
	var cells []Cell
	for r, row := range g.rows {
		for c, color := range row {
			if color != ColorNone {
				cells = append(cells, Cell{Pos: P(r, c), Color: color})
			}
		}
	}
	return cells
}

// Rows returns a deep copy of the grid contents.
func (g *Grid) Rows() [][]Color {
	out := make([][]Color, g.H)
	for r, row := range g.rows {
		out[r] = append([]Color(nil), row...)
	}
	return out
}
