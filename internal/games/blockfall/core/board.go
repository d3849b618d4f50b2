package core

import (
	"errors"
	"fmt"
)

// Default field geometry.
const (
	DefaultRows       = 23
	DefaultCols       = 10
	DefaultHiddenRows = 3
)

// ErrInvalidDimensions is returned for a board that cannot hold every shape.
var ErrInvalidDimensions = errors.New("core: invalid board dimensions")

// Board is the grid state machine: settled cells, the active block and the
// held block. The active block is overlaid on the grid, never merged into it
// until it lands.
type Board struct {
	grid          *Grid
	hidden        int // Off-screen spawn buffer rows at the top
	active        *Block
	held          *Block
	ghostsEnabled bool
	bus           *EventBus
}

// CheckDimensions reports ErrInvalidDimensions for a board that cannot
// hold every shape below its spawn buffer.
func CheckDimensions(rows, cols, hidden int) error {
	if cols < MaxBlockSpan || hidden < 0 || rows < hidden+MaxBlockSpan {
		return fmt.Errorf("%w: %dx%d with %d hidden rows", ErrInvalidDimensions, rows, cols, hidden)
	}
	return nil
}

// NewBoard creates an empty board. The topmost hidden rows form the
// off-screen spawn buffer. A nil bus gets a private one.
func NewBoard(rows, cols, hidden int, bus *EventBus) (*Board, error) {
	if err := CheckDimensions(rows, cols, hidden); err != nil {
		return nil, err
	}
	if bus == nil {
		bus = NewEventBus()
	}
	return &Board{
		grid:          NewGrid(cols, rows),
		hidden:        hidden,
		ghostsEnabled: true,
		bus:           bus,
	}, nil
}

// Rows returns the total number of rows including the hidden buffer.
func (b *Board) Rows() int { return b.grid.H }

// Cols returns the number of columns.
func (b *Board) Cols() int { return b.grid.W }

// HiddenRows returns the size of the off-screen spawn buffer.
func (b *Board) HiddenRows() int { return b.hidden }

// Bus returns the event bus the board publishes to.
func (b *Board) Bus() *EventBus { return b.bus }

// Active returns the active block, or nil before the first spawn and after game over.
func (b *Board) Active() *Block { return b.active }

// HeldBlock returns the block on hold, or nil.
func (b *Board) HeldBlock() *Block { return b.held }

// GhostsEnabled reports whether ghost squares are rendered.
func (b *Board) GhostsEnabled() bool { return b.ghostsEnabled }

// SetGhostsEnabled turns ghost square rendering on or off.
func (b *Board) SetGhostsEnabled(enabled bool) { b.ghostsEnabled = enabled }

// At returns the settled color at (row, col). Panics if out of bounds.
func (b *Board) At(row, col int) Color {
	return b.grid.Get(P(row, col))
}

// SetCell writes a settled cell directly. Used to seed puzzles and tests.
// Panics if out of bounds.
func (b *Board) SetCell(row, col int, c Color) {
	b.grid.Set(P(row, col), c)
}

// Grid returns a deep copy of the settled cells, top row first.
func (b *Board) Grid() [][]Color {
	return b.grid.Rows()
}

// FilledCount returns the number of settled cells.
func (b *Board) FilledCount() int {
	return b.grid.FilledCount()
}

// Reset clears the grid and drops the active and held blocks.
func (b *Board) Reset() {
	b.grid.Clear()
	b.active = nil
	b.held = nil
}

// ClearActive drops the active block without placing it. The grid and the
// held block are left as they are.
func (b *Board) ClearActive() {
	b.active = nil
}

// SameGeometry reports whether the board has the given dimensions.
func (b *Board) SameGeometry(rows, cols, hidden int) bool {
	return b.Rows() == rows && b.Cols() == cols && b.hidden == hidden
}

// visible reports whether a row lies below the spawn buffer.
func (b *Board) visible(row int) bool {
	return row >= b.hidden
}

// fits reports whether every position is in bounds and over an empty cell.
func (b *Board) fits(cells []Pos) bool {
	for _, c := range cells {
		if !b.grid.InBounds(c) || !b.grid.IsEmpty(c) {
			return false
		}
	}
	return true
}

// Spawn places a block at orientation 0, anchored at its type's spawn row
// and the horizontal center. While the placement overlaps settled cells the
// anchor is nudged up one row. If no candidate cell is visible the spawn
// fails: SpawnFail is published, the active block is cleared and the grid
// is left untouched.
func (b *Board) Spawn(block *Block) bool {
	anchor := P(b.hidden+block.Type.SpawnRow(), (b.Cols()-1)/2)
	for {
		cells := block.cellsAt(anchor, 0)
		if !b.anyVisible(cells) {
			b.active = nil
			b.bus.Publish(SpawnFailEvent{Block: block})
			return false
		}
		if b.fits(cells) {
			block.Anchor = anchor
			block.Orientation = 0
			b.active = block
			return true
		}
		anchor.Row--
	}
}

func (b *Board) anyVisible(cells []Pos) bool {
	for _, c := range cells {
		if b.visible(c.Row) {
			return true
		}
	}
	return false
}

// Move translates the active block. It succeeds only if every resulting
// cell is in bounds and empty; on failure nothing changes and no event fires.
func (b *Board) Move(rowDelta, colDelta int) bool {
	if !b.shift(rowDelta, colDelta) {
		return false
	}
	b.bus.Publish(BlockMovedEvent{Block: b.active})
	return true
}

// shift moves the active block without publishing.
func (b *Board) shift(rowDelta, colDelta int) bool {
	if b.active == nil {
		return false
	}
	anchor := b.active.Anchor.Add(Offset{Row: rowDelta, Col: colDelta})
	if !b.fits(b.active.cellsAt(anchor, b.active.Orientation)) {
		return false
	}
	b.active.Anchor = anchor
	return true
}

// MoveDown moves the active block one row down.
func (b *Board) MoveDown() bool { return b.Move(1, 0) }

// MoveLeft moves the active block one column left.
func (b *Board) MoveLeft() bool { return b.Move(0, -1) }

// MoveRight moves the active block one column right.
func (b *Board) MoveRight() bool { return b.Move(0, 1) }

// SlideLeft moves the active block left until it hits a wall or a cell.
// Returns the number of columns moved.
func (b *Board) SlideLeft() int {
	n := 0
	for b.MoveLeft() {
		n++
	}
	return n
}

// SlideRight moves the active block right until it hits a wall or a cell.
// Returns the number of columns moved.
func (b *Board) SlideRight() int {
	n := 0
	for b.MoveRight() {
		n++
	}
	return n
}

// HardDrop moves the active block down until it can't move further.
// Returns the number of rows dropped. Placement still happens on TryFall.
func (b *Board) HardDrop() int {
	n := 0
	for b.MoveDown() {
		n++
	}
	return n
}

// Rotate turns the active block once: Clockwise (+1) or CounterClockwise (-1).
// The turn is applied speculatively and reverted if any resulting cell is
// out of bounds or over a settled cell. No wall kicks are attempted.
// Shapes that look the same in every orientation always succeed.
// Panics on any other direction.
func (b *Board) Rotate(direction int) bool {
	if direction != Clockwise && direction != CounterClockwise {
		panic(fmt.Sprintf("core: invalid rotation direction %d", direction))
	}
	if b.active == nil {
		return false
	}
	if b.active.Type.Rotates() {
		prev := b.active.Orientation
		b.active.Orientation = rotated(prev, direction)
		if !b.fits(b.active.Cells()) {
			b.active.Orientation = prev
			return false
		}
	}
	b.bus.Publish(BlockMovedEvent{Block: b.active})
	return true
}

// RotateCW rotates the active block clockwise.
func (b *Board) RotateCW() bool { return b.Rotate(Clockwise) }

// RotateCCW rotates the active block counter-clockwise.
func (b *Board) RotateCCW() bool { return b.Rotate(CounterClockwise) }

// TryFall is the recurring tick. It moves the active block down one row;
// if that fails the block is logged into the grid (BlockPlaced), complete
// rows are removed (LinesCleared when any) and the active block is cleared.
// The caller spawns the next block. Returns whether the block was placed
// and how many lines it cleared.
func (b *Board) TryFall() (placed bool, lines int) {
	if b.active == nil {
		return false, 0
	}
	if b.MoveDown() {
		return false, 0
	}

	block := b.active
	for _, c := range block.Cells() {
		b.grid.Set(c, block.Color())
	}
	b.active = nil
	b.bus.Publish(BlockPlacedEvent{Block: block})

	lines = b.clearLines(block.LowestRow())
	if lines > 0 {
		b.bus.Publish(LinesClearedEvent{Count: lines})
	}
	return true, lines
}

// clearLines scans at most MaxBlockSpan rows upward from the landing row
// and removes every complete one. A removed row pulls the row above into
// its index, so that index is checked again.
func (b *Board) clearLines(lowest int) int {
	row := min(lowest, b.Rows()-1)
	cleared := 0
	for checked := 0; checked < MaxBlockSpan && row >= 0; checked++ {
		if b.grid.RowFull(row) {
			b.grid.RemoveRow(row)
			cleared++
		} else {
			row--
		}
	}
	return cleared
}

// Hold moves the active block to the hold slot and returns the block that
// was held before (nil on the first hold). The caller spawns the returned
// block, or a fresh one when nil. A block that has been held once can't be
// held again; in that case, or with no active block, Hold returns false.
func (b *Board) Hold() (released *Block, ok bool) {
	if b.active == nil || b.active.Held() {
		return nil, false
	}
	b.active.markHeld()
	released = b.held
	b.held = b.active
	b.active = nil
	return released, true
}

// GhostSquares previews where the active block would land if hard-dropped.
// The active block's position is restored exactly and no events fire.
func (b *Board) GhostSquares() []Cell {
	if b.active == nil {
		return nil
	}
	saved := b.active.Anchor
	for b.shift(1, 0) {
	}
	positions := b.active.Cells()
	b.active.Anchor = saved

	cells := make([]Cell, len(positions))
	for i, p := range positions {
		cells[i] = Cell{Pos: p, Color: ColorNone, Ghost: true}
	}
	return cells
}

// RenderableCells returns the active block's cells, then ghost cells when
// enabled and requested, then every settled cell. Each position appears once;
// the first cell added for a position wins.
func (b *Board) RenderableCells(includeGhosts bool) []Cell {
	seen := make(map[Pos]bool)
	var cells []Cell
	add := func(c Cell) {
		if seen[c.Pos] {
			return
		}
		seen[c.Pos] = true
		cells = append(cells, c)
	}

	if b.active != nil {
		for _, p := range b.active.Cells() {
			add(Cell{Pos: p, Color: b.active.Color()})
		}
	}
	if includeGhosts && b.ghostsEnabled {
		for _, c := range b.GhostSquares() {
			add(c)
		}
	}
	for _, c := range b.grid.FilledCells() {
		add(c)
	}
	return cells
}
