package core

// Block is a mutable piece instance. Its type is shared catalog data;
// position and orientation are the block's own. The anchor is undefined
// until the board spawns the block.
type Block struct {
	Type        BlockType
	Anchor      Pos
	Orientation int // Always in [0,3]
	held        bool
}

// NewBlock creates an unspawned block of the given type at orientation 0.
func NewBlock(t BlockType) *Block {
	return &Block{Type: t}
}

// Color returns the block's fill color.
func (b *Block) Color() Color {
	return b.Type.Color()
}

// Held reports whether the block has ever been put on hold.
// Once set the flag is never cleared.
func (b *Block) Held() bool {
	return b.held
}

// markHeld sets the one-shot hold flag.
func (b *Block) markHeld() {
	b.held = true
}

// Cells returns the absolute positions the block occupies.
func (b *Block) Cells() []Pos {
	return b.cellsAt(b.Anchor, b.Orientation)
}

// cellsAt returns the positions the block would occupy at an anchor and orientation.
func (b *Block) cellsAt(anchor Pos, orientation int) []Pos {
	offsets := b.Type.Offsets(orientation)
	cells := make([]Pos, len(offsets))
	for i, o := range offsets {
		cells[i] = anchor.Add(o)
	}
	return cells
}

// LowestRow returns the largest row index among the block's cells.
func (b *Block) LowestRow() int {
	cells := b.Cells()
	lowest := cells[0].Row
	for _, c := range cells[1:] {
		lowest = max(lowest, c.Row)
	}
	return lowest
}

// rotated returns the orientation reached by turning once in direction.
// Wraps 3->0 clockwise and 0->3 counter-clockwise.
func rotated(orientation, direction int) int {
	return (orientation + direction + 4) % 4
}
