package core

import (
	"fmt"
	"strings"
)

// BlockType identifies one of the catalog shapes.
// Per-shape behavior lives in the shape table, not in methods per type.
type BlockType uint8

const (
	StraightLine BlockType = iota
	Box
	TShape
	SShape
	ZShape
	LShape
	JShape
	Plus
	UShape
	Corner
	BlockTypeCount // Sentinel value for iteration
)

// shape is the immutable data behind a BlockType.
type shape struct {
	name      string
	color     Color
	special   bool // Eligible for special per-line bonuses
	rotates   bool // False for shapes identical in every orientation
	spawnRow  int  // Anchor row at spawn, relative to the first visible row
	rotations [4][]Offset
	preview   []Offset // Orientation 0 normalized to a top-left origin
}

// shapes is indexed by BlockType. Orientation 1..3 are successive
// clockwise quarter turns of orientation 0 around the anchor.
var shapes = [BlockTypeCount]shape{
	StraightLine: {
		name:    "straight_line",
		color:   ColorCyan,
		rotates: true,
		rotations: [4][]Offset{
			{{0, -1}, {0, 0}, {0, 1}, {0, 2}},
			{{-1, 0}, {0, 0}, {1, 0}, {2, 0}},
			{{0, 1}, {0, 0}, {0, -1}, {0, -2}},
			{{1, 0}, {0, 0}, {-1, 0}, {-2, 0}},
		},
	},
	Box: {
		name:  "box",
		color: ColorYellow,
		rotations: [4][]Offset{
			{{0, 0}, {0, 1}, {1, 0}, {1, 1}},
			{{0, 0}, {0, 1}, {1, 0}, {1, 1}},
			{{0, 0}, {0, 1}, {1, 0}, {1, 1}},
			{{0, 0}, {0, 1}, {1, 0}, {1, 1}},
		},
	},
	TShape: {
		name:    "t",
		color:   ColorPurple,
		rotates: true,
		rotations: [4][]Offset{
			{{0, -1}, {0, 0}, {0, 1}, {1, 0}},
			{{-1, 0}, {0, 0}, {1, 0}, {0, -1}},
			{{0, 1}, {0, 0}, {0, -1}, {-1, 0}},
			{{1, 0}, {0, 0}, {-1, 0}, {0, 1}},
		},
	},
	SShape: {
		name:    "s",
		color:   ColorGreen,
		rotates: true,
		rotations: [4][]Offset{
			{{0, 0}, {0, 1}, {1, -1}, {1, 0}},
			{{0, 0}, {1, 0}, {-1, -1}, {0, -1}},
			{{0, 0}, {0, -1}, {-1, 1}, {-1, 0}},
			{{0, 0}, {-1, 0}, {1, 1}, {0, 1}},
		},
	},
	ZShape: {
		name:    "z",
		color:   ColorRed,
		rotates: true,
		rotations: [4][]Offset{
			{{0, -1}, {0, 0}, {1, 0}, {1, 1}},
			{{-1, 0}, {0, 0}, {0, -1}, {1, -1}},
			{{0, 1}, {0, 0}, {-1, 0}, {-1, -1}},
			{{1, 0}, {0, 0}, {0, 1}, {-1, 1}},
		},
	},
	LShape: {
		name:    "l",
		color:   ColorOrange,
		rotates: true,
		rotations: [4][]Offset{
			{{0, -1}, {0, 0}, {0, 1}, {1, -1}},
			{{-1, 0}, {0, 0}, {1, 0}, {-1, -1}},
			{{0, 1}, {0, 0}, {0, -1}, {-1, 1}},
			{{1, 0}, {0, 0}, {-1, 0}, {1, 1}},
		},
	},
	JShape: {
		name:    "j",
		color:   ColorBlue,
		rotates: true,
		rotations: [4][]Offset{
			{{0, -1}, {0, 0}, {0, 1}, {1, 1}},
			{{-1, 0}, {0, 0}, {1, 0}, {1, -1}},
			{{0, 1}, {0, 0}, {0, -1}, {-1, -1}},
			{{1, 0}, {0, 0}, {-1, 0}, {-1, 1}},
		},
	},
	Plus: {
		name:     "plus",
		color:    ColorPink,
		special:  true,
		spawnRow: 1,
		rotations: [4][]Offset{
			{{-1, 0}, {0, -1}, {0, 0}, {0, 1}, {1, 0}},
			{{-1, 0}, {0, -1}, {0, 0}, {0, 1}, {1, 0}},
			{{-1, 0}, {0, -1}, {0, 0}, {0, 1}, {1, 0}},
			{{-1, 0}, {0, -1}, {0, 0}, {0, 1}, {1, 0}},
		},
	},
	UShape: {
		name:    "u",
		color:   ColorLime,
		special: true,
		rotates: true,
		rotations: [4][]Offset{
			{{0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}},
			{{-1, 0}, {1, 0}, {-1, -1}, {0, -1}, {1, -1}},
			{{0, 1}, {0, -1}, {-1, 1}, {-1, 0}, {-1, -1}},
			{{1, 0}, {-1, 0}, {1, 1}, {0, 1}, {-1, 1}},
		},
	},
	Corner: {
		name:    "corner",
		color:   ColorWhite,
		special: true,
		rotates: true,
		rotations: [4][]Offset{
			{{0, 0}, {0, 1}, {1, 0}},
			{{0, 0}, {1, 0}, {0, -1}},
			{{0, 0}, {0, -1}, {-1, 0}},
			{{0, 0}, {-1, 0}, {0, 1}},
		},
	},
}

func init() {
	for i := range shapes {
		s := &shapes[i]
		for o, offsets := range s.rotations {
			if span := rowSpan(offsets); span > MaxBlockSpan {
				panic(fmt.Sprintf("core: shape %q orientation %d spans %d rows (max %d)", s.name, o, span, MaxBlockSpan))
			}
		}
		s.preview = normalize(s.rotations[0])
	}
}

// rowSpan returns how many rows a set of offsets covers.
func rowSpan(offsets []Offset) int {
	minRow, maxRow := offsets[0].Row, offsets[0].Row
	for _, o := range offsets[1:] {
		minRow = min(minRow, o.Row)
		maxRow = max(maxRow, o.Row)
	}
	return maxRow - minRow + 1
}

// normalize shifts offsets so the smallest row and column are zero.
func normalize(offsets []Offset) []Offset {
	minRow, minCol := offsets[0].Row, offsets[0].Col
	for _, o := range offsets[1:] {
		minRow = min(minRow, o.Row)
		minCol = min(minCol, o.Col)
	}
	out := make([]Offset, len(offsets))
	for i, o := range offsets {
		out[i] = Offset{Row: o.Row - minRow, Col: o.Col - minCol}
	}
	return out
}

func (t BlockType) shape() *shape {
	if t >= BlockTypeCount {
		panic(fmt.Sprintf("core: unknown block type %d", t))
	}
	return &shapes[t]
}

// String returns the catalog name of the block type (e.g. "straight_line").
func (t BlockType) String() string {
	if t >= BlockTypeCount {
		return "unknown"
	}
	return shapes[t].name
}

// Color returns the spawn color of the block type.
func (t BlockType) Color() Color {
	return t.shape().color
}

// Special reports whether the type is eligible for special scoring bonuses.
func (t BlockType) Special() bool {
	return t.shape().special
}

// Rotates reports whether rotating the type can change its footprint.
func (t BlockType) Rotates() bool {
	return t.shape().rotates
}

// SpawnRow returns the anchor row used at spawn, relative to the first
// visible board row.
func (t BlockType) SpawnRow() int {
	return t.shape().spawnRow
}

// Offsets returns the cell offsets for an orientation in [0,3].
// The returned slice is shared and must not be modified.
func (t BlockType) Offsets(orientation int) []Offset {
	if orientation < 0 || orientation > 3 {
		panic(fmt.Sprintf("core: orientation %d out of range", orientation))
	}
	return t.shape().rotations[orientation]
}

// Preview returns the next-panel layout: orientation 0 shifted so the
// top-left cell of its bounding box is (0,0).
func (t BlockType) Preview() []Offset {
	return t.shape().preview
}

// Size returns the number of cells the block type occupies.
func (t BlockType) Size() int {
	return len(t.shape().rotations[0])
}

// AllBlockTypes returns every catalog type in declaration order.
func AllBlockTypes() []BlockType {
	types := make([]BlockType, 0, BlockTypeCount)
	for t := BlockType(0); t < BlockTypeCount; t++ {
		types = append(types, t)
	}
	return types
}

// StandardBlockTypes returns the seven non-special types.
func StandardBlockTypes() []BlockType {
	var types []BlockType
	for _, t := range AllBlockTypes() {
		if !t.Special() {
			types = append(types, t)
		}
	}
	return types
}

// ParseBlockType looks up a block type by catalog name (case-insensitive).
func ParseBlockType(name string) (BlockType, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t := BlockType(0); t < BlockTypeCount; t++ {
		if shapes[t].name == name {
			return t, true
		}
	}
	return 0, false
}
