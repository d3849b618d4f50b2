package core

// Color identifies the fill of a board cell.
// ColorNone marks an empty cell.
type Color uint8

const (
	ColorNone Color = iota
	ColorCyan
	ColorYellow
	ColorPurple
	ColorGreen
	ColorRed
	ColorOrange
	ColorBlue
	ColorPink
	ColorLime
	ColorWhite
	ColorCount // Sentinel value for iteration
)

// String returns the string representation of a color.
func (c Color) String() string {
	switch c {
	case ColorNone:
		return "none"
	case ColorCyan:
		return "cyan"
	case ColorYellow:
		return "yellow"
	case ColorPurple:
		return "purple"
	case ColorGreen:
		return "green"
	case ColorRed:
		return "red"
	case ColorOrange:
		return "orange"
	case ColorBlue:
		return "blue"
	case ColorPink:
		return "pink"
	case ColorLime:
		return "lime"
	case ColorWhite:
		return "white"
	default:
		return "unknown"
	}
}

// Filled reports whether the color marks an occupied cell.
func (c Color) Filled() bool {
	return c != ColorNone
}
