package stagehand

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs when a node is drawn.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// ColorBlack is opaque black, the default color-wipe tint.
var ColorBlack = Color{0, 0, 0, 1}

// Vec2 is a 2D vector used for positions, offsets and directions.
type Vec2 struct {
	X, Y float64
}

// Direction selects which way a slide transition moves exiting content.
// Entering content arrives from the opposite side.
type Direction uint8

const (
	DirectionLeft      Direction = iota // exiting content leaves to the left
	DirectionRight                      // exiting content leaves to the right
	DirectionUp                         // exiting content leaves upward
	DirectionDown                       // exiting content leaves downward
	DirectionUpLeft                     // exiting content leaves to the top-left corner
	DirectionUpRight                    // exiting content leaves to the top-right corner
	DirectionDownLeft                   // exiting content leaves to the bottom-left corner
	DirectionDownRight                  // exiting content leaves to the bottom-right corner
)

// Vector returns the unit offset (in screen widths/heights) for the direction.
// The coordinate system has its origin at the top-left, with Y increasing downward.
func (d Direction) Vector() Vec2 {
	switch d {
	case DirectionLeft:
		return Vec2{-1, 0}
	case DirectionRight:
		return Vec2{1, 0}
	case DirectionUp:
		return Vec2{0, -1}
	case DirectionDown:
		return Vec2{0, 1}
	case DirectionUpLeft:
		return Vec2{-1, -1}
	case DirectionUpRight:
		return Vec2{1, -1}
	case DirectionDownLeft:
		return Vec2{-1, 1}
	case DirectionDownRight:
		return Vec2{1, 1}
	default:
		return Vec2{}
	}
}

// String returns the config name fragment for the direction ("left", "up-right", ...).
func (d Direction) String() string {
	switch d {
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	case DirectionUpLeft:
		return "up-left"
	case DirectionUpRight:
		return "up-right"
	case DirectionDownLeft:
		return "down-left"
	case DirectionDownRight:
		return "down-right"
	default:
		return "unknown"
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
