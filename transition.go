package stagehand

import (
	"fmt"
	"strings"

	"github.com/tanema/gween/ease"
)

// Transition is a swappable visual effect. Given a scene's registered nodes
// and a duration in seconds, it builds one action per node for the exiting
// side (Out) or the entering side (In). Restore* put the nodes back in their
// steady state after the side finishes, whether or not the actions ran to the
// end. Hides reports whether the effect occludes the opposite side; when
// either strategy hides, the Orchestrator delays entering actions by the
// duration.
//
// In may move nodes to their start pose immediately: it is called before any
// wait prefix, and nodes must not be seen at rest while they wait.
type Transition interface {
	Out(nodes []*Node, duration float32, opt any) []Action
	In(nodes []*Node, duration float32, opt any) []Action
	RestoreOut(nodes []*Node, opt any)
	RestoreIn(nodes []*Node, opt any)
	Hides() bool
}

// TransitionID identifies a strategy registered with a Director.
type TransitionID int

// --- None ---

type noneTransition struct{}

// None returns a strategy that produces no actions: sides using it complete
// synchronously.
func None() Transition { return noneTransition{} }

func (noneTransition) Out([]*Node, float32, any) []Action { return nil }
func (noneTransition) In([]*Node, float32, any) []Action  { return nil }
func (noneTransition) RestoreOut([]*Node, any)            {}
func (noneTransition) RestoreIn([]*Node, any)             {}
func (noneTransition) Hides() bool                        { return false }

// --- Slide ---

// SlideTransition moves exiting nodes one screen in Dir and brings entering
// nodes in from the opposite side.
type SlideTransition struct {
	Dir           Direction
	Width, Height float64
	EaseOut       ease.TweenFunc
	EaseIn        ease.TweenFunc
}

// Slide returns a slide strategy for a width x height screen.
func Slide(dir Direction, width, height float64) *SlideTransition {
	return &SlideTransition{
		Dir:     dir,
		Width:   width,
		Height:  height,
		EaseOut: ease.InCubic,
		EaseIn:  ease.OutCubic,
	}
}

func (s *SlideTransition) offset() (dx, dy float64) {
	v := s.Dir.Vector()
	return v.X * s.Width, v.Y * s.Height
}

func (s *SlideTransition) Out(nodes []*Node, duration float32, _ any) []Action {
	dx, dy := s.offset()
	actions := make([]Action, len(nodes))
	for i, n := range nodes {
		rx, ry := n.RestPosition()
		actions[i] = MoveTo(rx+dx, ry+dy, duration, s.EaseOut)
	}
	return actions
}

func (s *SlideTransition) In(nodes []*Node, duration float32, _ any) []Action {
	dx, dy := s.offset()
	actions := make([]Action, len(nodes))
	for i, n := range nodes {
		rx, ry := n.RestPosition()
		n.SetPosition(rx-dx, ry-dy)
		actions[i] = MoveTo(rx, ry, duration, s.EaseIn)
	}
	return actions
}

func (s *SlideTransition) RestoreOut(nodes []*Node, _ any) {
	for _, n := range nodes {
		n.RestorePosition()
	}
}

func (s *SlideTransition) RestoreIn(nodes []*Node, _ any) {
	for _, n := range nodes {
		n.RestorePosition()
	}
}

func (s *SlideTransition) Hides() bool { return false }

// --- Fade ---

type fadeTransition struct{}

// Fade returns a cross-fade strategy.
func Fade() Transition { return fadeTransition{} }

func (fadeTransition) Out(nodes []*Node, duration float32, _ any) []Action {
	actions := make([]Action, len(nodes))
	for i := range nodes {
		actions[i] = FadeTo(0, duration, ease.Linear)
	}
	return actions
}

func (fadeTransition) In(nodes []*Node, duration float32, _ any) []Action {
	actions := make([]Action, len(nodes))
	for i, n := range nodes {
		n.SetAlpha(0)
		actions[i] = FadeTo(n.RestAlpha(), duration, ease.Linear)
	}
	return actions
}

func (fadeTransition) RestoreOut(nodes []*Node, _ any) {
	for _, n := range nodes {
		n.RestoreAlpha()
	}
}

func (fadeTransition) RestoreIn(nodes []*Node, _ any) {
	for _, n := range nodes {
		n.RestoreAlpha()
	}
}

func (fadeTransition) Hides() bool { return false }

// --- Color wipe ---

// ColorWipeTransition tints exiting content to a solid color, then reveals
// entering content from that color. It hides the opposite side, so entering
// actions wait for the exit to finish.
type ColorWipeTransition struct {
	Color Color
}

// ColorWipe returns a color-wipe strategy through c.
func ColorWipe(c Color) *ColorWipeTransition {
	return &ColorWipeTransition{Color: c}
}

func (w *ColorWipeTransition) Out(nodes []*Node, duration float32, _ any) []Action {
	actions := make([]Action, len(nodes))
	for i := range nodes {
		actions[i] = TintTo(w.Color, duration, ease.InQuad)
	}
	return actions
}

func (w *ColorWipeTransition) In(nodes []*Node, duration float32, _ any) []Action {
	actions := make([]Action, len(nodes))
	for i, n := range nodes {
		n.Color = w.Color
		actions[i] = TintTo(n.RestColor(), duration, ease.OutQuad)
	}
	return actions
}

func (w *ColorWipeTransition) RestoreOut(nodes []*Node, _ any) {
	for _, n := range nodes {
		n.RestoreColor()
	}
}

func (w *ColorWipeTransition) RestoreIn(nodes []*Node, _ any) {
	for _, n := range nodes {
		n.RestoreColor()
	}
}

func (w *ColorWipeTransition) Hides() bool { return true }

// --- Lookup by name ---

var slideDirections = []Direction{
	DirectionLeft, DirectionRight, DirectionUp, DirectionDown,
	DirectionUpLeft, DirectionUpRight, DirectionDownLeft, DirectionDownRight,
}

// TransitionByName builds a built-in strategy from its config name: "none",
// "fade", "color-wipe", or "slide-<direction>" where direction is one of
// left, right, up, down, up-left, up-right, down-left, down-right. Slides use
// the given screen size.
func TransitionByName(name string, width, height float64) (Transition, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "none", "":
		return None(), nil
	case "fade":
		return Fade(), nil
	case "color-wipe":
		return ColorWipe(ColorBlack), nil
	}
	if dir, ok := strings.CutPrefix(key, "slide-"); ok {
		for _, d := range slideDirections {
			if d.String() == dir {
				return Slide(d, width, height), nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTransition, name)
}
