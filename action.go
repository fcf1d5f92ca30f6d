package stagehand

import "github.com/tanema/gween/ease"

// Action is one node's playable animation. Begin is called once when the
// action starts on a node; Step advances it by dt seconds and reports whether
// it has finished. Actions are stateful: build a fresh one per node and per
// playback.
type Action interface {
	Begin(node *Node)
	Step(dt float32) bool
}

// --- Tweens ---

// tweenAction builds its TweenGroup lazily so start values are read when the
// action begins, not when it is constructed.
type tweenAction struct {
	build func(n *Node) *TweenGroup
	group *TweenGroup
}

func (a *tweenAction) Begin(n *Node) {
	if n == nil {
		a.group = nil
		return
	}
	a.group = a.build(n)
}

func (a *tweenAction) Step(dt float32) bool {
	if a.group == nil {
		return true
	}
	a.group.Update(dt)
	return a.group.Done
}

// MoveTo animates the node's position to (x, y).
func MoveTo(x, y float64, duration float32, fn ease.TweenFunc) Action {
	return &tweenAction{build: func(n *Node) *TweenGroup {
		return TweenPosition(n, x, y, duration, fn)
	}}
}

// MoveBy animates the node's position by (dx, dy) from wherever it is when
// the action begins.
func MoveBy(dx, dy float64, duration float32, fn ease.TweenFunc) Action {
	return &tweenAction{build: func(n *Node) *TweenGroup {
		return TweenPosition(n, n.X+dx, n.Y+dy, duration, fn)
	}}
}

// ScaleTo animates the node's scale.
func ScaleTo(sx, sy float64, duration float32, fn ease.TweenFunc) Action {
	return &tweenAction{build: func(n *Node) *TweenGroup {
		return TweenScale(n, sx, sy, duration, fn)
	}}
}

// FadeTo animates the node's alpha.
func FadeTo(alpha float64, duration float32, fn ease.TweenFunc) Action {
	return &tweenAction{build: func(n *Node) *TweenGroup {
		return TweenAlpha(n, alpha, duration, fn)
	}}
}

// TintTo animates the node's color.
func TintTo(c Color, duration float32, fn ease.TweenFunc) Action {
	return &tweenAction{build: func(n *Node) *TweenGroup {
		return TweenColor(n, c, duration, fn)
	}}
}

// RotateTo animates the node's rotation (radians).
func RotateTo(r float64, duration float32, fn ease.TweenFunc) Action {
	return &tweenAction{build: func(n *Node) *TweenGroup {
		return TweenRotation(n, r, duration, fn)
	}}
}

// --- Timing and composition ---

type delayAction struct {
	duration float32
	elapsed  float32
}

// Delay waits for duration seconds. A non-positive duration finishes on the
// first Step.
func Delay(duration float32) Action {
	return &delayAction{duration: duration}
}

func (a *delayAction) Begin(*Node) {
	a.elapsed = 0
}

func (a *delayAction) Step(dt float32) bool {
	a.elapsed += dt
	return a.elapsed >= a.duration
}

type callAction struct {
	fn     func(n *Node)
	node   *Node
	called bool
}

// Call runs fn once, on the action's first Step.
func Call(fn func(n *Node)) Action {
	return &callAction{fn: fn}
}

func (a *callAction) Begin(n *Node) {
	a.node = n
	a.called = false
}

func (a *callAction) Step(float32) bool {
	if !a.called {
		a.called = true
		if a.fn != nil {
			a.fn(a.node)
		}
	}
	return true
}

type sequenceAction struct {
	actions []Action
	index   int
	node    *Node
}

// Sequence runs actions one after another on the same node. When an action
// finishes, the next one begins and is stepped in the same frame with a zero
// delta, so instant actions chain without wasting frames.
func Sequence(actions ...Action) Action {
	return &sequenceAction{actions: compactActions(actions)}
}

func (s *sequenceAction) Begin(n *Node) {
	s.node = n
	s.index = 0
	if len(s.actions) > 0 {
		s.actions[0].Begin(n)
	}
}

func (s *sequenceAction) Step(dt float32) bool {
	for s.index < len(s.actions) {
		if !s.actions[s.index].Step(dt) {
			return false
		}
		s.index++
		if s.index < len(s.actions) {
			s.actions[s.index].Begin(s.node)
		}
		dt = 0
	}
	return true
}

type spawnAction struct {
	actions []Action
	done    []bool
}

// Spawn runs actions in parallel on the same node and finishes when all of
// them have.
func Spawn(actions ...Action) Action {
	actions = compactActions(actions)
	return &spawnAction{actions: actions, done: make([]bool, len(actions))}
}

func (s *spawnAction) Begin(n *Node) {
	for i, a := range s.actions {
		s.done[i] = false
		a.Begin(n)
	}
}

func (s *spawnAction) Step(dt float32) bool {
	all := true
	for i, a := range s.actions {
		if s.done[i] {
			continue
		}
		if a.Step(dt) {
			s.done[i] = true
			continue
		}
		all = false
	}
	return all
}

func compactActions(actions []Action) []Action {
	out := actions[:0:0]
	for _, a := range actions {
		if a != nil {
			out = append(out, a)
		}
	}
	return out
}
