package stagehand

// Player runs actions on nodes and reports completion through callbacks.
// The Orchestrator only ever talks to a Player, so hosts with their own
// animation scheduler can plug it in through WithPlayer.
type Player interface {
	// Play begins action on node. onComplete fires exactly once, when the
	// action finishes or is stopped.
	Play(node *Node, action Action, onComplete func())
	// Stop ends every action playing on node. Their completion callbacks
	// fire immediately so callers waiting on them still resolve.
	Stop(node *Node)
}

type playback struct {
	node       *Node
	action     Action
	onComplete func()
	finished   bool
}

// Animator is the built-in frame-driven Player. Every running playback
// advances once per Update; there is no goroutine and no timer.
type Animator struct {
	running  []*playback
	stepping []*playback // snapshot being advanced by Update
}

// NewAnimator creates an idle animator.
func NewAnimator() *Animator {
	return &Animator{}
}

// Play begins action on node immediately. The first Step happens on the next
// Update.
func (a *Animator) Play(node *Node, action Action, onComplete func()) {
	if action == nil {
		if onComplete != nil {
			onComplete()
		}
		return
	}
	action.Begin(node)
	a.running = append(a.running, &playback{node: node, action: action, onComplete: onComplete})
}

// Stop finishes every playback on node and fires their callbacks.
func (a *Animator) Stop(node *Node) {
	var stopped []*playback
	for _, p := range a.stepping {
		if p.node == node && !p.finished {
			stopped = append(stopped, p)
		}
	}
	kept := a.running[:0]
	for _, p := range a.running {
		if p.node == node {
			stopped = append(stopped, p)
			continue
		}
		kept = append(kept, p)
	}
	for i := len(kept); i < len(a.running); i++ {
		a.running[i] = nil
	}
	a.running = kept
	for _, p := range stopped {
		a.complete(p)
	}
}

// Update advances every running playback by dt seconds. Completion callbacks
// run after all playbacks have stepped, so a callback may Play or Stop freely;
// playbacks it starts are first stepped on the next Update.
func (a *Animator) Update(dt float32) {
	if len(a.running) == 0 {
		return
	}
	current := a.running
	a.running = make([]*playback, 0, len(current))
	a.stepping = current

	var done []*playback
	for _, p := range current {
		if p.finished {
			continue
		}
		finished := (p.node != nil && p.node.IsDisposed()) || p.action.Step(dt)
		switch {
		case p.finished:
			// Stopped by its own step.
		case finished:
			done = append(done, p)
		default:
			a.running = append(a.running, p)
		}
	}
	a.stepping = nil
	for _, p := range done {
		a.complete(p)
	}
}

// Running returns the number of playbacks still in progress.
func (a *Animator) Running() int {
	return len(a.running)
}

func (a *Animator) complete(p *playback) {
	if p.finished {
		return
	}
	p.finished = true
	if p.onComplete != nil {
		p.onComplete()
	}
}
