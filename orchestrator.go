package stagehand

// OrchestratorState is Idle between runs and Running while any launched
// sequence has not yet completed.
type OrchestratorState uint8

const (
	OrchestratorIdle OrchestratorState = iota
	OrchestratorRunning
)

func (s OrchestratorState) String() string {
	if s == OrchestratorRunning {
		return "running"
	}
	return "idle"
}

// TransitionRun describes one paired enter/exit animation. Either scene may
// be nil. A side animates only when its scene, its strategy and its Animate
// flag are all present.
type TransitionRun struct {
	Enter, Exit           Scene
	EnterNodes, ExitNodes []*Node
	EnterTransition       Transition
	ExitTransition        Transition
	AnimateEnter          bool
	AnimateExit           bool
}

func (r *TransitionRun) enterActive() bool {
	return r.Enter != nil && r.AnimateEnter && r.EnterTransition != nil
}

func (r *TransitionRun) exitActive() bool {
	return r.Exit != nil && r.AnimateExit && r.ExitTransition != nil
}

// hides reports whether either strategy occludes the opposite side.
func (r *TransitionRun) hides() bool {
	return (r.EnterTransition != nil && r.EnterTransition.Hides()) ||
		(r.ExitTransition != nil && r.ExitTransition.Hides())
}

// activeRun is the bookkeeping for a Running orchestrator.
type activeRun struct {
	TransitionRun
	opt        any
	onBothDone func()
	onExitDone func()

	enterLeft int
	exitLeft  int
	sidesLeft int
}

// Orchestrator plays the exit strategy on the outgoing scene's nodes and the
// enter strategy on the incoming scene's nodes at the same time, then
// resolves once both sides are done. It never blocks: sequences are handed
// to a Player and completion arrives through callbacks.
type Orchestrator struct {
	player   Player
	duration float32
	state    OrchestratorState
	run      *activeRun
}

// NewOrchestrator creates an idle orchestrator playing through player.
// duration is in seconds.
func NewOrchestrator(player Player, duration float32) *Orchestrator {
	return &Orchestrator{player: player, duration: duration}
}

// Duration returns the per-side animation duration in seconds.
func (o *Orchestrator) Duration() float32 { return o.duration }

// SetDuration sets the per-side animation duration in seconds. It applies to
// the next run.
func (o *Orchestrator) SetDuration(seconds float32) { o.duration = seconds }

// State returns Idle or Running.
func (o *Orchestrator) State() OrchestratorState { return o.state }

// Running reports whether a run is in progress.
func (o *Orchestrator) Running() bool { return o.state == OrchestratorRunning }

// Scenes returns the entering and exiting scenes of the current run, or nils
// when idle.
func (o *Orchestrator) Scenes() (enter, exit Scene) {
	if o.run == nil {
		return nil, nil
	}
	return o.run.Enter, o.run.Exit
}

// Start launches a run.
//
// onExitDone fires when the exit side has finished and been restored, or
// immediately when the exit side does not animate. onBothDone fires exactly
// once, after every launched sequence on both sides has completed and both
// sides have been restored; when neither side animates it fires before Start
// returns. Either callback may be nil.
func (o *Orchestrator) Start(req TransitionRun, onBothDone, onExitDone func(), opt any) error {
	if o.state == OrchestratorRunning {
		return ErrTransitionRunning
	}

	r := &activeRun{
		TransitionRun: req,
		opt:           opt,
		onBothDone:    onBothDone,
		onExitDone:    onExitDone,
	}
	exitActive := req.exitActive()
	enterActive := req.enterActive()

	// Count sides before launching anything so a side that completes
	// synchronously cannot resolve the run early.
	if exitActive {
		r.sidesLeft++
	}
	if enterActive {
		r.sidesLeft++
	}
	if r.sidesLeft == 0 {
		if onExitDone != nil {
			onExitDone()
		}
		if onBothDone != nil {
			onBothDone()
		}
		return nil
	}

	o.state = OrchestratorRunning
	o.run = r

	if exitActive {
		o.launchExit(r)
	} else if onExitDone != nil {
		onExitDone()
	}
	if enterActive {
		o.launchEnter(r)
	}
	return nil
}

func (o *Orchestrator) launchExit(r *activeRun) {
	actions := r.ExitTransition.Out(r.ExitNodes, o.duration, r.opt)
	r.Exit.OnExitTransitionStart(r.opt)

	r.exitLeft = countActions(actions)
	if r.exitLeft == 0 {
		o.finishExit(r)
		return
	}
	for i, a := range actions {
		if a == nil {
			continue
		}
		o.player.Play(nodeAt(r.ExitNodes, i), a, once(func() {
			r.exitLeft--
			if r.exitLeft == 0 {
				o.finishExit(r)
			}
		}))
	}
}

func (o *Orchestrator) launchEnter(r *activeRun) {
	actions := r.EnterTransition.In(r.EnterNodes, o.duration, r.opt)
	if r.hides() {
		for i, a := range actions {
			if a != nil {
				actions[i] = Sequence(Delay(o.duration), a)
			}
		}
	}
	r.Enter.OnEnterTransitionStart(r.opt)

	r.enterLeft = countActions(actions)
	if r.enterLeft == 0 {
		o.finishEnter(r)
		return
	}
	for i, a := range actions {
		if a == nil {
			continue
		}
		o.player.Play(nodeAt(r.EnterNodes, i), a, once(func() {
			r.enterLeft--
			if r.enterLeft == 0 {
				o.finishEnter(r)
			}
		}))
	}
}

func (o *Orchestrator) finishExit(r *activeRun) {
	r.ExitTransition.RestoreOut(r.ExitNodes, r.opt)
	r.Exit.OnExitTransitionEnd(r.opt)
	if r.onExitDone != nil {
		r.onExitDone()
	}
	o.sideDone(r)
}

func (o *Orchestrator) finishEnter(r *activeRun) {
	r.EnterTransition.RestoreIn(r.EnterNodes, r.opt)
	r.Enter.OnEnterTransitionEnd(r.opt)
	o.sideDone(r)
}

func (o *Orchestrator) sideDone(r *activeRun) {
	r.sidesLeft--
	if r.sidesLeft > 0 {
		return
	}
	// Idle before the callback: onBothDone may start the next run.
	if o.run == r {
		o.run = nil
		o.state = OrchestratorIdle
	}
	if r.onBothDone != nil {
		r.onBothDone()
	}
}

func countActions(actions []Action) int {
	n := 0
	for _, a := range actions {
		if a != nil {
			n++
		}
	}
	return n
}

// nodeAt pairs the i-th action with the i-th node; strategies may return
// fewer actions than nodes.
func nodeAt(nodes []*Node, i int) *Node {
	if i < len(nodes) {
		return nodes[i]
	}
	return nil
}

// once guards a completion callback against players that report twice.
func once(fn func()) func() {
	fired := false
	return func() {
		if fired {
			return
		}
		fired = true
		fn()
	}
}
