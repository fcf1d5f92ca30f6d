package stagehand

import (
	"log/slog"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// reservation holds the scenes SequentialTransition queued for one stack
// depth. Each Pop at that depth plays the next one instead of returning to
// the parent.
type reservation struct {
	scenes []Scene
	opt    any
	flags  navFlags
	done   func()
}

// Director owns the scene stack. It is the single entry point for
// navigation: every call is checked against the busy status, run through
// the scene hooks and one orchestrated transition, and otherwise queued
// until the navigation in flight has completed.
//
// A Director is not safe for concurrent use; drive it from the game loop.
type Director struct {
	stack        []Scene
	status       Status
	deferred     []func() error
	nodes        map[Scene][]*Node
	reservations map[int]*reservation

	transitions    []Transition
	enterID        TransitionID
	exitID         TransitionID
	transitionTime time.Duration

	player       Player
	animator     *Animator // nil when a custom Player is installed
	orchestrator *Orchestrator

	factory   SceneFactory
	observers []Observer
	logger    *slog.Logger
	onError   func(error)
	debug     bool
}

// Option configures a Director.
type Option func(*Director)

// WithPlayer replaces the built-in Animator. Update and UpdateDelta become
// no-ops; the host advances its own player.
func WithPlayer(p Player) Option {
	return func(d *Director) { d.player = p }
}

// WithFactory sets the factory used by PushKey and TransitionKey.
func WithFactory(f SceneFactory) Option {
	return func(d *Director) { d.factory = f }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Director) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithTransitionTime sets the per-side animation duration. Negative values
// are ignored.
func WithTransitionTime(t time.Duration) Option {
	return func(d *Director) {
		if t >= 0 {
			d.transitionTime = t
		}
	}
}

// WithErrorHandler receives errors from deferred navigation calls, which
// have no caller left to return them to. The default logs them.
func WithErrorHandler(fn func(error)) Option {
	return func(d *Director) { d.onError = fn }
}

// WithObserver registers an Observer.
func WithObserver(o Observer) Option {
	return func(d *Director) { d.AddObserver(o) }
}

// WithConfig applies transition time, transition names, log level and debug
// mode from cfg. Invalid transition names keep the defaults; call
// cfg.Validate first to reject them.
func WithConfig(cfg Config) Option {
	return func(d *Director) {
		if cfg.TransitionTime >= 0 {
			d.transitionTime = cfg.TransitionTime
		}
		if t, err := cfg.enterTransition(); err == nil {
			d.enterID = d.RegisterTransition(t)
		}
		if t, err := cfg.exitTransition(); err == nil {
			d.exitID = d.RegisterTransition(t)
		}
		if cfg.LogLevel != "" {
			d.logger = NewLogger(os.Stderr, ParseLogLevel(cfg.LogLevel))
		}
		d.debug = cfg.Debug
	}
}

// NewDirector creates a Director with an empty stack. Without options it
// slides scenes left over DefaultTransitionTime using a built-in Animator.
func NewDirector(opts ...Option) *Director {
	d := &Director{
		nodes:          make(map[Scene][]*Node),
		reservations:   make(map[int]*reservation),
		transitionTime: DefaultTransitionTime,
		logger:         defaultLogger(),
	}
	slide := d.RegisterTransition(Slide(DirectionLeft, DefaultWidth, DefaultHeight))
	d.enterID, d.exitID = slide, slide

	for _, opt := range opts {
		opt(d)
	}
	if d.player == nil {
		d.animator = NewAnimator()
		d.player = d.animator
	}
	if d.onError == nil {
		d.onError = func(err error) {
			d.logger.Error("deferred navigation failed", "error", err)
		}
	}
	d.orchestrator = NewOrchestrator(d.player, seconds(d.transitionTime))
	return d
}

func seconds(t time.Duration) float32 {
	return float32(t.Seconds())
}

// --- Registration ---

// RegisterScene sets the nodes transitions animate for scene, replacing any
// previous list. Each node's current pose is saved as its rest state. An
// empty list is allowed: that scene's transitions complete immediately.
func (d *Director) RegisterScene(scene Scene, nodes []*Node) error {
	if scene == nil {
		return navError("registerScene", ErrNilScene)
	}
	list := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			return navError("registerScene", ErrNilNode)
		}
		if d.debug {
			debugCheckDisposed(n, "RegisterScene")
		}
		n.SaveRest()
		list = append(list, n)
	}
	d.nodes[scene] = list
	return nil
}

// UnregisterScene forgets scene's nodes. Sequences still playing on them are
// stopped, which completes their side of any running transition.
func (d *Director) UnregisterScene(scene Scene) {
	nodes := d.nodes[scene]
	delete(d.nodes, scene)
	for _, n := range nodes {
		d.player.Stop(n)
	}
}

// NodesOf returns the nodes registered for scene. The returned slice MUST NOT
// be mutated.
func (d *Director) NodesOf(scene Scene) []*Node {
	return d.nodes[scene]
}

// RegisterTransition adds a strategy and returns its id.
// Panics if t is nil.
func (d *Director) RegisterTransition(t Transition) TransitionID {
	if t == nil {
		panic("stagehand: cannot register nil transition")
	}
	d.transitions = append(d.transitions, t)
	return TransitionID(len(d.transitions) - 1)
}

// UseTransitions selects the registered strategies for entering and exiting
// sides of subsequent navigations.
func (d *Director) UseTransitions(enter, exit TransitionID) error {
	if !d.validTransition(enter) || !d.validTransition(exit) {
		return navError("useTransitions", ErrUnknownTransition)
	}
	d.enterID, d.exitID = enter, exit
	return nil
}

// Transitions returns the ids of the strategies in use.
func (d *Director) Transitions() (enter, exit TransitionID) {
	return d.enterID, d.exitID
}

func (d *Director) validTransition(id TransitionID) bool {
	return id >= 0 && int(id) < len(d.transitions)
}

// TransitionTime returns the per-side animation duration.
func (d *Director) TransitionTime() time.Duration {
	return d.transitionTime
}

// SetTransitionTime sets the per-side animation duration for subsequent
// navigations.
func (d *Director) SetTransitionTime(t time.Duration) error {
	if t < 0 {
		return navError("setTransitionTime", ErrInvalidTransitionTime)
	}
	d.transitionTime = t
	d.orchestrator.SetDuration(seconds(t))
	return nil
}

// SetFactory sets the factory used by PushKey and TransitionKey.
func (d *Director) SetFactory(f SceneFactory) {
	d.factory = f
}

// AddObserver registers o to receive an event after every navigation.
func (d *Director) AddObserver(o Observer) {
	if o != nil {
		d.observers = append(d.observers, o)
	}
}

// --- Introspection ---

// Current returns the scene on top of the stack, or nil.
func (d *Director) Current() Scene {
	if len(d.stack) == 0 {
		return nil
	}
	return d.stack[len(d.stack)-1]
}

// Depth returns the number of scenes on the stack.
func (d *Director) Depth() int {
	return len(d.stack)
}

// Scenes returns a copy of the stack, root first.
func (d *Director) Scenes() []Scene {
	out := make([]Scene, len(d.stack))
	copy(out, d.stack)
	return out
}

// Status returns the navigation status.
func (d *Director) Status() Status {
	return d.status
}

// IsInTransition reports whether a transition animation is running.
func (d *Director) IsInTransition() bool {
	return d.orchestrator.Running()
}

// Pending returns the number of deferred navigation calls.
func (d *Director) Pending() int {
	return len(d.deferred)
}

// Reserved returns how many scenes SequentialTransition still holds for the
// current depth.
func (d *Director) Reserved() int {
	if res := d.reservations[len(d.stack)-1]; res != nil {
		return len(res.scenes)
	}
	return 0
}

// VisibleScenes returns the scenes that should be drawn this frame, bottom
// first: the exiting scene while a transition runs, then the current scene.
func (d *Director) VisibleScenes() []Scene {
	cur := d.Current()
	out := make([]Scene, 0, 2)
	if _, exit := d.orchestrator.Scenes(); exit != nil && exit != cur {
		out = append(out, exit)
	}
	if cur != nil {
		out = append(out, cur)
	}
	return out
}

// --- Frame clock ---

// Update advances the built-in Animator by one tick (1/TPS seconds).
func (d *Director) Update() {
	tps := ebiten.TPS()
	if tps <= 0 {
		tps = DefaultTPS
	}
	d.UpdateDelta(float32(1.0 / float64(tps)))
}

// UpdateDelta advances the built-in Animator by dt seconds.
func (d *Director) UpdateDelta(dt float32) {
	if d.animator != nil {
		d.animator.Update(dt)
	}
}

// --- Busy gate ---

// deferIfBusy queues call when a navigation is in flight and reports whether
// it did.
func (d *Director) deferIfBusy(kind NavKind, call func() error) bool {
	if !d.status.Busy() {
		return false
	}
	d.deferred = append(d.deferred, call)
	d.logger.Info("navigation deferred",
		"op", kind.String(),
		"status", d.status.String(),
		"pending", len(d.deferred))
	d.debugDeferred(kind)
	return true
}

// drain replays deferred calls in order while the Director is idle. A call
// that starts an animated navigation leaves the Director busy and stops the
// loop; its completion drains the next one.
func (d *Director) drain() {
	for !d.status.Busy() && len(d.deferred) > 0 {
		next := d.deferred[0]
		d.deferred[0] = nil
		d.deferred = d.deferred[1:]
		if err := next(); err != nil {
			d.onError(err)
		}
	}
}

// hook runs fn under status, restoring the previous status afterwards. A
// panicking hook propagates and leaves the status as it was set.
func (d *Director) hook(status Status, fn func()) {
	if fn == nil {
		return
	}
	prev := d.status
	d.status = status
	fn()
	d.status = prev
}

// navigation is one resolved call: who enters, who leaves, which hooks fire.
type navigation struct {
	kind                NavKind
	from                Scene
	enter, exit         Scene
	enterHook, exitHook func()
	flags               navFlags
	opt                 any
	after               func()
}

// play fires the hooks around a single orchestrated transition.
//
// With the enter side animating, the entering hook runs first, before the
// animation, and the exiting hook waits for the exit side to finish. With
// only the exit side animating, both hooks run up front, exiting first. With
// neither, the orchestrator resolves at once and the hooks follow, exiting
// first.
func (d *Director) play(n navigation) {
	req := TransitionRun{
		Enter:           n.enter,
		Exit:            n.exit,
		EnterNodes:      d.nodes[n.enter],
		ExitNodes:       d.nodes[n.exit],
		EnterTransition: d.transitions[d.enterID],
		ExitTransition:  d.transitions[d.exitID],
		AnimateEnter:    n.flags.enter,
		AnimateExit:     n.flags.exit,
	}
	exitHook := func() { d.hook(StatusExit, n.exitHook) }
	done := func() { d.complete(n) }

	switch {
	case n.flags.enter:
		d.hook(StatusEnter, n.enterHook)
		d.start(req, done, exitHook, n.opt)
	case n.flags.exit:
		exitHook()
		d.hook(StatusEnter, n.enterHook)
		d.start(req, done, nil, n.opt)
	default:
		d.start(req, func() {
			d.hook(StatusEnter, n.enterHook)
			done()
		}, exitHook, n.opt)
	}
}

func (d *Director) start(req TransitionRun, onBothDone, onExitDone func(), opt any) {
	d.status = StatusInTransition
	if err := d.orchestrator.Start(req, onBothDone, onExitDone, opt); err != nil {
		// The busy gate keeps runs serial; reaching this means a host
		// shared the orchestrator. Resolve without animating.
		d.logger.Error("transition not started", "error", err)
		if onExitDone != nil {
			onExitDone()
		}
		onBothDone()
	}
}

// complete runs the post-transition work, still busy so that anything it
// triggers queues behind earlier requests, then returns to Normal.
func (d *Director) complete(n navigation) {
	d.status = StatusProcessing
	if n.after != nil {
		n.after()
	}
	ev := NavigationEvent{
		Kind:   n.kind,
		From:   sceneName(n.from),
		To:     sceneName(d.Current()),
		Depth:  len(d.stack),
		Option: n.opt,
	}
	d.logger.Debug("navigation complete",
		"op", n.kind.String(),
		"from", ev.From,
		"to", ev.To,
		"depth", ev.Depth)
	d.debugNavigated(ev)
	for _, o := range d.observers {
		o.Navigated(ev)
	}
	d.status = StatusNormal
	d.drain()
}

// isReserved reports whether s is waiting in any sequential reservation.
func (d *Director) isReserved(s Scene) bool {
	for _, res := range d.reservations {
		for _, x := range res.scenes {
			if x == s {
				return true
			}
		}
	}
	return false
}

func (d *Director) onStack(s Scene) bool {
	for _, x := range d.stack {
		if x == s {
			return true
		}
	}
	return false
}
