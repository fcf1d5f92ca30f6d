package stagehand

// NavOption adjusts which sides of a navigation animate.
type NavOption func(*navFlags)

type navFlags struct {
	enter bool
	exit  bool
}

// SkipEnter disables the entering side's animation.
func SkipEnter() NavOption {
	return func(f *navFlags) { f.enter = false }
}

// SkipExit disables the exiting side's animation.
func SkipExit() NavOption {
	return func(f *navFlags) { f.exit = false }
}

// Instant disables both animations. Hooks still fire; the navigation
// completes before the call returns.
func Instant() NavOption {
	return func(f *navFlags) {
		f.enter = false
		f.exit = false
	}
}

func newNavFlags(opts []NavOption) navFlags {
	f := navFlags{enter: true, exit: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&f)
		}
	}
	return f
}

// Every public navigation call follows the same shape: validate arguments,
// queue a replay of itself when busy, otherwise run. Stack-dependent checks
// happen at run time, so a deferred call reports them to the error handler.

// Push places scene on top of the stack. The new scene's OnEnter receives
// the previous top, which is paused with OnPause.
func (d *Director) Push(scene Scene, opt any, opts ...NavOption) error {
	if scene == nil {
		return navError("push", ErrNilScene)
	}
	if d.deferIfBusy(NavPush, func() error { return d.Push(scene, opt, opts...) }) {
		return nil
	}
	return d.push(scene, opt, newNavFlags(opts))
}

// PushKey resolves key through the factory and pushes the result.
func (d *Director) PushKey(key string, opt any, opts ...NavOption) error {
	scene, err := d.resolve(key)
	if err != nil {
		return navError("push", err)
	}
	return d.Push(scene, opt, opts...)
}

// Pop removes the top scene. The parent resumes with OnResume. With the
// enter side animating (the default), the parent's OnResume fires before
// the animation and the popped scene's OnExit fires once its exit side ends;
// with SkipEnter or Instant, OnExit comes first. Popping the only scene is
// allowed and leaves the stack empty.
//
// When a sequential reservation exists at this depth, the next reserved
// scene replaces the top instead, and the reservation's option and
// NavOptions are used in place of opt and opts.
func (d *Director) Pop(opt any, opts ...NavOption) error {
	if d.deferIfBusy(NavPop, func() error { return d.Pop(opt, opts...) }) {
		return nil
	}
	return d.pop(opt, newNavFlags(opts))
}

// Transition replaces the top scene with scene; the depth is unchanged.
func (d *Director) Transition(scene Scene, opt any, opts ...NavOption) error {
	if scene == nil {
		return navError("transition", ErrNilScene)
	}
	if d.deferIfBusy(NavTransition, func() error { return d.Transition(scene, opt, opts...) }) {
		return nil
	}
	return d.transition(scene, opt, newNavFlags(opts))
}

// TransitionKey resolves key through the factory and transitions to the
// result.
func (d *Director) TransitionKey(key string, opt any, opts ...NavOption) error {
	scene, err := d.resolve(key)
	if err != nil {
		return navError("transition", err)
	}
	return d.Transition(scene, opt, opts...)
}

// PopToRoot unwinds the stack to its bottom scene. Each removed scene gets
// OnExit and each parent OnResume, synchronously; then a single transition
// plays from the original top to the root. Fails while any sequential
// reservation exists.
func (d *Director) PopToRoot(opt any, opts ...NavOption) error {
	if d.deferIfBusy(NavPopToRoot, func() error { return d.PopToRoot(opt, opts...) }) {
		return nil
	}
	return d.popToRoot(opt, newNavFlags(opts))
}

// SequentialTransition reserves scenes for the current depth. The stack is
// not changed now; each subsequent Pop at this depth plays the next reserved
// scene in place of the top, with opt and the given NavOptions; the Pop
// caller's own option and NavOptions are ignored. done runs after the last
// reserved scene has finished entering. A scene may appear once in the list,
// and reserved scenes cannot be pushed or transitioned to while held.
func (d *Director) SequentialTransition(scenes []Scene, opt any, done func(), opts ...NavOption) error {
	if len(scenes) == 0 {
		return navError("sequentialTransition", ErrNoScenes)
	}
	for _, s := range scenes {
		if s == nil {
			return navError("sequentialTransition", ErrNilScene)
		}
	}
	list := append([]Scene(nil), scenes...)
	if d.deferIfBusy(NavSequential, func() error { return d.SequentialTransition(list, opt, done, opts...) }) {
		return nil
	}
	return d.sequential(list, opt, done, newNavFlags(opts))
}

func (d *Director) resolve(key string) (Scene, error) {
	if d.factory == nil {
		return nil, ErrNoFactory
	}
	scene, err := d.factory.Resolve(key)
	if err != nil {
		return nil, err
	}
	if scene == nil {
		return nil, ErrNilScene
	}
	return scene, nil
}

func (d *Director) push(scene Scene, opt any, f navFlags) error {
	if d.onStack(scene) {
		return navError("push", ErrSceneInStack)
	}
	if d.isReserved(scene) {
		return navError("push", ErrSceneReserved)
	}
	d.status = StatusProcessing
	prev := d.Current()
	d.stack = append(d.stack, scene)

	n := navigation{
		kind:      NavPush,
		from:      prev,
		enter:     scene,
		exit:      prev,
		flags:     f,
		opt:       opt,
		enterHook: func() { scene.OnEnter(prev, opt) },
	}
	if prev != nil {
		n.exitHook = func() { prev.OnPause(scene, opt) }
	}
	d.play(n)
	return nil
}

func (d *Director) pop(opt any, f navFlags) error {
	if len(d.stack) == 0 {
		return navError("pop", ErrNoSceneToPop)
	}
	top := len(d.stack) - 1
	popped := d.stack[top]
	if res := d.reservations[top]; res != nil {
		return d.popReserved(top, popped, res)
	}

	d.status = StatusProcessing
	d.stack[top] = nil
	d.stack = d.stack[:top]
	parent := d.Current()

	n := navigation{
		kind:     NavPop,
		from:     popped,
		enter:    parent,
		exit:     popped,
		flags:    f,
		opt:      opt,
		exitHook: func() { popped.OnExit(parent, opt) },
	}
	if parent != nil {
		n.enterHook = func() { parent.OnResume(popped, opt) }
	}
	d.play(n)
	return nil
}

// popReserved swaps the top for the next reserved scene. The reservation's
// option and flags apply, not the caller's.
func (d *Director) popReserved(depth int, popped Scene, res *reservation) error {
	next := res.scenes[0]
	if d.onStack(next) {
		// Drop the reservation so the next Pop returns to the parent.
		delete(d.reservations, depth)
		return navError("pop", ErrSceneInStack)
	}
	res.scenes = res.scenes[1:]
	var after func()
	if len(res.scenes) == 0 {
		delete(d.reservations, depth)
		after = res.done
	}

	d.status = StatusProcessing
	d.stack[depth] = next
	opt := res.opt
	d.play(navigation{
		kind:      NavPop,
		from:      popped,
		enter:     next,
		exit:      popped,
		flags:     res.flags,
		opt:       opt,
		enterHook: func() { next.OnEnter(popped, opt) },
		exitHook:  func() { popped.OnExit(next, opt) },
		after:     after,
	})
	return nil
}

func (d *Director) transition(scene Scene, opt any, f navFlags) error {
	if len(d.stack) == 0 {
		return navError("transition", ErrNoSceneToReplace)
	}
	if d.onStack(scene) {
		return navError("transition", ErrSceneInStack)
	}
	if d.isReserved(scene) {
		return navError("transition", ErrSceneReserved)
	}
	d.status = StatusProcessing
	top := len(d.stack) - 1
	old := d.stack[top]
	d.stack[top] = scene

	d.play(navigation{
		kind:      NavTransition,
		from:      old,
		enter:     scene,
		exit:      old,
		flags:     f,
		opt:       opt,
		enterHook: func() { scene.OnEnter(old, opt) },
		exitHook:  func() { old.OnExit(scene, opt) },
	})
	return nil
}

func (d *Director) popToRoot(opt any, f navFlags) error {
	if len(d.reservations) > 0 {
		return navError("popToRoot", ErrReservationPending)
	}
	if len(d.stack) <= 1 {
		return nil
	}
	d.status = StatusProcessing
	top := d.Current()
	for len(d.stack) > 1 {
		last := len(d.stack) - 1
		popped := d.stack[last]
		d.stack[last] = nil
		d.stack = d.stack[:last]
		parent := d.stack[last-1]
		d.hook(StatusPopToRootExit, func() { popped.OnExit(parent, opt) })
		d.hook(StatusPopToRootEnter, func() { parent.OnResume(popped, opt) })
	}
	d.play(navigation{
		kind:  NavPopToRoot,
		from:  top,
		enter: d.stack[0],
		exit:  top,
		flags: f,
		opt:   opt,
	})
	return nil
}

func (d *Director) sequential(scenes []Scene, opt any, done func(), f navFlags) error {
	if len(d.stack) == 0 {
		return navError("sequentialTransition", ErrNoSceneToReplace)
	}
	depth := len(d.stack) - 1
	if d.reservations[depth] != nil {
		return navError("sequentialTransition", ErrReservationPending)
	}
	for i, s := range scenes {
		if d.onStack(s) {
			return navError("sequentialTransition", ErrSceneInStack)
		}
		for _, prev := range scenes[:i] {
			if prev == s {
				return navError("sequentialTransition", ErrSceneInStack)
			}
		}
		if d.isReserved(s) {
			return navError("sequentialTransition", ErrSceneReserved)
		}
	}
	d.status = StatusProcessing
	d.reservations[depth] = &reservation{scenes: scenes, opt: opt, flags: f, done: done}
	d.complete(navigation{kind: NavSequential, from: d.Current(), opt: opt})
	return nil
}
