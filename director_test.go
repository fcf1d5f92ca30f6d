package stagehand

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return NewLogger(io.Discard, slog.LevelDebug)
}

// newTestDirector returns a Director whose animations only complete when
// the returned fakePlayer is told to finish them.
func newTestDirector(opts ...Option) (*Director, *fakePlayer) {
	p := &fakePlayer{}
	all := append([]Option{WithPlayer(p), WithLogger(quietLogger())}, opts...)
	return NewDirector(all...), p
}

// registered creates a recScene with n nodes registered on d.
func registered(t *testing.T, d *Director, rec *recorder, name string, n int) *recScene {
	t.Helper()
	s := newRecScene(rec, name)
	if err := d.RegisterScene(s, rects(name, n)); err != nil {
		t.Fatalf("RegisterScene(%s): %v", name, err)
	}
	return s
}

func mustNav(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("navigation: %v", err)
	}
}

// --- Stack ---

func TestDirectorStackDepth(t *testing.T) {
	rec := &recorder{}
	d := NewDirector(WithLogger(quietLogger()))
	scenes := []*recScene{newRecScene(rec, "A"), newRecScene(rec, "B"), newRecScene(rec, "C")}

	for i, s := range scenes {
		mustNav(t, d.Push(s, nil, Instant()))
		if d.Depth() != i+1 {
			t.Fatalf("after push %d: Depth = %d, want %d", i, d.Depth(), i+1)
		}
		if d.Current() != s {
			t.Fatalf("Current = %s, want %s", sceneName(d.Current()), s.Name())
		}
	}
	for i := len(scenes); i > 0; i-- {
		mustNav(t, d.Pop(nil, Instant()))
		if d.Depth() != i-1 {
			t.Fatalf("after pop: Depth = %d, want %d", d.Depth(), i-1)
		}
	}
	if d.Current() != nil {
		t.Error("Current should be nil on an empty stack")
	}

	err := d.Pop(nil)
	if !errors.Is(err, ErrNoSceneToPop) {
		t.Fatalf("Pop on empty stack: err = %v, want ErrNoSceneToPop", err)
	}
	if !IsNavigationError(err) {
		t.Error("expected a NavigationError")
	}
	if !strings.Contains(err.Error(), "no more scene to pop") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestDirectorScenesIsCopy(t *testing.T) {
	rec := &recorder{}
	d := NewDirector(WithLogger(quietLogger()))
	a := newRecScene(rec, "A")
	mustNav(t, d.Push(a, nil, Instant()))

	scenes := d.Scenes()
	scenes[0] = nil
	if d.Current() != a {
		t.Error("mutating Scenes() changed the stack")
	}
}

func TestDirectorPushErrors(t *testing.T) {
	rec := &recorder{}
	d := NewDirector(WithLogger(quietLogger()))
	a := newRecScene(rec, "A")

	if err := d.Push(nil, nil); !errors.Is(err, ErrNilScene) {
		t.Errorf("Push(nil): err = %v, want ErrNilScene", err)
	}
	if err := d.PushKey("menu", nil); !errors.Is(err, ErrNoFactory) {
		t.Errorf("PushKey without factory: err = %v, want ErrNoFactory", err)
	}

	mustNav(t, d.Push(a, nil, Instant()))
	if err := d.Push(a, nil, Instant()); !errors.Is(err, ErrSceneInStack) {
		t.Errorf("Push of stacked scene: err = %v, want ErrSceneInStack", err)
	}
	if d.Depth() != 1 {
		t.Errorf("Depth = %d, want 1", d.Depth())
	}
	if d.Status() != StatusNormal {
		t.Errorf("Status = %v, want normal after a rejected call", d.Status())
	}
}

func TestDirectorPushKey(t *testing.T) {
	rec := &recorder{}
	reg := NewSceneRegistry().
		Register("title", func() Scene { return newRecScene(rec, "title") }).
		Register("menu", func() Scene { return newRecScene(rec, "menu") })
	d := NewDirector(WithFactory(reg), WithLogger(quietLogger()))

	mustNav(t, d.PushKey("title", nil, Instant()))
	mustNav(t, d.PushKey("menu", nil, Instant()))
	if got := sceneName(d.Current()); got != "menu" {
		t.Errorf("Current = %s, want menu", got)
	}

	if err := d.PushKey("credits", nil); !errors.Is(err, ErrUnknownScene) {
		t.Errorf("unknown key: err = %v, want ErrUnknownScene", err)
	}

	mustNav(t, d.TransitionKey("title", nil, Instant()))
	if got := sceneName(d.Current()); got != "title" || d.Depth() != 2 {
		t.Errorf("after TransitionKey: Current = %s at depth %d", got, d.Depth())
	}
}

// --- Hook order ---

func TestDirectorPushThenPopScenario(t *testing.T) {
	rec := &recorder{}
	d, p := newTestDirector()
	r := registered(t, d, rec, "R", 1)
	a := registered(t, d, rec, "A", 2)

	mustNav(t, d.Push(r, nil, Instant()))
	assertLog(t, rec.log, "R.OnEnter(<none>)")
	rec.reset()

	var statusInEnter Status
	a.onEnter = func(Scene, any) { statusInEnter = d.Status() }
	mustNav(t, d.Push(a, nil))

	// Entering hook before the animation; pause waits for the exit side.
	assertLog(t, rec.log, "A.OnEnter(R)", "R.ExitStart", "A.EnterStart")
	if statusInEnter != StatusEnter {
		t.Errorf("status in OnEnter = %v, want enter", statusInEnter)
	}
	if !d.IsInTransition() || d.Status() != StatusInTransition {
		t.Fatalf("expected in-transition, got status %v", d.Status())
	}
	if d.Depth() != 2 {
		t.Errorf("Depth = %d, want 2 during the transition", d.Depth())
	}

	p.finish(0) // R's only exit action
	assertLog(t, rec.log, "A.OnEnter(R)", "R.ExitStart", "A.EnterStart", "R.ExitEnd", "R.OnPause(A)")

	p.finishAll()
	assertLog(t, rec.log, "A.OnEnter(R)", "R.ExitStart", "A.EnterStart", "R.ExitEnd", "R.OnPause(A)", "A.EnterEnd")
	if d.Status() != StatusNormal || d.IsInTransition() {
		t.Fatalf("status = %v after completion, want normal", d.Status())
	}
	rec.reset()

	// Exit-only pop: the exiting hook first, then the parent resumes.
	mustNav(t, d.Pop(nil, SkipEnter()))
	assertLog(t, rec.log, "A.OnExit(R)", "R.OnResume(A)", "A.ExitStart")
	p.finishAll()
	if d.Current() != r || d.Depth() != 1 {
		t.Errorf("Current = %s at depth %d, want R at 1", sceneName(d.Current()), d.Depth())
	}
}

func TestDirectorPopBothSidesAnimated(t *testing.T) {
	rec := &recorder{}
	d, p := newTestDirector()
	r := registered(t, d, rec, "R", 1)
	a := registered(t, d, rec, "A", 1)
	mustNav(t, d.Push(r, nil, Instant()))
	mustNav(t, d.Push(a, nil, Instant()))
	rec.reset()

	mustNav(t, d.Pop(nil))
	assertLog(t, rec.log, "R.OnResume(A)", "A.ExitStart", "R.EnterStart")
	p.finishAll()
	assertLog(t, rec.log, "R.OnResume(A)", "A.ExitStart", "R.EnterStart", "A.ExitEnd", "A.OnExit(R)", "R.EnterEnd")
}

func TestDirectorInstantHooksExitFirst(t *testing.T) {
	rec := &recorder{}
	d, p := newTestDirector()
	r := registered(t, d, rec, "R", 1)
	a := registered(t, d, rec, "A", 1)
	mustNav(t, d.Push(r, nil, Instant()))
	rec.reset()

	mustNav(t, d.Push(a, nil, Instant()))
	assertLog(t, rec.log, "R.OnPause(A)", "A.OnEnter(R)")
	if len(p.plays) != 0 {
		t.Errorf("plays = %d, want 0 for an instant push", len(p.plays))
	}
	rec.reset()

	mustNav(t, d.Pop(nil, Instant()))
	assertLog(t, rec.log, "A.OnExit(R)", "R.OnResume(A)")
}

func TestDirectorExitOnlyPush(t *testing.T) {
	rec := &recorder{}
	d, p := newTestDirector()
	r := registered(t, d, rec, "R", 1)
	a := registered(t, d, rec, "A", 1)
	mustNav(t, d.Push(r, nil, Instant()))
	rec.reset()

	mustNav(t, d.Push(a, nil, SkipEnter()))
	assertLog(t, rec.log, "R.OnPause(A)", "A.OnEnter(R)", "R.ExitStart")
	p.finishAll()
	assertLog(t, rec.log, "R.OnPause(A)", "A.OnEnter(R)", "R.ExitStart", "R.ExitEnd")
}

func TestDirectorTransitionReplacesTop(t *testing.T) {
	rec := &recorder{}
	d, p := newTestDirector()
	r := registered(t, d, rec, "R", 1)
	a := registered(t, d, rec, "A", 1)
	b := registered(t, d, rec, "B", 1)
	mustNav(t, d.Push(r, nil, Instant()))
	mustNav(t, d.Push(a, nil, Instant()))
	rec.reset()

	mustNav(t, d.Transition(b, nil))
	p.finishAll()

	// No pause or resume: only the two siblings are involved.
	assertLog(t, rec.log, "B.OnEnter(A)", "A.ExitStart", "B.EnterStart", "A.ExitEnd", "A.OnExit(B)", "B.EnterEnd")
	if d.Depth() != 2 || d.Current() != b {
		t.Errorf("Current = %s at depth %d, want B at 2", sceneName(d.Current()), d.Depth())
	}
	if s := d.Scenes(); s[0] != r {
		t.Error("parent changed")
	}
}

func TestDirectorTransitionErrors(t *testing.T) {
	rec := &recorder{}
	d := NewDirector(WithLogger(quietLogger()))
	a := newRecScene(rec, "A")

	if err := d.Transition(a, nil); !errors.Is(err, ErrNoSceneToReplace) {
		t.Errorf("Transition on empty stack: err = %v, want ErrNoSceneToReplace", err)
	}
	if err := d.Transition(nil, nil); !errors.Is(err, ErrNilScene) {
		t.Errorf("Transition(nil): err = %v, want ErrNilScene", err)
	}
	mustNav(t, d.Push(a, nil, Instant()))
	if err := d.Transition(a, nil); !errors.Is(err, ErrSceneInStack) {
		t.Errorf("Transition to self: err = %v, want ErrSceneInStack", err)
	}
}

// --- Busy gate ---

func TestDirectorDefersReentrantPush(t *testing.T) {
	rec := &recorder{}
	d := NewDirector(WithLogger(quietLogger()))
	a := newRecScene(rec, "A")
	b := newRecScene(rec, "B")

	var status Status
	var pending int
	a.onEnter = func(Scene, any) {
		if err := d.Push(b, nil, Instant()); err != nil {
			t.Errorf("deferred push returned %v", err)
		}
		status = d.Status()
		pending = d.Pending()
		if d.Depth() != 1 {
			t.Errorf("deferred push changed the stack: depth %d", d.Depth())
		}
	}

	mustNav(t, d.Push(a, nil, Instant()))

	if status != StatusEnter || pending != 1 {
		t.Errorf("inside OnEnter: status %v pending %d, want enter/1", status, pending)
	}
	assertLog(t, rec.log, "A.OnEnter(<none>)", "A.OnPause(B)", "B.OnEnter(A)")
	if d.Depth() != 2 || d.Current() != b {
		t.Errorf("Current = %s at depth %d, want B at 2", sceneName(d.Current()), d.Depth())
	}
	if d.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", d.Pending())
	}
}

func TestDirectorDeferredCallsRunInOrder(t *testing.T) {
	rec := &recorder{}
	d, p := newTestDirector()
	r := registered(t, d, rec, "R", 1)
	a := registered(t, d, rec, "A", 1)
	b := newRecScene(rec, "B")
	c := newRecScene(rec, "C")
	mustNav(t, d.Push(r, nil, Instant()))
	mustNav(t, d.Push(a, nil))
	rec.reset()

	mustNav(t, d.Push(b, nil, Instant()))
	mustNav(t, d.Push(c, nil, Instant()))
	mustNav(t, d.Pop(nil, Instant()))
	if d.Pending() != 3 {
		t.Fatalf("Pending = %d, want 3", d.Pending())
	}
	if len(rec.log) != 0 {
		t.Fatalf("deferred calls had side effects: %q", rec.log)
	}

	p.finishAll()

	assertLog(t, rec.log,
		"R.ExitEnd", "R.OnPause(A)", "A.EnterEnd",
		"A.OnPause(B)", "B.OnEnter(A)",
		"B.OnPause(C)", "C.OnEnter(B)",
		"C.OnExit(B)", "B.OnResume(C)",
	)
	if d.Depth() != 3 || d.Current() != b {
		t.Errorf("Current = %s at depth %d, want B at 3", sceneName(d.Current()), d.Depth())
	}
}

func TestDirectorDeferredAnimatedCallsWaitForEachOther(t *testing.T) {
	rec := &recorder{}
	d, p := newTestDirector()
	r := registered(t, d, rec, "R", 1)
	a := registered(t, d, rec, "A", 1)
	b := registered(t, d, rec, "B", 1)
	mustNav(t, d.Push(r, nil, Instant()))
	mustNav(t, d.Push(a, nil))
	mustNav(t, d.Push(b, nil))
	mustNav(t, d.Pop(nil))

	// Finish the first push only.
	for _, i := range []int{0, 1} {
		p.finish(i)
	}
	if d.Current() != b || d.Pending() != 1 {
		t.Fatalf("after first push: Current = %s pending %d, want B pending 1", sceneName(d.Current()), d.Pending())
	}
	if !d.IsInTransition() {
		t.Fatal("second push should be animating")
	}

	p.finishAll()
	if d.Current() != a || d.Pending() != 0 || d.Status() != StatusNormal {
		t.Errorf("Current = %s pending %d status %v, want A/0/normal", sceneName(d.Current()), d.Pending(), d.Status())
	}
}

func TestDirectorDeferredErrorGoesToHandler(t *testing.T) {
	rec := &recorder{}
	var errs []error
	d, p := newTestDirector(WithErrorHandler(func(err error) { errs = append(errs, err) }))
	r := registered(t, d, rec, "R", 1)
	a := registered(t, d, rec, "A", 1)
	mustNav(t, d.Push(r, nil, Instant()))
	mustNav(t, d.Push(a, nil))

	// Valid arguments, invalid once it runs: A is already on the stack.
	mustNav(t, d.Push(a, nil, Instant()))
	b := newRecScene(rec, "B")
	mustNav(t, d.Push(b, nil, Instant()))

	p.finishAll()

	if len(errs) != 1 || !errors.Is(errs[0], ErrSceneInStack) {
		t.Fatalf("errs = %v, want one ErrSceneInStack", errs)
	}
	if d.Current() != b {
		t.Errorf("queue should continue after a failed call; Current = %s", sceneName(d.Current()))
	}
}

// --- PopToRoot ---

func TestDirectorPopToRoot(t *testing.T) {
	rec := &recorder{}
	d, p := newTestDirector()
	r := registered(t, d, rec, "R", 1)
	a := registered(t, d, rec, "A", 1)
	b := registered(t, d, rec, "B", 1)
	c := registered(t, d, rec, "C", 1)
	for _, s := range []Scene{r, a, b, c} {
		mustNav(t, d.Push(s, nil, Instant()))
	}
	rec.reset()

	var statuses, resumeStatuses []Status
	b.onExit = func(Scene, any) { statuses = append(statuses, d.Status()) }
	b.onResume = func(Scene, any) { resumeStatuses = append(resumeStatuses, d.Status()) }
	mustNav(t, d.PopToRoot(nil))

	assertLog(t, rec.log,
		"C.OnExit(B)", "B.OnResume(C)",
		"B.OnExit(A)", "A.OnResume(B)",
		"A.OnExit(R)", "R.OnResume(A)",
		"C.ExitStart", "R.EnterStart",
	)
	if len(statuses) != 1 || statuses[0] != StatusPopToRootExit {
		t.Errorf("status in intermediate OnExit = %v, want pop-to-root-exit", statuses)
	}
	if len(resumeStatuses) != 1 || resumeStatuses[0] != StatusPopToRootEnter {
		t.Errorf("status in intermediate OnResume = %v, want pop-to-root-enter", resumeStatuses)
	}
	if enter, exit := d.orchestrator.Scenes(); enter != r || exit != c {
		t.Errorf("transition %s -> %s, want C -> R", sceneName(exit), sceneName(enter))
	}
	if len(p.plays) != 2 {
		t.Errorf("plays = %d, want one transition with 2 actions", len(p.plays))
	}

	p.finishAll()
	if d.Depth() != 1 || d.Current() != r || d.Status() != StatusNormal {
		t.Errorf("Current = %s depth %d status %v", sceneName(d.Current()), d.Depth(), d.Status())
	}
}

func TestDirectorPopToRootDefersNavigationFromOnResume(t *testing.T) {
	rec := &recorder{}
	d, p := newTestDirector()
	r := registered(t, d, rec, "R", 1)
	a := registered(t, d, rec, "A", 1)
	b := registered(t, d, rec, "B", 1)
	x := registered(t, d, rec, "X", 1)
	for _, s := range []Scene{r, a, b} {
		mustNav(t, d.Push(s, nil, Instant()))
	}
	rec.reset()

	var pushErr error
	a.onResume = func(Scene, any) { pushErr = d.Push(x, nil, Instant()) }
	mustNav(t, d.PopToRoot(nil))

	if pushErr != nil {
		t.Fatalf("Push from OnResume: %v", pushErr)
	}
	if d.Pending() != 1 {
		t.Fatalf("Pending = %d, want the push deferred", d.Pending())
	}
	if d.Depth() != 1 {
		t.Fatalf("Depth = %d, want 1 while PopToRoot runs", d.Depth())
	}

	p.finishAll()
	if d.Pending() != 0 || d.Depth() != 2 || d.Current() != x {
		t.Errorf("after completion: pending %d depth %d current %s, want X on top of R",
			d.Pending(), d.Depth(), sceneName(d.Current()))
	}
	assertLog(t, rec.log[len(rec.log)-2:], "R.OnPause(X)", "X.OnEnter(R)")
}

func TestDirectorPopToRootAtRootIsNoOp(t *testing.T) {
	rec := &recorder{}
	d := NewDirector(WithLogger(quietLogger()))
	r := newRecScene(rec, "R")
	mustNav(t, d.PopToRoot(nil))
	mustNav(t, d.Push(r, nil, Instant()))
	rec.reset()

	mustNav(t, d.PopToRoot(nil))
	if len(rec.log) != 0 {
		t.Errorf("PopToRoot at root fired hooks: %q", rec.log)
	}
}

// --- Sequential transitions ---

func TestDirectorSequentialScenario(t *testing.T) {
	rec := &recorder{}
	d := NewDirector(WithLogger(quietLogger()))
	parent := newRecScene(rec, "P")
	top := newRecScene(rec, "T")
	s1, s2, s3 := newRecScene(rec, "S1"), newRecScene(rec, "S2"), newRecScene(rec, "S3")
	mustNav(t, d.Push(parent, nil, Instant()))
	mustNav(t, d.Push(top, nil, Instant()))
	rec.reset()

	var opts []any
	for _, s := range []*recScene{s1, s2, s3} {
		s.onEnter = func(_ Scene, opt any) { opts = append(opts, opt) }
	}
	calls := 0
	mustNav(t, d.SequentialTransition([]Scene{s1, s2, s3}, "seq", func() { calls++ }, Instant()))

	if d.Depth() != 2 || d.Current() != top {
		t.Fatal("SequentialTransition should not change the stack")
	}
	if d.Reserved() != 3 {
		t.Fatalf("Reserved = %d, want 3", d.Reserved())
	}

	for i := 0; i < 3; i++ {
		if calls != 0 {
			t.Fatalf("callback fired before pop %d", i+1)
		}
		mustNav(t, d.Pop("caller"))
	}
	assertLog(t, rec.log,
		"T.OnExit(S1)", "S1.OnEnter(T)",
		"S1.OnExit(S2)", "S2.OnEnter(S1)",
		"S2.OnExit(S3)", "S3.OnEnter(S2)",
	)
	if calls != 1 {
		t.Fatalf("callback calls = %d, want 1", calls)
	}
	for i, opt := range opts {
		if opt != "seq" {
			t.Errorf("OnEnter %d got opt %v, want the reservation's", i, opt)
		}
	}
	if d.Depth() != 2 || d.Reserved() != 0 {
		t.Errorf("Depth = %d Reserved = %d, want 2/0", d.Depth(), d.Reserved())
	}
	rec.reset()

	mustNav(t, d.Pop(nil, Instant()))
	assertLog(t, rec.log, "S3.OnExit(P)", "P.OnResume(S3)")
	if calls != 1 {
		t.Errorf("callback calls = %d after the fourth pop, want 1", calls)
	}
}

func TestDirectorSequentialErrors(t *testing.T) {
	rec := &recorder{}
	d := NewDirector(WithLogger(quietLogger()))
	a, b := newRecScene(rec, "A"), newRecScene(rec, "B")

	if err := d.SequentialTransition(nil, nil, nil); !errors.Is(err, ErrNoScenes) {
		t.Errorf("empty list: err = %v, want ErrNoScenes", err)
	}
	if err := d.SequentialTransition([]Scene{nil}, nil, nil); !errors.Is(err, ErrNilScene) {
		t.Errorf("nil scene: err = %v, want ErrNilScene", err)
	}
	if err := d.SequentialTransition([]Scene{b}, nil, nil); !errors.Is(err, ErrNoSceneToReplace) {
		t.Errorf("empty stack: err = %v, want ErrNoSceneToReplace", err)
	}

	mustNav(t, d.Push(a, nil, Instant()))
	if err := d.SequentialTransition([]Scene{a}, nil, nil); !errors.Is(err, ErrSceneInStack) {
		t.Errorf("stacked scene: err = %v, want ErrSceneInStack", err)
	}
	mustNav(t, d.SequentialTransition([]Scene{b}, nil, nil))
	if err := d.SequentialTransition([]Scene{b}, nil, nil); !errors.Is(err, ErrReservationPending) {
		t.Errorf("second reservation: err = %v, want ErrReservationPending", err)
	}
	if err := d.PopToRoot(nil); !errors.Is(err, ErrReservationPending) {
		t.Errorf("PopToRoot with reservation: err = %v, want ErrReservationPending", err)
	}
}

func TestDirectorSequentialRejectsDuplicateScenes(t *testing.T) {
	rec := &recorder{}
	d := NewDirector(WithLogger(quietLogger()))
	p, s1 := newRecScene(rec, "P"), newRecScene(rec, "S1")
	mustNav(t, d.Push(p, nil, Instant()))

	if err := d.SequentialTransition([]Scene{s1, s1}, nil, nil); !errors.Is(err, ErrSceneInStack) {
		t.Fatalf("duplicate list: err = %v, want ErrSceneInStack", err)
	}
	if d.Reserved() != 0 {
		t.Errorf("Reserved = %d, want nothing reserved", d.Reserved())
	}
}

func TestDirectorReservedSceneCannotBeStacked(t *testing.T) {
	rec := &recorder{}
	d := NewDirector(WithLogger(quietLogger()))
	p, s1 := newRecScene(rec, "P"), newRecScene(rec, "S1")
	mustNav(t, d.Push(p, nil, Instant()))
	mustNav(t, d.SequentialTransition([]Scene{s1}, nil, nil, Instant()))

	if err := d.Transition(s1, nil, Instant()); !errors.Is(err, ErrSceneReserved) {
		t.Errorf("Transition to reserved scene: err = %v, want ErrSceneReserved", err)
	}
	if err := d.Push(s1, nil, Instant()); !errors.Is(err, ErrSceneReserved) {
		t.Errorf("Push of reserved scene: err = %v, want ErrSceneReserved", err)
	}
	if d.Current() != p || d.Depth() != 1 {
		t.Fatalf("stack changed: current %s depth %d", sceneName(d.Current()), d.Depth())
	}

	// The reservation still plays out and the parent is reachable again.
	mustNav(t, d.Pop(nil))
	if d.Current() != s1 || d.Reserved() != 0 {
		t.Fatalf("after reserved pop: current %s reserved %d", sceneName(d.Current()), d.Reserved())
	}
	mustNav(t, d.Pop(nil))
	if d.Depth() != 0 {
		t.Errorf("Depth = %d, want 0", d.Depth())
	}
}

func TestDirectorReservedPopIgnoresCallerNavOptions(t *testing.T) {
	rec := &recorder{}
	d, p := newTestDirector()
	parent := registered(t, d, rec, "P", 1)
	s1 := registered(t, d, rec, "S1", 1)
	mustNav(t, d.Push(parent, nil, Instant()))
	mustNav(t, d.SequentialTransition([]Scene{s1}, "seq", nil, Instant()))

	// The caller asks for an animated pop; the reservation's Instant wins.
	mustNav(t, d.Pop("caller"))
	if len(p.plays) != 0 {
		t.Errorf("plays = %d, want none under the reservation's Instant", len(p.plays))
	}
	if d.Current() != s1 || d.Status() != StatusNormal {
		t.Errorf("current %s status %v, want S1 idle", sceneName(d.Current()), d.Status())
	}
}

func TestDirectorPopLastSceneEmptiesStack(t *testing.T) {
	rec := &recorder{}
	d := NewDirector(WithLogger(quietLogger()))
	mustNav(t, d.Push(newRecScene(rec, "A"), nil, Instant()))
	mustNav(t, d.Pop(nil))
	if d.Depth() != 0 || d.Current() != nil {
		t.Errorf("Depth = %d Current = %s, want an empty stack", d.Depth(), sceneName(d.Current()))
	}
	if err := d.Pop(nil); !errors.Is(err, ErrNoSceneToPop) {
		t.Errorf("second Pop: err = %v, want ErrNoSceneToPop", err)
	}
}

func TestDirectorReservationAtOtherDepthBlocksReuse(t *testing.T) {
	rec := &recorder{}
	d := NewDirector(WithLogger(quietLogger()))
	p, q, s1 := newRecScene(rec, "P"), newRecScene(rec, "Q"), newRecScene(rec, "S1")
	mustNav(t, d.Push(p, nil, Instant()))
	mustNav(t, d.SequentialTransition([]Scene{s1}, nil, nil))
	mustNav(t, d.Push(q, nil, Instant()))

	if err := d.SequentialTransition([]Scene{s1}, nil, nil); !errors.Is(err, ErrSceneReserved) {
		t.Errorf("reserving a held scene: err = %v, want ErrSceneReserved", err)
	}
}

// --- Configuration and introspection ---

func TestDirectorTransitionTime(t *testing.T) {
	d := NewDirector(WithLogger(quietLogger()))
	if d.TransitionTime() != DefaultTransitionTime {
		t.Errorf("TransitionTime = %v, want %v", d.TransitionTime(), DefaultTransitionTime)
	}
	if err := d.SetTransitionTime(-time.Second); !errors.Is(err, ErrInvalidTransitionTime) {
		t.Errorf("negative time: err = %v", err)
	}
	if err := d.SetTransitionTime(2 * time.Second); err != nil {
		t.Fatalf("SetTransitionTime: %v", err)
	}
	if d.orchestrator.Duration() != 2 {
		t.Errorf("orchestrator duration = %f, want 2", d.orchestrator.Duration())
	}
}

func TestDirectorRegisterTransition(t *testing.T) {
	d := NewDirector(WithLogger(quietLogger()))
	fade := d.RegisterTransition(Fade())
	wipe := d.RegisterTransition(ColorWipe(ColorBlack))
	if fade == wipe {
		t.Fatal("ids should be distinct")
	}
	if err := d.UseTransitions(fade, wipe); err != nil {
		t.Fatalf("UseTransitions: %v", err)
	}
	if enter, exit := d.Transitions(); enter != fade || exit != wipe {
		t.Errorf("Transitions = %d, %d", enter, exit)
	}
	if err := d.UseTransitions(99, fade); !errors.Is(err, ErrUnknownTransition) {
		t.Errorf("unknown id: err = %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("RegisterTransition(nil) should panic")
		}
	}()
	d.RegisterTransition(nil)
}

func TestDirectorRegisterScene(t *testing.T) {
	rec := &recorder{}
	d := NewDirector(WithLogger(quietLogger()))
	a := newRecScene(rec, "A")
	n := NewRect("n", 10, 10, ColorWhite)
	n.SetPosition(3, 4)

	if err := d.RegisterScene(nil, nil); !errors.Is(err, ErrNilScene) {
		t.Errorf("nil scene: err = %v", err)
	}
	if err := d.RegisterScene(a, []*Node{n, nil}); !errors.Is(err, ErrNilNode) {
		t.Errorf("nil node: err = %v", err)
	}
	if err := d.RegisterScene(a, []*Node{n}); err != nil {
		t.Fatalf("RegisterScene: %v", err)
	}
	if !n.HasRest() {
		t.Fatal("RegisterScene should save rest state")
	}
	n.SetPosition(50, 50)
	if x, y := n.RestPosition(); x != 3 || y != 4 {
		t.Errorf("rest = (%f, %f), want (3, 4)", x, y)
	}
	if got := d.NodesOf(a); len(got) != 1 || got[0] != n {
		t.Errorf("NodesOf = %v", got)
	}

	d.UnregisterScene(a)
	if len(d.NodesOf(a)) != 0 {
		t.Error("UnregisterScene should forget nodes")
	}
}

func TestDirectorUnregisterStopsRunningTransition(t *testing.T) {
	rec := &recorder{}
	d := NewDirector(WithLogger(quietLogger()))
	r := registered(t, d, rec, "R", 1)
	a := registered(t, d, rec, "A", 1)
	mustNav(t, d.Push(r, nil, Instant()))
	mustNav(t, d.Push(a, nil))

	d.UnregisterScene(r)
	d.UnregisterScene(a)

	if d.IsInTransition() || d.Status() != StatusNormal {
		t.Errorf("stopping every node should resolve the run; status %v", d.Status())
	}
}

func TestDirectorUpdateDrivesAnimator(t *testing.T) {
	rec := &recorder{}
	d := NewDirector(WithLogger(quietLogger()), WithTransitionTime(500*time.Millisecond))
	r := registered(t, d, rec, "R", 2)
	a := registered(t, d, rec, "A", 2)
	mustNav(t, d.Push(r, nil, Instant()))
	mustNav(t, d.Push(a, nil))

	if got := d.VisibleScenes(); len(got) != 2 || got[0] != r || got[1] != a {
		t.Errorf("VisibleScenes during transition = %v, want [R A]", got)
	}

	d.UpdateDelta(0.25)
	if !d.IsInTransition() {
		t.Fatal("finished halfway")
	}
	d.UpdateDelta(0.25)
	if d.IsInTransition() || d.Status() != StatusNormal {
		t.Fatalf("still running after the duration: status %v", d.Status())
	}
	if got := d.VisibleScenes(); len(got) != 1 || got[0] != a {
		t.Errorf("VisibleScenes after transition = %v, want [A]", got)
	}
	for _, n := range d.NodesOf(r) {
		rx, ry := n.RestPosition()
		if n.X != rx || n.Y != ry {
			t.Errorf("%s not restored: (%f, %f)", n.Name, n.X, n.Y)
		}
	}
}

func TestDirectorWithPlayerUpdateIsNoOp(t *testing.T) {
	d, _ := newTestDirector()
	if d.animator != nil {
		t.Fatal("custom player should replace the animator")
	}
	d.UpdateDelta(1) // must not panic
}

func TestDirectorObserver(t *testing.T) {
	rec := &recorder{}
	var events []NavigationEvent
	d := NewDirector(
		WithLogger(quietLogger()),
		WithObserver(ObserverFunc(func(e NavigationEvent) { events = append(events, e) })),
	)
	a, b := newRecScene(rec, "A"), newRecScene(rec, "B")

	mustNav(t, d.Push(a, "x", Instant()))
	mustNav(t, d.Push(b, nil, Instant()))
	mustNav(t, d.Transition(newRecScene(rec, "C"), nil, Instant()))
	mustNav(t, d.PopToRoot(nil, Instant()))

	want := []NavigationEvent{
		{Kind: NavPush, From: "<none>", To: "A", Depth: 1, Option: "x"},
		{Kind: NavPush, From: "A", To: "B", Depth: 2},
		{Kind: NavTransition, From: "B", To: "C", Depth: 2},
		{Kind: NavPopToRoot, From: "C", To: "A", Depth: 1},
	}
	if len(events) != len(want) {
		t.Fatalf("events = %+v", events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, events[i], want[i])
		}
	}
}

func TestDirectorObserverNavigationIsDeferred(t *testing.T) {
	rec := &recorder{}
	d := NewDirector(WithLogger(quietLogger()))
	a, b := newRecScene(rec, "A"), newRecScene(rec, "B")
	d.AddObserver(ObserverFunc(func(e NavigationEvent) {
		if e.To == "A" {
			if d.Pending() != 0 || !d.Status().Busy() {
				t.Error("observer should run while the director is still busy")
			}
			_ = d.Push(b, nil, Instant())
		}
	}))

	mustNav(t, d.Push(a, nil, Instant()))
	if d.Current() != b {
		t.Errorf("Current = %s, want B pushed by the observer", sceneName(d.Current()))
	}
}

func TestDirectorWithConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TransitionTime = time.Second
	cfg.EnterTransition = "fade"
	cfg.ExitTransition = "color-wipe"
	d := NewDirector(WithConfig(cfg), WithLogger(quietLogger()))

	if d.TransitionTime() != time.Second {
		t.Errorf("TransitionTime = %v", d.TransitionTime())
	}
	enter, exit := d.Transitions()
	if _, ok := d.transitions[enter].(fadeTransition); !ok {
		t.Errorf("enter transition = %T, want fade", d.transitions[enter])
	}
	if _, ok := d.transitions[exit].(*ColorWipeTransition); !ok {
		t.Errorf("exit transition = %T, want color wipe", d.transitions[exit])
	}
}

func TestDirectorDeferralIsLogged(t *testing.T) {
	rec := &recorder{}
	var buf bytes.Buffer
	d, _ := newTestDirector(WithLogger(NewLogger(&buf, slog.LevelInfo)))
	r := registered(t, d, rec, "R", 1)
	a := registered(t, d, rec, "A", 1)
	mustNav(t, d.Push(r, nil, Instant()))
	mustNav(t, d.Push(a, nil))
	buf.Reset()

	mustNav(t, d.Pop(nil))
	out := buf.String()
	for _, want := range []string{`"level":"INFO"`, `"msg":"navigation deferred"`, `"op":"pop"`, `"status":"in-transition"`, `"pending":1`} {
		if !strings.Contains(out, want) {
			t.Errorf("log %q missing %s", out, want)
		}
	}
}

func TestDirectorDebugTrace(t *testing.T) {
	var buf bytes.Buffer
	prev := debugOut
	debugOut = &buf
	t.Cleanup(func() { debugOut = prev })

	rec := &recorder{}
	d := NewDirector(WithLogger(quietLogger()))
	d.SetDebugMode(true)
	mustNav(t, d.Push(newRecScene(rec, "A"), nil, Instant()))

	if !strings.Contains(buf.String(), "[stagehand] push: <none> -> A | depth: 1") {
		t.Errorf("trace = %q", buf.String())
	}

	buf.Reset()
	d.SetDebugMode(false)
	mustNav(t, d.Push(newRecScene(rec, "B"), nil, Instant()))
	if buf.Len() != 0 {
		t.Errorf("trace written with debug off: %q", buf.String())
	}
}

func TestDirectorDebugDisposedNodePanics(t *testing.T) {
	rec := &recorder{}
	d := NewDirector(WithLogger(quietLogger()))
	d.SetDebugMode(true)
	n := NewRect("gone", 1, 1, ColorWhite)
	n.Dispose()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic registering a disposed node in debug mode")
		}
		if !strings.Contains(r.(string), "disposed") {
			t.Errorf("panic = %v", r)
		}
	}()
	_ = d.RegisterScene(newRecScene(rec, "A"), []*Node{n})
}
