package stagehand

import (
	"fmt"
	"math"
	"testing"
)

// recorder collects hook calls from recScenes in order.
type recorder struct {
	log []string
}

func (r *recorder) add(format string, args ...any) {
	r.log = append(r.log, fmt.Sprintf(format, args...))
}

func (r *recorder) reset() { r.log = nil }

// recScene logs every hook as "name.Hook(other)". Optional funcs run inside
// the hook, after logging.
type recScene struct {
	BaseScene
	rec *recorder

	onEnter  func(prev Scene, opt any)
	onExit   func(next Scene, opt any)
	onResume func(prev Scene, opt any)
}

func newRecScene(rec *recorder, name string) *recScene {
	return &recScene{BaseScene: NewBaseScene(name), rec: rec}
}

func (s *recScene) OnEnter(prev Scene, opt any) {
	s.rec.add("%s.OnEnter(%s)", s.Name(), sceneName(prev))
	if s.onEnter != nil {
		s.onEnter(prev, opt)
	}
}

func (s *recScene) OnResume(prev Scene, opt any) {
	s.rec.add("%s.OnResume(%s)", s.Name(), sceneName(prev))
	if s.onResume != nil {
		s.onResume(prev, opt)
	}
}

func (s *recScene) OnPause(next Scene, opt any) {
	s.rec.add("%s.OnPause(%s)", s.Name(), sceneName(next))
}

func (s *recScene) OnExit(next Scene, opt any) {
	s.rec.add("%s.OnExit(%s)", s.Name(), sceneName(next))
	if s.onExit != nil {
		s.onExit(next, opt)
	}
}

func (s *recScene) OnEnterTransitionStart(any) { s.rec.add("%s.EnterStart", s.Name()) }
func (s *recScene) OnEnterTransitionEnd(any)   { s.rec.add("%s.EnterEnd", s.Name()) }
func (s *recScene) OnExitTransitionStart(any)  { s.rec.add("%s.ExitStart", s.Name()) }
func (s *recScene) OnExitTransitionEnd(any)    { s.rec.add("%s.ExitEnd", s.Name()) }

// fakePlayer records plays and completes them only when told to.
type fakePlayer struct {
	plays []*fakePlay
}

type fakePlay struct {
	node   *Node
	action Action
	done   func()
}

func (p *fakePlayer) Play(node *Node, action Action, onComplete func()) {
	p.plays = append(p.plays, &fakePlay{node: node, action: action, done: onComplete})
}

func (p *fakePlayer) Stop(node *Node) {
	for _, fp := range p.plays {
		if fp.node == node {
			fp.done()
		}
	}
}

// finish completes the i-th recorded play.
func (p *fakePlayer) finish(i int) {
	p.plays[i].done()
}

// finishAll completes every recorded play, including ones recorded while
// finishing.
func (p *fakePlayer) finishAll() {
	for i := 0; i < len(p.plays); i++ {
		p.plays[i].done()
	}
}

func assertLog(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("log length = %d, want %d\ngot:  %q\nwant: %q", len(got), len(want), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("log[%d] = %q, want %q\ngot:  %q\nwant: %q", i, got[i], want[i], got, want)
		}
	}
}

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("%s = %f, want %f", name, got, want)
	}
}

// rects returns n registered-ready nodes laid out in a row.
func rects(prefix string, n int) []*Node {
	nodes := make([]*Node, n)
	for i := range nodes {
		nodes[i] = NewRect(fmt.Sprintf("%s-%d", prefix, i), 10, 10, ColorWhite)
		nodes[i].SetPosition(float64(i*20), 5)
		nodes[i].SaveRest()
	}
	return nodes
}
