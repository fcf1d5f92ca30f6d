package stagehand

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// KeyBinding runs a navigation command when Key is pressed on a Stage.
type KeyBinding struct {
	Key ebiten.Key
	Run func(d *Director) error
}

// BackKey returns a binding that pops the current scene, unless it is the
// root.
func BackKey(key ebiten.Key) KeyBinding {
	return KeyBinding{Key: key, Run: func(d *Director) error {
		if d.Depth() <= 1 {
			return nil
		}
		return d.Pop(nil)
	}}
}

// inputSource reads edge-triggered input for one tick. Tests replace it.
type inputSource struct {
	keyJustPressed func(ebiten.Key) bool
	clicked        func() (x, y int, ok bool)
}

func ebitenInput() inputSource {
	return inputSource{
		keyJustPressed: inpututil.IsKeyJustPressed,
		clicked: func() (int, int, bool) {
			if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
				return 0, 0, false
			}
			x, y := ebiten.CursorPosition()
			return x, y, true
		},
	}
}

// processInput runs key bindings and node clicks. Input is ignored while a
// navigation is in flight so repeated presses do not queue up.
func (s *Stage) processInput() error {
	d := s.director
	if d.Status().Busy() || d.IsInTransition() {
		return nil
	}
	for _, kb := range s.Keys {
		if kb.Run != nil && s.input.keyJustPressed(kb.Key) {
			if err := kb.Run(d); err != nil {
				return err
			}
			if d.IsInTransition() {
				return nil
			}
		}
	}
	x, y, ok := s.input.clicked()
	if !ok {
		return nil
	}
	cur := d.Current()
	if cur == nil {
		return nil
	}
	if n := hitTest(sceneTrees(d, cur), float64(x), float64(y)); n != nil {
		n.OnClick()
	}
	return nil
}

// --- Hit testing ---

// collectClickable walks the tree in painter order, appending visible nodes
// with an OnClick handler and a size. Invisible subtrees are skipped.
func collectClickable(n *Node, buf []*Node) []*Node {
	if !n.Visible || n.disposed {
		return buf
	}
	if n.OnClick != nil && n.Width > 0 && n.Height > 0 {
		buf = append(buf, n)
	}
	for _, child := range n.children {
		buf = collectClickable(child, buf)
	}
	return buf
}

// hitTest finds the topmost clickable node at (worldX, worldY) across roots,
// later roots drawing on top. World transforms are refreshed first.
func hitTest(roots []*Node, worldX, worldY float64) *Node {
	var buf []*Node
	for _, root := range roots {
		updateWorldTransform(root, identityTransform, 1, false)
		buf = collectClickable(root, buf)
	}
	// Iterate backward (reverse painter order): topmost visual node first.
	for i := len(buf) - 1; i >= 0; i-- {
		n := buf[i]
		lx, ly := n.WorldToLocal(worldX, worldY)
		if lx >= 0 && lx <= n.Width && ly >= 0 && ly <= n.Height {
			return n
		}
	}
	return nil
}
