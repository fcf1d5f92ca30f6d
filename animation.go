package stagehand

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields on a Node simultaneously.
// Create one via the convenience constructors (TweenPosition, TweenScale,
// TweenAlpha, TweenColor, TweenRotation) and call Update(dt) each frame. The
// group writes values to the node and marks it dirty. If the target node is
// disposed, the group stops immediately.
type TweenGroup struct {
	tweens [4]*gween.Tween
	ends   [4]float64
	fields [4]*float64
	count  int
	target *Node
	Done   bool
}

// track adds one field animation. A non-positive duration snaps the field to
// its end value on the first Update.
func (g *TweenGroup) track(field *float64, to float64, duration float32, fn ease.TweenFunc) {
	i := g.count
	if duration > 0 {
		g.tweens[i] = gween.New(float32(*field), float32(to), duration, fn)
	}
	g.ends[i] = to
	g.fields[i] = field
	g.count++
}

// Update advances all tweens by dt seconds, writes values to the target fields,
// and marks the node dirty. If the target node has been disposed, Done is set
// to true and no writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		tw := g.tweens[i]
		if tw == nil {
			*g.fields[i] = g.ends[i]
			continue
		}
		val, finished := tw.Update(dt)
		if finished {
			*g.fields[i] = g.ends[i]
			continue
		}
		*g.fields[i] = float64(val)
		allDone = false
	}
	g.Done = allDone

	if g.target != nil {
		g.target.MarkDirty()
	}
}

// TweenPosition animates node.X and node.Y to the given coordinates.
func TweenPosition(node *Node, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{target: node}
	g.track(&node.X, toX, duration, fn)
	g.track(&node.Y, toY, duration, fn)
	return g
}

// TweenScale animates node.ScaleX and node.ScaleY to the given values.
func TweenScale(node *Node, toSX, toSY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{target: node}
	g.track(&node.ScaleX, toSX, duration, fn)
	g.track(&node.ScaleY, toSY, duration, fn)
	return g
}

// TweenColor animates all four components of node.Color toward the target color.
func TweenColor(node *Node, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{target: node}
	g.track(&node.Color.R, to.R, duration, fn)
	g.track(&node.Color.G, to.G, duration, fn)
	g.track(&node.Color.B, to.B, duration, fn)
	g.track(&node.Color.A, to.A, duration, fn)
	return g
}

// TweenAlpha animates node.Alpha to the target value.
func TweenAlpha(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{target: node}
	g.track(&node.Alpha, to, duration, fn)
	return g
}

// TweenRotation animates node.Rotation (radians) to the target value.
func TweenRotation(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{target: node}
	g.track(&node.Rotation, to, duration, fn)
	return g
}
