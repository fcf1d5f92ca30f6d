package stagehand

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneRoot is implemented by scenes that own a node tree. The Stage draws
// the tree from Root; otherwise it draws the trees containing the scene's
// registered nodes.
type SceneRoot interface {
	Root() *Node
}

// SceneDrawer is implemented by scenes that draw on top of their nodes.
type SceneDrawer interface {
	Draw(screen *ebiten.Image)
}

// geoM converts an affine [a b c d tx ty] matrix to an ebiten.GeoM.
func geoM(m [6]float64) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}

// sceneTrees returns the root nodes to draw for scene, each once, in
// registration order.
func sceneTrees(d *Director, scene Scene) []*Node {
	if r, ok := scene.(SceneRoot); ok {
		if root := r.Root(); root != nil {
			return []*Node{root}
		}
		return nil
	}
	var roots []*Node
	seen := make(map[*Node]bool)
	for _, n := range d.NodesOf(scene) {
		top := n
		for top.Parent != nil {
			top = top.Parent
		}
		if !seen[top] {
			seen[top] = true
			roots = append(roots, top)
		}
	}
	return roots
}

// drawScene draws scene's node trees, then its custom drawing.
func (s *Stage) drawScene(screen *ebiten.Image, scene Scene) {
	for _, root := range sceneTrees(s.director, scene) {
		updateWorldTransform(root, identityTransform, 1, false)
		s.drawNode(screen, root)
	}
	if dr, ok := scene.(SceneDrawer); ok {
		dr.Draw(screen)
	}
}

// drawNode draws n as a tinted quad and recurses into its children.
// World transforms must be up to date.
func (s *Stage) drawNode(screen *ebiten.Image, n *Node) {
	if !n.Visible || n.disposed {
		return
	}
	if n.Width > 0 && n.Height > 0 {
		a := n.Color.A * n.worldAlpha
		if a > 0 {
			var op ebiten.DrawImageOptions
			op.GeoM.Scale(n.Width, n.Height)
			op.GeoM.Concat(geoM(n.worldTransform))
			// Premultiply at submission.
			op.ColorScale.Scale(float32(n.Color.R*a), float32(n.Color.G*a), float32(n.Color.B*a), float32(a))
			screen.DrawImage(s.whitePixel(), &op)
		}
	}
	for _, child := range n.children {
		s.drawNode(screen, child)
	}
}

// whitePixel returns the 1x1 image quads are scaled from.
func (s *Stage) whitePixel() *ebiten.Image {
	if s.pixel == nil {
		s.pixel = ebiten.NewImage(1, 1)
		s.pixel.Fill(color.White)
	}
	return s.pixel
}

// toRGBA converts to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	a := clamp01(c.A)
	return color.RGBA{
		R: uint8(clamp01(c.R)*a*255 + 0.5),
		G: uint8(clamp01(c.G)*a*255 + 0.5),
		B: uint8(clamp01(c.B)*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}
