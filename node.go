package stagehand

// nodeIDCounter is a plain counter; stagehand is single-threaded.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is the visual handle a scene registers for transitions. Transition
// strategies animate its transform, alpha and color; the Stage draws it as a
// tinted Width x Height quad.
type Node struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local)
	X, Y     float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64
	PivotX   float64
	PivotY   float64

	// Size of the solid quad drawn for this node. Zero draws nothing
	// (container).
	Width, Height float64

	// Appearance
	Alpha   float64
	Color   Color
	Visible bool

	// OnClick, when set, makes the node clickable on a Stage. It fires for
	// the topmost clickable node under the pointer in the current scene.
	OnClick func()

	// Metadata
	UserData any

	// Steady state restored after a transition.
	rest restState

	// Computed during Stage drawing.
	worldTransform [6]float64
	worldAlpha     float64
	transformDirty bool

	disposed bool
}

// restState is the pose a node returns to once a transition on it ends.
type restState struct {
	saved           bool
	x, y            float64
	scaleX, scaleY  float64
	rotation, alpha float64
	color           Color
}

func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.ScaleX = 1
	n.ScaleY = 1
	n.Alpha = 1
	n.Color = ColorWhite
	n.Visible = true
	n.transformDirty = true
}

// NewContainer creates a node with no visual output of its own.
func NewContainer(name string) *Node {
	n := &Node{Name: name}
	nodeDefaults(n)
	return n
}

// NewRect creates a node drawn as a solid w x h rectangle of the given color.
func NewRect(name string, w, h float64, c Color) *Node {
	n := &Node{Name: name, Width: w, Height: h}
	nodeDefaults(n)
	n.Color = c
	return n
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("stagehand: cannot add nil child")
	}
	if isAncestor(child, n) {
		panic("stagehand: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	markSubtreeDirty(child)
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("stagehand: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	markSubtreeDirty(child)
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// --- Rest state ---

// SaveRest records the node's current position, scale, rotation, alpha and
// color as its steady state. Director.RegisterScene calls it for every
// registered node.
func (n *Node) SaveRest() {
	n.rest = restState{
		saved:    true,
		x:        n.X,
		y:        n.Y,
		scaleX:   n.ScaleX,
		scaleY:   n.ScaleY,
		rotation: n.Rotation,
		alpha:    n.Alpha,
		color:    n.Color,
	}
}

// HasRest reports whether SaveRest has been called.
func (n *Node) HasRest() bool {
	return n.rest.saved
}

// RestPosition returns the steady-state position, or the current position
// when no rest state was saved.
func (n *Node) RestPosition() (x, y float64) {
	if !n.rest.saved {
		return n.X, n.Y
	}
	return n.rest.x, n.rest.y
}

// RestAlpha returns the steady-state alpha.
func (n *Node) RestAlpha() float64 {
	if !n.rest.saved {
		return n.Alpha
	}
	return n.rest.alpha
}

// RestScale returns the steady-state scale.
func (n *Node) RestScale() (sx, sy float64) {
	if !n.rest.saved {
		return n.ScaleX, n.ScaleY
	}
	return n.rest.scaleX, n.rest.scaleY
}

// RestColor returns the steady-state color.
func (n *Node) RestColor() Color {
	if !n.rest.saved {
		return n.Color
	}
	return n.rest.color
}

// RestorePosition moves the node back to its steady-state position.
func (n *Node) RestorePosition() {
	n.SetPosition(n.RestPosition())
}

// RestoreAlpha resets alpha to the steady state.
func (n *Node) RestoreAlpha() {
	n.SetAlpha(n.RestAlpha())
}

// RestoreScale resets scale to the steady state.
func (n *Node) RestoreScale() {
	n.SetScale(n.RestScale())
}

// RestoreColor resets the tint to the steady state.
func (n *Node) RestoreColor() {
	n.Color = n.RestColor()
}

// Restore resets every field captured by SaveRest.
func (n *Node) Restore() {
	n.RestorePosition()
	n.RestoreScale()
	n.RestoreAlpha()
	n.RestoreColor()
	if n.rest.saved {
		n.SetRotation(n.rest.rotation)
	}
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants. Sequences playing on a
// disposed node complete on the next tick.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.UserData = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// markSubtreeDirty sets transformDirty on node and all its descendants.
func markSubtreeDirty(node *Node) {
	node.transformDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}
