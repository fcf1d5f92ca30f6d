package stagehand

import (
	"fmt"
	"io"
	"os"
)

// debugOut receives debug traces. Tests swap it for a buffer.
var debugOut io.Writer = os.Stderr

// SetDebugMode enables navigation traces on stderr and extra checks on
// registered nodes.
func (d *Director) SetDebugMode(on bool) {
	d.debug = on
}

// DebugMode reports whether debug mode is on.
func (d *Director) DebugMode() bool {
	return d.debug
}

// debugNavigated prints one line per completed navigation.
func (d *Director) debugNavigated(ev NavigationEvent) {
	if !d.debug {
		return
	}
	_, _ = fmt.Fprintf(debugOut,
		"[stagehand] %s: %s -> %s | depth: %d | pending: %d\n",
		ev.Kind, ev.From, ev.To, ev.Depth, len(d.deferred))
	debugCheckStackDepth(ev.Depth)
}

// debugDeferred prints a line when a call is queued behind a busy Director.
func (d *Director) debugDeferred(kind NavKind) {
	if !d.debug {
		return
	}
	_, _ = fmt.Fprintf(debugOut,
		"[stagehand] deferred %s while %s | pending: %d\n",
		kind, d.status, len(d.deferred))
}

// debugCheckDisposed panics when a disposed node is registered for a scene.
// Only called in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("stagehand debug: %s with disposed node %q (ID was %d)", op, n.Name, n.ID))
	}
}

// debugCheckStackDepth warns on stderr if the stack grows past the threshold,
// which usually means pushes without matching pops.
const debugMaxStackDepth = 32

func debugCheckStackDepth(depth int) {
	if depth > debugMaxStackDepth {
		_, _ = fmt.Fprintf(debugOut, "[stagehand] warning: stack depth %d exceeds %d\n",
			depth, debugMaxStackDepth)
	}
}
