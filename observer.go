package stagehand

// NavigationEvent describes one completed navigation.
type NavigationEvent struct {
	Kind   NavKind
	From   string // scene that was current before the call ("<none>" if empty)
	To     string // scene that is current after the call
	Depth  int    // stack depth after the call
	Option any
}

// Observer receives a NavigationEvent after every navigation completes, once
// all hooks have fired and the transition has finished, before the next
// deferred request runs.
type Observer interface {
	Navigated(NavigationEvent)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(NavigationEvent)

// Navigated calls f(e).
func (f ObserverFunc) Navigated(e NavigationEvent) {
	f(e)
}
