package stagehand

// Status is the Director's navigation state. Exactly one value is active at
// a time; every value is distinct, including the two PopToRoot steps.
type Status uint8

const (
	StatusNormal         Status = iota // idle; navigation calls run immediately
	StatusProcessing                   // a navigation call is computing, not yet animating
	StatusInTransition                 // the orchestrator is running
	StatusEnter                        // an entering hook (OnEnter/OnResume) is executing
	StatusExit                         // an exiting hook (OnExit/OnPause) is executing
	StatusPopToRootEnter               // PopToRoot is resuming an intermediate scene
	StatusPopToRootExit                // PopToRoot is exiting an intermediate scene
)

// String returns the lower-case status name used in logs.
func (s Status) String() string {
	switch s {
	case StatusNormal:
		return "normal"
	case StatusProcessing:
		return "processing"
	case StatusInTransition:
		return "in-transition"
	case StatusEnter:
		return "enter"
	case StatusExit:
		return "exit"
	case StatusPopToRootEnter:
		return "pop-to-root-enter"
	case StatusPopToRootExit:
		return "pop-to-root-exit"
	default:
		return "unknown"
	}
}

// Busy reports whether navigation calls made in this status are deferred.
func (s Status) Busy() bool {
	return s != StatusNormal
}

// NavKind names a navigation operation in events and logs.
type NavKind uint8

const (
	NavPush NavKind = iota
	NavPop
	NavTransition
	NavPopToRoot
	NavSequential
)

func (k NavKind) String() string {
	switch k {
	case NavPush:
		return "push"
	case NavPop:
		return "pop"
	case NavTransition:
		return "transition"
	case NavPopToRoot:
		return "popToRoot"
	case NavSequential:
		return "sequentialTransition"
	default:
		return "unknown"
	}
}
