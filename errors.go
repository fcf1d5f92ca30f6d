package stagehand

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by navigation and registration calls. They are
// programming errors: the Director never retries them.
var (
	// ErrNoSceneToPop is returned by Pop on an empty stack.
	ErrNoSceneToPop = errors.New("no more scene to pop")

	// ErrNoSceneToReplace is returned by Transition and SequentialTransition
	// when there is no current scene.
	ErrNoSceneToReplace = errors.New("no current scene to replace")

	// ErrNilScene is returned when a nil scene is pushed, registered, or
	// produced by a factory.
	ErrNilScene = errors.New("scene is nil")

	// ErrNilNode is returned by RegisterScene when the node list holds nil.
	ErrNilNode = errors.New("node is nil")

	// ErrUnknownScene is returned by a SceneRegistry for an unregistered key.
	ErrUnknownScene = errors.New("unknown scene key")

	// ErrNoFactory is returned by PushKey and TransitionKey when the Director
	// has no SceneFactory.
	ErrNoFactory = errors.New("no scene factory configured")

	// ErrSceneInStack is returned when a scene instance that is already on
	// the stack is pushed or transitioned to again.
	ErrSceneInStack = errors.New("scene is already on the stack")

	// ErrSceneReserved is returned when a scene held by a pending sequential
	// reservation is pushed, transitioned to, or reserved again.
	ErrSceneReserved = errors.New("scene is held by a sequential reservation")

	// ErrReservationPending is returned by PopToRoot while a sequential
	// reservation exists, and by SequentialTransition when the current depth
	// already holds one.
	ErrReservationPending = errors.New("sequential reservation pending")

	// ErrNoScenes is returned by SequentialTransition with an empty list.
	ErrNoScenes = errors.New("no scenes to reserve")

	// ErrInvalidTransitionTime is returned for negative transition times.
	ErrInvalidTransitionTime = errors.New("transition time must not be negative")

	// ErrUnknownTransition is returned for unregistered transition ids and
	// unknown transition names.
	ErrUnknownTransition = errors.New("unknown transition")

	// ErrTransitionRunning is returned by Orchestrator.Start while a run is
	// still in progress.
	ErrTransitionRunning = errors.New("transition already running")
)

// NavigationError wraps a failure with the navigation operation that hit it.
type NavigationError struct {
	Op  string // Operation that failed (e.g., "push", "pop")
	Err error  // Underlying error
}

func (e *NavigationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("stagehand: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("stagehand: %s", e.Op)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}

func navError(op string, err error) error {
	return &NavigationError{Op: op, Err: err}
}

// IsNavigationError reports whether err came from a navigation call.
func IsNavigationError(err error) bool {
	var navErr *NavigationError
	return errors.As(err, &navErr)
}
