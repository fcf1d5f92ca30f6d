package stagehand

import (
	"fmt"
	"sort"
)

// Scene is a navigable unit of screen content. The Director calls its hooks
// as the scene enters, leaves, or is covered on the stack. Embed BaseScene to
// get no-op defaults and override only the hooks you need.
//
// Scenes are compared by identity: use pointer receivers.
type Scene interface {
	Name() string

	// OnEnter fires when the scene was pushed, or replaced a sibling via
	// Transition, or was played from a sequential reservation.
	OnEnter(prev Scene, opt any)
	// OnResume fires when the child pushed on top of this scene was popped.
	OnResume(prev Scene, opt any)
	// OnPause fires when a child is pushed on top of this scene.
	OnPause(next Scene, opt any)
	// OnExit fires when the scene is removed from the stack.
	OnExit(next Scene, opt any)

	// Transition brackets; only called when that side actually animates.
	OnEnterTransitionStart(opt any)
	OnEnterTransitionEnd(opt any)
	OnExitTransitionStart(opt any)
	OnExitTransitionEnd(opt any)
}

// BaseScene implements every Scene hook as a no-op.
type BaseScene struct {
	name string
}

// NewBaseScene returns a BaseScene with the given name, for embedding.
func NewBaseScene(name string) BaseScene {
	return BaseScene{name: name}
}

// Name returns the scene name given to NewBaseScene.
func (b *BaseScene) Name() string { return b.name }

func (b *BaseScene) OnEnter(Scene, any)         {}
func (b *BaseScene) OnResume(Scene, any)        {}
func (b *BaseScene) OnPause(Scene, any)         {}
func (b *BaseScene) OnExit(Scene, any)          {}
func (b *BaseScene) OnEnterTransitionStart(any) {}
func (b *BaseScene) OnEnterTransitionEnd(any)   {}
func (b *BaseScene) OnExitTransitionStart(any)  {}
func (b *BaseScene) OnExitTransitionEnd(any)    {}

// sceneName returns s.Name(), or "<none>" for a nil scene.
func sceneName(s Scene) string {
	if s == nil {
		return "<none>"
	}
	return s.Name()
}

// --- Factories ---

// SceneFactory resolves string keys to scene instances for PushKey and
// TransitionKey.
type SceneFactory interface {
	Resolve(key string) (Scene, error)
}

// FactoryFunc adapts a function to SceneFactory.
type FactoryFunc func(key string) (Scene, error)

// Resolve calls f(key).
func (f FactoryFunc) Resolve(key string) (Scene, error) {
	return f(key)
}

// SceneConstructor builds a fresh scene instance.
type SceneConstructor func() Scene

// SceneRegistry is a SceneFactory backed by a key → constructor map. Every
// Resolve builds a new instance.
type SceneRegistry struct {
	constructors map[string]SceneConstructor
}

// NewSceneRegistry creates an empty registry.
func NewSceneRegistry() *SceneRegistry {
	return &SceneRegistry{constructors: make(map[string]SceneConstructor)}
}

// Register adds a constructor under key, replacing any previous one.
func (r *SceneRegistry) Register(key string, fn SceneConstructor) *SceneRegistry {
	r.constructors[key] = fn
	return r
}

// Keys returns the registered keys in sorted order.
func (r *SceneRegistry) Keys() []string {
	keys := make([]string, 0, len(r.constructors))
	for k := range r.constructors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Resolve builds the scene registered under key.
func (r *SceneRegistry) Resolve(key string) (Scene, error) {
	fn, ok := r.constructors[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, key)
	}
	s := fn()
	if s == nil {
		return nil, fmt.Errorf("%w: constructor for %q returned nil", ErrNilScene, key)
	}
	return s, nil
}
