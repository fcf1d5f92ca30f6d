// Package stagehand is a scene navigator for [Ebitengine] games.
//
// A [Director] owns a stack of [Scene] values and moves between them with
// push, pop, replace and pop-to-root navigations. Each navigation fires the
// scenes' lifecycle hooks and plays one paired transition: the outgoing
// scene's nodes animate out while the incoming scene's nodes animate in.
// Calls made while a navigation is in flight are queued and replayed in
// order once it completes.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	d := stagehand.NewDirector()
//	title := &TitleScene{BaseScene: stagehand.NewBaseScene("title")}
//	d.RegisterScene(title, title.nodes)
//	d.Push(title, nil, stagehand.Instant())
//	stagehand.Run(d, stagehand.RunConfig{
//		Title: "My Game", Width: 640, Height: 480,
//	})
//
// For full control, use a [Stage] as your [ebiten.Game], or call
// [Director.Update] from your own game loop and draw the scenes from
// [Director.VisibleScenes] yourself.
//
// # Scenes
//
// Embed [BaseScene] and override the hooks you need:
//
//	type MenuScene struct {
//		stagehand.BaseScene
//	}
//
//	func (m *MenuScene) OnEnter(prev stagehand.Scene, opt any) {
//		// set up
//	}
//
// OnEnter and OnExit bracket a scene's time on the stack. OnPause and
// OnResume fire when a child is pushed on top of it and popped again. The
// OnEnterTransition*/OnExitTransition* hooks bracket the animation of that
// scene's side, and only fire when that side animates.
//
// Hooks may call navigation methods. Those calls are deferred and run, in
// the order they were made, after the current navigation completes.
//
// # Nodes and transitions
//
// Register the [Node] values a scene wants animated with
// [Director.RegisterScene]. Their current pose is saved as the rest state
// that every transition returns them to.
//
// Built-in strategies are [Slide], [Fade], [ColorWipe] and [None]; select
// them with [Director.RegisterTransition] and [Director.UseTransitions], or
// by name from a [Config]. Implement [Transition] to add your own: it
// returns one [Action] per node, built from [MoveTo], [FadeTo], [TintTo],
// [Sequence], [Spawn] and friends.
//
// Per call, [SkipEnter], [SkipExit] and [Instant] turn animation off for one
// or both sides.
//
// # Sequential transitions
//
// [Director.SequentialTransition] reserves a list of scenes for the current
// depth. Each later Pop at that depth replaces the top scene with the next
// reserved one instead of returning to the parent; the callback runs after
// the last.
//
// # Stage
//
// A [Stage] draws the current scene (and the exiting one during a
// transition) as tinted quads. Set [Stage.Keys] to bind keys such as
// [BackKey], and [Node.OnClick] to make nodes clickable. Both are ignored
// while a navigation is in flight. [Stage.Screenshot] saves the next frame as
// a PNG, and [Stage.ShowOverlay] draws frame rate and navigator state.
//
// # Configuration
//
// [LoadConfig] reads a TOML file and applies STAGEHAND_* environment
// overrides. Pass the result to [WithConfig] and [RunConfigFrom].
//
// # Debug mode
//
// [Director.SetDebugMode] prints a line to stderr for every completed and
// deferred navigation.
//
// [Ebitengine]: https://ebitengine.org
package stagehand
