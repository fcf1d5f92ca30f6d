// Package ecs provides ECS adapters for stagehand's navigation events.
//
// The primary adapter is [NewDonburiObserver], which bridges completed
// navigations (push, pop, transition, popToRoot, sequential reservations)
// into a [Donburi] world as typed events, and mirrors the current scene into
// a [SceneStateComponent] entity. Subscribe to [NavigationEventType] in your
// ECS systems to receive them.
//
// Usage:
//
//	obs := ecs.NewDonburiObserver(world)
//	director.AddObserver(obs)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
