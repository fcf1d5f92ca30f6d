// Package ecs provides ECS adapters for stagehand.
package ecs

import (
	"github.com/phanxgames/stagehand"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// NavigationEventType is the Donburi event type for stagehand navigation
// events. Subscribe to this in your ECS systems to react to scene changes.
var NavigationEventType = events.NewEventType[stagehand.NavigationEvent]()

// SceneState is the component mirroring the Director's top of stack.
type SceneState struct {
	Current string
	Depth   int
}

// SceneStateComponent holds the single SceneState entity an observer keeps
// up to date.
var SceneStateComponent = donburi.NewComponentType[SceneState]()

// DonburiObserver publishes navigation events into a Donburi world and keeps
// a SceneState entity in sync.
type DonburiObserver struct {
	world  donburi.World
	entity donburi.Entity
}

// NewDonburiObserver creates an Observer backed by a Donburi world.
// Events are published to NavigationEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiObserver(world donburi.World) *DonburiObserver {
	return &DonburiObserver{
		world:  world,
		entity: world.Create(SceneStateComponent),
	}
}

// Navigated implements stagehand.Observer.
func (o *DonburiObserver) Navigated(event stagehand.NavigationEvent) {
	entry := o.world.Entry(o.entity)
	SceneStateComponent.SetValue(entry, SceneState{Current: event.To, Depth: event.Depth})
	NavigationEventType.Publish(o.world, event)
}

// State returns the last mirrored top of stack.
func (o *DonburiObserver) State() SceneState {
	return *SceneStateComponent.Get(o.world.Entry(o.entity))
}

// Entity returns the entity holding SceneStateComponent.
func (o *DonburiObserver) Entity() donburi.Entity {
	return o.entity
}
