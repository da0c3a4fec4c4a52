// Package ecs provides ECS adapters for bough's interaction events.
//
// The primary adapter is [NewDonburiStore], which bridges interaction events
// (touch claimed and ended, button press and click, scroll end, page change)
// into a [Donburi] world as typed events. Subscribe to [InteractionEventType]
// in your ECS systems to receive them, or use [SubscribeType] to receive a
// single kind.
//
// Only views with a non-zero EntityID are bridged:
//
//	store := ecs.NewDonburiStore(world)
//	graph.SetEntityStore(store)
//	button.EntityID = uint32(entity.Id())
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
