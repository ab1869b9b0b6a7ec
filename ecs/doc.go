// Package ecs provides ECS adapters for arbor's scene registry.
//
// The primary adapter is [NewDonburiStore], which publishes arbor registry
// events (node added, node removed) into a [Donburi] world as typed events.
// Subscribe to [NodeEventType] in your ECS systems to mirror scene nodes as
// entities.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEventSink(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
