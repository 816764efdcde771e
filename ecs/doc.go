// Package ecs provides ECS adapters for larch's scene lifecycle events.
//
// The primary adapter is [NewDonburiSink], which bridges larch scene events
// (node added, node removed, frame rendered) into a [Donburi] world as typed
// events. Subscribe to [SceneEventType] in your ECS systems to receive them.
// Nodes carry an EntityID field that is copied into every event about them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	scene.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
