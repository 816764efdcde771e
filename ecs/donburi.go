package ecs

import (
	"github.com/phanxgames/larch"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// SceneEventType is the Donburi event type for larch scene events.
// Subscribe to this in your ECS systems to learn when nodes join or leave
// the scene and when frames are rendered.
var SceneEventType = events.NewEventType[larch.SceneEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world.
// Scene events are published to SceneEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) larch.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event larch.SceneEvent) {
	SceneEventType.Publish(s.world, event)
}
