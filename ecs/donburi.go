package ecs

import (
	"github.com/phanxgames/arbor"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// NodeEventType is the Donburi event type for arbor registry events.
var NodeEventType = events.NewEventType[arbor.NodeEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EventSink backed by a Donburi world.
// Registry events are published to NodeEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) arbor.EventSink {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event arbor.NodeEvent) {
	NodeEventType.Publish(s.world, event)
}
