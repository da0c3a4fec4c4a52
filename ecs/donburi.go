package ecs

import (
	"github.com/phanxgames/bough"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for bough interaction events.
var InteractionEventType = events.NewEventType[bough.InteractionEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Interaction events are published to InteractionEventType and can be
// consumed with events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) bough.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event bough.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
}

// SubscribeType subscribes fn to interaction events of a single type.
func SubscribeType(world donburi.World, typ bough.EventType, fn func(donburi.World, bough.InteractionEvent)) {
	InteractionEventType.Subscribe(world, func(w donburi.World, e bough.InteractionEvent) {
		if e.Type == typ {
			fn(w, e)
		}
	})
}
