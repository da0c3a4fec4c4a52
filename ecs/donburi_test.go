package ecs

import (
	"testing"

	"github.com/phanxgames/bough"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestDonburiStore_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var received []bough.InteractionEvent
	InteractionEventType.Subscribe(world, func(w donburi.World, e bough.InteractionEvent) {
		received = append(received, e)
	})

	store.EmitEvent(bough.InteractionEvent{
		Type:     bough.EventButtonPressed,
		EntityID: 42,
		GlobalX:  100,
		GlobalY:  200,
	})
	store.EmitEvent(bough.InteractionEvent{Type: bough.EventPageChanged, EntityID: 7, Page: 2})

	// Events are queued until processed.
	assert.Empty(t, received)
	InteractionEventType.ProcessEvents(world)

	require.Len(t, received, 2)
	assert.Equal(t, bough.EventButtonPressed, received[0].Type)
	assert.Equal(t, uint32(42), received[0].EntityID)
	assert.Equal(t, 100.0, received[0].GlobalX)
	assert.Equal(t, 2, received[1].Page)
}

func TestSubscribeType(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var clicks int
	SubscribeType(world, bough.EventButtonClicked, func(donburi.World, bough.InteractionEvent) {
		clicks++
	})
	store.EmitEvent(bough.InteractionEvent{Type: bough.EventButtonPressed, EntityID: 1})
	store.EmitEvent(bough.InteractionEvent{Type: bough.EventButtonClicked, EntityID: 1})
	events.ProcessAllEvents(world)

	assert.Equal(t, 1, clicks)
}

func TestGraphForwardsBridgedViews(t *testing.T) {
	world := donburi.NewWorld()
	g := bough.NewGraph(bough.Size{Width: 200, Height: 200})
	g.SetEntityStore(NewDonburiStore(world))

	btn := bough.NewButton("ok")
	btn.SetBounds(bough.Rect{X: 10, Y: 10, Width: 50, Height: 30})
	btn.EntityID = 9
	g.Root().AddSubview(btn.View)

	plain := bough.NewButton("plain")
	plain.SetBounds(bough.Rect{X: 100, Y: 10, Width: 50, Height: 30})
	g.Root().AddSubview(plain.View)

	var got []bough.InteractionEvent
	InteractionEventType.Subscribe(world, func(w donburi.World, e bough.InteractionEvent) {
		got = append(got, e)
	})

	press := func(id bough.TouchID, x, y float64) {
		tc := &bough.Touch{ID: id, Pos: bough.Vec2{X: x, Y: y}}
		g.PropagateTouchesBegan(bough.NewTouchEvent(tc))
		end := &bough.Touch{ID: id, Pos: bough.Vec2{X: x, Y: y}}
		g.PropagateTouchesEnded(bough.NewTouchEvent(end))
	}
	press(1, 30, 25)
	press(2, 120, 25)
	events.ProcessAllEvents(world)

	require.NotEmpty(t, got)
	for _, e := range got {
		assert.Equal(t, uint32(9), e.EntityID)
	}
	var types []bough.EventType
	for _, e := range got {
		types = append(types, e.Type)
	}
	assert.Contains(t, types, bough.EventButtonClicked)
}
