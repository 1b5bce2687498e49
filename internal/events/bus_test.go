package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesTypeSubscribers(t *testing.T) {
	bus := NewBus()
	got := make(chan Event, 1)
	bus.Subscribe(MoodChanged, func(ev Event) { got <- ev })

	bus.Publish(New("john", MoodChanged, "happy"))

	select {
	case ev := <-got:
		assert.Equal(t, "john", ev.CharacterID)
		assert.Equal(t, "happy", ev.Payload)
		assert.NotEmpty(t, ev.ID)
		assert.False(t, ev.Timestamp.IsZero())
	case <-time.After(time.Second):
		t.Fatal("event never arrived")
	}
}

func TestPublishSkipsOtherTypes(t *testing.T) {
	bus := NewBus()
	got := make(chan Event, 1)
	bus.Subscribe(MoodChanged, func(ev Event) { got <- ev })

	bus.Publish(New("john", PlanGenerated, "a plan"))

	select {
	case <-got:
		t.Fatal("handler received an event of the wrong type")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscribeAllSeesEverything(t *testing.T) {
	bus := NewBus()
	got := make(chan Event, 2)
	bus.SubscribeAll(func(ev Event) { got <- ev })

	bus.Publish(New("john", MoodChanged, "sad"))
	bus.Publish(New("rosa", PlanGenerated, "a plan"))

	seen := map[Type]bool{}
	for i := 0; i < 2; i++ {
		select {
		case ev := <-got:
			seen[ev.Type] = true
		case <-time.After(time.Second):
			t.Fatal("event never arrived")
		}
	}
	require.True(t, seen[MoodChanged])
	require.True(t, seen[PlanGenerated])
}

func TestPublishNeverBlocks(t *testing.T) {
	bus := NewBus()
	release := make(chan struct{})
	bus.Subscribe(MoodChanged, func(Event) { <-release })

	done := make(chan struct{})
	go func() {
		bus.Publish(New("john", MoodChanged, "happy"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow handler")
	}
	close(release)
}

func TestEventIDsAreUnique(t *testing.T) {
	a := New("john", MoodChanged, "happy")
	b := New("john", MoodChanged, "happy")
	assert.NotEqual(t, a.ID, b.ID)
}
