package messaging

import (
	"strconv"
	"testing"
)

func TestPublishPreservesOrder(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe()
	for i := 0; i < 10; i++ {
		bus.Broadcast(strconv.Itoa(i))
	}
	for i := 0; i < 10; i++ {
		event := <-sub.C
		if event.Message != strconv.Itoa(i) {
			t.Fatalf("expected message %d but got %s", i, event.Message)
		}
	}
}

func TestSlowSubscriberEvicted(t *testing.T) {
	bus := NewBus()
	slow := bus.Subscribe()
	fast := bus.Subscribe()

	// Overflow the slow subscriber's buffer without draining it.
	for i := 0; i <= subscriberBuffer; i++ {
		bus.Broadcast("x")
		// Keep the fast subscriber drained so it survives.
		<-fast.C
	}

	received := 0
	for range slow.C {
		received++
	}
	if received != subscriberBuffer {
		t.Errorf("expected %d buffered events before eviction but got %d", subscriberBuffer, received)
	}

	// The fast subscriber still gets later events.
	bus.Broadcast("after")
	if event := <-fast.C; event.Message != "after" {
		t.Errorf("expected fast subscriber to stay attached, got %q", event.Message)
	}
}

func TestLateSubscriberMissesEarlierEvents(t *testing.T) {
	bus := NewBus()
	bus.Broadcast("early")
	sub := bus.Subscribe()
	bus.Broadcast("late")
	if event := <-sub.C; event.Message != "late" {
		t.Errorf("expected late but got %s", event.Message)
	}
}

func TestScopedPublish(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe()
	bus.HostOnly("for host")
	bus.PlayerOnly("p1", "for p1")

	event := <-sub.C
	if event.Scope != ScopeHostOnly || event.Message != "for host" {
		t.Errorf("unexpected event %+v", event)
	}
	event = <-sub.C
	if event.Scope != ScopePlayerOnly || event.PlayerID != "p1" {
		t.Errorf("unexpected event %+v", event)
	}
}

func TestCloseEvictsSubscribers(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe()
	bus.Close()
	if _, open := <-sub.C; open {
		t.Error("expected subscriber channel to be closed")
	}
	// Publishing after close must not panic.
	bus.Broadcast("ignored")
	// Subscribing after close yields a closed channel.
	late := bus.Subscribe()
	if _, open := <-late.C; open {
		t.Error("expected late subscription to be closed immediately")
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe()
	bus.Unsubscribe(sub)
	bus.Unsubscribe(sub)
	bus.Broadcast("x")
}

func TestBusRegistry(t *testing.T) {
	reg := NewBusRegistry()
	if reg.Get("ABC123") != nil {
		t.Error("expected no bus before Ensure")
	}
	bus := reg.Ensure("ABC123")
	if reg.Ensure("ABC123") != bus {
		t.Error("expected Ensure to return the same bus")
	}
	if reg.Get("ABC123") != bus {
		t.Error("expected Get to return the ensured bus")
	}

	sub := bus.Subscribe()
	reg.Remove("ABC123")
	if _, open := <-sub.C; open {
		t.Error("expected Remove to close the bus")
	}
	if reg.Get("ABC123") != nil {
		t.Error("expected bus to be gone after Remove")
	}
}
