package events

import (
	"testing"
	"time"
)

func TestBus_SubscribeAndPublish(t *testing.T) {
	// Arrange
	bus := NewBus()
	ch, cancel := bus.Subscribe(4)
	defer cancel()

	// Act
	bus.Publish(ItemEvent{Type: ItemCreated, ItemID: 7})

	// Assert
	select {
	case ev := <-ch:
		if ev.Type != ItemCreated {
			t.Errorf("event type = %q, want %q", ev.Type, ItemCreated)
		}
		if ev.ItemID != 7 {
			t.Errorf("event item id = %d, want 7", ev.ItemID)
		}
		if ev.Timestamp.IsZero() {
			t.Error("timestamp should be set on publish")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBus_MultipleSubscribers(t *testing.T) {
	// Arrange
	bus := NewBus()
	first, cancelFirst := bus.Subscribe(1)
	defer cancelFirst()
	second, cancelSecond := bus.Subscribe(1)
	defer cancelSecond()

	// Act
	bus.Publish(ItemEvent{Type: ItemUpdated, ItemID: 1})

	// Assert: both subscribers receive the event
	for _, ch := range []<-chan ItemEvent{first, second} {
		select {
		case ev := <-ch:
			if ev.Type != ItemUpdated {
				t.Errorf("event type = %q, want %q", ev.Type, ItemUpdated)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestBus_PublishDoesNotBlockOnFullBuffer(t *testing.T) {
	// Arrange: subscriber with a single-slot buffer that is never drained
	bus := NewBus()
	_, cancel := bus.Subscribe(1)
	defer cancel()

	// Act: publishing beyond the buffer must return promptly
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			bus.Publish(ItemEvent{Type: ItemCreated, ItemID: int64(i)})
		}
		close(done)
	}()

	// Assert
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full subscriber buffer")
	}
}

func TestBus_CancelClosesChannel(t *testing.T) {
	// Arrange
	bus := NewBus()
	ch, cancel := bus.Subscribe(1)

	// Act
	cancel()

	// Assert
	if _, open := <-ch; open {
		t.Error("channel should be closed after cancel")
	}
	if got := bus.SubscriberCount(); got != 0 {
		t.Errorf("SubscriberCount() = %d, want 0", got)
	}

	// Cancelling twice is a no-op
	cancel()
}

func TestBus_SubscriberCount(t *testing.T) {
	// Arrange
	bus := NewBus()

	// Act / Assert
	if got := bus.SubscriberCount(); got != 0 {
		t.Errorf("SubscriberCount() = %d, want 0", got)
	}

	_, cancelFirst := bus.Subscribe(1)
	_, cancelSecond := bus.Subscribe(1)

	if got := bus.SubscriberCount(); got != 2 {
		t.Errorf("SubscriberCount() = %d, want 2", got)
	}

	cancelFirst()
	cancelSecond()

	if got := bus.SubscriberCount(); got != 0 {
		t.Errorf("SubscriberCount() after cancel = %d, want 0", got)
	}
}
