package broadcast

import "testing"

func TestPublishReachesAllSubscribers(t *testing.T) {
	b := New[string]()

	ch1, cancel1 := b.Subscribe()
	ch2, cancel2 := b.Subscribe()
	defer cancel1()
	defer cancel2()

	b.Publish("hello")

	if got := <-ch1; got != "hello" {
		t.Errorf("subscriber 1 got %q", got)
	}
	if got := <-ch2; got != "hello" {
		t.Errorf("subscriber 2 got %q", got)
	}
}

func TestCancelRemovesSubscriber(t *testing.T) {
	b := New[int]()

	ch, cancel := b.Subscribe()
	cancel()

	if b.Len() != 0 {
		t.Errorf("Len() = %d after cancel, want 0", b.Len())
	}
	if _, ok := <-ch; ok {
		t.Error("expected closed channel after cancel")
	}
	// Second cancel is a no-op.
	cancel()
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	b := New[int]()

	_, cancel := b.Subscribe()
	defer cancel()

	// More publishes than the subscriber buffer; must not deadlock.
	for i := 0; i < 100; i++ {
		b.Publish(i)
	}
}
