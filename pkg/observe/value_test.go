package observe

import (
	"testing"
)

func TestGetReturnsCurrentValue(t *testing.T) {
	v := NewValue(42)
	if got := v.Get(); got != 42 {
		t.Fatalf("Get = %d, want 42", got)
	}
	v.Set(7)
	if got := v.Get(); got != 7 {
		t.Fatalf("Get after Set = %d, want 7", got)
	}
}

func TestSubscribersNotifiedInRegistrationOrder(t *testing.T) {
	v := NewValue("")
	var order []string

	v.Subscribe(func(s string) { order = append(order, "first:"+s) })
	v.Subscribe(func(s string) { order = append(order, "second:"+s) })

	v.Set("x")
	if len(order) != 2 || order[0] != "first:x" || order[1] != "second:x" {
		t.Fatalf("unexpected notification order %v", order)
	}
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	v := NewValue(0)
	calls := 0
	cancel := v.Subscribe(func(int) { calls++ })

	v.Set(1)
	cancel()
	v.Set(2)

	if calls != 1 {
		t.Fatalf("expected 1 call after unsubscribe, got %d", calls)
	}
	if v.Len() != 0 {
		t.Fatalf("expected no active subscribers, got %d", v.Len())
	}
	cancel() // second cancel is a no-op
}

func TestSubscriberMayReadCurrentValue(t *testing.T) {
	v := NewValue(0)
	var seen int
	v.Subscribe(func(int) { seen = v.Get() })

	v.Set(9)
	if seen != 9 {
		t.Fatalf("subscriber read %d, want 9", seen)
	}
}
