package event

import "testing"

func TestEmit_DeliversInRegistrationOrder(t *testing.T) {
	b := NewBus()
	var order []int
	b.Subscribe("x", func(string, any) { order = append(order, 1) })
	b.Subscribe("x", func(string, any) { order = append(order, 2) })
	b.SubscribeAll(func(string, any) { order = append(order, 3) })

	b.Emit("x", nil)

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("delivery order = %v, want [1 2 3]", order)
	}
}

func TestEmit_TopicIsolation(t *testing.T) {
	b := NewBus()
	called := false
	b.Subscribe("a", func(string, any) { called = true })
	b.Emit("b", nil)
	if called {
		t.Error("subscriber for topic a received topic b")
	}
}

func TestEmit_PanickingSubscriberDoesNotBlockOthers(t *testing.T) {
	b := NewBus()
	var delivered bool
	b.Subscribe("x", func(string, any) { panic("boom") })
	b.Subscribe("x", func(string, any) { delivered = true })

	b.Emit("x", nil)

	if !delivered {
		t.Error("panicking subscriber prevented delivery to the next one")
	}
}

func TestEmit_PayloadPassedThrough(t *testing.T) {
	b := NewBus()
	var got any
	b.Subscribe("x", func(_ string, p any) { got = p })
	b.Emit("x", 42)
	if got != 42 {
		t.Errorf("payload = %v, want 42", got)
	}
}
