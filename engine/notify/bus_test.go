package notify

import (
	"errors"
	"testing"
)

func TestPublishOrder(t *testing.T) {
	b := New()
	var got []string
	for _, name := range []string{"buffer", "shader", "renderer"} {
		name := name
		Subscribe(b, BackendReady, name, func(struct{}) error {
			got = append(got, name)
			return nil
		})
	}
	if err := Publish(b, BackendReady, struct{}{}); err != nil {
		t.Fatal(err)
	}
	want := []string{"buffer", "shader", "renderer"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("delivery %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestTopicsAreIsolated(t *testing.T) {
	b := New()
	var size int
	ready := 0
	Subscribe(b, BatchSizeChanged, "batch", func(n int) error { size = n; return nil })
	Subscribe(b, BackendReady, "buffer", func(struct{}) error { ready++; return nil })

	if err := Publish(b, BatchSizeChanged, 250); err != nil {
		t.Fatal(err)
	}
	if size != 250 || ready != 0 {
		t.Errorf("size = %d ready = %d, want 250 and 0", size, ready)
	}
}

func TestCustomDataTopic(t *testing.T) {
	type resize struct{ W, H int }
	topic := NewTopic[resize]("surface-resized")
	b := New()
	var got resize
	Subscribe(b, topic, "", func(r resize) error { got = r; return nil })
	if err := Publish(b, topic, resize{800, 600}); err != nil {
		t.Fatal(err)
	}
	if got != (resize{800, 600}) {
		t.Errorf("got %+v", got)
	}
}

func TestDisposeIsIdempotent(t *testing.T) {
	b := New()
	calls := 0
	s := Subscribe(b, ShuttingDown, "program", func(struct{}) error { calls++; return nil })
	s.Dispose()
	s.Dispose()
	if !s.Disposed() || b.Count(ShuttingDown.Name()) != 0 {
		t.Fatalf("subscription still registered")
	}
	_ = Publish(b, ShuttingDown, struct{}{})
	if calls != 0 {
		t.Errorf("disposed handler called %d times", calls)
	}
}

func TestSubscriptionIDsUnique(t *testing.T) {
	b := New()
	seen := map[uint64]bool{}
	for i := 0; i < 10; i++ {
		s := Subscribe(b, BackendReady, "", func(struct{}) error { return nil })
		if seen[s.ID()] {
			t.Fatalf("duplicate id %d", s.ID())
		}
		seen[s.ID()] = true
		if s.Topic() != "backend-ready" {
			t.Errorf("Topic() = %q", s.Topic())
		}
	}
}

func TestDisposeDuringPublish(t *testing.T) {
	b := New()
	var second *Subscription
	calls := 0
	Subscribe(b, BackendReady, "first", func(struct{}) error {
		second.Dispose()
		return nil
	})
	second = Subscribe(b, BackendReady, "second", func(struct{}) error { calls++; return nil })
	if err := Publish(b, BackendReady, struct{}{}); err != nil {
		t.Fatal(err)
	}
	if calls != 0 {
		t.Errorf("handler disposed mid-publish was still called")
	}
}

func TestHandlerErrorStopsDelivery(t *testing.T) {
	b := New()
	boom := errors.New("compile failed")
	after := false
	Subscribe(b, BackendReady, "shader", func(struct{}) error { return boom })
	Subscribe(b, BackendReady, "late", func(struct{}) error { after = true; return nil })

	err := Publish(b, BackendReady, struct{}{})
	if !errors.Is(err, boom) {
		t.Fatalf("Publish = %v, want wrapped %v", err, boom)
	}
	if after {
		t.Error("delivery continued after an error")
	}
}

func TestReentrantPublishPanics(t *testing.T) {
	b := New()
	Subscribe(b, BatchSizeChanged, "loop", func(n int) error {
		return Publish(b, BatchSizeChanged, n+1)
	})
	defer func() {
		if recover() == nil {
			t.Error("expected panic on re-entrant publish")
		}
	}()
	_ = Publish(b, BatchSizeChanged, 1)
}

func TestPublishOtherTopicFromHandler(t *testing.T) {
	b := New()
	down := false
	Subscribe(b, ShuttingDown, "", func(struct{}) error { down = true; return nil })
	Subscribe(b, BackendReady, "", func(struct{}) error {
		return Publish(b, ShuttingDown, struct{}{})
	})
	if err := Publish(b, BackendReady, struct{}{}); err != nil {
		t.Fatal(err)
	}
	if !down {
		t.Error("nested publish on another topic was not delivered")
	}
}

func TestGroupDispose(t *testing.T) {
	b := New()
	var g Group
	g.Add(
		Subscribe(b, BackendReady, "", func(struct{}) error { return nil }),
		Subscribe(b, ShuttingDown, "", func(struct{}) error { return nil }),
	)
	g.Dispose()
	g.Dispose()
	if b.Count(BackendReady.Name())+b.Count(ShuttingDown.Name()) != 0 {
		t.Error("group dispose left subscriptions behind")
	}
}
