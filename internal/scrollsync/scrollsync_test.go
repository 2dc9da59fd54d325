package scrollsync

import "testing"

// echoRegion fires its listeners on every set, even when the offset does
// not change, like a browser element re-emitting scroll events.
type echoRegion struct {
	offset    [2]float64
	listeners []func(Axis)
	sets      int
}

func (r *echoRegion) ScrollOffset(axis Axis) float64 { return r.offset[axis] }

func (r *echoRegion) SetScrollOffset(axis Axis, v float64) {
	r.sets++
	r.offset[axis] = v
	for _, fn := range r.listeners {
		if fn != nil {
			fn(axis)
		}
	}
}

func (r *echoRegion) OnScroll(fn func(Axis)) func() {
	r.listeners = append(r.listeners, fn)
	i := len(r.listeners) - 1
	return func() { r.listeners[i] = nil }
}

func TestController_MirrorsTwoMembers(t *testing.T) {
	a, b := &echoRegion{}, &echoRegion{}
	c := New()
	c.Add(Horizontal, a, b)

	a.SetScrollOffset(Horizontal, 120)

	if got := b.ScrollOffset(Horizontal); got != 120 {
		t.Fatalf("expected mirrored offset 120; got %v", got)
	}
	if c.Writes() > 1 {
		t.Fatalf("expected at most 1 mirroring write; got %d", c.Writes())
	}
	if b.sets != 1 {
		t.Fatalf("expected b to be written once; got %d", b.sets)
	}
}

func TestController_BoundedWritesPerGesture(t *testing.T) {
	month, dayHdr, body := NewPane("month"), NewPane("days"), NewPane("body")
	c := New()
	c.Add(Horizontal, month, dayHdr, body)

	for i := 1; i <= 5; i++ {
		before := c.Writes()
		body.ScrollBy(Horizontal, 10)
		if d := c.Writes() - before; d > 2 {
			t.Fatalf("gesture %d: expected at most 2 writes; got %d", i, d)
		}
	}
	if month.ScrollOffset(Horizontal) != 50 || dayHdr.ScrollOffset(Horizontal) != 50 {
		t.Fatalf("expected headers at 50; got %v and %v", month.ScrollOffset(Horizontal), dayHdr.ScrollOffset(Horizontal))
	}
}

func TestController_SkipsWithinEpsilon(t *testing.T) {
	a, b := NewPane("a"), NewPane("b")
	c := New()
	c.Add(Horizontal, a, b)

	a.SetScrollOffset(Horizontal, 0.5)
	if b.ScrollOffset(Horizontal) != 0 {
		t.Fatalf("expected sub-epsilon scroll to be ignored; got %v", b.ScrollOffset(Horizontal))
	}
	if c.Writes() != 0 {
		t.Fatalf("expected no writes; got %d", c.Writes())
	}

	c2 := New(WithEpsilon(0))
	x, y := NewPane("x"), NewPane("y")
	c2.Add(Horizontal, x, y)
	x.SetScrollOffset(Horizontal, 0.5)
	if y.ScrollOffset(Horizontal) != 0.5 {
		t.Fatalf("expected zero epsilon to mirror; got %v", y.ScrollOffset(Horizontal))
	}
}

func TestController_AxesAreIndependent(t *testing.T) {
	header, labels, body := NewPane("header"), NewPane("labels"), NewPane("body")
	c := New()
	c.Add(Horizontal, header, body)
	c.Add(Vertical, labels, body)

	body.SetScrollOffset(Vertical, 30)
	if labels.ScrollOffset(Vertical) != 30 {
		t.Fatalf("expected labels to follow body vertically; got %v", labels.ScrollOffset(Vertical))
	}
	if header.ScrollOffset(Vertical) != 0 {
		t.Fatalf("expected header to ignore vertical scroll; got %v", header.ScrollOffset(Vertical))
	}

	header.SetScrollOffset(Horizontal, 40)
	if body.ScrollOffset(Horizontal) != 40 {
		t.Fatalf("expected body to follow header horizontally; got %v", body.ScrollOffset(Horizontal))
	}
	if labels.ScrollOffset(Horizontal) != 0 {
		t.Fatalf("expected labels to ignore horizontal scroll; got %v", labels.ScrollOffset(Horizontal))
	}
}

func TestController_ClampedMemberDoesNotLoop(t *testing.T) {
	header, body := NewPane("header"), NewPane("body")
	header.SetMax(Horizontal, 100)
	c := New()
	c.Add(Horizontal, header, body)

	body.SetScrollOffset(Horizontal, 150)
	if header.ScrollOffset(Horizontal) != 100 {
		t.Fatalf("expected header clamped at 100; got %v", header.ScrollOffset(Horizontal))
	}
	if body.ScrollOffset(Horizontal) != 150 {
		t.Fatalf("expected body to keep its own offset; got %v", body.ScrollOffset(Horizontal))
	}
	if c.Writes() != 1 {
		t.Fatalf("expected one write; got %d", c.Writes())
	}
}

func TestController_CloseDetaches(t *testing.T) {
	a, b := NewPane("a"), NewPane("b")
	c := New()
	c.Add(Horizontal, a, b)
	if a.Listeners() != 1 || b.Listeners() != 1 {
		t.Fatalf("expected one listener per pane")
	}

	c.Close()
	c.Close()
	if a.Listeners() != 0 || b.Listeners() != 0 {
		t.Fatalf("expected listeners detached; got %d and %d", a.Listeners(), b.Listeners())
	}
	a.SetScrollOffset(Horizontal, 80)
	if b.ScrollOffset(Horizontal) != 0 {
		t.Fatalf("expected no mirroring after close; got %v", b.ScrollOffset(Horizontal))
	}

	c.Add(Horizontal, a, b)
	if a.Listeners() != 0 {
		t.Fatalf("expected Add after close to be a no-op")
	}
}

func TestController_SyncAligns(t *testing.T) {
	a, b := NewPane("a"), NewPane("b")
	a.SetScrollOffset(Horizontal, 25)
	c := New()
	c.Add(Horizontal, a, b)
	c.Sync(Horizontal, a)
	if b.ScrollOffset(Horizontal) != 25 {
		t.Fatalf("expected explicit sync to align; got %v", b.ScrollOffset(Horizontal))
	}
}
