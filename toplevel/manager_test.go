package toplevel

import (
	"slices"
	"testing"

	wl "deedles.dev/wlpanel/client"
	"deedles.dev/wlpanel/internal/wltest"
)

func ids(list []*Toplevel) []uint32 {
	ids := make([]uint32, 0, len(list))
	for _, t := range list {
		ids = append(ids, t.ID())
	}
	slices.Sort(ids)
	return ids
}

func TestUnavailable(t *testing.T) {
	c := wltest.New(t, wltest.WithoutManager())
	if m := Get(c.Display()); m != nil {
		t.Fatalf("got %v", m)
	}
}

func TestToplevelsMatchNotifications(t *testing.T) {
	c, m := setup(t)

	var log []uint32
	current := make(map[uint32]struct{})
	m.Subscribe(func(ev ManagerEvent) {
		switch ev := ev.(type) {
		case Added:
			current[ev.Toplevel.ID()] = struct{}{}
		case Removed:
			if !ev.Toplevel.Closed() {
				t.Errorf("%v removed before being closed", ev.Toplevel)
			}
			if m.table[ev.Toplevel.ID()] != ev.Toplevel {
				t.Errorf("%v released before removal was delivered", ev.Toplevel)
			}
			log = append(log, ev.Toplevel.ID())
			delete(current, ev.Toplevel.ID())
		}
	})

	check := func() {
		t.Helper()
		expected := make([]uint32, 0, len(current))
		for id := range current {
			expected = append(expected, id)
		}
		slices.Sort(expected)
		if got := ids(m.Toplevels()); !slices.Equal(got, expected) {
			t.Errorf("toplevels %v, notifications say %v", got, expected)
		}
	}

	w1 := c.AddWindow("one", "a")
	c.AddWindow("two", "b")
	roundTrip(t, m)
	check()

	w3 := c.AddWindow("three", "c")
	w1.Close()
	roundTrip(t, m)
	check()

	w3.Close()
	c.AddWindow("four", "d")
	roundTrip(t, m)
	check()

	if len(log) != 2 {
		t.Errorf("removals: %v", log)
	}
	if len(m.Toplevels()) != 2 {
		t.Errorf("toplevels: %v", m.Toplevels())
	}
}

func TestActive(t *testing.T) {
	c, m := setup(t)
	w1 := c.AddWindow("one", "a")
	w1.SetState(wltest.Activated)
	w2 := c.AddWindow("two", "b")
	roundTrip(t, m)

	t1, t2 := find(t, m, "one"), find(t, m, "two")
	if m.Active() != t1 {
		t.Fatalf("active: %v", m.Active())
	}

	var events []ManagerEvent
	m.Subscribe(func(ev ManagerEvent) { events = append(events, ev) })

	w2.SetState(wltest.Activated)
	w1.SetState(0)
	roundTrip(t, m)
	if m.Active() != t2 {
		t.Fatalf("active: %v", m.Active())
	}

	// Deactivation alone doesn't clear it.
	w2.SetState(0)
	roundTrip(t, m)
	if m.Active() != t2 {
		t.Fatalf("active after deactivation: %v", m.Active())
	}

	w2.Close()
	roundTrip(t, m)
	if m.Active() != nil {
		t.Fatalf("active after close: %v", m.Active())
	}

	expected := []ManagerEvent{
		ActiveChanged{Active: t2},
		ActiveChanged{},
		Removed{Toplevel: t2},
	}
	if !slices.Equal(events, expected) {
		t.Errorf("got %#v", events)
	}
}

func TestClosedDuringConstruction(t *testing.T) {
	c, m := setup(t)

	var added int
	m.Subscribe(func(ev ManagerEvent) {
		if _, ok := ev.(Added); ok {
			added++
		}
	})

	w := c.AddWindow("flash", "app")
	w.Close()
	roundTrip(t, m)
	roundTrip(t, m)

	if added != 0 {
		t.Errorf("%v added", added)
	}
	if len(m.Toplevels()) != 0 {
		t.Errorf("toplevels: %v", m.Toplevels())
	}
	if n := w.Handles(); n != 0 {
		t.Errorf("%v handles left", n)
	}
}

func TestSharedManager(t *testing.T) {
	c, m := setup(t)
	if m2 := Get(c.Display()); m2 != m {
		t.Fatalf("second Get returned %v", m2)
	}

	m.Release()
	roundTrip(t, m)
	if m.phase != live || c.Managers() != 1 {
		t.Fatalf("released with references left: %v", m.phase)
	}
}

func TestTeardown(t *testing.T) {
	c, m := setup(t)
	w := c.AddWindow("one", "a")
	roundTrip(t, m)
	tl := find(t, m, "one")

	var closed bool
	tl.Subscribe(func(ev Event) {
		if _, ok := ev.(Closed); ok {
			closed = true
		}
	})

	m.Release()
	if m.phase != draining {
		t.Fatalf("phase after release: %v", m.phase)
	}

	roundTrip(t, m)
	if m.phase != gone {
		t.Fatalf("phase after round trip: %v", m.phase)
	}
	if err := m.display.RoundTrip(); err != nil {
		t.Fatal(err)
	}
	if c.Managers() != 0 {
		t.Errorf("compositor still has %v managers", c.Managers())
	}
	if !tl.Closed() || closed {
		t.Errorf("toplevel: closed %v, notified %v", tl.Closed(), closed)
	}
	if n := w.Handles(); n != 0 {
		t.Errorf("%v handles left", n)
	}

	m2 := Get(c.Display())
	if m2 == nil || m2 == m {
		t.Fatalf("Get after teardown returned %v", m2)
	}
	if got := m2.Toplevels(); len(got) != 1 || got[0].Title() != "one" {
		t.Errorf("toplevels: %v", got)
	}
}

func TestGetWhileDraining(t *testing.T) {
	c, m := setup(t)
	c.AddWindow("one", "a")
	roundTrip(t, m)

	m.Release()
	m2 := Get(c.Display())
	if m2 == nil || m2 == m {
		t.Fatalf("got %v", m2)
	}
	if m.phase != gone {
		t.Errorf("old manager is %v", m.phase)
	}
	if c.Managers() != 1 {
		t.Errorf("compositor has %v managers", c.Managers())
	}
	if len(m2.Toplevels()) != 1 {
		t.Errorf("toplevels: %v", m2.Toplevels())
	}
}

func TestSetSeatDoesNotTakeOwnership(t *testing.T) {
	c, m := setup(t)
	display := c.Display()

	mine := wl.BindSeat(display)
	if mine == nil {
		t.Fatal("no seat")
	}
	roundTrip(t, m)
	if n := c.Seats(); n != 2 {
		t.Fatalf("%v seats bound", n)
	}

	own := m.Seat()
	m.SetSeat(mine)
	if m.Seat() != mine {
		t.Errorf("seat: %v", m.Seat())
	}
	m.SetSeat(nil)
	if m.Seat() != own {
		t.Errorf("seat after reset: %v", m.Seat())
	}
	m.SetSeat(mine)

	m.Release()
	roundTrip(t, m)
	roundTrip(t, m)

	if n := c.Seats(); n != 1 {
		t.Errorf("%v seats left bound", n)
	}
	if display.GetObject(mine.ID()) != mine {
		t.Error("caller's seat was released")
	}
}

func TestLookupClosed(t *testing.T) {
	c, m := setup(t)
	w := c.AddWindow("one", "a")
	roundTrip(t, m)
	tl := find(t, m, "one")

	if m.Lookup(tl.ID()) != tl {
		t.Fatal("lookup of open toplevel failed")
	}

	var during *Toplevel
	tl.Subscribe(func(ev Event) {
		if _, ok := ev.(Closed); ok {
			during = m.Lookup(tl.ID())
		}
	})
	w.Close()
	roundTrip(t, m)

	if during != nil {
		t.Errorf("lookup while closing returned %v", during)
	}
	if m.Lookup(tl.ID()) != nil {
		t.Error("lookup after close succeeded")
	}
}

func TestGetAfterFatalError(t *testing.T) {
	c := wltest.New(t)
	display := c.Display()
	if _, err := display.Outputs(); err != nil {
		t.Fatal(err)
	}

	// The error arrives during the manager's initial round trip.
	c.PostError(0, "boom")
	if m := Get(display); m != nil {
		t.Fatalf("got %v on a failed connection", m)
	}
	if m := lookup(display); m != nil {
		t.Errorf("failed manager left registered: %v", m.phase)
	}
}
