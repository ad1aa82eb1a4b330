package toplevel

import (
	"slices"
	"testing"

	"deedles.dev/wlpanel/internal/wltest"
)

func recordShowDesktop(m *Manager) *[]bool {
	var changes []bool
	m.Subscribe(func(ev ManagerEvent) {
		if ev, ok := ev.(ShowDesktopChanged); ok {
			changes = append(changes, ev.ShowDesktop)
		}
	})
	return &changes
}

func TestShowDesktop(t *testing.T) {
	c, m := setup(t)
	w1 := c.AddWindow("one", "a")
	w2 := c.AddWindow("two", "b")
	w3 := c.AddWindow("three", "c")
	w1.SetState(wltest.Activated)
	roundTrip(t, m)
	changes := recordShowDesktop(m)

	m.SetShowDesktop(true)
	if !m.ShowDesktop() {
		t.Fatal("show desktop not set")
	}
	if m.tracked.Len() != 3 {
		t.Fatalf("tracking %v", m.tracked.Values())
	}
	roundTrip(t, m)

	for i, w := range []*wltest.Window{w1, w2, w3} {
		if !w.State().Has(wltest.Minimized) {
			t.Errorf("window %v not minimized", i+1)
		}
	}
	if !m.ShowDesktop() {
		t.Fatal("show desktop cleared once everything was minimized")
	}

	m.SetShowDesktop(false)
	if !m.ShowDesktop() {
		t.Fatal("show desktop cleared before windows were restored")
	}
	roundTrip(t, m)
	if m.ShowDesktop() {
		t.Fatal("show desktop still set after windows were restored")
	}
	roundTrip(t, m)

	if got := w1.Requests(); !slices.Equal(got, []string{"set_minimized", "unset_minimized", "activate"}) {
		t.Errorf("one: %v", got)
	}
	for i, w := range []*wltest.Window{w2, w3} {
		if got := w.Requests(); !slices.Equal(got, []string{"set_minimized", "unset_minimized"}) {
			t.Errorf("window %v: %v", i+2, got)
		}
	}
	if w1.State() != wltest.Activated {
		t.Errorf("one: %v", w1.State())
	}
	if !slices.Equal(*changes, []bool{true, false}) {
		t.Errorf("changes: %v", *changes)
	}
}

func TestShowDesktopIdempotent(t *testing.T) {
	c, m := setup(t)
	w := c.AddWindow("one", "a")
	roundTrip(t, m)
	changes := recordShowDesktop(m)

	m.SetShowDesktop(true)
	m.SetShowDesktop(true)
	roundTrip(t, m)
	m.SetShowDesktop(true)
	roundTrip(t, m)

	if got := w.Requests(); !slices.Equal(got, []string{"set_minimized"}) {
		t.Errorf("requests: %v", got)
	}
	if !slices.Equal(*changes, []bool{true}) {
		t.Errorf("changes: %v", *changes)
	}

	m.SetShowDesktop(false)
	m.SetShowDesktop(false)
	roundTrip(t, m)
	if got := w.Requests(); !slices.Equal(got, []string{"set_minimized", "unset_minimized"}) {
		t.Errorf("requests: %v", got)
	}
}

func TestShowDesktopAllMinimized(t *testing.T) {
	c, m := setup(t)
	w1 := c.AddWindow("one", "a")
	w2 := c.AddWindow("two", "b")
	w1.SetState(wltest.Minimized)
	w2.SetState(wltest.Minimized | wltest.Maximized)
	roundTrip(t, m)
	changes := recordShowDesktop(m)

	m.SetShowDesktop(true)
	if m.ShowDesktop() {
		t.Error("show desktop stuck on")
	}
	roundTrip(t, m)

	if len(w1.Requests()) != 0 || len(w2.Requests()) != 0 {
		t.Errorf("requests: %v, %v", w1.Requests(), w2.Requests())
	}
	if !slices.Equal(*changes, []bool{true, false}) {
		t.Errorf("changes: %v", *changes)
	}
}

func TestShowDesktopSkipsMinimized(t *testing.T) {
	c, m := setup(t)
	w1 := c.AddWindow("one", "a")
	w2 := c.AddWindow("two", "b")
	w2.SetState(wltest.Minimized)
	roundTrip(t, m)

	m.SetShowDesktop(true)
	roundTrip(t, m)
	m.SetShowDesktop(false)
	roundTrip(t, m)

	if got := w1.Requests(); !slices.Equal(got, []string{"set_minimized", "unset_minimized"}) {
		t.Errorf("one: %v", got)
	}
	if got := w2.Requests(); len(got) != 0 {
		t.Errorf("two: %v", got)
	}
	if !w2.State().Has(wltest.Minimized) {
		t.Error("independently minimized window was restored")
	}
}

func TestShowDesktopClosedWhileShowing(t *testing.T) {
	c, m := setup(t)
	w1 := c.AddWindow("one", "a")
	w2 := c.AddWindow("two", "b")
	roundTrip(t, m)

	m.SetShowDesktop(true)
	roundTrip(t, m)

	w2.Close()
	roundTrip(t, m)
	if !m.ShowDesktop() || m.tracked.Len() != 1 {
		t.Fatalf("show desktop %v, tracking %v", m.ShowDesktop(), m.tracked.Values())
	}

	m.SetShowDesktop(false)
	roundTrip(t, m)

	if got := w2.Requests(); !slices.Equal(got, []string{"set_minimized"}) {
		t.Errorf("two: %v", got)
	}
	if got := w1.Requests(); !slices.Equal(got, []string{"set_minimized", "unset_minimized"}) {
		t.Errorf("one: %v", got)
	}
	if m.ShowDesktop() {
		t.Error("show desktop still set")
	}
}

func TestShowDesktopAllClosed(t *testing.T) {
	c, m := setup(t)
	w := c.AddWindow("one", "a")
	roundTrip(t, m)
	changes := recordShowDesktop(m)

	m.SetShowDesktop(true)
	roundTrip(t, m)
	w.Close()
	roundTrip(t, m)

	if m.ShowDesktop() {
		t.Error("show desktop still set with nothing left to restore")
	}
	if !slices.Equal(*changes, []bool{true, false}) {
		t.Errorf("changes: %v", *changes)
	}
}

func TestShowDesktopRestoreBeforeConfirmation(t *testing.T) {
	c, m := setup(t)
	w := c.AddWindow("slow", "a")
	w.SetManual(true)
	roundTrip(t, m)

	m.SetShowDesktop(true)
	m.SetShowDesktop(false)
	if m.ShowDesktop() {
		t.Error("show desktop waiting for a window that was never minimized")
	}
	roundTrip(t, m)

	if got := w.Requests(); !slices.Equal(got, []string{"set_minimized", "unset_minimized"}) {
		t.Errorf("requests: %v", got)
	}
}

func TestShowDesktopMinimizedElsewhere(t *testing.T) {
	c, m := setup(t)
	w := c.AddWindow("one", "a")
	w.SetManual(true)
	roundTrip(t, m)

	m.SetShowDesktop(true)
	roundTrip(t, m)

	// The compositor ignored the request, but the user minimized the
	// window some other way. It still needs restoring.
	w.SetState(wltest.Minimized)
	roundTrip(t, m)

	m.SetShowDesktop(false)
	roundTrip(t, m)
	if !m.ShowDesktop() {
		t.Fatal("show desktop cleared before the window was restored")
	}

	w.SetState(0)
	roundTrip(t, m)
	if m.ShowDesktop() {
		t.Error("show desktop still set")
	}
}

func TestShowDesktopActiveClosedWhileShowing(t *testing.T) {
	c, m := setup(t)
	w1 := c.AddWindow("one", "a")
	w2 := c.AddWindow("two", "b")
	w1.SetState(wltest.Activated)
	roundTrip(t, m)

	m.SetShowDesktop(true)
	roundTrip(t, m)
	if m.wasActive == 0 {
		t.Fatal("previously active window not recorded")
	}

	w1.Close()
	roundTrip(t, m)

	m.SetShowDesktop(false)
	roundTrip(t, m)
	roundTrip(t, m)

	if m.ShowDesktop() {
		t.Error("show desktop still set")
	}
	if got := w1.Requests(); !slices.Equal(got, []string{"set_minimized"}) {
		t.Errorf("one: %v", got)
	}
	if got := w2.Requests(); !slices.Equal(got, []string{"set_minimized", "unset_minimized"}) {
		t.Errorf("two: %v", got)
	}
	if m.Active() != nil {
		t.Errorf("active: %v", m.Active())
	}
}
