package toplevel

import (
	"image"
	"slices"
	"testing"

	wl "deedles.dev/wlpanel/client"
	"deedles.dev/wlpanel/internal/wltest"
)

func setup(t *testing.T, opts ...wltest.Option) (*wltest.Compositor, *Manager) {
	t.Helper()

	c := wltest.New(t, opts...)
	m := Get(c.Display())
	if m == nil {
		t.Fatal("toplevel manager is not available")
	}
	return c, m
}

func roundTrip(t *testing.T, m *Manager) {
	t.Helper()

	if err := m.display.RoundTrip(); err != nil {
		t.Fatal(err)
	}
}

func find(t *testing.T, m *Manager, title string) *Toplevel {
	t.Helper()

	for _, tl := range m.Toplevels() {
		if tl.Title() == title {
			return tl
		}
	}
	t.Fatalf("no toplevel with title %q", title)
	return nil
}

func TestInitialAttributes(t *testing.T) {
	c := wltest.New(t, wltest.WithOutputs("DP-1"))
	w := c.AddWindow("Terminal", "foot")
	w.SetState(wltest.Maximized | wltest.Activated)
	w.Enter(c.Output("DP-1"))

	m := Get(c.Display())
	if m == nil {
		t.Fatal("toplevel manager is not available")
	}

	tl := find(t, m, "Terminal")
	if tl.AppID() != "foot" {
		t.Errorf("app ID: %q", tl.AppID())
	}
	if tl.State() != Maximized|Activated {
		t.Errorf("state: %v", tl.State())
	}
	mons := tl.Monitors()
	if len(mons) != 1 || mons[0].Name() != "DP-1" {
		t.Errorf("monitors: %v", mons)
	}
	if m.Active() != tl {
		t.Errorf("active: %v", m.Active())
	}
}

func TestChangeNotifications(t *testing.T) {
	c, m := setup(t)
	w := c.AddWindow("one", "app")
	roundTrip(t, m)

	tl := find(t, m, "one")
	var events []Event
	tl.Subscribe(func(ev Event) { events = append(events, ev) })

	w.SetTitle("one")
	w.SetTitle("two")
	w.SetAppID("app")
	w.SetState(wltest.Fullscreen)
	roundTrip(t, m)

	expected := []Event{
		Done{},
		TitleChanged{Title: "two"},
		Done{},
		Done{},
		StateChanged{Old: 0, New: Fullscreen},
		Done{},
	}
	if !slices.Equal(events, expected) {
		t.Errorf("got %#v", events)
	}
}

func TestMonitors(t *testing.T) {
	c, m := setup(t, wltest.WithOutputs("DP-1", "HDMI-A-1"))
	w := c.AddWindow("video", "mpv")
	roundTrip(t, m)
	tl := find(t, m, "video")

	names := func() (names []string) {
		for _, out := range tl.Monitors() {
			names = append(names, out.Name())
		}
		return names
	}

	w.Enter(c.Output("DP-1"))
	w.Enter(c.Output("HDMI-A-1"))
	roundTrip(t, m)
	if got := names(); !slices.Equal(got, []string{"DP-1", "HDMI-A-1"}) {
		t.Fatalf("got %v", got)
	}

	w.Leave(c.Output("DP-1"))
	roundTrip(t, m)
	if got := names(); !slices.Equal(got, []string{"HDMI-A-1"}) {
		t.Fatalf("got %v", got)
	}

	var changed int
	tl.Subscribe(func(ev Event) {
		if _, ok := ev.(MonitorsChanged); ok {
			changed++
		}
	})
	tl.handle(outputLeaveEvent{output: 12345})
	tl.handle(outputEnterEvent{output: 12345})
	if changed != 0 {
		t.Errorf("unmatched outputs caused %v notifications", changed)
	}
	if got := names(); !slices.Equal(got, []string{"HDMI-A-1"}) {
		t.Errorf("got %v", got)
	}
}

func TestOutputRemoved(t *testing.T) {
	c, m := setup(t, wltest.WithOutputs("DP-1"))
	out := c.Output("DP-1")
	w := c.AddWindow("editor", "gedit")
	w.Enter(out)
	roundTrip(t, m)
	tl := find(t, m, "editor")

	c.RemoveOutput(out)
	roundTrip(t, m)
	if mons := tl.Monitors(); len(mons) != 0 {
		t.Errorf("monitors: %v", mons)
	}
}

func TestParent(t *testing.T) {
	c, m := setup(t)
	parent := c.AddWindow("main", "gimp")
	child := c.AddWindow("dialog", "gimp")
	roundTrip(t, m)

	pt, ct := find(t, m, "main"), find(t, m, "dialog")
	var events []Event
	ct.Subscribe(func(ev Event) {
		if _, ok := ev.(ParentChanged); ok {
			events = append(events, ev)
		}
	})

	child.SetParent(parent)
	roundTrip(t, m)
	if ct.Parent() != pt {
		t.Fatalf("parent: %v", ct.Parent())
	}

	parent.Close()
	roundTrip(t, m)
	if ct.Parent() != nil {
		t.Errorf("parent after close: %v", ct.Parent())
	}

	expected := []Event{ParentChanged{ParentID: pt.ID()}, ParentChanged{}}
	if !slices.Equal(events, expected) {
		t.Errorf("got %#v", events)
	}
}

func TestRequests(t *testing.T) {
	c, m := setup(t, wltest.WithOutputs("DP-1"))
	w := c.AddWindow("browser", "firefox")
	w.SetManual(true)
	roundTrip(t, m)
	tl := find(t, m, "browser")

	outputs, err := m.display.Outputs()
	if err != nil {
		t.Fatal(err)
	}

	tl.Maximize()
	tl.Unmaximize()
	tl.Minimize()
	tl.Unminimize()
	tl.Activate(m.Seat())
	tl.Activate(nil)
	tl.Fullscreen(outputs.List()[0])
	tl.Fullscreen(nil)
	tl.Unfullscreen()
	tl.Close()
	roundTrip(t, m)

	expected := []string{
		"set_maximized",
		"unset_maximized",
		"set_minimized",
		"unset_minimized",
		"activate",
		"set_fullscreen",
		"set_fullscreen",
		"unset_fullscreen",
		"close",
	}
	if got := w.Requests(); !slices.Equal(got, expected) {
		t.Errorf("got %v", got)
	}
	if w.State() != 0 || w.Closed() {
		t.Errorf("manual window changed: %v", w.State())
	}
}

func TestVersionGatedRequests(t *testing.T) {
	c, m := setup(t, wltest.WithManagerVersion(1))
	w := c.AddWindow("game", "steam")
	roundTrip(t, m)
	tl := find(t, m, "game")

	tl.Fullscreen(nil)
	tl.Unfullscreen()
	tl.Maximize()
	roundTrip(t, m)

	if got := w.Requests(); !slices.Equal(got, []string{"set_maximized"}) {
		t.Errorf("got %v", got)
	}
	if binds := c.Binds(); !slices.Contains(binds, wltest.Bind{Interface: managerInterface, Version: 1}) {
		t.Errorf("binds: %v", binds)
	}
}

func TestSetRectangle(t *testing.T) {
	c, m := setup(t)
	w := c.AddWindow("files", "nautilus")
	roundTrip(t, m)
	tl := find(t, m, "files")

	compositor := wl.BindCompositor(m.display)
	if compositor == nil {
		t.Fatal("no compositor")
	}
	surface := compositor.CreateSurface()

	r := image.Rect(10, 20, 110, 52)
	tl.SetRectangle(surface, r)
	tl.SetRectangle(nil, image.Rect(0, 0, 5, 5))
	roundTrip(t, m)
	if got := w.Rectangle(); got != r {
		t.Errorf("got %v, expected %v", got, r)
	}

	tl.SetRectangle(surface, image.Rectangle{Min: image.Pt(30, 30), Max: image.Pt(10, 10)})
	roundTrip(t, m)
	if got := w.Rectangle(); !got.Empty() {
		t.Errorf("hint not cleared: %v", got)
	}
	if got := w.Requests(); len(got) != 2 {
		t.Errorf("requests: %v", got)
	}
}

func TestRequestAfterClose(t *testing.T) {
	c, m := setup(t)
	w := c.AddWindow("doomed", "app")
	roundTrip(t, m)
	tl := find(t, m, "doomed")

	var closed int
	tl.Subscribe(func(ev Event) {
		if _, ok := ev.(Closed); ok {
			closed++
		}
	})

	w.Close()
	roundTrip(t, m)
	if !tl.Closed() || closed != 1 {
		t.Fatalf("closed: %v, notifications: %v", tl.Closed(), closed)
	}

	tl.Maximize()
	tl.Minimize()
	tl.Activate(m.Seat())
	tl.Close()
	tl.Fullscreen(nil)
	roundTrip(t, m)

	if got := w.Requests(); len(got) != 0 {
		t.Errorf("requests after close: %v", got)
	}
	if n := w.Handles(); n != 0 {
		t.Errorf("%v handles left", n)
	}
}
