// Package toplevel tracks and controls the toplevel windows of a
// compositor that implements the wlr foreign toplevel management
// protocol. It is intended for panels, taskbars and similar desktop
// components.
//
// Like everything built on a wl.Display, the types in this package
// must only be used from the goroutine that dispatches the display's
// events. Notifications are delivered on that goroutine from inside of
// event dispatch.
package toplevel

//go:generate go run deedles.dev/wlpanel/cmd/wlgen -proto wlr-foreign-toplevel-management-unstable-v1 -pkg toplevel -prefix zwlr_foreign_toplevel_ -trim-suffix _v1 -out protocol_gen.go

import (
	"image"
	"slices"

	wl "deedles.dev/wlpanel/client"
	"deedles.dev/wlpanel/internal/debug"
	"deedles.dev/wlpanel/internal/signal"
	"deedles.dev/wlpanel/wire"
)

// Toplevel mirrors a single window. Its attributes are updated as the
// compositor reports changes, and its methods ask the compositor to
// change the window.
//
// Requests are only suggestions. Whether or not they had any effect can
// only be found out from later notifications. Once a Toplevel is closed
// all of its requests are silently ignored.
type Toplevel struct {
	manager  *Manager
	obj      handleObject
	title    string
	appID    string
	state    State
	monitors []*wl.Output
	parent   uint32
	closed   bool
	events   signal.Signal[Event]
}

// newToplevel wraps the handle with the given ID and waits for the
// compositor to send its initial attributes.
func newToplevel(m *Manager, id uint32) *Toplevel {
	t := Toplevel{manager: m}
	t.obj.toplevel = &t
	m.display.SetObject(id, &t.obj)
	m.watch(&t)

	err := m.display.RoundTrip()
	if err != nil {
		debug.Printf("initial state of %v: %v", &t, err)
	}

	return &t
}

// ID returns the ID of the toplevel's handle. It is unique among the
// toplevels of a Manager for as long as the toplevel is open.
func (t *Toplevel) ID() uint32 {
	return t.obj.id
}

func (t *Toplevel) Title() string {
	return t.title
}

func (t *Toplevel) AppID() string {
	return t.appID
}

func (t *Toplevel) State() State {
	return t.state
}

// Monitors returns the outputs that the toplevel is displayed on.
func (t *Toplevel) Monitors() []*wl.Output {
	return slices.Clone(t.monitors)
}

// Parent returns the toplevel's parent, or nil if it doesn't have one
// or the parent isn't known to the manager.
func (t *Toplevel) Parent() *Toplevel {
	if t.parent == 0 {
		return nil
	}
	return t.manager.table[t.parent]
}

// Closed reports whether the window has been closed.
func (t *Toplevel) Closed() bool {
	return t.closed
}

// Subscribe registers f to be called with every notification about
// the toplevel. Closed is always the last one delivered.
func (t *Toplevel) Subscribe(f func(Event)) (cancel func()) {
	return t.events.Connect(f)
}

func (t *Toplevel) String() string {
	return t.obj.String()
}

func (t *Toplevel) handle(ev handleMsg) {
	if t.closed {
		return
	}

	switch ev := ev.(type) {
	case titleEvent:
		if ev.title == t.title {
			return
		}
		t.title = ev.title
		t.events.Emit(TitleChanged{Title: t.title})

	case appIDEvent:
		if ev.appID == t.appID {
			return
		}
		t.appID = ev.appID
		t.events.Emit(AppIDChanged{AppID: t.appID})

	case outputEnterEvent:
		out, ok := t.manager.display.GetObject(ev.output).(*wl.Output)
		if !ok {
			debug.Printf("%v entered unknown output %v", t, ev.output)
			return
		}
		if slices.Contains(t.monitors, out) {
			return
		}
		t.monitors = append(t.monitors, out)
		t.events.Emit(MonitorsChanged{Monitors: t.Monitors()})

	case outputLeaveEvent:
		i := slices.IndexFunc(t.monitors, func(out *wl.Output) bool { return out.ID() == ev.output })
		if i < 0 {
			return
		}
		t.monitors = slices.Delete(t.monitors, i, i+1)
		t.events.Emit(MonitorsChanged{Monitors: t.Monitors()})

	case stateEvent:
		if ev.state == t.state {
			return
		}
		old := t.state
		t.state = ev.state
		t.events.Emit(StateChanged{Old: old, New: t.state})

	case parentEvent:
		if ev.parent == t.parent {
			return
		}
		t.parent = ev.parent
		t.events.Emit(ParentChanged{ParentID: t.parent})

	case doneEvent:
		t.events.Emit(Done{})

	case closedEvent:
		t.closed = true
		t.events.Emit(Closed{})
		t.manager.remove(t)

	default:
		debug.Printf("%v: unhandled event %T", t, ev)
	}
}

// send enqueues a request unless the toplevel is closed or the handle
// was bound at a version lower than since.
func (t *Toplevel) send(op uint16, since uint32, write func(*wire.MessageBuilder)) {
	if t.closed || t.manager.version < since {
		return
	}

	msg := newRequest(&t.obj, op, handleRequests[:])
	if write != nil {
		write(msg)
	}
	t.manager.display.Enqueue(msg)
}

func (t *Toplevel) Maximize() {
	t.send(handleSetMaximizedRequest, 1, nil)
}

func (t *Toplevel) Unmaximize() {
	t.send(handleUnsetMaximizedRequest, 1, nil)
}

func (t *Toplevel) Minimize() {
	t.send(handleSetMinimizedRequest, 1, nil)
}

func (t *Toplevel) Unminimize() {
	t.send(handleUnsetMinimizedRequest, 1, nil)
}

// Activate asks for the toplevel to be given focus on behalf of seat.
// It does nothing if seat is nil.
func (t *Toplevel) Activate(seat *wl.Seat) {
	if seat == nil {
		return
	}
	t.send(handleActivateRequest, 1, func(msg *wire.MessageBuilder) {
		msg.WriteObject(seat)
	})
}

// Close asks the toplevel's client to close it. The client may ignore
// the request or prompt the user first.
func (t *Toplevel) Close() {
	t.send(handleCloseRequest, 1, nil)
}

// Fullscreen asks for the toplevel to be made fullscreen on out. If
// out is nil, the compositor picks the output. It requires version 2 of
// the protocol.
func (t *Toplevel) Fullscreen(out *wl.Output) {
	t.send(handleSetFullscreenRequest, handleSetFullscreenSince, func(msg *wire.MessageBuilder) {
		msg.WriteObject(out)
	})
}

func (t *Toplevel) Unfullscreen() {
	t.send(handleUnsetFullscreenRequest, handleUnsetFullscreenSince, nil)
}

// SetRectangle tells the compositor where the toplevel is represented
// on surface, such as the position of a taskbar button, for use in
// minimize animations. The rectangle is relative to the surface. An
// empty rectangle clears the hint. Only the most recent hint counts.
func (t *Toplevel) SetRectangle(surface *wl.Surface, r image.Rectangle) {
	if surface == nil {
		return
	}
	if r.Empty() {
		r = image.Rectangle{}
	}

	t.send(handleSetRectangleRequest, 1, func(msg *wire.MessageBuilder) {
		msg.WriteObject(surface)
		msg.WriteInt(int32(r.Min.X))
		msg.WriteInt(int32(r.Min.Y))
		msg.WriteInt(int32(r.Dx()))
		msg.WriteInt(int32(r.Dy()))
	})
}

// destroy destroys the handle. It must only be called once the
// toplevel is done with, whether or not it was closed.
func (t *Toplevel) destroy() {
	t.closed = true
	t.events.Reset()

	t.manager.display.Enqueue(newRequest(&t.obj, handleDestroyRequest, handleRequests[:]))
	t.manager.display.DeleteObject(t.obj.id)
}
