package wltest

import (
	"image"
	"slices"
	"strings"

	"deedles.dev/wlpanel/wire"
)

// State is the set of state flags of a window.
type State uint32

const (
	Maximized  State = 1 << handleStateMaximized
	Minimized  State = 1 << handleStateMinimized
	Activated  State = 1 << handleStateActivated
	Fullscreen State = 1 << handleStateFullscreen
)

// enums returns the state as the array of enum values that goes out on
// the wire.
func (s State) enums() []uint32 {
	var vals []uint32
	for v := uint32(0); v <= handleStateFullscreen; v++ {
		if s&(1<<v) != 0 {
			vals = append(vals, v)
		}
	}
	return vals
}

// Has reports whether every flag in flag is set in s.
func (s State) Has(flag State) bool {
	return s&flag == flag
}

func (s State) String() string {
	var names []string
	for v, name := range [...]string{"maximized", "minimized", "activated", "fullscreen"} {
		if s&(1<<v) != 0 {
			names = append(names, name)
		}
	}
	return strings.Join(names, "|")
}

// Window is a toplevel window managed by the compositor.
//
// By default the compositor obeys window management requests
// immediately. Minimizing a window deactivates it, and activating a
// window restores it and deactivates every other window.
type Window struct {
	c        *Compositor
	title    string
	appID    string
	state    State
	outputs  []*Output
	parent   *Window
	closed   bool
	manual   bool
	handles  []*handleRes
	requests []string
	rect     image.Rectangle
}

// AddWindow opens a new window and announces it to every bound
// manager.
func (c *Compositor) AddWindow(title, appID string) (w *Window) {
	c.Do(func() {
		w = &Window{c: c, title: title, appID: appID}
		c.windows = append(c.windows, w)
		for _, m := range c.managers {
			w.announce(m)
		}
	})
	return w
}

// Windows returns the windows that have not been closed.
func (c *Compositor) Windows() (windows []*Window) {
	c.Do(func() { windows = slices.Clone(c.windows) })
	return windows
}

func (w *Window) SetTitle(title string) {
	w.c.Do(func() {
		w.title = title
		w.each(func(h *handleRes) {
			h.sendTitle()
			h.done()
		})
	})
}

func (w *Window) SetAppID(appID string) {
	w.c.Do(func() {
		w.appID = appID
		w.each(func(h *handleRes) {
			h.sendAppID()
			h.done()
		})
	})
}

// SetState replaces the window's state. Nothing is sent if the state
// does not change.
func (w *Window) SetState(state State) {
	w.c.Do(func() { w.setState(state) })
}

// Enter puts the window on out.
func (w *Window) Enter(out *Output) {
	w.c.Do(func() {
		if slices.Contains(w.outputs, out) {
			return
		}
		w.outputs = append(w.outputs, out)
		w.each(func(h *handleRes) {
			for _, r := range out.resources {
				h.outputEnter(r)
			}
			h.done()
		})
	})
}

// Leave takes the window off of out.
func (w *Window) Leave(out *Output) {
	w.c.Do(func() { w.leave(out) })
}

// SetParent sets the window's parent. A nil parent clears it.
func (w *Window) SetParent(parent *Window) {
	w.c.Do(func() {
		w.parent = parent
		w.each(func(h *handleRes) {
			if h.version >= handleParentSince {
				h.sendParent()
				h.done()
			}
		})
	})
}

// Close closes the window.
func (w *Window) Close() {
	w.c.Do(w.close)
}

// SetManual controls whether the window ignores requests. A manual
// window only records them.
func (w *Window) SetManual(manual bool) {
	w.c.Do(func() { w.manual = manual })
}

// State returns the window's current state.
func (w *Window) State() (state State) {
	w.c.Do(func() { state = w.state })
	return state
}

// Closed reports whether the window has been closed.
func (w *Window) Closed() (closed bool) {
	w.c.Do(func() { closed = w.closed })
	return closed
}

// Requests returns the names of the requests received for the window
// through any handle, in order.
func (w *Window) Requests() (reqs []string) {
	w.c.Do(func() { reqs = slices.Clone(w.requests) })
	return reqs
}

// ClearRequests empties the window's request log.
func (w *Window) ClearRequests() {
	w.c.Do(func() { w.requests = nil })
}

// Handles returns the number of handle objects for the window that
// have not been destroyed by the client.
func (w *Window) Handles() (n int) {
	w.c.Do(func() { n = len(w.handles) })
	return n
}

// Rectangle returns the last rectangle hint set for the window.
func (w *Window) Rectangle() (r image.Rectangle) {
	w.c.Do(func() { r = w.rect })
	return r
}

func (w *Window) setState(state State) {
	if w.state == state {
		return
	}
	w.state = state
	w.each(func(h *handleRes) {
		h.sendState()
		h.done()
	})
}

func (w *Window) leave(out *Output) {
	i := slices.Index(w.outputs, out)
	if i < 0 {
		return
	}
	w.outputs = slices.Delete(w.outputs, i, i+1)
	w.each(func(h *handleRes) {
		for _, r := range out.resources {
			h.outputLeave(r)
		}
		h.done()
	})
}

func (w *Window) close() {
	if w.closed {
		return
	}
	w.each(func(h *handleRes) { h.sendClosed() })

	w.closed = true
	w.c.windows = slices.DeleteFunc(w.c.windows, func(o *Window) bool { return o == w })

	for _, child := range w.c.windows {
		if child.parent != w {
			continue
		}
		child.parent = nil
		child.each(func(h *handleRes) {
			if h.version >= handleParentSince {
				h.sendParent()
				h.done()
			}
		})
	}
}

// activate makes w the only activated window.
func (w *Window) activate() {
	for _, other := range w.c.windows {
		if other != w {
			other.setState(other.state &^ Activated)
		}
	}
	w.setState((w.state | Activated) &^ Minimized)
}

// each calls f for each of the window's handles whose manager is still
// running.
func (w *Window) each(f func(*handleRes)) {
	if w.closed {
		return
	}
	for _, h := range w.handles {
		if !h.manager.stopped {
			f(h)
		}
	}
}

// handleFor returns the window's handle belonging to m, or nil.
func (w *Window) handleFor(m *managerRes) *handleRes {
	for _, h := range w.handles {
		if h.manager == m {
			return h
		}
	}
	return nil
}

// announce creates a handle for the window on m and sends its initial
// state.
func (w *Window) announce(m *managerRes) {
	c := w.c
	h := handleRes{resource: resource{c: c, version: m.version}, manager: m, window: w}
	c.store.Add(&h)
	w.handles = append(w.handles, &h)

	msg := c.event(m, managerToplevelEvent, managerEvents[:])
	msg.WriteUint(h.id)
	c.send(msg)

	if w.title != "" {
		h.sendTitle()
	}
	if w.appID != "" {
		h.sendAppID()
	}
	for _, out := range w.outputs {
		for _, r := range out.resources {
			h.outputEnter(r)
		}
	}
	h.sendState()
	if h.version >= handleParentSince && w.parent != nil {
		h.sendParent()
	}
	h.done()
}

func (c *Compositor) bindManager(id, version uint32) wire.Object {
	m := managerRes{resource: resource{c: c, id: id, version: version}}
	c.managers = append(c.managers, &m)
	for _, w := range c.windows {
		w.announce(&m)
	}
	return &m
}

type managerRes struct {
	resource
	stopped bool
}

func (m *managerRes) Dispatch(msg *wire.MessageBuffer) error {
	c := m.c

	switch msg.Op() {
	case managerStopRequest:
		if m.stopped {
			return nil
		}
		m.stopped = true
		c.managers = slices.DeleteFunc(c.managers, func(o *managerRes) bool { return o == m })

		c.send(c.event(m, managerFinishedEvent, managerEvents[:]))
		c.store.Delete(m.id)
		c.deleteID(m.id)
		return nil

	default:
		return wire.UnknownOpError{Interface: managerInterface, Type: "request", Op: msg.Op()}
	}
}

func (m *managerRes) MethodName(op uint16) string {
	return methodName(managerRequests[:], op)
}

func (m *managerRes) String() string {
	return managerInterface
}

type handleRes struct {
	resource
	manager *managerRes
	window  *Window
}

func (h *handleRes) sendTitle() {
	msg := h.c.event(h, handleTitleEvent, handleEvents[:])
	msg.WriteString(h.window.title)
	h.c.send(msg)
}

func (h *handleRes) sendAppID() {
	msg := h.c.event(h, handleAppIdEvent, handleEvents[:])
	msg.WriteString(h.window.appID)
	h.c.send(msg)
}

func (h *handleRes) outputEnter(r *outputRes) {
	msg := h.c.event(h, handleOutputEnterEvent, handleEvents[:])
	msg.WriteUint(r.id)
	h.c.send(msg)
}

func (h *handleRes) outputLeave(r *outputRes) {
	msg := h.c.event(h, handleOutputLeaveEvent, handleEvents[:])
	msg.WriteUint(r.id)
	h.c.send(msg)
}

func (h *handleRes) sendState() {
	msg := h.c.event(h, handleStateEvent, handleEvents[:])
	msg.WriteArray(wire.Uint32Array(h.window.state.enums()...))
	h.c.send(msg)
}

func (h *handleRes) sendParent() {
	var id uint32
	if h.window.parent != nil {
		if p := h.window.parent.handleFor(h.manager); p != nil {
			id = p.id
		}
	}

	msg := h.c.event(h, handleParentEvent, handleEvents[:])
	msg.WriteUint(id)
	h.c.send(msg)
}

func (h *handleRes) sendClosed() {
	h.c.send(h.c.event(h, handleClosedEvent, handleEvents[:]))
}

func (h *handleRes) done() {
	h.c.send(h.c.event(h, handleDoneEvent, handleEvents[:]))
}

func (h *handleRes) Dispatch(msg *wire.MessageBuffer) error {
	w := h.window
	op := msg.Op()
	if op == handleDestroyRequest {
		w.handles = slices.DeleteFunc(w.handles, func(o *handleRes) bool { return o == h })
		h.c.store.Delete(h.id)
		return nil
	}

	if int(op) < len(handleRequests) {
		w.requests = append(w.requests, handleRequests[op])
	}
	apply := func(f func()) {
		if !w.manual && !w.closed {
			f()
		}
	}

	switch op {
	case handleSetMaximizedRequest:
		apply(func() { w.setState(w.state | Maximized) })
	case handleUnsetMaximizedRequest:
		apply(func() { w.setState(w.state &^ Maximized) })
	case handleSetMinimizedRequest:
		apply(func() { w.setState((w.state | Minimized) &^ Activated) })
	case handleUnsetMinimizedRequest:
		apply(func() { w.setState(w.state &^ Minimized) })
	case handleActivateRequest:
		msg.ReadObject()
		apply(w.activate)
	case handleCloseRequest:
		apply(w.close)
	case handleSetRectangleRequest:
		msg.ReadObject()
		x, y := msg.ReadInt(), msg.ReadInt()
		width, height := msg.ReadInt(), msg.ReadInt()
		if msg.Err() != nil {
			return msg.Err()
		}
		if width < 0 || height < 0 {
			h.c.postError(h.id, handleErrorInvalidRectangle, "invalid rectangle")
			return nil
		}
		w.rect = image.Rect(int(x), int(y), int(x+width), int(y+height))
	case handleSetFullscreenRequest:
		msg.ReadObject()
		apply(func() { w.setState(w.state | Fullscreen) })
	case handleUnsetFullscreenRequest:
		apply(func() { w.setState(w.state &^ Fullscreen) })
	default:
		return wire.UnknownOpError{Interface: handleInterface, Type: "request", Op: op}
	}
	return msg.Err()
}

func (h *handleRes) MethodName(op uint16) string {
	return methodName(handleRequests[:], op)
}

func (h *handleRes) String() string {
	return handleInterface
}
