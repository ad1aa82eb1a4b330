package toplevel

import (
	"cmp"
	"slices"
	"sync"

	wl "deedles.dev/wlpanel/client"
	"deedles.dev/wlpanel/internal/debug"
	"deedles.dev/wlpanel/internal/set"
	"deedles.dev/wlpanel/internal/signal"
)

type phase int

const (
	// live managers are bound and usable.
	live phase = iota

	// draining managers have asked the compositor to stop sending
	// events and are waiting for it to confirm.
	draining

	// gone managers have been torn down.
	gone
)

func (p phase) String() string {
	switch p {
	case live:
		return "live"
	case draining:
		return "draining"
	case gone:
		return "gone"
	default:
		return "unknown"
	}
}

var managers = struct {
	sync.Mutex
	m map[*wl.Display]*Manager
}{m: make(map[*wl.Display]*Manager)}

// Manager keeps track of every toplevel that the compositor reports,
// which of them is active, and whether the desktop is being shown.
//
// There is one Manager per display. It is shared and reference counted:
// every call to Get must be matched by a call to Release.
type Manager struct {
	display *wl.Display
	obj     managerObject
	version uint32
	phase   phase
	refs    int

	// ownSeat was bound by the manager and is released with it. seat,
	// if set, overrides it and belongs to whoever set it.
	ownSeat *wl.Seat
	seat    *wl.Seat

	table  map[uint32]*Toplevel
	active uint32
	events signal.Signal[ManagerEvent]

	showDesktop bool
	restoring   bool
	tracked     set.Ordered[uint32]
	confirmed   set.Set[uint32]
	cancels     map[uint32]func()
	wasActive   uint32
}

// Get returns the display's Manager, creating it if necessary. It
// returns nil if the compositor does not support toplevel management
// or can't be reached.
//
// A newly created Manager performs a round trip so that the toplevels
// that already exist are known by the time Get returns. If the previous
// Manager for the display is still shutting down, Get waits for it to
// finish first.
func Get(display *wl.Display) *Manager {
	m := lookup(display)
	if m != nil && m.phase == draining {
		for m.phase == draining {
			err := display.RoundTrip()
			if display.Err() != nil {
				debug.Printf("wait for toplevel manager to stop: %v", err)
				return nil
			}
		}
		m = lookup(display)
	}
	if m != nil && m.phase == live {
		m.refs++
		return m
	}

	return newManager(display)
}

func lookup(display *wl.Display) *Manager {
	managers.Lock()
	defer managers.Unlock()

	return managers.m[display]
}

func newManager(display *wl.Display) *Manager {
	// Outputs need to be bound before any toplevels show up so that
	// output_enter events can be matched against them.
	if _, err := display.Outputs(); err != nil {
		debug.Printf("track outputs: %v", err)
		if display.Err() != nil {
			return nil
		}
	}

	m := Manager{
		display:   display,
		refs:      1,
		table:     make(map[uint32]*Toplevel),
		confirmed: make(set.Set[uint32]),
		cancels:   make(map[uint32]func()),
	}
	m.obj.manager = &m

	version, ok := display.Bind(managerInterface, managerVersion, &m.obj)
	if !ok {
		return nil
	}
	m.version = version
	m.ownSeat = wl.BindSeat(display)

	managers.Lock()
	managers.m[display] = &m
	managers.Unlock()

	err := display.RoundTrip()
	if err != nil {
		debug.Printf("initial toplevels: %v", err)
		if display.Err() != nil {
			managers.Lock()
			delete(managers.m, display)
			managers.Unlock()
			return nil
		}
	}

	return &m
}

// Release drops a reference to the Manager. When the last one is
// dropped, the Manager asks the compositor to stop sending events and
// tears itself down once it confirms. The Manager must not be used
// after the last reference has been released.
func (m *Manager) Release() {
	if m.refs == 0 {
		return
	}
	m.refs--
	if m.refs > 0 || m.phase != live {
		return
	}

	m.phase = draining
	m.display.Enqueue(newRequest(&m.obj, managerStopRequest, managerRequests[:]))
}

// Version returns the protocol version that the manager was bound at.
func (m *Manager) Version() uint32 {
	return m.version
}

// Toplevels returns the open toplevels, ordered by ID.
func (m *Manager) Toplevels() []*Toplevel {
	list := make([]*Toplevel, 0, len(m.table))
	for _, t := range m.table {
		if !t.closed {
			list = append(list, t)
		}
	}
	slices.SortFunc(list, func(t1, t2 *Toplevel) int { return cmp.Compare(t1.ID(), t2.ID()) })
	return list
}

// Lookup returns the open toplevel with the given ID, or nil.
func (m *Manager) Lookup(id uint32) *Toplevel {
	t := m.table[id]
	if t == nil || t.closed {
		return nil
	}
	return t
}

// Active returns the toplevel that was most recently activated, or nil
// if there isn't one or it has since been closed.
func (m *Manager) Active() *Toplevel {
	if m.active == 0 {
		return nil
	}
	return m.table[m.active]
}

// Seat returns the seat used to reactivate windows after the desktop
// has been shown. It may be nil.
func (m *Manager) Seat() *wl.Seat {
	if m.seat != nil {
		return m.seat
	}
	return m.ownSeat
}

// SetSeat changes the seat used to reactivate windows. The Manager does
// not take ownership of seat. Passing nil goes back to the seat that
// the Manager bound itself.
func (m *Manager) SetSeat(seat *wl.Seat) {
	m.seat = seat
}

// Subscribe registers f to be called with every notification about the
// set of toplevels.
func (m *Manager) Subscribe(f func(ManagerEvent)) (cancel func()) {
	return m.events.Connect(f)
}

func (m *Manager) handle(ev managerMsg) {
	switch ev := ev.(type) {
	case newToplevelEvent:
		m.add(ev.handle)

	case finishedEvent:
		m.finish()

	default:
		debug.Printf("%v: unhandled event %T", &m.obj, ev)
	}
}

func (m *Manager) add(id uint32) {
	t := newToplevel(m, id)
	if t.closed {
		return
	}
	if m.phase == gone {
		t.destroy()
		return
	}

	m.table[t.ID()] = t
	m.checkActive(t)
	m.events.Emit(Added{Toplevel: t})
}

// watch subscribes the manager to t's notifications. It must be the
// first subscription made.
func (m *Manager) watch(t *Toplevel) {
	t.Subscribe(func(ev Event) {
		switch ev.(type) {
		case StateChanged:
			m.checkActive(t)
		case Closed:
			if m.active == t.ID() {
				m.active = 0
				m.events.Emit(ActiveChanged{})
			}
		}
	})
}

func (m *Manager) checkActive(t *Toplevel) {
	if t.closed || m.table[t.ID()] != t {
		return
	}
	if m.active == t.ID() || !t.state.Has(Activated) {
		return
	}

	m.active = t.ID()
	m.events.Emit(ActiveChanged{Active: t})
}

// remove releases t after its Closed notification has been delivered.
func (m *Manager) remove(t *Toplevel) {
	id := t.ID()
	if m.table[id] == t {
		m.events.Emit(Removed{Toplevel: t})
		delete(m.table, id)
	}
	t.destroy()
}

// finish tears the manager down after the compositor has confirmed
// that it will send no more events.
func (m *Manager) finish() {
	m.phase = gone

	m.clearTracked()
	m.showDesktop = false
	m.wasActive = 0
	m.active = 0

	for _, t := range m.Toplevels() {
		t.destroy()
	}
	clear(m.table)

	if m.ownSeat != nil {
		m.ownSeat.Release()
		m.ownSeat = nil
	}
	m.seat = nil
	m.events.Reset()
	m.display.DeleteObject(m.obj.id)

	managers.Lock()
	defer managers.Unlock()
	if managers.m[m.display] == m {
		delete(managers.m, m.display)
	}
}
