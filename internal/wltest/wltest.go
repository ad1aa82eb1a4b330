// Package wltest provides an in-process fake compositor for testing
// Wayland clients. It speaks the real wire protocol over a socket pair
// and implements just enough of the core protocol and of the wlr
// foreign toplevel management protocol for the clients in this module.
//
// The compositor runs on its own goroutine. Every exported method
// hands its work to that goroutine and waits for it to finish, so they
// may be called freely from a test. Events that a method causes have
// been written to the socket by the time that it returns, so a single
// client round trip is enough to observe them.
package wltest

//go:generate go run deedles.dev/wlpanel/cmd/wlgen -proto wayland -pkg wltest -out wayland_gen.go
//go:generate go run deedles.dev/wlpanel/cmd/wlgen -proto wlr-foreign-toplevel-management-unstable-v1 -pkg wltest -prefix zwlr_foreign_toplevel_ -trim-suffix _v1 -out toplevel_gen.go

import (
	"slices"
	"strconv"
	"sync"
	"testing"

	wl "deedles.dev/wlpanel/client"
	"deedles.dev/wlpanel/internal/debug"
	"deedles.dev/wlpanel/internal/ev"
	"deedles.dev/wlpanel/internal/objstore"
	"deedles.dev/wlpanel/wire"
)

// Option configures a Compositor.
type Option func(*Compositor)

// WithManagerVersion sets the version at which the toplevel manager
// global is advertised.
func WithManagerVersion(v uint32) Option {
	return func(c *Compositor) { c.managerVersion = v }
}

// WithoutManager disables the toplevel manager global entirely.
func WithoutManager() Option {
	return func(c *Compositor) { c.managerVersion = 0 }
}

// WithoutSeat disables the seat global.
func WithoutSeat() Option {
	return func(c *Compositor) { c.seat = false }
}

// WithOutputs adds outputs with the given names at startup.
func WithOutputs(names ...string) Option {
	return func(c *Compositor) { c.initialOutputs = append(c.initialOutputs, names...) }
}

// Bind records a bind request that the compositor received.
type Bind struct {
	Interface string
	Version   uint32
}

// Compositor is a fake compositor serving a single client.
type Compositor struct {
	t       testing.TB
	conn    *wire.Conn
	client  *wire.Conn
	display *wl.Display
	store   *objstore.Store
	queue   *ev.Queue
	do      chan func()
	done    chan struct{}
	stopped chan struct{}
	close   sync.Once

	managerVersion uint32
	seat           bool
	initialOutputs []string

	serial     uint32
	nextGlobal uint32
	globals    map[uint32]*global
	registries []*registryRes
	binds      []Bind
	seats      int
	outputs    []*Output
	managers   []*managerRes
	windows    []*Window
}

type global struct {
	name    uint32
	iface   string
	version uint32
	bind    func(id, version uint32) wire.Object
}

// New starts a fake compositor. It is stopped automatically when the
// test finishes.
func New(t testing.TB, opts ...Option) *Compositor {
	t.Helper()

	client, server, err := wire.Pair()
	if err != nil {
		t.Fatalf("create socket pair: %v", err)
	}

	c := Compositor{
		t:              t,
		conn:           server,
		client:         client,
		store:          objstore.New(0xFF000000),
		queue:          ev.NewQueue(),
		do:             make(chan func()),
		done:           make(chan struct{}),
		stopped:        make(chan struct{}),
		managerVersion: managerVersion,
		seat:           true,
		nextGlobal:     1,
		globals:        make(map[uint32]*global),
	}
	for _, opt := range opts {
		opt(&c)
	}

	c.store.Set(1, &displayRes{resource: resource{c: &c, version: 1}})
	c.addGlobal(compositorInterface, compositorVersion, c.bindCompositor)
	if c.seat {
		c.addGlobal(seatInterface, seatVersion, c.bindSeat)
	}
	for _, name := range c.initialOutputs {
		c.addOutput(name)
	}
	if c.managerVersion > 0 {
		c.addGlobal(managerInterface, c.managerVersion, c.bindManager)
	}

	go c.listen()
	go c.run()
	t.Cleanup(c.Close)

	return &c
}

func (c *Compositor) listen() {
	for {
		msg, err := wire.ReadMessage(c.conn)
		if err != nil {
			return
		}

		select {
		case <-c.done:
			return
		case c.queue.Add() <- func() error { return c.store.Dispatch(msg) }:
		}
	}
}

func (c *Compositor) run() {
	defer close(c.stopped)

	for {
		select {
		case <-c.done:
			return
		case f := <-c.do:
			f()
		case ops := <-c.queue.Get():
			if err := ev.Flush(ops); err != nil {
				c.t.Errorf("compositor: %v", err)
			}
		}
	}
}

// Do runs f on the compositor's goroutine and waits for it to return.
func (c *Compositor) Do(f func()) {
	c.t.Helper()

	finished := make(chan struct{})
	select {
	case c.do <- func() { defer close(finished); f() }:
	case <-c.stopped:
		c.t.Fatal("compositor is not running")
	}
	<-finished
}

// Close stops the compositor and closes its end of the connection.
func (c *Compositor) Close() {
	c.close.Do(func() {
		close(c.done)
		c.conn.Close()
		c.client.Close()
		<-c.stopped
		c.queue.Stop()
	})
}

// Display returns a client connected to the compositor. It is closed
// automatically when the test finishes.
func (c *Compositor) Display() *wl.Display {
	if c.display == nil {
		c.display = wl.ConnectDisplay(c.client)
		c.t.Cleanup(func() { c.display.Close() })
	}
	return c.display
}

// Disconnect closes the compositor's end of the connection without
// stopping anything else, as if the compositor had crashed.
func (c *Compositor) Disconnect() {
	c.Do(func() { c.conn.Close() })
}

// PostError sends a fatal protocol error to the client.
func (c *Compositor) PostError(code uint32, message string) {
	c.Do(func() { c.postError(1, code, message) })
}

// Binds returns every bind request received so far, in order.
func (c *Compositor) Binds() (binds []Bind) {
	c.Do(func() { binds = slices.Clone(c.binds) })
	return binds
}

// Managers returns the number of toplevel manager objects that are
// bound and have not been stopped.
func (c *Compositor) Managers() (n int) {
	c.Do(func() { n = len(c.managers) })
	return n
}

// Seats returns the number of seat objects that are bound and have not
// been released.
func (c *Compositor) Seats() (n int) {
	c.Do(func() { n = c.seats })
	return n
}

// Objects returns the number of live objects in the compositor's
// table, including the display.
func (c *Compositor) Objects() (n int) {
	c.Do(func() { n = c.store.Len() })
	return n
}

// AddGlobal advertises a global that accepts, and ignores, any
// request. It returns the global's name.
func (c *Compositor) AddGlobal(iface string, version uint32) (name uint32) {
	c.Do(func() {
		name = c.addGlobal(iface, version, func(id, version uint32) wire.Object {
			return &genericRes{resource: resource{c: c, id: id, version: version}, iface: iface}
		})
	})
	return name
}

// RemoveGlobal withdraws the named global.
func (c *Compositor) RemoveGlobal(name uint32) {
	c.Do(func() { c.removeGlobal(name) })
}

func (c *Compositor) addGlobal(iface string, version uint32, bind func(id, version uint32) wire.Object) uint32 {
	g := global{
		name:    c.nextGlobal,
		iface:   iface,
		version: version,
		bind:    bind,
	}
	c.nextGlobal++
	c.globals[g.name] = &g

	for _, r := range c.registries {
		r.announce(&g)
	}
	return g.name
}

func (c *Compositor) removeGlobal(name uint32) {
	if _, ok := c.globals[name]; !ok {
		c.t.Errorf("remove unknown global %v", name)
		return
	}
	delete(c.globals, name)

	for _, r := range c.registries {
		msg := c.event(r, registryGlobalRemoveEvent, registryEvents[:])
		msg.WriteUint(name)
		c.send(msg)
	}
}

func (c *Compositor) event(obj wire.Object, op uint16, names []string) *wire.MessageBuilder {
	msg := wire.NewMessage(obj, op)
	msg.Method = methodName(names, op)
	return msg
}

func methodName(names []string, op uint16) string {
	if int(op) < len(names) {
		return names[op]
	}
	return strconv.FormatUint(uint64(op), 10)
}

func (c *Compositor) send(msg *wire.MessageBuilder) {
	if debug.Enabled() {
		debug.Printf("compositor -> %v", msg)
	}
	if err := msg.Build(c.conn); err != nil {
		select {
		case <-c.done:
		default:
			c.t.Logf("compositor: send %v: %v", msg, err)
		}
	}
}

func (c *Compositor) postError(id, code uint32, message string) {
	msg := c.event(c.store.Get(1), displayErrorEvent, displayEvents[:])
	msg.WriteUint(id)
	msg.WriteUint(code)
	msg.WriteString(message)
	c.send(msg)
}

// deleteID tells the client that an ID it allocated may be reused.
func (c *Compositor) deleteID(id uint32) {
	msg := c.event(c.store.Get(1), displayDeleteIdEvent, displayEvents[:])
	msg.WriteUint(id)
	c.send(msg)
}

// resource holds the state common to every object on the compositor's
// side of the connection.
type resource struct {
	c       *Compositor
	id      uint32
	version uint32
}

func (r *resource) ID() uint32 {
	return r.id
}

func (r *resource) SetID(id uint32) {
	r.id = id
}

func (r *resource) Delete() {}

// ref names an object that the compositor does not otherwise track,
// such as a callback.
type ref uint32

func (r ref) ID() uint32                          { return uint32(r) }
func (r ref) SetID(uint32)                        {}
func (r ref) Dispatch(*wire.MessageBuffer) error { return nil }
func (r ref) Delete()                             {}
func (r ref) String() string                      { return "object@" + strconv.FormatUint(uint64(r), 10) }
