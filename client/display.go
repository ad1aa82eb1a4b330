package wl

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"deedles.dev/wlpanel/internal/debug"
	"deedles.dev/wlpanel/internal/ev"
	"deedles.dev/wlpanel/internal/objstore"
	"deedles.dev/wlpanel/wire"
)

// Display is a client connection to a Wayland compositor. It owns the
// client's object table and its event queue.
//
// Messages are read from the socket by a background goroutine, but
// they are only ever dispatched by the goroutine that calls Flush,
// RoundTrip or Dispatch. Everything hanging off of a Display must only
// be used from that goroutine.
type Display struct {
	// Error, if non-nil, is called when the compositor reports a fatal
	// protocol error.
	Error func(err DisplayError)

	obj      displayObject
	conn     *wire.Conn
	store    *objstore.Store
	queue    *ev.Queue
	pending  []ev.Op
	done     chan struct{}
	close    sync.Once
	err      error
	registry *Registry
	outputs  *Outputs
}

// DialDisplay connects to the compositor indicated by the environment.
func DialDisplay() (*Display, error) {
	c, err := wire.Dial()
	if err != nil {
		return nil, err
	}
	return ConnectDisplay(c), nil
}

// DialDisplaySocket connects to the compositor listening on the named
// socket. Relative names are resolved against $XDG_RUNTIME_DIR.
func DialDisplaySocket(name string) (*Display, error) {
	c, err := wire.DialSocket(name)
	if err != nil {
		return nil, err
	}
	return ConnectDisplay(c), nil
}

// ConnectDisplay creates a Display on top of an existing connection.
func ConnectDisplay(c *wire.Conn) *Display {
	display := Display{
		conn:  c,
		store: objstore.New(1),
		queue: ev.NewQueue(),
		done:  make(chan struct{}),
	}
	display.obj.display = &display
	display.store.Add(&display.obj)

	go display.listen()

	return &display
}

func (display *Display) listen() {
	for {
		msg, err := wire.ReadMessage(display.conn)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}

			select {
			case <-display.done:
			case display.queue.Add() <- func() error { return display.fail(fmt.Errorf("connection lost: %w", err)) }:
			}
			return
		}

		select {
		case <-display.done:
			return
		case display.queue.Add() <- func() error { return display.dispatch(msg) }:
		}
	}
}

// Close closes the connection. Objects created from the Display must
// not be used afterwards.
func (display *Display) Close() (err error) {
	err = net.ErrClosed
	display.close.Do(func() {
		close(display.done)
		display.queue.Stop()
		err = display.conn.Close()
	})
	return err
}

// Err returns the fatal error that ended the connection, if any.
func (display *Display) Err() error {
	return display.err
}

func (display *Display) fail(err error) error {
	if display.err == nil {
		display.err = err
	}
	return err
}

// AddObject registers obj, allocating a new client-side ID for it.
func (display *Display) AddObject(obj wire.Object) {
	display.store.Add(obj)
}

// SetObject registers obj under an ID that was allocated by the
// compositor, such as one that arrived in a new_id event argument.
func (display *Display) SetObject(id uint32, obj wire.Object) {
	display.store.Set(id, obj)
}

func (display *Display) GetObject(id uint32) wire.Object {
	return display.store.Get(id)
}

// DeleteObject removes an object from the object table. Messages that
// arrive for it afterwards are dropped.
func (display *Display) DeleteObject(id uint32) {
	display.store.Delete(id)
}

func (display *Display) dispatch(msg *wire.MessageBuffer) error {
	obj := display.store.Get(msg.Sender())
	if obj == nil {
		debug.Printf("dropping opcode %v for unknown object %v", msg.Op(), msg.Sender())
		return nil
	}

	err := obj.Dispatch(msg)
	if debug.Enabled() {
		debug.Printf("%v", msg.Debug(obj))
	}
	return err
}

// Enqueue queues msg to be sent the next time that the event queue is
// processed.
func (display *Display) Enqueue(msg *wire.MessageBuilder) {
	op := func() error {
		if debug.Enabled() {
			debug.Printf(" -> %v", msg)
		}
		err := msg.Build(display.conn)
		if err != nil {
			return fmt.Errorf("send %v: %w", msg, err)
		}
		return nil
	}

	select {
	case <-display.done:
	case display.queue.Add() <- op:
	}
}

func (display *Display) receive(ops []ev.Op) {
	display.pending = append(display.pending, ops...)
}

// runOne runs the oldest pending operation.
func (display *Display) runOne() error {
	op := display.pending[0]
	display.pending[0] = nil
	display.pending = display.pending[1:]
	return op()
}

// runPending runs pending operations until there are none left or the
// connection fails.
func (display *Display) runPending() error {
	var errs []error
	for len(display.pending) > 0 && display.err == nil {
		errs = append(errs, display.runOne())
	}
	return errors.Join(errs...)
}

// Flush sends all enqueued messages and processes all messages that
// have been received since the last time the queue was processed,
// without waiting for anything new to arrive. It returns all errors
// encountered.
func (display *Display) Flush() error {
	select {
	case ops := <-display.queue.Get():
		display.receive(ops)
	default:
	}
	return display.runPending()
}

// Dispatch waits until there is something in the queue and then
// processes everything that is available, as with Flush.
func (display *Display) Dispatch(ctx context.Context) error {
	if display.err != nil {
		return display.err
	}

	if len(display.pending) == 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-display.done:
			return net.ErrClosed
		case ops := <-display.queue.Get():
			display.receive(ops)
		}
	}
	return display.runPending()
}

// RoundTrip sends all enqueued messages and then processes events
// until the compositor has handled all of them. Events are processed
// in the order that they were received, even if RoundTrip is called
// from inside of an event handler.
func (display *Display) RoundTrip() error {
	if display.err != nil {
		return display.err
	}

	var done bool
	display.Sync(func(uint32) { done = true })

	var errs []error
	for !done {
		if display.err != nil {
			return errors.Join(errs...)
		}

		if len(display.pending) == 0 {
			select {
			case <-display.done:
				return errors.Join(append(errs, net.ErrClosed)...)
			case ops := <-display.queue.Get():
				display.receive(ops)
			}
			continue
		}

		errs = append(errs, display.runOne())
	}
	return errors.Join(errs...)
}

// Sync asks the compositor to call done once it has processed every
// request sent before this one.
func (display *Display) Sync(done func(serial uint32)) {
	callback := Callback{done: done}
	callback.display = display
	display.AddObject(&callback)

	msg := newRequest(&display.obj, displaySyncRequest, displayRequests[:])
	msg.WriteUint(callback.id)
	display.Enqueue(msg)
}

// Registry returns the registry for the connection. The first call
// creates it and performs a round trip so that every global that
// existed at the time has been announced by the time it returns.
func (display *Display) Registry() (*Registry, error) {
	if display.registry != nil {
		return display.registry, nil
	}

	registry := newRegistry(display)
	display.AddObject(registry)

	msg := newRequest(&display.obj, displayGetRegistryRequest, displayRequests[:])
	msg.WriteUint(registry.id)
	display.Enqueue(msg)

	err := display.RoundTrip()
	if display.err != nil {
		return nil, fmt.Errorf("get registry: %w", display.err)
	}
	if err != nil {
		debug.Printf("registry round trip: %v", err)
	}

	display.registry = registry
	return registry, nil
}

// Bind binds the global implementing inter, as with Registry.Bind. It
// returns false if the registry can't be reached or if inter is not
// advertised by the compositor.
func (display *Display) Bind(inter string, version uint32, obj wire.Object) (uint32, bool) {
	registry, err := display.Registry()
	if err != nil {
		debug.Printf("bind %v: %v", inter, err)
		return 0, false
	}
	return registry.Bind(inter, version, obj)
}

// displayObject is the wl_display protocol object, which always has
// ID 1.
type displayObject struct {
	proxy
}

func (obj *displayObject) Dispatch(msg *wire.MessageBuffer) error {
	display := obj.display

	switch msg.Op() {
	case displayErrorEvent:
		err := DisplayError{
			ObjectID: msg.ReadObject(),
			Code:     msg.ReadUint(),
			Message:  msg.ReadString(),
		}
		if msg.Err() != nil {
			return msg.Err()
		}
		display.fail(err)
		if display.Error != nil {
			display.Error(err)
		}
		return err

	case displayDeleteIdEvent:
		id := msg.ReadUint()
		if msg.Err() != nil {
			return msg.Err()
		}
		if display.store.Get(id) != nil {
			display.store.Delete(id)
		}
		return nil

	default:
		return wire.UnknownOpError{Interface: displayInterface, Type: "event", Op: msg.Op()}
	}
}

func (obj *displayObject) MethodName(op uint16) string {
	return methodName(displayEvents[:], op)
}

func (obj *displayObject) String() string {
	return objectString(displayInterface, obj.id)
}

// DisplayError is a fatal protocol error reported by the compositor.
type DisplayError struct {
	ObjectID uint32
	Code     uint32
	Message  string
}

func (err DisplayError) Error() string {
	var kind string
	switch err.Code {
	case displayErrorInvalidObject:
		kind = "invalid object"
	case displayErrorInvalidMethod:
		kind = "invalid method"
	case displayErrorNoMemory:
		kind = "no memory"
	case displayErrorImplementation:
		kind = "implementation error"
	default:
		kind = fmt.Sprintf("error %v", err.Code)
	}
	return fmt.Sprintf("display error: object %v: %v: %v", err.ObjectID, kind, err.Message)
}
