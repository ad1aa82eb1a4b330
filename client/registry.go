package wl

import (
	"deedles.dev/wlpanel/internal/debug"
	"deedles.dev/wlpanel/internal/signal"
	"deedles.dev/wlpanel/wire"
	"golang.org/x/exp/maps"
)

// Global is a global object advertised by the compositor.
type Global struct {
	// Name is the numeric name of the global. It is unique for the
	// lifetime of the connection.
	Name      uint32
	Interface string
	Version   uint32
}

// Registry keeps track of the globals that the compositor advertises
// and binds them on request.
type Registry struct {
	proxy
	globals     map[uint32]Global
	byInterface map[string]Global

	added   signal.Signal[Global]
	removed signal.Signal[Global]
}

func newRegistry(display *Display) *Registry {
	registry := Registry{
		globals:     make(map[uint32]Global),
		byInterface: make(map[string]Global),
	}
	registry.display = display
	return &registry
}

// Globals returns a snapshot of every currently advertised global,
// keyed by name.
func (registry *Registry) Globals() map[uint32]Global {
	return maps.Clone(registry.globals)
}

// Lookup returns the global that provides inter. If more than one does,
// the most recently advertised one is returned.
func (registry *Registry) Lookup(inter string) (Global, bool) {
	g, ok := registry.byInterface[inter]
	return g, ok
}

// OnGlobal registers f to be called whenever a new global is
// advertised.
func (registry *Registry) OnGlobal(f func(Global)) (cancel func()) {
	return registry.added.Connect(f)
}

// OnGlobalRemove registers f to be called whenever a global is removed.
func (registry *Registry) OnGlobalRemove(f func(Global)) (cancel func()) {
	return registry.removed.Connect(f)
}

// Bind binds the global that provides inter to obj, registering obj
// with the display. The version used is the lower of version and the
// advertised version, and is returned. If no global provides inter,
// nothing is sent and Bind returns false.
func (registry *Registry) Bind(inter string, version uint32, obj wire.Object) (uint32, bool) {
	g, ok := registry.byInterface[inter]
	if !ok {
		return 0, false
	}
	return registry.BindGlobal(g, version, obj), true
}

// BindGlobal binds a specific global. It is useful for interfaces that
// can be advertised more than once, such as wl_output.
func (registry *Registry) BindGlobal(g Global, version uint32, obj wire.Object) uint32 {
	version = min(version, g.Version)
	registry.display.AddObject(obj)

	msg := newRequest(registry, registryBindRequest, registryRequests[:])
	msg.WriteUint(g.Name)
	msg.WriteNewID(wire.NewID{Interface: g.Interface, Version: version, ID: obj.ID()})
	registry.display.Enqueue(msg)

	return version
}

func (registry *Registry) global(g Global) {
	registry.globals[g.Name] = g
	registry.byInterface[g.Interface] = g
	registry.added.Emit(g)
}

func (registry *Registry) globalRemove(name uint32) {
	g, ok := registry.globals[name]
	if !ok {
		debug.Printf("removal of unknown global %v", name)
		return
	}
	delete(registry.globals, name)

	if cur := registry.byInterface[g.Interface]; cur.Name == name {
		delete(registry.byInterface, g.Interface)
		if next, ok := registry.latest(g.Interface); ok {
			registry.byInterface[g.Interface] = next
		}
	}

	registry.removed.Emit(g)
}

// latest finds the remaining global with the highest name that
// provides inter.
func (registry *Registry) latest(inter string) (Global, bool) {
	var found Global
	for _, g := range registry.globals {
		if g.Interface == inter && g.Name >= found.Name {
			found = g
		}
	}
	return found, found.Interface != ""
}

func (registry *Registry) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case registryGlobalEvent:
		g := Global{
			Name:      msg.ReadUint(),
			Interface: msg.ReadString(),
			Version:   msg.ReadUint(),
		}
		if msg.Err() != nil {
			return msg.Err()
		}
		registry.global(g)
		return nil

	case registryGlobalRemoveEvent:
		name := msg.ReadUint()
		if msg.Err() != nil {
			return msg.Err()
		}
		registry.globalRemove(name)
		return nil

	default:
		return wire.UnknownOpError{Interface: registryInterface, Type: "event", Op: msg.Op()}
	}
}

func (registry *Registry) MethodName(op uint16) string {
	return methodName(registryEvents[:], op)
}

func (registry *Registry) String() string {
	return objectString(registryInterface, registry.id)
}
