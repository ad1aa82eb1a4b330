package wltest

import (
	"cmp"
	"slices"

	"deedles.dev/wlpanel/wire"
)

type displayRes struct {
	resource
}

func (r *displayRes) Dispatch(msg *wire.MessageBuffer) error {
	c := r.c

	switch msg.Op() {
	case displaySyncRequest:
		id := msg.ReadUint()
		if msg.Err() != nil {
			return msg.Err()
		}

		c.serial++
		done := c.event(ref(id), callbackDoneEvent, callbackEvents[:])
		done.WriteUint(c.serial)
		c.send(done)
		c.deleteID(id)
		return nil

	case displayGetRegistryRequest:
		id := msg.ReadUint()
		if msg.Err() != nil {
			return msg.Err()
		}

		registry := registryRes{resource: resource{c: c, version: 1}}
		c.store.Set(id, &registry)
		c.registries = append(c.registries, &registry)

		globals := make([]*global, 0, len(c.globals))
		for _, g := range c.globals {
			globals = append(globals, g)
		}
		slices.SortFunc(globals, func(g1, g2 *global) int { return cmp.Compare(g1.name, g2.name) })
		for _, g := range globals {
			registry.announce(g)
		}
		return nil

	default:
		return wire.UnknownOpError{Interface: displayInterface, Type: "request", Op: msg.Op()}
	}
}

func (r *displayRes) String() string {
	return displayInterface
}

type registryRes struct {
	resource
}

func (r *registryRes) announce(g *global) {
	msg := r.c.event(r, registryGlobalEvent, registryEvents[:])
	msg.WriteUint(g.name)
	msg.WriteString(g.iface)
	msg.WriteUint(g.version)
	r.c.send(msg)
}

func (r *registryRes) Dispatch(msg *wire.MessageBuffer) error {
	c := r.c

	switch msg.Op() {
	case registryBindRequest:
		name := msg.ReadUint()
		id := msg.ReadNewID()
		if msg.Err() != nil {
			return msg.Err()
		}

		g, ok := c.globals[name]
		if !ok || g.iface != id.Interface || id.Version == 0 || id.Version > g.version {
			c.postError(r.id, displayErrorInvalidObject, "invalid bind")
			return nil
		}

		c.binds = append(c.binds, Bind{Interface: id.Interface, Version: id.Version})
		c.store.Set(id.ID, g.bind(id.ID, id.Version))
		return nil

	default:
		return wire.UnknownOpError{Interface: registryInterface, Type: "request", Op: msg.Op()}
	}
}

func (r *registryRes) String() string {
	return registryInterface
}

// genericRes is bound from globals added with AddGlobal.
type genericRes struct {
	resource
	iface string
}

func (r *genericRes) Dispatch(msg *wire.MessageBuffer) error {
	return nil
}

func (r *genericRes) String() string {
	return r.iface
}

func (c *Compositor) bindCompositor(id, version uint32) wire.Object {
	return &compositorRes{resource: resource{c: c, id: id, version: version}}
}

type compositorRes struct {
	resource
}

func (r *compositorRes) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case compositorCreateSurfaceRequest:
		id := msg.ReadUint()
		if msg.Err() != nil {
			return msg.Err()
		}
		r.c.store.Set(id, &surfaceRes{resource: resource{c: r.c, version: r.version}})
		return nil

	default:
		return wire.UnknownOpError{Interface: compositorInterface, Type: "request", Op: msg.Op()}
	}
}

func (r *compositorRes) String() string {
	return compositorInterface
}

type surfaceRes struct {
	resource
}

func (r *surfaceRes) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case surfaceDestroyRequest:
		r.c.store.Delete(r.id)
		r.c.deleteID(r.id)
		return nil

	case surfaceCommitRequest:
		return nil

	default:
		return wire.UnknownOpError{Interface: surfaceInterface, Type: "request", Op: msg.Op()}
	}
}

func (r *surfaceRes) String() string {
	return surfaceInterface
}

func (c *Compositor) bindSeat(id, version uint32) wire.Object {
	r := seatRes{resource: resource{c: c, id: id, version: version}}
	c.seats++

	msg := c.event(&r, seatCapabilitiesEvent, seatEvents[:])
	msg.WriteUint(seatCapabilityPointer | seatCapabilityKeyboard)
	c.send(msg)

	if version >= seatNameSince {
		msg := c.event(&r, seatNameEvent, seatEvents[:])
		msg.WriteString("seat0")
		c.send(msg)
	}

	return &r
}

type seatRes struct {
	resource
}

func (r *seatRes) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case seatReleaseRequest:
		r.c.seats--
		r.c.store.Delete(r.id)
		r.c.deleteID(r.id)
		return nil

	default:
		return wire.UnknownOpError{Interface: seatInterface, Type: "request", Op: msg.Op()}
	}
}

func (r *seatRes) String() string {
	return seatInterface
}

// Output is an output advertised by the compositor.
type Output struct {
	c         *Compositor
	name      string
	global    uint32
	resources []*outputRes
}

// AddOutput advertises a new output.
func (c *Compositor) AddOutput(name string) (out *Output) {
	c.Do(func() { out = c.addOutput(name) })
	return out
}

// RemoveOutput withdraws an output. Windows that were on it leave it
// first.
func (c *Compositor) RemoveOutput(out *Output) {
	c.Do(func() {
		for _, w := range c.windows {
			w.leave(out)
		}
		c.outputs = slices.DeleteFunc(c.outputs, func(o *Output) bool { return o == out })
		c.removeGlobal(out.global)
	})
}

// Output returns the output with the given name, or nil.
func (c *Compositor) Output(name string) (out *Output) {
	c.Do(func() {
		i := slices.IndexFunc(c.outputs, func(o *Output) bool { return o.name == name })
		if i >= 0 {
			out = c.outputs[i]
		}
	})
	return out
}

func (c *Compositor) addOutput(name string) *Output {
	out := Output{c: c, name: name}
	out.global = c.addGlobal(outputInterface, outputVersion, out.bind)
	c.outputs = append(c.outputs, &out)
	return &out
}

func (out *Output) Name() string {
	return out.name
}

func (out *Output) bind(id, version uint32) wire.Object {
	c := out.c
	r := outputRes{resource: resource{c: c, id: id, version: version}, output: out}
	out.resources = append(out.resources, &r)

	geometry := c.event(&r, outputGeometryEvent, outputEvents[:])
	geometry.WriteInt(0)
	geometry.WriteInt(0)
	geometry.WriteInt(600)
	geometry.WriteInt(340)
	geometry.WriteInt(0)
	geometry.WriteString("wltest")
	geometry.WriteString("virtual")
	geometry.WriteInt(0)
	c.send(geometry)

	mode := c.event(&r, outputModeEvent, outputEvents[:])
	mode.WriteUint(outputModeCurrent | outputModePreferred)
	mode.WriteInt(1920)
	mode.WriteInt(1080)
	mode.WriteInt(60000)
	c.send(mode)

	if version >= outputScaleSince {
		scale := c.event(&r, outputScaleEvent, outputEvents[:])
		scale.WriteInt(1)
		c.send(scale)
	}
	if version >= outputNameSince {
		name := c.event(&r, outputNameEvent, outputEvents[:])
		name.WriteString(out.name)
		c.send(name)

		desc := c.event(&r, outputDescriptionEvent, outputEvents[:])
		desc.WriteString("Virtual output " + out.name)
		c.send(desc)
	}
	if version >= outputDoneSince {
		c.send(c.event(&r, outputDoneEvent, outputEvents[:]))
	}

	for _, w := range c.windows {
		if slices.Contains(w.outputs, out) {
			w.each(func(h *handleRes) {
				h.outputEnter(&r)
				h.done()
			})
		}
	}

	return &r
}

type outputRes struct {
	resource
	output *Output
}

func (r *outputRes) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case outputReleaseRequest:
		out := r.output
		out.resources = slices.DeleteFunc(out.resources, func(o *outputRes) bool { return o == r })
		r.c.store.Delete(r.id)
		r.c.deleteID(r.id)
		return nil

	default:
		return wire.UnknownOpError{Interface: outputInterface, Type: "request", Op: msg.Op()}
	}
}

func (r *outputRes) String() string {
	return outputInterface + "(" + r.output.name + ")"
}
