package wl

import (
	"cmp"
	"fmt"
	"image"
	"slices"

	"deedles.dev/wlpanel/internal/debug"
	"deedles.dev/wlpanel/wire"
)

// Output is a wl_output, typically a monitor.
type Output struct {
	// Done, if non-nil, is called after the compositor has finished
	// sending a batch of changes to the output's properties.
	Done func()

	proxy
	version     uint32
	global      uint32
	ready       bool
	name        string
	description string
	make, model string
	pos         image.Point
	size        image.Point
	scale       int32
}

// Global returns the registry name of the global that the output was
// bound from.
func (out *Output) Global() uint32 {
	return out.global
}

// Name returns the compositor's name for the output, such as "DP-1". It
// is only available from version 4 compositors.
func (out *Output) Name() string {
	return out.name
}

func (out *Output) Description() string {
	return out.description
}

func (out *Output) Make() string {
	return out.make
}

func (out *Output) Model() string {
	return out.model
}

// Bounds returns the output's position in the compositor's global
// space and the size of its current mode.
func (out *Output) Bounds() image.Rectangle {
	return image.Rectangle{Min: out.pos, Max: out.pos.Add(out.size)}
}

func (out *Output) Scale() int32 {
	return out.scale
}

// Release destroys the output object.
func (out *Output) Release() {
	if out.version >= outputReleaseSince {
		out.display.Enqueue(newRequest(out, outputReleaseRequest, outputRequests[:]))
	}
	out.display.DeleteObject(out.id)
}

func (out *Output) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case outputGeometryEvent:
		x, y := msg.ReadInt(), msg.ReadInt()
		msg.ReadInt() // physical width
		msg.ReadInt() // physical height
		msg.ReadInt() // subpixel
		manufacturer, model := msg.ReadString(), msg.ReadString()
		msg.ReadInt() // transform
		if msg.Err() != nil {
			return msg.Err()
		}
		out.pos = image.Pt(int(x), int(y))
		out.make, out.model = manufacturer, model
		return nil

	case outputModeEvent:
		flags := msg.ReadUint()
		w, h := msg.ReadInt(), msg.ReadInt()
		msg.ReadInt() // refresh
		if msg.Err() != nil {
			return msg.Err()
		}
		if flags&outputModeCurrent != 0 {
			out.size = image.Pt(int(w), int(h))
		}
		return nil

	case outputDoneEvent:
		out.ready = true
		if out.Done != nil {
			out.Done()
		}
		return nil

	case outputScaleEvent:
		scale := msg.ReadInt()
		if msg.Err() != nil {
			return msg.Err()
		}
		out.scale = scale
		return nil

	case outputNameEvent:
		name := msg.ReadString()
		if msg.Err() != nil {
			return msg.Err()
		}
		out.name = name
		return nil

	case outputDescriptionEvent:
		desc := msg.ReadString()
		if msg.Err() != nil {
			return msg.Err()
		}
		out.description = desc
		return nil

	default:
		return wire.UnknownOpError{Interface: outputInterface, Type: "event", Op: msg.Op()}
	}
}

func (out *Output) MethodName(op uint16) string {
	return methodName(outputEvents[:], op)
}

func (out *Output) String() string {
	if out.name != "" {
		return out.name
	}
	return objectString(outputInterface, out.id)
}

// Outputs binds every output that the compositor advertises, including
// ones that are added later, and releases them again when they go away.
type Outputs struct {
	display *Display
	outputs map[uint32]*Output
}

// Outputs returns the output tracker for the display, creating it if
// necessary. Creating it binds every existing output and waits for the
// compositor to describe them.
func (display *Display) Outputs() (*Outputs, error) {
	if display.outputs != nil {
		return display.outputs, nil
	}

	registry, err := display.Registry()
	if err != nil {
		return nil, fmt.Errorf("track outputs: %w", err)
	}

	outputs := Outputs{
		display: display,
		outputs: make(map[uint32]*Output),
	}
	for _, g := range registry.Globals() {
		outputs.add(registry, g)
	}
	registry.OnGlobal(func(g Global) { outputs.add(registry, g) })
	registry.OnGlobalRemove(outputs.remove)
	display.outputs = &outputs

	err = display.RoundTrip()
	if err != nil {
		return &outputs, fmt.Errorf("describe outputs: %w", err)
	}
	return &outputs, nil
}

func (outputs *Outputs) add(registry *Registry, g Global) {
	if g.Interface != outputInterface {
		return
	}

	out := Output{global: g.Name, scale: 1}
	out.display = outputs.display
	out.version = registry.BindGlobal(g, outputVersion, &out)
	outputs.outputs[g.Name] = &out

	// Outputs that predate the done event are described by the time a
	// sync sent after the bind comes back.
	if out.version < outputDoneSince {
		outputs.display.Sync(func(uint32) { out.ready = true })
	}
}

func (outputs *Outputs) remove(g Global) {
	out, ok := outputs.outputs[g.Name]
	if !ok {
		return
	}
	delete(outputs.outputs, g.Name)

	debug.Printf("output %v removed", out)
	out.Release()
}

// List returns the currently known outputs in the order in which they
// were advertised. An output that was just added is left out until the
// compositor has finished describing it.
func (outputs *Outputs) List() []*Output {
	list := make([]*Output, 0, len(outputs.outputs))
	for _, out := range outputs.outputs {
		if out.ready {
			list = append(list, out)
		}
	}
	slices.SortFunc(list, func(o1, o2 *Output) int { return cmp.Compare(o1.global, o2.global) })
	return list
}

// Lookup returns the output with the given object ID, or nil if there
// isn't one.
func (outputs *Outputs) Lookup(id uint32) *Output {
	out, _ := outputs.display.GetObject(id).(*Output)
	return out
}
