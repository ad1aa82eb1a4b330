package wl

import "deedles.dev/wlpanel/wire"

// Compositor is a wl_compositor. It is only needed here for creating
// surfaces to pass as rectangle hints.
type Compositor struct {
	proxy
}

// BindCompositor binds the compositor global, or returns nil if it
// isn't advertised.
func BindCompositor(display *Display) *Compositor {
	c := Compositor{}
	c.display = display
	if _, ok := display.Bind(compositorInterface, compositorVersion, &c); !ok {
		return nil
	}
	return &c
}

func (c *Compositor) CreateSurface() *Surface {
	s := Surface{}
	s.display = c.display
	c.display.AddObject(&s)

	msg := newRequest(c, compositorCreateSurfaceRequest, compositorRequests[:])
	msg.WriteUint(s.id)
	c.display.Enqueue(msg)

	return &s
}

func (c *Compositor) Dispatch(msg *wire.MessageBuffer) error {
	return wire.UnknownOpError{Interface: compositorInterface, Type: "event", Op: msg.Op()}
}

func (c *Compositor) String() string {
	return objectString(compositorInterface, c.id)
}
