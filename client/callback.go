package wl

import "deedles.dev/wlpanel/wire"

// Callback is a wl_callback. It fires exactly once and is then
// destroyed.
type Callback struct {
	proxy
	done func(uint32)
}

func (c *Callback) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case callbackDoneEvent:
		data := msg.ReadUint()
		if msg.Err() != nil {
			return msg.Err()
		}

		// done is a destructor event, so the compositor will follow
		// it with a delete_id for an object that is already gone.
		c.display.DeleteObject(c.id)
		if c.done != nil {
			c.done(data)
		}
		return nil

	default:
		return wire.UnknownOpError{Interface: callbackInterface, Type: "event", Op: msg.Op()}
	}
}

func (c *Callback) MethodName(op uint16) string {
	return methodName(callbackEvents[:], op)
}

func (c *Callback) String() string {
	return objectString(callbackInterface, c.id)
}
