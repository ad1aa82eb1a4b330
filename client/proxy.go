package wl

import (
	"strconv"

	"deedles.dev/wlpanel/wire"
)

// proxy holds the state that every client-side object has in common.
// Embedding it provides the ID half of wire.Object.
type proxy struct {
	id      uint32
	display *Display
}

func (p *proxy) ID() uint32 {
	return p.id
}

func (p *proxy) SetID(id uint32) {
	p.id = id
}

func (p *proxy) Delete() {}

// Display returns the display that the object belongs to.
func (p *proxy) Display() *Display {
	return p.display
}

func newRequest(obj wire.Object, op uint16, names []string) *wire.MessageBuilder {
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

func objectString(inter string, id uint32) string {
	return inter + "@" + strconv.FormatUint(uint64(id), 10)
}
