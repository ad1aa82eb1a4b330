package wl

import (
	"strings"

	"deedles.dev/wlpanel/wire"
)

type SeatCapability uint32

const (
	SeatCapabilityPointer  SeatCapability = seatCapabilityPointer
	SeatCapabilityKeyboard SeatCapability = seatCapabilityKeyboard
	SeatCapabilityTouch    SeatCapability = seatCapabilityTouch
)

func (c SeatCapability) Has(flag SeatCapability) bool {
	return c&flag == flag
}

func (c SeatCapability) String() string {
	var names []string
	if c.Has(SeatCapabilityPointer) {
		names = append(names, "pointer")
	}
	if c.Has(SeatCapabilityKeyboard) {
		names = append(names, "keyboard")
	}
	if c.Has(SeatCapabilityTouch) {
		names = append(names, "touch")
	}
	return strings.Join(names, "|")
}

// Seat is a wl_seat, a group of input devices. Window management
// requests that need to know which user asked for them, such as
// activation, take a seat.
type Seat struct {
	Capabilities func(SeatCapability)
	Name         func(string)

	proxy
	version uint32
	name    string
	caps    SeatCapability
}

// BindSeat binds the compositor's seat. If the compositor advertises
// more than one, the most recent one is used. It returns nil if there
// is no seat.
func BindSeat(display *Display) *Seat {
	seat := Seat{}
	seat.display = display
	version, ok := display.Bind(seatInterface, seatVersion, &seat)
	if !ok {
		return nil
	}
	seat.version = version
	return &seat
}

func (seat *Seat) SeatName() string {
	return seat.name
}

func (seat *Seat) SeatCapabilities() SeatCapability {
	return seat.caps
}

// Release destroys the seat object.
func (seat *Seat) Release() {
	if seat.version >= seatReleaseSince {
		seat.display.Enqueue(newRequest(seat, seatReleaseRequest, seatRequests[:]))
	}
	seat.display.DeleteObject(seat.id)
}

func (seat *Seat) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case seatCapabilitiesEvent:
		caps := SeatCapability(msg.ReadUint())
		if msg.Err() != nil {
			return msg.Err()
		}
		seat.caps = caps
		if seat.Capabilities != nil {
			seat.Capabilities(caps)
		}
		return nil

	case seatNameEvent:
		name := msg.ReadString()
		if msg.Err() != nil {
			return msg.Err()
		}
		seat.name = name
		if seat.Name != nil {
			seat.Name(name)
		}
		return nil

	default:
		return wire.UnknownOpError{Interface: seatInterface, Type: "event", Op: msg.Op()}
	}
}

func (seat *Seat) MethodName(op uint16) string {
	return methodName(seatEvents[:], op)
}

func (seat *Seat) String() string {
	return objectString(seatInterface, seat.id)
}
