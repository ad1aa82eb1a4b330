package wl

import "deedles.dev/wlpanel/wire"

type Surface struct {
	proxy
	outputs []uint32
}

func (s *Surface) Commit() {
	s.display.Enqueue(newRequest(s, surfaceCommitRequest, surfaceRequests[:]))
}

func (s *Surface) Destroy() {
	s.display.Enqueue(newRequest(s, surfaceDestroyRequest, surfaceRequests[:]))
	s.display.DeleteObject(s.id)
}

// Outputs returns the IDs of the outputs that the surface is currently
// displayed on.
func (s *Surface) Outputs() []uint32 {
	return append([]uint32(nil), s.outputs...)
}

func (s *Surface) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case surfaceEnterEvent:
		id := msg.ReadObject()
		if msg.Err() != nil {
			return msg.Err()
		}
		s.outputs = append(s.outputs, id)
		return nil

	case surfaceLeaveEvent:
		id := msg.ReadObject()
		if msg.Err() != nil {
			return msg.Err()
		}
		for i, out := range s.outputs {
			if out == id {
				s.outputs = append(s.outputs[:i], s.outputs[i+1:]...)
				break
			}
		}
		return nil

	default:
		return wire.UnknownOpError{Interface: surfaceInterface, Type: "event", Op: msg.Op()}
	}
}

func (s *Surface) MethodName(op uint16) string {
	return methodName(surfaceEvents[:], op)
}

func (s *Surface) String() string {
	return objectString(surfaceInterface, s.id)
}
