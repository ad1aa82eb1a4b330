package toplevel

import (
	"strconv"

	"deedles.dev/wlpanel/wire"
)

// handleMsg is an event received on a toplevel handle, decoded.
type handleMsg interface {
	handleMsg()
}

type (
	titleEvent       struct{ title string }
	appIDEvent       struct{ appID string }
	outputEnterEvent struct{ output uint32 }
	outputLeaveEvent struct{ output uint32 }
	stateEvent       struct{ state State }
	doneEvent        struct{}
	closedEvent      struct{}
	parentEvent      struct{ parent uint32 }
)

func (titleEvent) handleMsg()       {}
func (appIDEvent) handleMsg()       {}
func (outputEnterEvent) handleMsg() {}
func (outputLeaveEvent) handleMsg() {}
func (stateEvent) handleMsg()       {}
func (doneEvent) handleMsg()        {}
func (closedEvent) handleMsg()      {}
func (parentEvent) handleMsg()      {}

// handleObject is the zwlr_foreign_toplevel_handle_v1 object backing a
// Toplevel.
type handleObject struct {
	id       uint32
	toplevel *Toplevel
}

func (obj *handleObject) ID() uint32 {
	return obj.id
}

func (obj *handleObject) SetID(id uint32) {
	obj.id = id
}

func (obj *handleObject) Delete() {}

func decodeHandleEvent(msg *wire.MessageBuffer) (handleMsg, error) {
	var ev handleMsg
	switch msg.Op() {
	case handleTitleEvent:
		ev = titleEvent{title: msg.ReadString()}
	case handleAppIdEvent:
		ev = appIDEvent{appID: msg.ReadString()}
	case handleOutputEnterEvent:
		ev = outputEnterEvent{output: msg.ReadObject()}
	case handleOutputLeaveEvent:
		ev = outputLeaveEvent{output: msg.ReadObject()}
	case handleStateEvent:
		ev = stateEvent{state: decodeState(wire.Uint32s(msg.ReadArray()))}
	case handleDoneEvent:
		ev = doneEvent{}
	case handleClosedEvent:
		ev = closedEvent{}
	case handleParentEvent:
		ev = parentEvent{parent: msg.ReadObject()}
	default:
		return nil, wire.UnknownOpError{Interface: handleInterface, Type: "event", Op: msg.Op()}
	}
	return ev, msg.Err()
}

func (obj *handleObject) Dispatch(msg *wire.MessageBuffer) error {
	ev, err := decodeHandleEvent(msg)
	if err != nil {
		return err
	}
	obj.toplevel.handle(ev)
	return nil
}

func (obj *handleObject) MethodName(op uint16) string {
	return methodName(handleEvents[:], op)
}

func (obj *handleObject) String() string {
	return objectString(handleInterface, obj.id)
}

// managerMsg is an event received on the manager object, decoded.
type managerMsg interface {
	managerMsg()
}

type (
	newToplevelEvent struct{ handle uint32 }
	finishedEvent    struct{}
)

func (newToplevelEvent) managerMsg() {}
func (finishedEvent) managerMsg()    {}

// managerObject is the zwlr_foreign_toplevel_manager_v1 object backing a
// Manager.
type managerObject struct {
	id      uint32
	manager *Manager
}

func (obj *managerObject) ID() uint32 {
	return obj.id
}

func (obj *managerObject) SetID(id uint32) {
	obj.id = id
}

func (obj *managerObject) Delete() {}

func (obj *managerObject) Dispatch(msg *wire.MessageBuffer) error {
	var ev managerMsg
	switch msg.Op() {
	case managerToplevelEvent:
		ev = newToplevelEvent{handle: msg.ReadUint()}
	case managerFinishedEvent:
		ev = finishedEvent{}
	default:
		return wire.UnknownOpError{Interface: managerInterface, Type: "event", Op: msg.Op()}
	}
	if msg.Err() != nil {
		return msg.Err()
	}

	obj.manager.handle(ev)
	return nil
}

func (obj *managerObject) MethodName(op uint16) string {
	return methodName(managerEvents[:], op)
}

func (obj *managerObject) String() string {
	return objectString(managerInterface, obj.id)
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
