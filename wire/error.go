package wire

import "fmt"

// UnknownOpError reports a message whose opcode is out of range for the
// interface of the object that it was sent to. Type is "request" or
// "event", depending on which direction the message was travelling.
type UnknownOpError struct {
	Interface string
	Type      string
	Op        uint16
}

func (err UnknownOpError) Error() string {
	return fmt.Sprintf("%v: no %v with opcode %v", err.Interface, err.Type, err.Op)
}

// UnknownSenderIDError reports a message addressed to an object ID
// that is not in the receiver's object table. A compositor treats this
// as a fatal invalid_object error. A client drops the message instead,
// since the object may have been destroyed while the message was in
// flight.
type UnknownSenderIDError struct {
	Msg *MessageBuffer
}

func (err UnknownSenderIDError) Error() string {
	return fmt.Sprintf("message for unknown object %v (opcode %v)", err.Msg.Sender(), err.Msg.Op())
}
