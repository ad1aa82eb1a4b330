package wire

import (
	"fmt"
	"unsafe"
)

// MessageBuilder is a message that is under construction.
type MessageBuilder struct {
	// Method is the name of the method being called. It is included
	// purely for debugging purposes.
	Method string

	sender Object
	op     uint16
	data   []byte
	args   []any
	err    error
}

func NewMessage(sender Object, op uint16) *MessageBuilder {
	return &MessageBuilder{
		sender: sender,
		op:     op,
	}
}

func (mb *MessageBuilder) Sender() Object {
	return mb.sender
}

func (mb *MessageBuilder) Op() uint16 {
	return mb.op
}

func (mb *MessageBuilder) WriteInt(v int32) {
	if mb.err != nil {
		return
	}

	mb.data = appendWord(mb.data, v)
	mb.args = append(mb.args, v)
}

func (mb *MessageBuilder) WriteUint(v uint32) {
	if mb.err != nil {
		return
	}

	mb.data = appendWord(mb.data, v)
	mb.args = append(mb.args, v)
}

// WriteObject writes the ID of v, or 0 if v is nil.
func (mb *MessageBuilder) WriteObject(v Object) {
	var id uint32
	if !isNil(v) {
		id = v.ID()
	}
	mb.WriteUint(id)
}

func (mb *MessageBuilder) WriteNewID(v NewID) {
	if mb.err != nil {
		return
	}

	mb.WriteString(v.Interface)
	mb.WriteUint(v.Version)
	mb.WriteUint(v.ID)
}

func (mb *MessageBuilder) WriteFixed(v Fixed) {
	if mb.err != nil {
		return
	}

	mb.data = appendWord(mb.data, v)
	mb.args = append(mb.args, v)
}

func (mb *MessageBuilder) WriteString(v string) {
	if mb.err != nil {
		return
	}

	length := uint32(len(v) + 1)
	mb.data = appendWord(mb.data, length)
	mb.data = append(mb.data, v...)
	mb.data = append(mb.data, 0)
	mb.pad(length)
	mb.args = append(mb.args, v)
}

func (mb *MessageBuilder) WriteArray(v []byte) {
	if mb.err != nil {
		return
	}

	length := uint32(len(v))
	mb.data = appendWord(mb.data, length)
	mb.data = append(mb.data, v...)
	mb.pad(length)
	mb.args = append(mb.args, v)
}

func (mb *MessageBuilder) pad(length uint32) {
	for i := uint32(0); i < padding(length); i++ {
		mb.data = append(mb.data, 0)
	}
}

func (mb *MessageBuilder) bytes() ([]byte, error) {
	if mb.err != nil {
		return nil, mb.err
	}

	length := headerSize + len(mb.data)
	if length > 0xFFFF {
		return nil, fmt.Errorf("message too large: %v bytes", length)
	}

	msg := make([]byte, 0, length)
	msg = appendWord(msg, mb.sender.ID())
	msg = appendWord(msg, (uint32(length)<<16)|uint32(mb.op))
	return append(msg, mb.data...), nil
}

// Build builds the message and sends it to c. The MessageBuilder
// should not be used again after this method is called.
func (mb *MessageBuilder) Build(c *Conn) error {
	msg, err := mb.bytes()
	if err != nil {
		return err
	}
	return c.write(msg)
}

// Message converts the builder into a MessageBuffer as if the message
// had been received from a peer.
func (mb *MessageBuilder) Message() (*MessageBuffer, error) {
	if _, err := mb.bytes(); err != nil {
		return nil, err
	}
	return NewMessageBuffer(mb.sender.ID(), mb.op, mb.data), nil
}

func (mb *MessageBuilder) String() string {
	method := mb.Method
	if method == "" {
		method = methodName(mb.sender, mb.op)
	}
	return formatCall(mb.sender, method, mb.args)
}

func isNil(v any) bool {
	return (v == nil) || ((*[2]uintptr)(unsafe.Pointer(&v))[1] == 0)
}
