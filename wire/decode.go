package wire

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// MessageBuffer holds message data that has been read from the socket
// but not yet decoded.
type MessageBuffer struct {
	sender uint32
	op     uint16
	size   uint16
	data   bytes.Reader
	err    error
	args   []any
}

// NewMessageBuffer wraps already-read message data. data is the
// message body, without the header.
func NewMessageBuffer(sender uint32, op uint16, data []byte) *MessageBuffer {
	mb := MessageBuffer{
		sender: sender,
		op:     op,
		size:   uint16(headerSize + len(data)),
	}
	mb.data.Reset(data)
	return &mb
}

// ReadMessage reads message data from the socket into a buffer.
func ReadMessage(c *Conn) (*MessageBuffer, error) {
	sender, err := readWord[uint32](c.r)
	if err != nil {
		return nil, fmt.Errorf("read message sender: %w", err)
	}

	so, err := readWord[uint32](c.r)
	if err != nil {
		return nil, fmt.Errorf("read message size and opcode: %w", err)
	}
	size := so >> 16
	if size < headerSize {
		return nil, fmt.Errorf("invalid message size: %v", size)
	}

	data := make([]byte, size-headerSize)
	_, err = io.ReadFull(c.r, data)
	if err != nil {
		return nil, fmt.Errorf("read message body: %w", err)
	}

	return NewMessageBuffer(sender, uint16(so&0xFFFF), data), nil
}

// Sender is the object ID of the sender of the message.
func (r *MessageBuffer) Sender() uint32 {
	return r.sender
}

// Op is the opcode of the message.
func (r *MessageBuffer) Op() uint16 {
	return r.op
}

// Size is the total size of the message, including the 8 byte header.
func (r *MessageBuffer) Size() uint16 {
	return r.size
}

// Err returns the first error encountered while decoding arguments.
// Running out of data in the middle of an argument is reported as
// io.ErrUnexpectedEOF.
func (r *MessageBuffer) Err() error {
	if errors.Is(r.err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return r.err
}

func (r *MessageBuffer) ReadInt() (v int32) {
	if r.err != nil {
		return
	}

	v, r.err = readWord[int32](&r.data)
	r.args = append(r.args, v)
	return v
}

func (r *MessageBuffer) ReadUint() (v uint32) {
	if r.err != nil {
		return
	}

	v, r.err = readWord[uint32](&r.data)
	r.args = append(r.args, v)
	return v
}

// ReadObject reads an object ID. A value of 0 means null.
func (r *MessageBuffer) ReadObject() uint32 {
	return r.ReadUint()
}

func (r *MessageBuffer) ReadNewID() NewID {
	return NewID{
		Interface: r.ReadString(),
		Version:   r.ReadUint(),
		ID:        r.ReadUint(),
	}
}

func (r *MessageBuffer) ReadFixed() (v Fixed) {
	if r.err != nil {
		return
	}

	v, r.err = readWord[Fixed](&r.data)
	r.args = append(r.args, v)
	return v
}

// ReadString reads a string argument. A null string is returned as
// the empty string.
func (r *MessageBuffer) ReadString() string {
	if r.err != nil {
		return ""
	}

	length, err := readWord[uint32](&r.data)
	if err != nil {
		r.err = err
		return ""
	}
	if length == 0 {
		r.args = append(r.args, nil)
		return ""
	}

	buf, err := r.read(length)
	if err != nil {
		r.err = err
		return ""
	}
	if buf[length-1] != 0 {
		r.err = errors.New("string is not null-terminated")
		return ""
	}

	v := string(buf[:length-1])
	r.args = append(r.args, v)
	return v
}

func (r *MessageBuffer) ReadArray() []byte {
	if r.err != nil {
		return nil
	}

	length, err := readWord[uint32](&r.data)
	if err != nil {
		r.err = err
		return nil
	}

	buf, err := r.read(length)
	if err != nil {
		r.err = err
		return nil
	}

	r.args = append(r.args, buf)
	return buf
}

// read reads length bytes plus padding and returns the unpadded data.
func (r *MessageBuffer) read(length uint32) ([]byte, error) {
	if int64(length) > int64(r.data.Len()) {
		return nil, io.ErrUnexpectedEOF
	}

	buf := make([]byte, length+padding(length))
	_, err := io.ReadFull(&r.data, buf)
	if err != nil {
		return nil, err
	}
	return buf[:length], nil
}

// Debug formats the decoded message as a method call on sender. It is
// only meaningful after the message has been dispatched.
func (r *MessageBuffer) Debug(sender Object) string {
	return formatCall(sender, methodName(sender, r.op), r.args)
}

func methodName(obj Object, op uint16) string {
	if n, ok := obj.(MethodNamer); ok {
		return n.MethodName(op)
	}
	return strconv.FormatUint(uint64(op), 10)
}

func formatCall(obj Object, method string, args []any) string {
	strs := make([]string, 0, len(args))
	for _, arg := range args {
		switch arg := arg.(type) {
		case nil:
			strs = append(strs, "nil")
		case string:
			strs = append(strs, strconv.Quote(arg))
		case []byte:
			strs = append(strs, fmt.Sprintf("array[%v]", len(arg)))
		default:
			strs = append(strs, fmt.Sprint(arg))
		}
	}

	return fmt.Sprintf("%v.%v(%v)", obj, method, strings.Join(strs, ", "))
}
