// Package wire defines types helpful for dealing with the Wayland
// wire protocol. It is primarly intended for usage by generated code
// and the hand-written glue that sits on top of it.
package wire

import (
	"encoding/binary"
	"io"
)

// byteOrder is the host byte order. Wayland messages are always
// encoded in the byte order of the machine that both ends share.
var byteOrder = binary.NativeEndian

// headerSize is the size of the sender ID plus the size/opcode word.
const headerSize = 8

// Object represents a Wayland protocol object.
type Object interface {
	// ID returns the object's ID, or 0 if it has not been assigned one.
	ID() uint32

	// SetID assigns the object's ID. It is called by the object store
	// when the object is registered.
	SetID(id uint32)

	// Dispatch pertforms the operation requested by the message in the
	// buffer.
	Dispatch(msg *MessageBuffer) error

	// Delete is called after the object has been removed from its
	// store.
	Delete()
}

// MethodNamer is implemented by objects that can name the messages
// that they receive for debugging output. Outgoing messages are named
// by setting MessageBuilder.Method.
type MethodNamer interface {
	MethodName(op uint16) string
}

// NewID is an untyped new_id argument, such as the one taken by
// wl_registry.bind.
type NewID struct {
	Interface string
	Version   uint32
	ID        uint32
}

func padding(n uint32) uint32 {
	return (4 - n%4) % 4
}

func readWord[T ~int32 | ~uint32](r io.Reader) (T, error) {
	var data [4]byte
	_, err := io.ReadFull(r, data[:])
	if err != nil {
		return 0, err
	}
	return T(byteOrder.Uint32(data[:])), nil
}

func appendWord[T ~int32 | ~uint32](buf []byte, v T) []byte {
	return byteOrder.AppendUint32(buf, uint32(v))
}

// Uint32s decodes an array argument that carries a list of 32-bit
// values, such as an enum array.
func Uint32s(data []byte) []uint32 {
	vals := make([]uint32, 0, len(data)/4)
	for len(data) >= 4 {
		vals = append(vals, byteOrder.Uint32(data))
		data = data[4:]
	}
	return vals
}

// Uint32Array encodes vals as an array argument.
func Uint32Array(vals ...uint32) []byte {
	buf := make([]byte, 0, len(vals)*4)
	for _, v := range vals {
		buf = appendWord(buf, v)
	}
	return buf
}
