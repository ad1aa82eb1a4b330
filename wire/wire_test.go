package wire_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"slices"
	"testing"

	"deedles.dev/wlpanel/wire"
)

type testObject uint32

func (obj testObject) ID() uint32                          { return uint32(obj) }
func (obj testObject) SetID(uint32)                        {}
func (obj testObject) Dispatch(*wire.MessageBuffer) error { return nil }
func (obj testObject) Delete()                             {}
func (obj testObject) String() string                      { return "test" }

func TestStringPadding(t *testing.T) {
	tests := []string{"", "a", "abc", "abcd", "zwlr_foreign_toplevel_manager_v1"}
	for _, str := range tests {
		mb := wire.NewMessage(testObject(3), 2)
		mb.WriteString(str)
		mb.WriteUint(7)

		msg, err := mb.Message()
		if err != nil {
			t.Fatalf("%q: %v", str, err)
		}
		if msg.Size()%4 != 0 {
			t.Errorf("%q: message size %v is not word-aligned", str, msg.Size())
		}
		if got := msg.ReadString(); got != str {
			t.Errorf("got %q, expected %q", got, str)
		}
		if got := msg.ReadUint(); got != 7 {
			t.Errorf("%q: trailing uint: got %v, expected 7", str, got)
		}
		if err := msg.Err(); err != nil {
			t.Errorf("%q: %v", str, err)
		}
	}
}

func TestUint32Array(t *testing.T) {
	mb := wire.NewMessage(testObject(10), 4)
	mb.WriteArray(wire.Uint32Array(2, 1, 3))
	mb.WriteInt(-5)

	msg, err := mb.Message()
	if err != nil {
		t.Fatal(err)
	}
	vals := wire.Uint32s(msg.ReadArray())
	if !slices.Equal(vals, []uint32{2, 1, 3}) {
		t.Errorf("got %v", vals)
	}
	if v := msg.ReadInt(); v != -5 {
		t.Errorf("got %v, expected -5", v)
	}
}

func TestTruncatedMessage(t *testing.T) {
	msg := wire.NewMessageBuffer(1, 0, []byte{8, 0, 0, 0, 'a', 'b'})
	msg.ReadString()
	if err := msg.Err(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("got %v, expected unexpected EOF", err)
	}
}

func TestPair(t *testing.T) {
	client, server, err := wire.Pair()
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()
	defer server.Close()

	mb := wire.NewMessage(testObject(2), 0)
	mb.WriteNewID(wire.NewID{Interface: "wl_seat", Version: 7, ID: 5})
	if err := mb.Build(client); err != nil {
		t.Fatal(err)
	}

	msg, err := wire.ReadMessage(server)
	if err != nil {
		t.Fatal(err)
	}
	if msg.Sender() != 2 || msg.Op() != 0 {
		t.Fatalf("got sender %v op %v", msg.Sender(), msg.Op())
	}
	id := msg.ReadNewID()
	if id != (wire.NewID{Interface: "wl_seat", Version: 7, ID: 5}) {
		t.Errorf("got %+v", id)
	}
	if err := msg.Err(); err != nil {
		t.Error(err)
	}
}

func TestFixed(t *testing.T) {
	tests := []struct {
		in  float64
		out string
	}{
		{1.5, "1.5"},
		{-2.25, "-2.25"},
		{0, "0"},
	}
	for _, test := range tests {
		if got := wire.FixedFloat(test.in).String(); got != test.out {
			t.Errorf("%v: got %q, expected %q", test.in, got, test.out)
		}
	}
	if wire.FixedInt(3).Int() != 3 {
		t.Error("FixedInt(3).Int() != 3")
	}
}

func TestNativeByteOrder(t *testing.T) {
	got := wire.Uint32Array(0x01020304, 7)
	want := binary.NativeEndian.AppendUint32(binary.NativeEndian.AppendUint32(nil, 0x01020304), 7)
	if !bytes.Equal(got, want) {
		t.Errorf("got %v, expected %v", got, want)
	}

	mb := wire.NewMessage(testObject(0x0A0B0C0D), 3)
	mb.WriteUint(0x01020304)
	msg, err := mb.Message()
	if err != nil {
		t.Fatal(err)
	}
	if v := msg.ReadUint(); v != 0x01020304 {
		t.Errorf("read back %#x", v)
	}
}

func TestErrorMessages(t *testing.T) {
	err := error(wire.UnknownOpError{Interface: "wl_output", Type: "event", Op: 9})
	if got := err.Error(); got != "wl_output: no event with opcode 9" {
		t.Errorf("got %q", got)
	}

	msg := wire.NewMessageBuffer(42, 1, nil)
	err = wire.UnknownSenderIDError{Msg: msg}
	if got := err.Error(); got != "message for unknown object 42 (opcode 1)" {
		t.Errorf("got %q", got)
	}
}
