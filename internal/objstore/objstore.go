// Package objstore tracks the objects that live on one side of a
// Wayland connection, keyed by object ID.
package objstore

import "deedles.dev/wlpanel/wire"

type Store struct {
	objects map[uint32]wire.Object
	nextID  uint32
}

// New returns a Store that allocates IDs starting at start. Clients
// allocate from 1 and servers from 0xFF000000.
func New(start uint32) *Store {
	return &Store{
		objects: make(map[uint32]wire.Object),
		nextID:  start,
	}
}

// Add registers obj, allocating a new ID for it if it does not already
// have one.
func (s *Store) Add(obj wire.Object) {
	id := obj.ID()
	if id == 0 {
		id = s.nextID
		obj.SetID(id)
		s.nextID++
	}

	s.objects[id] = obj
}

// Set registers obj under an ID chosen by the other side of the
// connection.
func (s *Store) Set(id uint32, obj wire.Object) {
	obj.SetID(id)
	s.objects[id] = obj
}

func (s *Store) Get(id uint32) wire.Object {
	return s.objects[id]
}

func (s *Store) Delete(id uint32) {
	obj := s.objects[id]
	delete(s.objects, id)
	if obj != nil {
		obj.Delete()
	}
}

func (s *Store) Len() int {
	return len(s.objects)
}

// Dispatch hands msg to the object that it was sent to.
func (s *Store) Dispatch(msg *wire.MessageBuffer) error {
	obj := s.objects[msg.Sender()]
	if obj == nil {
		return wire.UnknownSenderIDError{Msg: msg}
	}
	return obj.Dispatch(msg)
}
