// Package signal implements a simple multi-subscriber notification
// list. It is not safe for concurrent use; like everything else that
// hangs off of a display, it is only touched from the dispatching
// goroutine.
package signal

type sub[T any] struct {
	id uint64
	f  func(T)
}

// Signal delivers values to subscribers in the order in which they
// subscribed. The zero value is ready to use.
type Signal[T any] struct {
	next uint64
	subs []sub[T]
}

// Connect adds f to the list of subscribers. The returned function
// removes it again and may be called any number of times, including
// from inside of f.
func (s *Signal[T]) Connect(f func(T)) (cancel func()) {
	s.next++
	id := s.next
	s.subs = append(s.subs, sub[T]{id: id, f: f})

	return func() { s.disconnect(id) }
}

func (s *Signal[T]) disconnect(id uint64) {
	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			return
		}
	}
}

// Emit calls every subscriber with v. Subscribers that are removed
// while v is being delivered and have not yet been called are skipped.
// Subscribers added during delivery do not see v.
func (s *Signal[T]) Emit(v T) {
	subs := s.subs
	for _, sub := range subs {
		if !s.connected(sub.id) {
			continue
		}
		sub.f(v)
	}
}

func (s *Signal[T]) connected(id uint64) bool {
	for _, sub := range s.subs {
		if sub.id == id {
			return true
		}
	}
	return false
}

// Len returns the number of subscribers.
func (s *Signal[T]) Len() int {
	return len(s.subs)
}

// Reset removes every subscriber.
func (s *Signal[T]) Reset() {
	s.subs = nil
}
