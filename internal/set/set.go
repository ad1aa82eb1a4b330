package set

type Set[T comparable] map[T]struct{}

func New[T comparable](vals ...T) Set[T] {
	s := make(Set[T], len(vals))
	for _, v := range vals {
		s.Add(v)
	}
	return s
}

func (s Set[T]) Add(v T) {
	s[v] = struct{}{}
}

func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

func (s Set[T]) Delete(v T) {
	delete(s, v)
}

// Ordered is a set that remembers the order in which its elements
// were first added. The zero value is ready to use.
type Ordered[T comparable] struct {
	index map[T]int
	vals  []T
}

// Add appends v if it is not already present and reports whether it
// was added.
func (s *Ordered[T]) Add(v T) bool {
	if s.Has(v) {
		return false
	}
	if s.index == nil {
		s.index = make(map[T]int)
	}
	s.index[v] = len(s.vals)
	s.vals = append(s.vals, v)
	return true
}

func (s *Ordered[T]) Has(v T) bool {
	_, ok := s.index[v]
	return ok
}

// Delete removes v and reports whether it was present.
func (s *Ordered[T]) Delete(v T) bool {
	i, ok := s.index[v]
	if !ok {
		return false
	}

	delete(s.index, v)
	s.vals = append(s.vals[:i], s.vals[i+1:]...)
	for j := i; j < len(s.vals); j++ {
		s.index[s.vals[j]] = j
	}
	return true
}

func (s *Ordered[T]) Len() int {
	return len(s.vals)
}

// Values returns a copy of the elements in insertion order.
func (s *Ordered[T]) Values() []T {
	return append([]T(nil), s.vals...)
}

func (s *Ordered[T]) Clear() {
	clear(s.index)
	s.vals = s.vals[:0]
}
