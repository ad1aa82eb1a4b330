package signal_test

import (
	"slices"
	"testing"

	"deedles.dev/wlpanel/internal/signal"
)

func TestEmitOrder(t *testing.T) {
	var s signal.Signal[int]
	var got []string
	s.Connect(func(v int) { got = append(got, "a") })
	cancel := s.Connect(func(v int) { got = append(got, "b") })
	s.Connect(func(v int) { got = append(got, "c") })

	s.Emit(1)
	cancel()
	cancel()
	s.Emit(2)

	if !slices.Equal(got, []string{"a", "b", "c", "a", "c"}) {
		t.Fatalf("got %v", got)
	}
	if s.Len() != 2 {
		t.Fatalf("got %v subscribers", s.Len())
	}
}

func TestCancelDuringEmit(t *testing.T) {
	var s signal.Signal[string]
	var got []string
	var cancelB func()
	s.Connect(func(v string) {
		got = append(got, "a")
		cancelB()
		s.Connect(func(string) { got = append(got, "late") })
	})
	cancelB = s.Connect(func(v string) { got = append(got, "b") })

	s.Emit("x")
	if !slices.Equal(got, []string{"a"}) {
		t.Fatalf("got %v", got)
	}
}
