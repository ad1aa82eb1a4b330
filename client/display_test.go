package wl_test

import (
	"context"
	"errors"
	"testing"
	"time"

	wl "deedles.dev/wlpanel/client"
	"deedles.dev/wlpanel/internal/wltest"
)

func TestSync(t *testing.T) {
	c := wltest.New(t)
	display := c.Display()

	var serials []uint32
	display.Sync(func(serial uint32) { serials = append(serials, serial) })
	display.Sync(func(serial uint32) { serials = append(serials, serial) })
	roundTrip(t, display)

	if len(serials) != 2 || serials[0] >= serials[1] {
		t.Errorf("got %v", serials)
	}
}

func TestNestedRoundTripOrder(t *testing.T) {
	c := wltest.New(t)
	display, registry := registry(t, c)

	var order []string
	registry.OnGlobal(func(g wl.Global) {
		order = append(order, g.Interface)
		if g.Interface == "first" {
			if err := display.RoundTrip(); err != nil {
				t.Error(err)
			}
			order = append(order, "nested done")
		}
	})

	c.AddGlobal("first", 1)
	c.AddGlobal("second", 1)
	c.AddGlobal("third", 1)
	roundTrip(t, display)

	expected := []string{"first", "second", "third", "nested done"}
	if len(order) != len(expected) {
		t.Fatalf("got %v", order)
	}
	for i := range order {
		if order[i] != expected[i] {
			t.Fatalf("got %v", order)
		}
	}
}

func TestDisplayError(t *testing.T) {
	c := wltest.New(t)
	display := c.Display()

	var reported []wl.DisplayError
	display.Error = func(err wl.DisplayError) { reported = append(reported, err) }

	c.PostError(3, "something broke")
	err := display.RoundTrip()

	var derr wl.DisplayError
	if !errors.As(err, &derr) {
		t.Fatalf("got %v", err)
	}
	if derr.ObjectID != 1 || derr.Code != 3 || derr.Message != "something broke" {
		t.Errorf("got %+v", derr)
	}
	if len(reported) != 1 || reported[0] != derr {
		t.Errorf("reported: %v", reported)
	}

	if err := display.RoundTrip(); !errors.As(err, &derr) {
		t.Errorf("second round trip: %v", err)
	}
	if !errors.As(display.Err(), &derr) {
		t.Errorf("Err: %v", display.Err())
	}
}

func TestConnectionLost(t *testing.T) {
	c := wltest.New(t)
	display := c.Display()
	roundTrip(t, display)

	c.Disconnect()

	done := make(chan error, 1)
	go func() { done <- display.RoundTrip() }()

	select {
	case err := <-done:
		if err == nil {
			t.Error("round trip succeeded without a compositor")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("round trip hung after the connection was lost")
	}
	if display.Err() == nil {
		t.Error("no fatal error recorded")
	}
}

func TestDispatchContext(t *testing.T) {
	c := wltest.New(t)
	display := c.Display()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := display.Dispatch(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("got %v", err)
	}
}

func TestDispatch(t *testing.T) {
	c := wltest.New(t)
	display, registry := registry(t, c)

	var added []string
	registry.OnGlobal(func(g wl.Global) { added = append(added, g.Interface) })
	c.AddGlobal("late", 1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for len(added) == 0 {
		if err := display.Dispatch(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if added[0] != "late" {
		t.Errorf("got %v", added)
	}
}

func TestSurface(t *testing.T) {
	c := wltest.New(t)
	display := c.Display()

	compositor := wl.BindCompositor(display)
	if compositor == nil {
		t.Fatal("no compositor")
	}
	roundTrip(t, display)
	before := c.Objects()

	surface := compositor.CreateSurface()
	surface.Commit()
	roundTrip(t, display)
	if got := c.Objects(); got != before+1 {
		t.Errorf("%v objects after creating a surface, expected %v", got, before+1)
	}

	surface.Destroy()
	roundTrip(t, display)
	if got := c.Objects(); got != before {
		t.Errorf("%v objects after destroying a surface, expected %v", got, before)
	}
}
