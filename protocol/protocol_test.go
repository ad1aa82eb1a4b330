package protocol_test

import (
	"strings"
	"testing"

	"deedles.dev/wlpanel/protocol"
)

const sample = `<?xml version="1.0" encoding="UTF-8"?>
<protocol name="sample">
  <copyright>Nobody</copyright>
  <interface name="sample_thing" version="3">
    <description summary="a thing">Does things.</description>
    <request name="destroy" type="destructor"/>
    <request name="poke" since="2">
      <arg name="target" type="object" interface="wl_surface" allow-null="true"/>
    </request>
    <event name="state">
      <arg name="state" type="array" enum="state"/>
    </event>
    <enum name="state" bitfield="true">
      <entry name="on" value="0x1" summary="on"/>
      <entry name="off" value="2" since="3"/>
    </enum>
  </interface>
</protocol>`

func TestDecode(t *testing.T) {
	proto, err := protocol.Decode(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	if proto.Name != "sample" || proto.Copyright != "Nobody" {
		t.Errorf("got name %q, copyright %q", proto.Name, proto.Copyright)
	}

	i, ok := proto.Interface("sample_thing")
	if !ok {
		t.Fatal("interface not found")
	}
	if i.Version != 3 || i.Description.Summary != "a thing" {
		t.Errorf("got %+v", i)
	}
	if len(i.Requests) != 2 || !i.Requests[0].IsDestructor() || i.Requests[1].IsDestructor() {
		t.Fatalf("requests: %+v", i.Requests)
	}
	poke := i.Requests[1]
	if poke.Since != 2 || len(poke.Args) != 1 || !poke.Args[0].AllowNull || poke.Args[0].Interface != "wl_surface" {
		t.Errorf("poke: %+v", poke)
	}
	if len(i.Events) != 1 || i.Events[0].Args[0].Enum != "state" {
		t.Errorf("events: %+v", i.Events)
	}

	if len(i.Enums) != 1 || !i.Enums[0].Bitfield {
		t.Fatalf("enums: %+v", i.Enums)
	}
	for n, want := range []int{1, 2} {
		v, err := i.Enums[0].Entries[n].Int()
		if err != nil || v != want {
			t.Errorf("entry %v: got %v, %v", n, v, err)
		}
	}

	if _, ok := proto.Interface("wl_nothing"); ok {
		t.Error("found an interface that doesn't exist")
	}
}

func TestLoad(t *testing.T) {
	tests := map[string][]string{
		"wayland": {"wl_display", "wl_registry", "wl_callback", "wl_output", "wl_seat", "wl_surface"},
		"wlr-foreign-toplevel-management-unstable-v1": {"zwlr_foreign_toplevel_manager_v1", "zwlr_foreign_toplevel_handle_v1"},
	}
	for name, ifaces := range tests {
		proto, err := protocol.Load(name)
		if err != nil {
			t.Errorf("%v: %v", name, err)
			continue
		}
		for _, iface := range ifaces {
			if _, ok := proto.Interface(iface); !ok {
				t.Errorf("%v: %v not found", name, iface)
			}
		}
	}

	if _, err := protocol.Load("xdg-shell"); err == nil {
		t.Error("loaded a protocol that isn't embedded")
	}
}
