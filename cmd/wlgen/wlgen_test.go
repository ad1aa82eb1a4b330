package main

import (
	"strings"
	"testing"
	"text/template"

	"deedles.dev/wlpanel/protocol"
)

func TestIdent(t *testing.T) {
	ctx := Context{Config: Config{Prefix: "zwlr_foreign_toplevel_", TrimSuffix: "_v1"}}
	tests := map[string]string{
		"zwlr_foreign_toplevel_manager_v1": "manager",
		"zwlr_foreign_toplevel_handle_v1":  "handle",
	}
	for in, out := range tests {
		if got := ctx.ident(in); got != out {
			t.Errorf("%q: got %q, expected %q", in, got, out)
		}
	}
	if got := ctx.camel("set_fullscreen"); got != "SetFullscreen" {
		t.Errorf("got %q", got)
	}
}

func TestGenerate(t *testing.T) {
	proto, err := protocol.Load("wlr-foreign-toplevel-management-unstable-v1")
	if err != nil {
		t.Fatal(err)
	}

	ctx := Context{
		Config: Config{
			Package:    "toplevel",
			Prefix:     "zwlr_foreign_toplevel_",
			TrimSuffix: "_v1",
			Source:     "test",
		},
		Protocol: proto,
	}
	ctx.T = template.Must(template.New("wlgen").Funcs(ctx.funcs()).Parse(fileTemplate))

	src, err := ctx.generate()
	if err != nil {
		t.Fatalf("%v\n%s", err, src)
	}
	out := strings.Join(strings.Fields(string(src)), " ")
	for _, want := range []string{
		"package toplevel",
		"handleSetFullscreenRequest = 8",
		"handleParentEvent = 7",
		"handleParentSince = 3",
		"handleStateActivated = 2",
		`managerInterface = "zwlr_foreign_toplevel_manager_v1"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output is missing %q", want)
		}
	}
}
