// Package wl is a minimal Wayland client. It implements the core
// objects needed to connect to a compositor, discover and bind its
// globals, and keep track of its outputs and seats. Protocol extensions,
// such as the toplevel package, build on top of it.
package wl

//go:generate go run deedles.dev/wlpanel/cmd/wlgen -proto wayland -pkg wl -out protocol_gen.go
