package main

import (
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"

	"deedles.dev/wlpanel/internal/xslices"
	"deedles.dev/wlpanel/protocol"
)

func (ctx Context) funcs() template.FuncMap {
	return template.FuncMap{
		"ident": ctx.ident,
		"camel": ctx.camel,
		"since": ctx.hasSince,
	}
}

// ident converts a protocol interface name into the unexported
// identifier prefix used for its tables.
func (ctx Context) ident(v string) string {
	v = strings.TrimPrefix(v, ctx.Config.Prefix)
	v = strings.TrimSuffix(v, ctx.Config.TrimSuffix)
	return ctx.unexport(ctx.camel(v))
}

func (ctx Context) camel(v string) string {
	var buf strings.Builder
	buf.Grow(len(v))
	shift := true
	for _, c := range v {
		if c == '_' {
			shift = true
			continue
		}

		if shift {
			c = unicode.ToUpper(c)
		}
		buf.WriteRune(c)
		shift = false
	}
	return buf.String()
}

func (ctx Context) unexport(v string) string {
	if len(v) == 0 {
		return ""
	}

	c, size := utf8.DecodeRuneInString(v)
	if unicode.IsLower(c) {
		return v
	}

	var buf strings.Builder
	buf.Grow(len(v))
	buf.WriteRune(unicode.ToLower(c))
	buf.WriteString(v[size:])
	return buf.String()
}

// hasSince reports whether any message of i was added after the first
// version of the interface.
func (ctx Context) hasSince(i protocol.Interface) bool {
	later := func(op protocol.Op) bool { return op.Since > 1 }
	return len(xslices.Filter(i.Requests, later))+len(xslices.Filter(i.Events, later)) > 0
}
