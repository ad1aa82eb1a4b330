// Command wlgen generates interface, opcode and enum tables from a
// Wayland protocol specification. The hand-written object glue in the
// client and toplevel packages is built on top of its output.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/format"
	"log"
	"os"
	"text/template"

	"deedles.dev/wlpanel/protocol"
)

type Config struct {
	Package    string
	Prefix     string
	TrimSuffix string
	Source     string
}

type Context struct {
	Config   Config
	Protocol protocol.Protocol
	T        *template.Template
}

func loadProtocol(name, path string) (protocol.Protocol, error) {
	if path == "" {
		return protocol.Load(name)
	}

	file, err := os.Open(path)
	if err != nil {
		return protocol.Protocol{}, err
	}
	defer file.Close()

	return protocol.Decode(file)
}

func (ctx Context) generate() ([]byte, error) {
	var buf bytes.Buffer
	err := ctx.T.ExecuteTemplate(&buf, "file", ctx)
	if err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return buf.Bytes(), fmt.Errorf("format output: %w", err)
	}
	return src, nil
}

func main() {
	name := flag.String("proto", "", "name of an embedded protocol")
	xmlfile := flag.String("xml", "", "protocol XML file (overrides -proto)")
	out := flag.String("out", "", "output file (default stdout)")
	pkg := flag.String("pkg", "wl", "output package name")
	prefix := flag.String("prefix", "wl_", "interface prefix name to strip")
	suffix := flag.String("trim-suffix", "", "interface suffix to strip")
	flag.Parse()

	proto, err := loadProtocol(*name, *xmlfile)
	if err != nil {
		log.Fatalf("load protocol: %v", err)
	}

	source := *xmlfile
	if source == "" {
		source = *name
	}
	ctx := Context{
		Config: Config{
			Package:    *pkg,
			Prefix:     *prefix,
			TrimSuffix: *suffix,
			Source:     source,
		},
		Protocol: proto,
	}
	ctx.T = template.Must(template.New("wlgen").Funcs(ctx.funcs()).Parse(fileTemplate))

	src, err := ctx.generate()
	if err != nil {
		log.Fatalf("generate: %v", err)
	}

	if *out == "" {
		os.Stdout.Write(src)
		return
	}
	err = os.WriteFile(*out, src, 0644)
	if err != nil {
		log.Fatalf("write output: %v", err)
	}
}

const fileTemplate = `{{define "file" -}}
// Code generated by wlgen from {{.Config.Source}}. DO NOT EDIT.

package {{.Config.Package}}
{{range .Protocol.Interfaces}}{{template "interface" .}}{{end}}
{{- end}}

{{define "interface"}}{{$i := ident .Name}}
const (
	{{$i}}Interface = {{printf "%q" .Name}}
	{{$i}}Version = {{.Version}}
)
{{if .Requests}}
const (
{{- range $op, $r := .Requests}}
	{{$i}}{{camel $r.Name}}Request = {{$op}}
{{- end}}
)
{{end}}{{if .Events}}
const (
{{- range $op, $e := .Events}}
	{{$i}}{{camel $e.Name}}Event = {{$op}}
{{- end}}
)
{{end}}{{if since .}}
const (
{{- range .Requests}}{{if gt .Since 1}}
	{{$i}}{{camel .Name}}Since = {{.Since}}
{{- end}}{{end}}
{{- range .Events}}{{if gt .Since 1}}
	{{$i}}{{camel .Name}}Since = {{.Since}}
{{- end}}{{end}}
)
{{end}}{{range .Enums}}{{$e := camel .Name}}
const (
{{- range .Entries}}
	{{$i}}{{$e}}{{camel .Name}} = {{.Value}}
{{- end}}
)
{{end}}
var {{$i}}Requests = [...]string{ {{- range .Requests}}{{printf "%q" .Name}}, {{end -}} }

var {{$i}}Events = [...]string{ {{- range .Events}}{{printf "%q" .Name}}, {{end -}} }
{{end}}`
