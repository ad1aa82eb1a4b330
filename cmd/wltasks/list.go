package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	wl "deedles.dev/wlpanel/client"
	"deedles.dev/wlpanel/internal/xslices"
	"deedles.dev/wlpanel/toplevel"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type window struct {
	ID       uint32   `yaml:"id"`
	AppID    string   `yaml:"app_id"`
	Title    string   `yaml:"title"`
	State    []string `yaml:"state,flow"`
	Monitors []string `yaml:"monitors,flow"`
	Parent   uint32   `yaml:"parent,omitempty"`
	Active   bool     `yaml:"active,omitempty"`
}

func describe(m *toplevel.Manager, t *toplevel.Toplevel) window {
	w := window{
		ID:       t.ID(),
		AppID:    t.AppID(),
		Title:    t.Title(),
		State:    stateNames(t.State()),
		Monitors: xslices.Map(t.Monitors(), (*wl.Output).Name),
		Active:   m.Active() == t,
	}
	if p := t.Parent(); p != nil {
		w.Parent = p.ID()
	}
	return w
}

func stateNames(s toplevel.State) []string {
	if s == 0 {
		return []string{}
	}
	return strings.Split(s.String(), "|")
}

func (a *app) listCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the current windows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.Close()

			var windows []window
			for _, t := range s.manager.Toplevels() {
				windows = append(windows, describe(s.manager, t))
			}

			switch format {
			case "text":
				return writeTable(cmd.OutOrStdout(), windows)
			case "yaml":
				return writeYAML(cmd.OutOrStdout(), windows)
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, yaml)")

	return cmd
}

func writeTable(w io.Writer, windows []window) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tAPP ID\tTITLE\tSTATE\tMONITORS\tPARENT")
	for _, win := range windows {
		id := fmt.Sprint(win.ID)
		if win.Active {
			id += "*"
		}
		state := strings.Join(win.State, ",")
		if state == "" {
			state = "normal"
		}
		parent := "-"
		if win.Parent != 0 {
			parent = fmt.Sprint(win.Parent)
		}
		fmt.Fprintf(tw, "%v\t%v\t%v\t%v\t%v\t%v\n",
			id,
			win.AppID,
			win.Title,
			state,
			strings.Join(win.Monitors, ","),
			parent,
		)
	}
	return tw.Flush()
}

func writeYAML(w io.Writer, windows []window) error {
	if windows == nil {
		windows = []window{}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(windows); err != nil {
		return fmt.Errorf("encode windows: %w", err)
	}
	return enc.Close()
}
