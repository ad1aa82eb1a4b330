package main

import (
	"cmp"
	"fmt"
	"slices"
	"text/tabwriter"

	wl "deedles.dev/wlpanel/client"
	"github.com/spf13/cobra"
)

func (a *app) globalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "globals",
		Short: "List the globals that the compositor advertises",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			display, err := connect(a.v.GetString("socket"))
			if err != nil {
				return fmt.Errorf("connect to compositor: %w", err)
			}
			defer display.Close()

			registry, err := display.Registry()
			if err != nil {
				return err
			}

			globals := make([]wl.Global, 0, len(registry.Globals()))
			for _, g := range registry.Globals() {
				globals = append(globals, g)
			}
			slices.SortFunc(globals, func(g1, g2 wl.Global) int { return cmp.Compare(g1.Name, g2.Name) })

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tINTERFACE\tVERSION")
			for _, g := range globals {
				fmt.Fprintf(tw, "%v\t%v\t%v\n", g.Name, g.Interface, g.Version)
			}
			return tw.Flush()
		},
	}
}
