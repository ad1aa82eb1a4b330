package main

import (
	"fmt"
	"io"
	"strings"

	wl "deedles.dev/wlpanel/client"
	"deedles.dev/wlpanel/internal/xslices"
	"deedles.dev/wlpanel/toplevel"
	"github.com/spf13/cobra"
)

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print window changes as they happen",
		Long: `watch prints a line for every window that appears, changes or
disappears until it is interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.Close()

			w := watcher{out: cmd.OutOrStdout()}
			for _, t := range s.manager.Toplevels() {
				w.follow(t)
				w.printf("%v: existing %q (%v)", t.ID(), t.Title(), t.AppID())
			}
			defer s.manager.Subscribe(w.managerEvent)()

			return s.dispatch(ctx, func() bool { return false })
		},
	}
}

type watcher struct {
	out io.Writer
}

func (w *watcher) printf(format string, args ...any) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

func (w *watcher) follow(t *toplevel.Toplevel) {
	t.Subscribe(func(ev toplevel.Event) { w.toplevelEvent(t, ev) })
}

func (w *watcher) managerEvent(ev toplevel.ManagerEvent) {
	switch ev := ev.(type) {
	case toplevel.Added:
		w.follow(ev.Toplevel)
		w.printf("%v: added %q (%v)", ev.Toplevel.ID(), ev.Toplevel.Title(), ev.Toplevel.AppID())
	case toplevel.Removed:
		w.printf("%v: removed", ev.Toplevel.ID())
	case toplevel.ActiveChanged:
		if ev.Active == nil {
			w.printf("active: none")
			return
		}
		w.printf("active: %v", ev.Active.ID())
	case toplevel.ShowDesktopChanged:
		w.printf("show desktop: %v", ev.ShowDesktop)
	}
}

func (w *watcher) toplevelEvent(t *toplevel.Toplevel, ev toplevel.Event) {
	switch ev := ev.(type) {
	case toplevel.TitleChanged:
		w.printf("%v: title %q", t.ID(), ev.Title)
	case toplevel.AppIDChanged:
		w.printf("%v: app id %q", t.ID(), ev.AppID)
	case toplevel.StateChanged:
		w.printf("%v: state %v -> %v", t.ID(), ev.Old, ev.New)
	case toplevel.MonitorsChanged:
		names := xslices.Map(ev.Monitors, (*wl.Output).Name)
		w.printf("%v: monitors [%v]", t.ID(), strings.Join(names, ","))
	case toplevel.ParentChanged:
		w.printf("%v: parent %v", t.ID(), ev.ParentID)
	case toplevel.Closed:
		w.printf("%v: closed", t.ID())
	}
}
