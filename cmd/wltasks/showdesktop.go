package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func (a *app) showDesktopCmd() *cobra.Command {
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "show-desktop",
		Short: "Minimize every window, then restore them",
		Long: `show-desktop minimizes every window that isn't already minimized.
When it is interrupted, or once --duration has passed, it restores those
windows and reactivates the one that was active beforehand.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.Close()

			m := s.manager
			m.SetShowDesktop(true)
			if !m.ShowDesktop() {
				fmt.Fprintln(cmd.OutOrStdout(), "no windows to minimize")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "showing desktop")

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			if duration > 0 {
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}

			restored := func() bool { return !m.ShowDesktop() }
			if err := s.dispatch(ctx, restored); err != nil {
				return err
			}
			if !m.ShowDesktop() {
				fmt.Fprintln(cmd.OutOrStdout(), "every window was closed")
				return nil
			}

			m.SetShowDesktop(false)

			timeout := a.v.GetDuration("timeout")
			ctx, cancel = context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			if err := s.dispatch(ctx, restored); err != nil {
				return err
			}
			if m.ShowDesktop() {
				return fmt.Errorf("windows were not restored within %v", timeout)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "restored")
			return nil
		},
	}

	cmd.Flags().DurationVar(&duration, "duration", 0, "how long to show the desktop for (default is until interrupted)")

	return cmd
}
