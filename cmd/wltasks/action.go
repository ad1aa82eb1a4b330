package main

import (
	"errors"
	"fmt"

	wl "deedles.dev/wlpanel/client"
	"deedles.dev/wlpanel/toplevel"
	"github.com/spf13/cobra"
)

type action struct {
	name  string
	short string
	do    func(s *session, t *toplevel.Toplevel)
}

var actions = []action{
	{
		name:  "activate",
		short: "Focus the matching windows",
		do:    func(s *session, t *toplevel.Toplevel) { t.Activate(s.manager.Seat()) },
	},
	{
		name:  "close",
		short: "Ask the matching windows to close",
		do:    func(s *session, t *toplevel.Toplevel) { t.Close() },
	},
	{
		name:  "minimize",
		short: "Minimize the matching windows",
		do:    func(s *session, t *toplevel.Toplevel) { t.Minimize() },
	},
	{
		name:  "unminimize",
		short: "Restore the matching windows",
		do:    func(s *session, t *toplevel.Toplevel) { t.Unminimize() },
	},
	{
		name:  "maximize",
		short: "Maximize the matching windows",
		do:    func(s *session, t *toplevel.Toplevel) { t.Maximize() },
	},
	{
		name:  "unmaximize",
		short: "Unmaximize the matching windows",
		do:    func(s *session, t *toplevel.Toplevel) { t.Unmaximize() },
	},
	{
		name:  "fullscreen",
		short: "Make the matching windows fullscreen",
		do:    func(s *session, t *toplevel.Toplevel) { t.Fullscreen(s.output) },
	},
	{
		name:  "unfullscreen",
		short: "Take the matching windows out of fullscreen",
		do:    func(s *session, t *toplevel.Toplevel) { t.Unfullscreen() },
	},
}

var errNoMatch = errors.New("no matching windows")

func (a *app) actionCmd(action action) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   action.name + " <id|app-id|title>",
		Short: action.short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.Close()

			if output != "" {
				s.output, err = findOutput(s.display, output)
				if err != nil {
					return err
				}
			}

			matches := match(s.manager, args[0])
			if len(matches) == 0 {
				return fmt.Errorf("%v: %w", args[0], errNoMatch)
			}
			for _, t := range matches {
				logger.Info().Uint32("id", t.ID()).Str("title", t.Title()).Msg(action.name)
				action.do(s, t)
			}

			return s.display.RoundTrip()
		},
	}

	if action.name == "fullscreen" {
		cmd.Flags().StringVarP(&output, "output", "o", "", "name of the output to go fullscreen on")
	}

	return cmd
}

func findOutput(display *wl.Display, name string) (*wl.Output, error) {
	outputs, err := display.Outputs()
	if err != nil {
		return nil, fmt.Errorf("list outputs: %w", err)
	}
	for _, out := range outputs.List() {
		if out.Name() == name {
			return out, nil
		}
	}
	return nil, fmt.Errorf("no output named %q", name)
}
