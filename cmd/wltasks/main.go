// Command wltasks lists and controls the windows of a Wayland
// compositor that supports the wlr foreign toplevel management
// protocol.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	wl "deedles.dev/wlpanel/client"
	"deedles.dev/wlpanel/internal/debug"
	"deedles.dev/wlpanel/toplevel"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// connect opens the display connection used by every command.
var connect = func(socket string) (*wl.Display, error) {
	if socket == "" {
		return wl.DialDisplay()
	}
	return wl.DialDisplaySocket(socket)
}

var logger = zerolog.Nop()

type app struct {
	v       *viper.Viper
	cfgFile string
}

func newRootCmd() *cobra.Command {
	a := app{v: viper.New()}

	root := &cobra.Command{
		Use:   "wltasks",
		Short: "List and control the windows of a Wayland compositor",
		Long: `wltasks talks to any compositor that implements the
wlr-foreign-toplevel-management protocol, such as sway, labwc, Wayfire or
Hyprland. It can list windows, watch them change, send them window
management requests, and show the desktop.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/wltasks/config.yaml)")
	flags.String("socket", "", "Wayland socket to connect to (default is $WAYLAND_DISPLAY)")
	flags.String("log-level", "warn", "log level (trace, debug, info, warn, error)")
	flags.Bool("pretty", true, "human-readable log output")
	flags.Duration("timeout", 5*time.Second, "how long to wait for the compositor to confirm changes")

	a.v.BindPFlag("socket", flags.Lookup("socket"))
	a.v.BindPFlag("log_level", flags.Lookup("log-level"))
	a.v.BindPFlag("pretty", flags.Lookup("pretty"))
	a.v.BindPFlag("timeout", flags.Lookup("timeout"))

	root.AddCommand(
		a.listCmd(),
		a.watchCmd(),
		a.showDesktopCmd(),
		a.globalsCmd(),
	)
	for _, action := range actions {
		root.AddCommand(a.actionCmd(action))
	}

	return root
}

func (a *app) init() error {
	a.v.SetEnvPrefix("WLTASKS")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			a.v.AddConfigPath(filepath.Join(dir, "wltasks"))
		}
	}

	err := a.v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	initLogger(a.v.GetString("log_level"), a.v.GetBool("pretty"))
	if used := a.v.ConfigFileUsed(); used != "" {
		logger.Debug().Str("path", used).Msg("loaded config")
	}
	return nil
}

func initLogger(level string, pretty bool) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.WarnLevel
	}

	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	if pretty {
		logger = zerolog.New(w)
	} else {
		logger = zerolog.New(os.Stderr)
	}
	logger = logger.Level(lvl).With().Timestamp().Logger()

	if lvl <= zerolog.TraceLevel {
		debug.SetLogger(logger.With().Str("component", "wayland").Logger().Level(zerolog.DebugLevel))
	}
}

// session is an open connection with the toplevel manager bound.
type session struct {
	display *wl.Display
	manager *toplevel.Manager

	// output is the output to fullscreen windows on, if any.
	output *wl.Output
}

func (a *app) open() (*session, error) {
	display, err := connect(a.v.GetString("socket"))
	if err != nil {
		return nil, fmt.Errorf("connect to compositor: %w", err)
	}
	display.Error = func(err wl.DisplayError) {
		logger.Error().Err(err).Msg("protocol error")
	}

	m := toplevel.Get(display)
	if m == nil {
		display.Close()
		return nil, errors.New("compositor does not support toplevel management")
	}
	logger.Debug().Uint32("version", m.Version()).Int("toplevels", len(m.Toplevels())).Msg("bound toplevel manager")

	return &session{display: display, manager: m}, nil
}

// Close releases the manager, waits for the compositor to confirm, and
// disconnects.
func (s *session) Close() error {
	s.manager.Release()
	if err := s.display.RoundTrip(); err != nil {
		logger.Warn().Err(err).Msg("release toplevel manager")
	}
	return s.display.Close()
}

// dispatch processes events until ctx is done or stop returns true.
func (s *session) dispatch(ctx context.Context, stop func() bool) error {
	for !stop() {
		err := s.display.Dispatch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
	return nil
}

func signalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
