package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/spf13/cobra"

	uidbus "github.com/jmylchreest/uikit/internal/dbus"
	"github.com/jmylchreest/uikit/internal/storage"
	"github.com/jmylchreest/uikit/internal/theme"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Show or change the persisted theme",
	Long: `Show or change the persisted theme.

The choice is stored in the state file and, when a session is running,
applied to it immediately.`,
}

var themeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available themes, marking the current one",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, done := localThemes(runContext(cmd))
		defer done()

		current := svc.Load(runContext(cmd))
		for _, name := range theme.Themes {
			marker := "  "
			if name == current {
				marker = "* "
			}
			fmt.Fprintln(cmd.OutOrStdout(), marker+name)
		}
		return nil
	},
}

var themeGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the current theme",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, done := localThemes(runContext(cmd))
		defer done()

		fmt.Fprintln(cmd.OutOrStdout(), svc.Load(runContext(cmd)))
		return nil
	},
}

var themeSetCmd = &cobra.Command{
	Use:   "set NAME",
	Short: "Persist a theme and apply it to the running session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, done := localThemes(runContext(cmd))
		defer done()

		if err := svc.Set(args[0]); err != nil {
			return err
		}
		applyLive(runContext(cmd), svc.Current())
		return nil
	},
}

var themeResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the persisted theme and follow the default again",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, done := localThemes(runContext(cmd))
		defer done()

		if err := svc.Reset(runContext(cmd)); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), svc.Current())
		applyLive(runContext(cmd), svc.Current())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(themeCmd)
	themeCmd.AddCommand(themeListCmd, themeGetCmd, themeSetCmd, themeResetCmd)
}

// localThemes builds a theme service over the state file. The desktop
// portal is consulted when the session bus is reachable.
func localThemes(ctx context.Context) (*theme.Service, func()) {
	var pref theme.PreferenceSource = theme.StaticPreference(false)
	done := func() {}
	if conn, err := dbus.ConnectSessionBus(dbus.WithContext(ctx)); err == nil {
		pref = uidbus.NewPortalPreference(conn)
		done = func() { _ = conn.Close() }
	} else {
		logger.Debug("session bus unavailable, assuming light preference", "error", err)
	}

	svc := theme.NewService(storage.NewFile(statePath()), pref, logger)
	svc.SetFallback(cfg.Theme.Default)
	return svc, done
}

// applyLive pushes name to a running session, if there is one. The state
// file is already written, so failures are only logged.
func applyLive(parent context.Context, name string) {
	err := withClient(parent, func(ctx context.Context, c *uidbus.Client) error {
		return c.SetTheme(ctx, name)
	})
	if err != nil && !errors.Is(err, uidbus.ErrNoSession) {
		logger.Warn("could not apply theme to running session", "error", err)
	}
}
