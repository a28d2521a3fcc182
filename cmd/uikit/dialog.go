package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	uidbus "github.com/jmylchreest/uikit/internal/dbus"
)

var dialogOpts struct {
	title   string
	timeout time.Duration
}

var alertCmd = &cobra.Command{
	Use:   "alert MESSAGE",
	Short: "Show an alert and wait until it is acknowledged",
	Args:  cobra.ExactArgs(1),
	RunE:  runDialog,
}

var confirmCmd = &cobra.Command{
	Use:   "confirm MESSAGE",
	Short: "Ask a yes/no question; exit status 1 unless confirmed",
	Long: `Ask a yes/no question in the running session and wait for the answer.

The exit status is 0 when confirmed and 1 when cancelled, dismissed,
rejected or timed out, so it composes with shell conditionals:

  uikit confirm "Reboot now?" --title Updates && systemctl reboot`,
	Args: cobra.ExactArgs(1),
	RunE: runDialog,
}

func init() {
	rootCmd.AddCommand(alertCmd)
	rootCmd.AddCommand(confirmCmd)

	for _, cmd := range []*cobra.Command{alertCmd, confirmCmd} {
		cmd.Flags().StringVar(&dialogOpts.title, "title", "",
			"Dialog title")
		cmd.Flags().DurationVar(&dialogOpts.timeout, "timeout", 0,
			"Give up and dismiss the dialog after this long (0 = wait forever)")
	}
}

func runDialog(cmd *cobra.Command, args []string) error {
	ctx := runContext(cmd)
	if dialogOpts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, dialogOpts.timeout)
		defer cancel()
	}

	c, err := uidbus.Connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	var res uidbus.DialogResult
	if cmd == alertCmd {
		res, err = c.Alert(ctx, dialogOpts.title, args[0])
	} else {
		res, err = c.Confirm(ctx, dialogOpts.title, args[0])
	}
	if errors.Is(err, context.DeadlineExceeded) {
		logger.Debug("dialog timed out", "timeout", dialogOpts.timeout)
		return errNotConfirmed
	}
	if err != nil {
		return err
	}

	logger.Debug("dialog closed", "id", res.ID, "outcome", res.Outcome)
	if cmd == confirmCmd && !res.Confirmed {
		return errNotConfirmed
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Outcome)
	return nil
}
