package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	uidbus "github.com/jmylchreest/uikit/internal/dbus"
	"github.com/jmylchreest/uikit/internal/model"
)

var sendOpts struct {
	typ         string
	description string
	duration    time.Duration
}

var sendCmd = &cobra.Command{
	Use:   "send MESSAGE",
	Short: "Show a toast in the running session",
	Long: `Show a toast in the running session and print its id.

Examples:
  uikit send "Build finished" --type success
  uikit send "Disk almost full" --type warning --description "/home at 95%"
  uikit send "Pinned" --duration 0`,
	Args: cobra.ExactArgs(1),
	RunE: runSend,
}

var dismissCmd = &cobra.Command{
	Use:   "dismiss ID...",
	Short: "Remove toasts or dismiss dialogs by id",
	Long: `Remove toasts or dismiss dialogs by id. Each id is tried as a toast
first, then as a dialog.

Example:
  uikit status --format ids | xargs uikit dismiss`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDismiss,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(dismissCmd)

	sendCmd.Flags().StringVarP(&sendOpts.typ, "type", "t", string(model.TypeInfo),
		"Toast type (success, error, warning, info)")
	sendCmd.Flags().StringVarP(&sendOpts.description, "description", "d", "",
		"Secondary text")
	sendCmd.Flags().DurationVar(&sendOpts.duration, "duration", -1,
		"How long the toast stays (0 = until dismissed, default: configured)")
}

func runSend(cmd *cobra.Command, args []string) error {
	typ, err := model.ParseNotificationType(sendOpts.typ)
	if err != nil {
		return err
	}

	return withClient(runContext(cmd), func(ctx context.Context, c *uidbus.Client) error {
		id, err := c.Notify(ctx, string(typ), args[0], sendOpts.description, durationMillis(sendOpts.duration))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	})
}

// durationMillis converts the flag value for the wire. Negative means
// "use the configured default".
func durationMillis(d time.Duration) int32 {
	if d < 0 {
		return -1
	}
	return int32(min(d.Milliseconds(), int64(1<<31-1)))
}

func runDismiss(cmd *cobra.Command, args []string) error {
	return withClient(runContext(cmd), func(ctx context.Context, c *uidbus.Client) error {
		var missing []string
		for _, id := range args {
			removed, err := c.RemoveNotification(ctx, id)
			if err != nil {
				return err
			}
			if removed {
				continue
			}
			dismissed, err := c.Dismiss(ctx, id)
			if err != nil {
				return err
			}
			if !dismissed {
				missing = append(missing, id)
			}
		}
		if len(missing) > 0 {
			return fmt.Errorf("not found: %v", missing)
		}
		return nil
	})
}
