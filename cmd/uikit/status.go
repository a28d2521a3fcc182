package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/uikit/internal/core"
	uidbus "github.com/jmylchreest/uikit/internal/dbus"
	"github.com/jmylchreest/uikit/internal/output"
)

var statusOpts struct {
	format   string
	template string
	noTime   bool
	filter   string
	sort     string
	order    string
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the running session's toasts and dialogs",
	Long: `Print the running session's toasts and dialogs.

Formats:
  plain  one line per toast and dialog, with age and time left
  json   the full snapshot
  yaml   the full snapshot
  ids    toast ids then dialog ids, one per line

--template applies a text/template to each toast in plain format, with
.Index, .Notification and .RelativeTime plus the truncate, flatten,
typeIcon and reltime functions:

  uikit status --template '{{typeIcon .Notification.Type}} {{.Notification.Message}}{{"\n"}}'

--filter selects toasts with comma-separated conditions (all must match):

  type=error           exact type
  message~disk         message contains, case-insensitive
  description~=^/home  regex
  age<5m               added in the last five minutes (s, m, h, d)
  sticky=true          toasts that never expire
  dismissible=false    toasts without a close button

Dialogs are always listed.`,
	RunE: runStatus,
}

var clearOpts struct {
	notifications bool
	dialogs       bool
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear toasts and/or dialogs in the running session",
	Long: `Clear toasts and/or dialogs in the running session. Without flags
both are cleared. Cleared dialogs are rejected, so waiting callers
(uikit confirm) exit with status 1.`,
	RunE: runClear,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(clearCmd)

	statusCmd.Flags().StringVarP(&statusOpts.format, "format", "f", string(output.FormatPlain),
		"Output format (plain, json, yaml, ids)")
	statusCmd.Flags().StringVar(&statusOpts.template, "template", "",
		"Go template for each toast (plain format)")
	statusCmd.Flags().BoolVar(&statusOpts.noTime, "no-time", false,
		"Omit ages and time left (plain format)")
	statusCmd.Flags().StringVar(&statusOpts.filter, "filter", "",
		"Filter toasts (e.g. 'type=error,age<5m')")
	statusCmd.Flags().StringVar(&statusOpts.sort, "sort", string(core.SortByCreated),
		"Sort toasts by created or type")
	statusCmd.Flags().StringVar(&statusOpts.order, "order", string(core.SortAsc),
		"Sort order (asc, desc)")

	clearCmd.Flags().BoolVar(&clearOpts.notifications, "notifications", false,
		"Clear toasts")
	clearCmd.Flags().BoolVar(&clearOpts.dialogs, "dialogs", false,
		"Clear dialogs")
}

func runStatus(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(statusOpts.format)
	if err != nil {
		return err
	}
	opts := output.DefaultFormatterOptions()
	opts.Template = statusOpts.template
	opts.ShowTime = !statusOpts.noTime

	formatter, err := output.NewFormatter(format, opts)
	if err != nil {
		return err
	}

	filter, err := core.ParseFilter(statusOpts.filter)
	if err != nil {
		return err
	}
	var sortOpts core.SortOptions
	if sortOpts.Field, err = core.ParseSortField(statusOpts.sort); err != nil {
		return err
	}
	if sortOpts.Order, err = core.ParseSortOrder(statusOpts.order); err != nil {
		return err
	}

	return withClient(runContext(cmd), func(ctx context.Context, c *uidbus.Client) error {
		state, err := c.State(ctx)
		if err != nil {
			return err
		}
		state.Notifications = core.FilterWithExpr(state.Notifications, filter)
		core.Sort(state.Notifications, sortOpts)
		return formatter.Format(cmd.OutOrStdout(), state)
	})
}

func runClear(cmd *cobra.Command, args []string) error {
	both := !clearOpts.notifications && !clearOpts.dialogs

	return withClient(runContext(cmd), func(ctx context.Context, c *uidbus.Client) error {
		if both || clearOpts.notifications {
			if err := c.ClearNotifications(ctx); err != nil {
				return err
			}
		}
		if both || clearOpts.dialogs {
			if err := c.ClearDialogs(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}
