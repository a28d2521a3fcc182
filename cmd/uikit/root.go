package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/uikit/internal/config"
	uidbus "github.com/jmylchreest/uikit/internal/dbus"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// callTimeout bounds every one-shot D-Bus call made by the CLI.
const callTimeout = 5 * time.Second

// errNotConfirmed makes the process exit 1 without printing anything.
var errNotConfirmed = errors.New("not confirmed")

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose    bool
		configPath string
		stateFile  string
	}
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "uikit",
	Short: "Toasts and dialogs for the desktop session",
	Long: `uikit keeps a stack of toast notifications and modal dialogs for a
desktop session and renders them in the terminal.

Other programs drive it over D-Bus (io.github.jmylchreest.UIKit) or through
the send, alert and confirm subcommands. It can also take over
org.freedesktop.Notifications so notify-send messages become toasts.

Running uikit without a subcommand starts a session with the TUI.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		var err error
		cfg, err = config.LoadConfig(configPath())
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
	RunE: runSession,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errNotConfirmed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/uikit/config.toml)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.stateFile, "state-file", "",
		"Path to state file (default: ~/.local/share/uikit/state.json)")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

func configPath() string {
	if globalOpts.configPath != "" {
		return globalOpts.configPath
	}
	return config.ConfigPath()
}

func statePath() string {
	if globalOpts.stateFile != "" {
		return globalOpts.stateFile
	}
	return config.StatePath()
}

// withClient connects to the running session and calls fn with a
// bounded context.
func withClient(parent context.Context, fn func(ctx context.Context, c *uidbus.Client) error) error {
	ctx, cancel := context.WithTimeout(parent, callTimeout)
	defer cancel()

	c, err := uidbus.Connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	return fn(ctx, c)
}
