package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/godbus/dbus/v5"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/uikit/internal/audio"
	"github.com/jmylchreest/uikit/internal/config"
	uidbus "github.com/jmylchreest/uikit/internal/dbus"
	"github.com/jmylchreest/uikit/internal/session"
	"github.com/jmylchreest/uikit/internal/storage"
	"github.com/jmylchreest/uikit/internal/theme"
	"github.com/jmylchreest/uikit/internal/tui"
)

var runOpts struct {
	headless bool
	noDBus   bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start a session",
	Long: `Start a session: the toast and dialog managers, the D-Bus service,
the config file watcher and optional sounds.

With --headless no TUI is drawn and the session runs until SIGINT or
SIGTERM, which is useful when another renderer reads the state over D-Bus.`,
	RunE: runSession,
}

func init() {
	rootCmd.AddCommand(runCmd)

	for _, cmd := range []*cobra.Command{rootCmd, runCmd} {
		cmd.Flags().BoolVar(&runOpts.headless, "headless", false,
			"Run without the TUI until interrupted")
		cmd.Flags().BoolVar(&runOpts.noDBus, "no-dbus", false,
			"Do not connect to the session bus")
	}
}

// runSession wires every component around one session and blocks until
// the TUI quits or the process is signalled.
func runSession(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(runContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.EnsureDataDir(); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	var (
		conn *dbus.Conn
		pref theme.PreferenceSource
	)
	if !runOpts.noDBus {
		c, err := dbus.ConnectSessionBus(dbus.WithContext(ctx))
		if err != nil {
			logger.Warn("session bus unavailable, running without D-Bus", "error", err)
		} else {
			conn = c
			defer func() { _ = conn.Close() }()
			pref = uidbus.NewPortalPreference(conn)
		}
	}

	sess := session.New(ctx, session.Options{
		Config:     cfg,
		Store:      storage.NewFile(statePath()),
		Preference: pref,
		Logger:     logger,
	})
	notifier := sess.Notifier()

	// Stopped in reverse order after the session is closed, so dialog
	// watchers and signal emitters see the final clear.
	var stops []func()
	defer func() {
		sess.Close()
		for i := len(stops) - 1; i >= 0; i-- {
			stops[i]()
		}
	}()

	if conn != nil {
		if err := startBus(conn, sess, &stops); err != nil {
			return err
		}
	}

	sounds := audio.NewManager(cfg, logger.With("component", "audio"))
	sounds.OnError(notifier.NotifyAudioError)
	sounds.Start(ctx)
	attached := make(chan struct{})
	go func() {
		defer close(attached)
		sounds.Attach(ctx, sess.Notifications())
	}()
	stops = append(stops, func() {
		<-attached
		sounds.Stop()
	})

	watcher, err := config.NewWatcher(configPath(), func(next *config.Config, err error) {
		if err != nil {
			logger.Warn("config reload failed", "error", err)
			notifier.NotifyConfigError(err)
			return
		}
		sess.Apply(next)
		sounds.UpdateConfig(next)
		notifier.NotifyConfigReloaded()
	}, logger.With("component", "config"))
	if err != nil {
		logger.Warn("config watcher unavailable", "error", err)
	} else if err := watcher.Start(); err != nil {
		logger.Warn("failed to watch config", "path", watcher.Path(), "error", err)
		_ = watcher.Stop()
	} else {
		stops = append(stops, func() { _ = watcher.Stop() })
	}

	notifier.NotifyStartup(version)
	logger.Info("session started", "theme", sess.Theme().Current(), "headless", runOpts.headless)

	if runOpts.headless {
		<-ctx.Done()
		logger.Info("received signal, shutting down")
		return nil
	}
	return tui.Run(ctx, sess)
}

// startBus exports the uikit service and, if configured, takes over or
// mirrors the freedesktop notification service.
func startBus(conn *dbus.Conn, sess *session.Session, stops *[]func()) error {
	svc := uidbus.NewService(sess, logger.With("component", "dbus"))
	if err := svc.Start(conn); err != nil {
		return fmt.Errorf("failed to start D-Bus service: %w", err)
	}
	*stops = append(*stops, func() {
		_ = svc.Stop()
		svc.Wait()
	})

	switch {
	case cfg.Daemon.ClaimNotifications:
		srv := uidbus.NewNotificationServer(sess.Notifications(), logger.With("component", "notifications"))
		info := uidbus.DefaultServerInfo()
		info.Version = version
		srv.SetServerInfo(info)
		if err := srv.Start(conn); err != nil {
			logger.Warn("not claiming org.freedesktop.Notifications", "error", err)
			return nil
		}
		*stops = append(*stops, func() { _ = srv.Stop() })

	case cfg.Daemon.MirrorNotifications:
		mon := uidbus.NewMonitor(sess.Notifications(), logger.With("component", "monitor"))
		if err := mon.Start(); err != nil {
			logger.Warn("not mirroring notifications", "error", err)
			return nil
		}
		*stops = append(*stops, func() { _ = mon.Stop() })
	}
	return nil
}

// runContext returns the command's context, or Background when cobra
// was executed without one.
func runContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
