package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/grovetools/tabdeck/cli"
	"github.com/grovetools/tabdeck/config"
	"github.com/grovetools/tabdeck/internal/pidfile"
	"github.com/grovetools/tabdeck/internal/server"
	"github.com/grovetools/tabdeck/logging"
	"github.com/grovetools/tabdeck/pkg/paths"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

// NewServeCmd creates the `serve` command and its status/stop subcommands.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a tab session over HTTP",
		Long: `Runs a tab session in the foreground and exposes it over HTTP: JSON
endpoints for tab commands, a Server-Sent Events stream and a websocket
that push every snapshot.

Examples:
  # Listen on the configured address
  tabdeck serve

  # Listen somewhere else
  tabdeck serve --addr 127.0.0.1:9000`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().String("addr", "", "Listen address (default server.addr)")

	cmd.AddCommand(newServeStatusCmd())
	cmd.AddCommand(newServeStopCmd())
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := cli.GetLogger(cmd, "serve")
	cfg, cfgPath, err := cli.LoadConfig(cmd)
	if err != nil {
		return err
	}

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = cfg.Server.Addr
	}

	pidPath := paths.PidFile()
	if err := pidfile.Acquire(pidPath); err != nil {
		return err
	}
	defer func() {
		if err := pidfile.Release(pidPath); err != nil {
			logger.Errorf("Failed to release pidfile: %v", err)
		}
	}()

	a, err := newApp(cfg, logger, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	srv := server.New(a.store, a.router, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfgPath != "" {
		watcher, err := config.NewWatcher(cfgPath, config.DefaultDebounce, logger, func(c *config.Config, err error) {
			if err != nil {
				logger.WithError(err).Warn("Ignoring invalid configuration")
				return
			}
			applyLogLevel(logger, c)
		})
		if err != nil {
			logger.WithError(err).Warn("Config watcher disabled")
		} else {
			defer watcher.Close()
			go watcher.Start(ctx)
		}
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("pid", os.Getpid()).Info("Starting session API")
		errCh <- srv.ListenAndServe(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("Received stop signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return <-errCh
}

// applyLogLevel follows logging.level in a reloaded configuration.
func applyLogLevel(logger *logrus.Entry, cfg *config.Config) {
	var logCfg logging.Config
	if err := cfg.UnmarshalExtension("logging", &logCfg); err != nil || logCfg.Level == "" {
		return
	}
	level, err := logrus.ParseLevel(logCfg.Level)
	if err != nil {
		logger.Warnf("Unknown log level %q", logCfg.Level)
		return
	}
	if level != logger.Logger.GetLevel() {
		logger.Logger.SetLevel(level)
		logger.WithField("level", level.String()).Info("Log level changed")
	}
}

func newServeStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether tabdeck serve is running",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			pid, running := servePID()
			if !running {
				fmt.Fprintln(out, "Stopped")
				return nil
			}
			fmt.Fprintf(out, "Running (PID: %d)\n", pid)
			return nil
		},
	}
}

func newServeStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop a running tabdeck serve",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			pid, running := servePID()
			if !running {
				fmt.Fprintln(out, "tabdeck serve is not running")
				return nil
			}

			process, err := os.FindProcess(pid)
			if err != nil {
				return fmt.Errorf("failed to find process %d: %w", pid, err)
			}
			if err := process.Signal(syscall.SIGTERM); err != nil {
				return fmt.Errorf("failed to send stop signal: %w", err)
			}
			fmt.Fprintf(out, "Sent SIGTERM to process %d\n", pid)
			return nil
		},
	}
}

func servePID() (int, bool) {
	pid, err := pidfile.Read(paths.PidFile())
	if err != nil {
		return 0, false
	}
	return pid, pidfile.IsAlive(pid)
}
