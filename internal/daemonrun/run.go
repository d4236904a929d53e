// Package daemonrun wires configuration, storage, the daemon, and the IPC
// server into the scribed process runtime.
package daemonrun

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"scribe/internal/config"
	"scribe/internal/daemon"
	"scribe/internal/ipc"
	"scribe/internal/logging"
	"scribe/internal/store"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel string
}

// Run starts the scribed runtime loop and blocks until the context is
// canceled or a termination signal arrives.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	archive, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("open transcript store: %w", err)
	}
	defer archive.Close()

	d, err := daemon.New(cfg, archive, nil, logger)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	ipcServer, err := ipc.NewServer(signalCtx, cfg.SocketPath(), d, logger)
	if err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer ipcServer.Close()

	if err := d.Start(signalCtx); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}

	select {
	case <-signalCtx.Done():
	case <-d.Stopped():
	}
	logger.Info("scribed shutting down")
	return nil
}
