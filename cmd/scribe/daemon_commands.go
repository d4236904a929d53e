package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scribe/internal/daemonrun"
	"scribe/internal/ipc"
)

func newDaemonCommand(ctx *commandContext) *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the transcription daemon in the foreground",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return daemonrun.Run(cmd.Context(), cfg, daemonrun.Options{LogLevel: logLevel})
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "", "Override the configured log level")

	return cmd
}

func newStopCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Stop()
				if err != nil {
					return fmt.Errorf("stop daemon: %w", err)
				}
				if resp.Stopped {
					fmt.Fprintln(cmd.OutOrStdout(), "Daemon stopped")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "Daemon was not running")
				}
				return nil
			})
		},
	}
}
