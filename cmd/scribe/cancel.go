package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scribe/internal/ipc"
)

func newCancelCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel",
		Short: "Clear pending jobs and release the active slot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Cancel()
				if err != nil {
					return fmt.Errorf("cancel jobs: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Dropped %d job(s)\n", resp.Dropped)
				return nil
			})
		},
	}
}
