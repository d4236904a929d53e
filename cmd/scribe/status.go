package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"scribe/internal/ipc"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon, queue, and preflight status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Status()
				if err != nil {
					return fmt.Errorf("fetch status: %w", err)
				}
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)

				for _, line := range renderSectionHeader("Daemon", colorize) {
					fmt.Fprintln(out, line)
				}
				runningKind := statusError
				runningMsg := "not running"
				if resp.Running {
					runningKind = statusOK
					runningMsg = fmt.Sprintf("pid %d", resp.PID)
				}
				fmt.Fprintln(out, renderStatusLine("Running", runningKind, runningMsg, colorize))
				fmt.Fprintln(out, renderStatusLine("Lock file", statusInfo, resp.LockPath, colorize))
				fmt.Fprintln(out, renderStatusLine("Database", statusInfo, resp.DatabasePath, colorize))
				fmt.Fprintln(out)

				for _, line := range renderSectionHeader("Checks", colorize) {
					fmt.Fprintln(out, line)
				}
				for _, check := range resp.Checks {
					kind := statusOK
					if !check.Passed {
						kind = statusError
					}
					fmt.Fprintln(out, renderStatusLine(check.Name, kind, check.Detail, colorize))
				}
				fmt.Fprintln(out)

				for _, line := range renderSectionHeader("Queue", colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintln(out, renderQueue(resp.Queue))
				return nil
			})
		},
	}
}

func renderQueue(queue ipc.QueueStatus) string {
	rows := make([][]string, 0, len(queue.PendingPaths)+1)
	if queue.ActivePath != "" {
		elapsed := time.Since(queue.ActiveSince).Round(time.Second)
		rows = append(rows, []string{"active", queue.ActivePath, elapsed.String()})
	}
	for _, path := range queue.PendingPaths {
		rows = append(rows, []string{"pending", path, ""})
	}

	var b strings.Builder
	if len(rows) == 0 {
		b.WriteString(statusIndent + "queue is empty")
	} else {
		b.WriteString(renderTable(
			[]string{"State", "Input", "Elapsed"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight},
		))
	}
	b.WriteString("\n" + statusIndent + "Batch: " + formatBatch(queue))
	return b.String()
}

func formatBatch(queue ipc.QueueStatus) string {
	if queue.Progress == nil {
		return "idle"
	}
	return fmt.Sprintf("%d/%d complete (%s%%)",
		queue.Completed, queue.Total,
		strconv.FormatFloat(*queue.Progress*100, 'f', 1, 64))
}
