package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"scribe/internal/ipc"
	"scribe/internal/scheduler"
)

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var model string
	var detectLanguage bool
	var options []string

	cmd := &cobra.Command{
		Use:   "submit <audio-file>...",
		Short: "Queue audio files for transcription",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := parseOptionFlags(options)
			if err != nil {
				return err
			}
			if model != "" {
				opts["model"] = model
			}

			kind := scheduler.KindTranscribe
			if detectLanguage {
				kind = scheduler.KindDetectLanguage
			}

			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Submit(ipc.SubmitRequest{
					Kind:       string(kind),
					InputPaths: args,
					Options:    opts,
				})
				if err != nil {
					return fmt.Errorf("submit jobs: %w", err)
				}
				skipped := len(args) - resp.Enqueued
				fmt.Fprintf(cmd.OutOrStdout(), "Enqueued %d job(s)\n", resp.Enqueued)
				if skipped > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "Skipped %d duplicate path(s)\n", skipped)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "Model name passed to the transcriber")
	cmd.Flags().BoolVar(&detectLanguage, "detect-language", false, "Detect language instead of transcribing")
	cmd.Flags().StringArrayVar(&options, "option", nil, "Extra transcriber option as key=value (repeatable)")

	return cmd
}

func parseOptionFlags(raw []string) (map[string]string, error) {
	opts := make(map[string]string, len(raw))
	for _, entry := range raw {
		key, value, found := strings.Cut(entry, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --option %q: expected key=value", entry)
		}
		opts[key] = strings.TrimSpace(value)
	}
	return opts, nil
}
