package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"scribe/internal/export"
	"scribe/internal/ipc"
	"scribe/internal/segments"
)

func newTranscriptsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcripts",
		Short: "Inspect and export archived transcripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newTranscriptsListCommand(ctx))
	cmd.AddCommand(newTranscriptsShowCommand(ctx))
	cmd.AddCommand(newTranscriptsExportCommand(ctx))
	return cmd
}

func newTranscriptsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List archived transcripts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.TranscriptList()
				if err != nil {
					return fmt.Errorf("list transcripts: %w", err)
				}
				if len(resp.Transcripts) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No archived transcripts")
					return nil
				}
				rows := make([][]string, 0, len(resp.Transcripts))
				for _, tr := range resp.Transcripts {
					rows = append(rows, []string{
						strconv.FormatInt(tr.ID, 10),
						filepath.Base(tr.InputPath),
						tr.Kind,
						tr.Language,
						strconv.Itoa(tr.SegmentCount),
						tr.CreatedAt.Local().Format("2006-01-02 15:04"),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Input", "Kind", "Lang", "Segments", "Created"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
}

func newTranscriptsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print the segments of one transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid transcript id %q", args[0])
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.TranscriptGet(id)
				if err != nil {
					return fmt.Errorf("fetch transcript %d: %w", id, err)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s (%s, model %s)\n", resp.Transcript.InputPath, resp.Transcript.Kind, resp.Transcript.Model)
				if resp.Transcript.Language != "" {
					fmt.Fprintf(out, "Language: %s\n", resp.Transcript.Language)
				}
				for _, seg := range resp.Segments {
					fmt.Fprintf(out, "[%8.2f - %8.2f] %s\n", seg.Start, seg.End, seg.Text)
				}
				return nil
			})
		},
	}
}

func newTranscriptsExportCommand(ctx *commandContext) *cobra.Command {
	var format string
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export one transcript as SRT or CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid transcript id %q", args[0])
			}
			format = strings.ToLower(strings.TrimSpace(format))
			if format != "srt" && format != "csv" {
				return fmt.Errorf("unsupported format %q: expected srt or csv", format)
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.TranscriptGet(id)
				if err != nil {
					return fmt.Errorf("fetch transcript %d: %w", id, err)
				}
				return writeExport(cmd, resp.Segments, format, outputPath)
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "srt", "Export format: srt or csv")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write to file instead of stdout")

	return cmd
}

func writeExport(cmd *cobra.Command, segs []segments.Segment, format, outputPath string) error {
	write := func(w io.Writer) error {
		if format == "csv" {
			return export.WriteCSV(w, segs)
		}
		return export.WriteSRT(w, segs)
	}
	if outputPath == "" {
		return write(cmd.OutOrStdout())
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outputPath, err)
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", outputPath, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outputPath)
	return nil
}
