package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"standup/internal/api"
	"standup/internal/notecache"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var (
		text       string
		file       string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Structure raw note text into standup sections",
		RunE: func(cmd *cobra.Command, args []string) error {
			rawText, ok, err := readTextInput(cmd, text, file)
			if err != nil {
				return err
			}
			if !ok || strings.TrimSpace(rawText) == "" {
				return fmt.Errorf("note text is required (--text or --file)")
			}
			return ctx.withClient(cmd, func(reqCtx context.Context, client *notecache.Client) error {
				processed, err := client.Process(reqCtx, rawText)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, processed)
				}
				fmt.Fprint(cmd.OutOrStdout(), renderProcessed(processed))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&text, "text", "t", "", "Raw note text")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read raw note text from a file ('-' for stdin)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newClassifyCommand(ctx *commandContext) *cobra.Command {
	var (
		text       string
		file       string
		date       string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Assign a timesheet category to note text or a stored note",
		RunE: func(cmd *cobra.Command, args []string) error {
			rawText, hasText, err := readTextInput(cmd, text, file)
			if err != nil {
				return err
			}
			if !hasText && strings.TrimSpace(date) == "" {
				return fmt.Errorf("provide --text, --file or --date")
			}
			return ctx.withClient(cmd, func(reqCtx context.Context, client *notecache.Client) error {
				req := api.ClassifyRequest{RawText: rawText}
				if !hasText {
					day, err := dateArg([]string{date})
					if err != nil {
						return err
					}
					note, err := client.GetNote(reqCtx, day)
					if err != nil {
						return err
					}
					if note == nil {
						return fmt.Errorf("no note for %s", day)
					}
					req = api.ClassifyRequest{
						Yesterday:    note.Yesterday,
						Today:        note.Today,
						Blockers:     note.Blockers,
						ProseSummary: valueOr(note.ProseSummary, ""),
						RawText:      note.RawText,
					}
				}
				result, err := client.Classify(reqCtx, req)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, result)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Category:    %s\n", result.TaskCategory)
				fmt.Fprintf(out, "Description: %s\n", result.TaskDescription)
				fmt.Fprintf(out, "Summary:     %s\n", result.TaskSummary)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&text, "text", "t", "", "Raw note text")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read raw note text from a file ('-' for stdin)")
	cmd.Flags().StringVar(&date, "date", "", "Classify the stored note for this day")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "transcribe <audio-file>",
		Short: "Transcribe a voice recording to text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := strings.TrimSpace(args[0])
			audio, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read audio: %w", err)
			}
			return ctx.withClient(cmd, func(reqCtx context.Context, client *notecache.Client) error {
				text, err := client.Transcribe(reqCtx, audio, filepath.Base(path))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			})
		},
	}
}
