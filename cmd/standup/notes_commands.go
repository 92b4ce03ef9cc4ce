package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"standup/internal/api"
	"standup/internal/notecache"
	"standup/internal/notes"
)

func newNotesCommand(ctx *commandContext) *cobra.Command {
	notesCmd := &cobra.Command{
		Use:   "notes",
		Short: "Inspect and edit daily notes",
	}
	notesCmd.AddCommand(newNotesShowCommand(ctx))
	notesCmd.AddCommand(newNotesListCommand(ctx))
	notesCmd.AddCommand(newNotesSaveCommand(ctx))
	notesCmd.AddCommand(newNotesDeleteCommand(ctx))
	return notesCmd
}

func newNotesShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show [date]",
		Short: "Show the note for a day (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := dateArg(args)
			if err != nil {
				return err
			}
			return ctx.withClient(cmd, func(reqCtx context.Context, client *notecache.Client) error {
				note, err := client.GetNote(reqCtx, date)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, note)
				}
				out := cmd.OutOrStdout()
				if note == nil {
					fmt.Fprintf(out, "No note for %s\n", date)
					return nil
				}
				fmt.Fprint(out, renderNote(*note))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newNotesListCommand(ctx *commandContext) *cobra.Command {
	var (
		monthFlag  string
		limit      int
		offset     int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(cmd, func(reqCtx context.Context, client *notecache.Client) error {
				var (
					list []api.Note
					page *api.Pagination
				)
				if strings.TrimSpace(monthFlag) != "" {
					year, month, err := parseMonthFlag(monthFlag)
					if err != nil {
						return err
					}
					if list, err = client.ListMonth(reqCtx, year, month); err != nil {
						return err
					}
				} else {
					result, pagination, err := client.ListPage(reqCtx, limit, offset)
					if err != nil {
						return err
					}
					list, page = result, &pagination
				}

				if jsonOutput {
					return writeJSON(cmd, list)
				}
				out := cmd.OutOrStdout()
				if len(list) == 0 {
					fmt.Fprintln(out, "No notes found")
					return nil
				}
				fmt.Fprintln(out, renderNoteTable(list))
				if page != nil && page.Total > page.Offset+len(list) {
					fmt.Fprintf(out, "Showing %d-%d of %d (use --offset %d for more)\n",
						page.Offset+1, page.Offset+len(list), page.Total, page.Offset+len(list))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&monthFlag, "month", "", "Restrict to one month (YYYY-MM)")
	cmd.Flags().IntVar(&limit, "limit", 30, "Maximum notes to show")
	cmd.Flags().IntVar(&offset, "offset", 0, "Notes to skip")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

type saveOptions struct {
	text         string
	file         string
	yesterday    []string
	today        []string
	blockers     []string
	proseSummary string
	category     string
	description  string
	taskSummary  string
	process      bool
	classify     bool
	jsonOutput   bool
}

func newNotesSaveCommand(ctx *commandContext) *cobra.Command {
	var opts saveOptions

	cmd := &cobra.Command{
		Use:   "save [date]",
		Short: "Create or update the note for a day (default today)",
		Long: "Create or update the note for a day. Only the fields given are changed.\n" +
			"With --process the raw text is structured first; with --classify the\n" +
			"result is assigned a timesheet category before saving.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := dateArg(args)
			if err != nil {
				return err
			}
			rawText, hasText, err := readTextInput(cmd, opts.text, opts.file)
			if err != nil {
				return err
			}
			if (opts.process || opts.classify) && !hasText {
				return fmt.Errorf("--process and --classify need note text (--text or --file)")
			}

			return ctx.withClient(cmd, func(reqCtx context.Context, client *notecache.Client) error {
				cache := notecache.New(client, nil)
				in := opts.input(cmd, rawText, hasText)

				if opts.process {
					processed, err := cache.Process(reqCtx, rawText)
					if err != nil {
						return fmt.Errorf("process note: %w", err)
					}
					applyProcessed(&in, processed)
				}
				if opts.classify {
					classification, err := cache.Classify(reqCtx, classifyRequestFrom(in, rawText))
					if err != nil {
						return fmt.Errorf("classify note: %w", err)
					}
					in.TaskCategory = api.Some(classification.TaskCategory)
					in.TaskDescription = api.Some(classification.TaskDescription)
					in.TaskSummary = api.Some(classification.TaskSummary)
				}

				var note *api.Note
				if hasText && strings.TrimSpace(rawText) != "" {
					note, err = cache.Save(reqCtx, date, in)
				} else {
					note, err = client.UpdateNote(reqCtx, date, in)
				}
				if err != nil {
					return err
				}
				if opts.jsonOutput {
					return writeJSON(cmd, note)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved note for %s\n", note.Date)
				return nil
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.text, "text", "t", "", "Raw note text")
	flags.StringVarP(&opts.file, "file", "f", "", "Read raw note text from a file ('-' for stdin)")
	flags.StringArrayVar(&opts.yesterday, "yesterday", nil, "Completed item (repeatable)")
	flags.StringArrayVar(&opts.today, "today", nil, "Planned item (repeatable)")
	flags.StringArrayVar(&opts.blockers, "blocker", nil, "Blocker (repeatable)")
	flags.StringVar(&opts.proseSummary, "prose", "", "Prose summary")
	flags.StringVar(&opts.category, "category", "", "Task category")
	flags.StringVar(&opts.description, "description", "", "Task description")
	flags.StringVar(&opts.taskSummary, "task-summary", "", "Timesheet summary")
	flags.BoolVar(&opts.process, "process", false, "Structure the text with the AI service before saving")
	flags.BoolVar(&opts.classify, "classify", false, "Classify the note with the AI service before saving")
	flags.BoolVar(&opts.jsonOutput, "json", false, "Output the saved note as JSON")
	return cmd
}

// input builds the write body from the flags that were actually given.
func (o saveOptions) input(cmd *cobra.Command, rawText string, hasText bool) api.NoteInput {
	var in api.NoteInput
	if hasText {
		in.RawText = api.Some(rawText)
	}
	flags := cmd.Flags()
	if flags.Changed("yesterday") {
		in.Yesterday = api.Some(api.ListField(o.yesterday))
	}
	if flags.Changed("today") {
		in.Today = api.Some(api.ListField(o.today))
	}
	if flags.Changed("blocker") {
		in.Blockers = api.Some(api.ListField(o.blockers))
	}
	if flags.Changed("prose") {
		in.ProseSummary = api.Some(o.proseSummary)
	}
	if flags.Changed("category") {
		in.TaskCategory = api.Some(o.category)
	}
	if flags.Changed("description") {
		in.TaskDescription = api.Some(o.description)
	}
	if flags.Changed("task-summary") {
		in.TaskSummary = api.Some(o.taskSummary)
	}
	return in
}

// applyProcessed fills sections the user did not set explicitly.
func applyProcessed(in *api.NoteInput, processed api.ProcessedNote) {
	if !in.Yesterday.Set {
		in.Yesterday = api.Some(api.ListField(processed.Yesterday))
	}
	if !in.Today.Set {
		in.Today = api.Some(api.ListField(processed.Today))
	}
	if !in.Blockers.Set {
		in.Blockers = api.Some(api.ListField(processed.Blockers))
	}
	if !in.ProseSummary.Set {
		in.ProseSummary = api.Some(processed.ProseSummary)
	}
	in.ActionItems = api.Some(api.ActionItemList(processed.ActionItems))
}

func classifyRequestFrom(in api.NoteInput, rawText string) api.ClassifyRequest {
	return api.ClassifyRequest{
		Yesterday:    in.Yesterday.Value,
		Today:        in.Today.Value,
		Blockers:     in.Blockers.Value,
		ProseSummary: in.ProseSummary.Value,
		RawText:      rawText,
	}
}

func newNotesDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <date>",
		Short: "Delete the note for a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := dateArg(args)
			if err != nil {
				return err
			}
			return ctx.withClient(cmd, func(reqCtx context.Context, client *notecache.Client) error {
				message, err := client.DeleteNote(reqCtx, date)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if message != "" {
					fmt.Fprintln(out, message)
					return nil
				}
				fmt.Fprintf(out, "Deleted note for %s\n", date)
				return nil
			})
		},
	}
}

func dateArg(args []string) (string, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" || strings.EqualFold(strings.TrimSpace(args[0]), "today") {
		return notes.Today(), nil
	}
	return notes.CanonicalDate(args[0])
}

func parseMonthFlag(value string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(value))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q (want YYYY-MM)", value)
	}
	return t.Year(), t.Month(), nil
}

// readTextInput returns the note text from --text or --file. The boolean
// reports whether either flag was given.
func readTextInput(cmd *cobra.Command, text, file string) (string, bool, error) {
	if cmd.Flags().Changed("text") {
		return text, true, nil
	}
	file = strings.TrimSpace(file)
	if file == "" {
		return "", false, nil
	}
	var (
		data []byte
		err  error
	)
	if file == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return "", false, fmt.Errorf("read note text: %w", err)
	}
	return string(data), true, nil
}
