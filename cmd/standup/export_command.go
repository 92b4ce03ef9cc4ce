package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"standup/internal/export"
	"standup/internal/notecache"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var (
		monthFlag string
		output    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the timesheet CSV",
		Long: "Export Date, Task Category, Task Description and Task Summary for every\n" +
			"note, or for one month with --month. Use --output - to print to stdout.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				year  int
				month time.Month
			)
			if strings.TrimSpace(monthFlag) != "" {
				var err error
				if year, month, err = parseMonthFlag(monthFlag); err != nil {
					return err
				}
			}
			return ctx.withClient(cmd, func(reqCtx context.Context, client *notecache.Client) error {
				body, err := client.ExportCSV(reqCtx, year, month)
				if err != nil {
					return err
				}
				target := strings.TrimSpace(output)
				if target == "" {
					target = export.Filename(year, month)
				}
				if target == "-" {
					_, err := cmd.OutOrStdout().Write(append(body, '\n'))
					return err
				}
				if err := os.WriteFile(target, body, 0o644); err != nil {
					return fmt.Errorf("write export: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", target)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&monthFlag, "month", "", "Export one month (YYYY-MM)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination file (default standup-tasks-<month>.csv)")
	return cmd
}
