package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"standup/internal/api"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

const summaryColumnWidth = 48

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func renderNoteTable(list []api.Note) string {
	rows := make([][]string, 0, len(list))
	for _, note := range list {
		rows = append(rows, []string{
			note.Date,
			valueOr(note.TaskCategory, "-"),
			valueOr(note.TaskDescription, "-"),
			truncate(valueOr(note.TaskSummary, firstLine(note.RawText)), summaryColumnWidth),
			fmt.Sprintf("%d", len(note.ActionItems)),
		})
	}
	return renderTable(
		[]string{"Date", "Category", "Description", "Summary", "Actions"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
	)
}

// renderNote formats one note as labelled sections.
func renderNote(note api.Note) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Date: %s\n", note.Date)
	if note.TaskCategory != nil || note.TaskDescription != nil {
		fmt.Fprintf(&b, "Task: %s / %s\n", valueOr(note.TaskCategory, "-"), valueOr(note.TaskDescription, "-"))
	}
	if summary := valueOr(note.TaskSummary, ""); summary != "" {
		fmt.Fprintf(&b, "Summary: %s\n", summary)
	}
	writeSections(&b, note.Yesterday, note.Today, note.Blockers, valueOr(note.ProseSummary, ""), note.ActionItems)
	if raw := strings.TrimSpace(note.RawText); raw != "" {
		fmt.Fprintf(&b, "\nRaw notes:\n%s\n", raw)
	}
	return b.String()
}

// renderProcessed formats a structuring result.
func renderProcessed(p api.ProcessedNote) string {
	var b strings.Builder
	writeSections(&b, p.Yesterday, p.Today, p.Blockers, p.ProseSummary, p.ActionItems)
	return strings.TrimPrefix(b.String(), "\n")
}

func writeSections(b *strings.Builder, yesterday, today, blockers []string, prose string, items []api.ActionItem) {
	writeSection(b, "Yesterday", yesterday)
	writeSection(b, "Today", today)
	writeSection(b, "Blockers", blockers)
	if prose != "" {
		fmt.Fprintf(b, "\n%s\n", prose)
	}
	if len(items) > 0 {
		b.WriteString("\nAction items:\n")
		for _, item := range items {
			mark := " "
			if item.Completed {
				mark = "x"
			}
			fmt.Fprintf(b, "  [%s] %s. %s\n", mark, item.ID, item.Text)
		}
	}
}

func writeSection(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "  - %s\n", item)
	}
}

func valueOr(value *string, fallback string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return fallback
	}
	return *value
}

func firstLine(value string) string {
	value = strings.TrimSpace(value)
	if idx := strings.IndexByte(value, '\n'); idx >= 0 {
		return strings.TrimSpace(value[:idx])
	}
	return value
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit-1]) + "…"
}
