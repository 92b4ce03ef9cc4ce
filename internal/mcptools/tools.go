// Package mcptools exposes the standup API as Model Context Protocol tools.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"standup/internal/api"
	"standup/internal/notes"
)

// NoteAPI is the server surface the tools call.
type NoteAPI interface {
	GetNote(ctx context.Context, date string) (*api.Note, error)
	ListMonth(ctx context.Context, year int, month time.Month) ([]api.Note, error)
	ListPage(ctx context.Context, limit, offset int) ([]api.Note, api.Pagination, error)
	SaveNote(ctx context.Context, date string, in api.NoteInput) (*api.Note, error)
	UpdateNote(ctx context.Context, date string, in api.NoteInput) (*api.Note, error)
	DeleteNote(ctx context.Context, date string) (string, error)
	Process(ctx context.Context, rawText string) (api.ProcessedNote, error)
	Classify(ctx context.Context, req api.ClassifyRequest) (api.Classification, error)
	ExportCSV(ctx context.Context, year int, month time.Month) ([]byte, error)
	Taxonomy(ctx context.Context) (api.TaxonomyResponse, error)
}

// Register adds every standup tool to s.
func Register(s *server.MCPServer, client NoteAPI) {
	s.AddTool(getNoteTool(), getNoteHandler(client))
	s.AddTool(listNotesTool(), listNotesHandler(client))
	s.AddTool(saveNoteTool(), saveNoteHandler(client))
	s.AddTool(deleteNoteTool(), deleteNoteHandler(client))
	s.AddTool(processTool(), processHandler(client))
	s.AddTool(classifyTool(), classifyHandler(client))
	s.AddTool(exportTool(), exportHandler(client))
	s.AddTool(taxonomyTool(), taxonomyHandler(client))
}

// --- get_note ---

func getNoteTool() mcp.Tool {
	return mcp.NewTool("get_note",
		mcp.WithDescription("Fetch the standup note for one day."),
		mcp.WithString("date",
			mcp.Description("Day in YYYY-MM-DD form. Defaults to today (UTC)."),
		),
	)
}

func getNoteHandler(client NoteAPI) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		date, err := dateArg(req)
		if err != nil {
			return toolError(err)
		}
		note, err := client.GetNote(ctx, date)
		if err != nil {
			return toolError(err)
		}
		if note == nil {
			return mcp.NewToolResultText(fmt.Sprintf("No note for %s.", date)), nil
		}
		return jsonResult(note)
	}
}

// --- list_notes ---

func listNotesTool() mcp.Tool {
	return mcp.NewTool("list_notes",
		mcp.WithDescription("List notes, newest first. Give year and month for one month, otherwise a page of all notes."),
		mcp.WithNumber("year", mcp.Description("Four digit year")),
		mcp.WithNumber("month", mcp.Description("Month number, 1-12")),
		mcp.WithNumber("limit", mcp.Description("Page size when listing all notes (default 30)")),
		mcp.WithNumber("offset", mcp.Description("Notes to skip when listing all notes")),
	)
}

func listNotesHandler(client NoteAPI) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		year, month := req.GetInt("year", 0), req.GetInt("month", 0)
		if year != 0 || month != 0 {
			if month < 1 || month > 12 {
				return toolError(fmt.Errorf("month must be between 1 and 12, got %d", month))
			}
			list, err := client.ListMonth(ctx, year, time.Month(month))
			if err != nil {
				return toolError(err)
			}
			if len(list) == 0 {
				return mcp.NewToolResultText("No results."), nil
			}
			return jsonResult(list)
		}

		list, page, err := client.ListPage(ctx, req.GetInt("limit", 0), req.GetInt("offset", 0))
		if err != nil {
			return toolError(err)
		}
		if len(list) == 0 {
			return mcp.NewToolResultText("No results."), nil
		}
		return jsonResult(struct {
			Notes      []api.Note     `json:"notes"`
			Pagination api.Pagination `json:"pagination"`
		}{list, page})
	}
}

// --- save_note ---

func saveNoteTool() mcp.Tool {
	return mcp.NewTool("save_note",
		mcp.WithDescription("Create or update the note for a day. Omitted fields keep their stored values; raw_text is required when the day has no note yet."),
		mcp.WithString("date", mcp.Description("Day in YYYY-MM-DD form. Defaults to today (UTC).")),
		mcp.WithString("raw_text", mcp.Description("Free-form note text")),
		mcp.WithString("yesterday", mcp.Description("Completed work, one item per line")),
		mcp.WithString("today", mcp.Description("Planned work, one item per line")),
		mcp.WithString("blockers", mcp.Description("Blockers, one item per line")),
		mcp.WithString("prose_summary", mcp.Description("Paragraph summary of the day")),
		mcp.WithString("task_category", mcp.Description("Taxonomy category (see the taxonomy tool)")),
		mcp.WithString("task_description", mcp.Description("Description allowed for the category")),
		mcp.WithString("task_summary", mcp.Description("Timesheet summary, at most 100 characters")),
	)
}

func saveNoteHandler(client NoteAPI) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		date, err := dateArg(req)
		if err != nil {
			return toolError(err)
		}
		args := req.GetArguments()
		var in api.NoteInput
		setString(args, "raw_text", &in.RawText)
		setList(args, "yesterday", &in.Yesterday)
		setList(args, "today", &in.Today)
		setList(args, "blockers", &in.Blockers)
		setString(args, "prose_summary", &in.ProseSummary)
		setString(args, "task_category", &in.TaskCategory)
		setString(args, "task_description", &in.TaskDescription)
		setString(args, "task_summary", &in.TaskSummary)

		var note *api.Note
		if in.RawText.Set && strings.TrimSpace(in.RawText.Value) != "" {
			note, err = client.SaveNote(ctx, date, in)
		} else {
			note, err = client.UpdateNote(ctx, date, in)
		}
		if err != nil {
			return toolError(err)
		}
		return jsonResult(note)
	}
}

// --- delete_note ---

func deleteNoteTool() mcp.Tool {
	return mcp.NewTool("delete_note",
		mcp.WithDescription("Delete the note for a day. Deleting a missing note succeeds."),
		mcp.WithString("date", mcp.Description("Day in YYYY-MM-DD form"), mcp.Required()),
	)
}

func deleteNoteHandler(client NoteAPI) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		date, err := req.RequireString("date")
		if err != nil {
			return toolError(err)
		}
		message, err := client.DeleteNote(ctx, date)
		if err != nil {
			return toolError(err)
		}
		if message != "" {
			return mcp.NewToolResultText(message), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Deleted note for %s.", date)), nil
	}
}

// --- process_note ---

func processTool() mcp.Tool {
	return mcp.NewTool("process_note",
		mcp.WithDescription("Structure raw standup text into yesterday, today, blockers, a prose summary and action items."),
		mcp.WithString("raw_text", mcp.Description("Free-form note text"), mcp.Required()),
	)
}

func processHandler(client NoteAPI) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rawText, err := req.RequireString("raw_text")
		if err != nil {
			return toolError(err)
		}
		processed, err := client.Process(ctx, rawText)
		if err != nil {
			return toolError(err)
		}
		return jsonResult(processed)
	}
}

// --- classify_note ---

func classifyTool() mcp.Tool {
	return mcp.NewTool("classify_note",
		mcp.WithDescription("Assign a timesheet category, description and summary. Unrecognized results become Other / Other Task Category."),
		mcp.WithString("raw_text", mcp.Description("Free-form note text")),
		mcp.WithString("yesterday", mcp.Description("Completed work, one item per line")),
		mcp.WithString("today", mcp.Description("Planned work, one item per line")),
		mcp.WithString("blockers", mcp.Description("Blockers, one item per line")),
		mcp.WithString("prose_summary", mcp.Description("Paragraph summary of the day")),
	)
}

func classifyHandler(client NoteAPI) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		request := api.ClassifyRequest{
			Yesterday:    api.SplitLegacyList(req.GetString("yesterday", "")),
			Today:        api.SplitLegacyList(req.GetString("today", "")),
			Blockers:     api.SplitLegacyList(req.GetString("blockers", "")),
			ProseSummary: req.GetString("prose_summary", ""),
			RawText:      req.GetString("raw_text", ""),
		}
		result, err := client.Classify(ctx, request)
		if err != nil {
			return toolError(err)
		}
		return jsonResult(result)
	}
}

// --- export_csv ---

func exportTool() mcp.Tool {
	return mcp.NewTool("export_csv",
		mcp.WithDescription("Render the timesheet CSV for a month, or for every note when no month is given."),
		mcp.WithNumber("year", mcp.Description("Four digit year")),
		mcp.WithNumber("month", mcp.Description("Month number, 1-12")),
	)
}

func exportHandler(client NoteAPI) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		year, month := req.GetInt("year", 0), req.GetInt("month", 0)
		if month < 0 || month > 12 {
			return toolError(fmt.Errorf("month must be between 1 and 12, got %d", month))
		}
		if month != 0 && year == 0 {
			year = time.Now().UTC().Year()
		}
		body, err := client.ExportCSV(ctx, year, time.Month(month))
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(string(body)), nil
	}
}

// --- taxonomy ---

func taxonomyTool() mcp.Tool {
	return mcp.NewTool("taxonomy",
		mcp.WithDescription("List every task category with its allowed descriptions."),
	)
}

func taxonomyHandler(client NoteAPI) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		taxonomy, err := client.Taxonomy(ctx)
		if err != nil {
			return toolError(err)
		}
		return jsonResult(taxonomy)
	}
}

// --- helpers ---

func dateArg(req mcp.CallToolRequest) (string, error) {
	date := strings.TrimSpace(req.GetString("date", ""))
	if date == "" {
		return notes.Today(), nil
	}
	return notes.CanonicalDate(date)
}

func setString(args map[string]any, key string, field *api.Field[string]) {
	if value, ok := args[key].(string); ok {
		*field = api.Some(value)
	}
}

func setList(args map[string]any, key string, field *api.Field[api.ListField]) {
	if value, ok := args[key].(string); ok {
		*field = api.Some(api.SplitLegacyList(value))
	}
}

func jsonResult(value any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}
