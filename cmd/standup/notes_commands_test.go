package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"standup/internal/api"
	"standup/internal/testsupport"
)

func TestNotesSaveShowListDelete(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"notes", "save", "2024-03-05",
		"--text", "wrapped up the migration",
		"--yesterday", "wrapped up the migration",
		"--today", "start on reports",
		"--category", "Development",
		"--description", "Refactor",
	}, env.serverURL, env.configPath)
	if err != nil {
		t.Fatalf("notes save: %v", err)
	}
	requireContains(t, out, "Saved note for 2024-03-05")

	out, _, err = runCLI(t, []string{"notes", "show", "2024-03-05"}, env.serverURL, env.configPath)
	if err != nil {
		t.Fatalf("notes show: %v", err)
	}
	requireContains(t, out, "Task: Development / Refactor")
	requireContains(t, out, "  - start on reports")

	out, _, err = runCLI(t, []string{"notes", "save", "2024-03-05", "--task-summary", "Migrated storage"}, env.serverURL, env.configPath)
	if err != nil {
		t.Fatalf("notes save partial: %v", err)
	}
	out, _, err = runCLI(t, []string{"notes", "show", "2024-03-05", "--json"}, env.serverURL, env.configPath)
	if err != nil {
		t.Fatalf("notes show --json: %v", err)
	}
	var note api.Note
	if err := json.Unmarshal([]byte(out), &note); err != nil {
		t.Fatalf("decode note: %v\n%s", err, out)
	}
	if note.RawText != "wrapped up the migration" || note.TaskSummary == nil || *note.TaskSummary != "Migrated storage" {
		t.Fatalf("partial save changed other fields: %+v", note)
	}

	out, _, err = runCLI(t, []string{"notes", "list"}, env.serverURL, env.configPath)
	if err != nil {
		t.Fatalf("notes list: %v", err)
	}
	requireContains(t, out, "2024-03-05")
	requireContains(t, out, "Migrated storage")

	out, _, err = runCLI(t, []string{"notes", "list", "--month", "2024-04"}, env.serverURL, env.configPath)
	if err != nil {
		t.Fatalf("notes list --month: %v", err)
	}
	requireContains(t, out, "No notes found")

	out, _, err = runCLI(t, []string{"notes", "delete", "2024-03-05"}, env.serverURL, env.configPath)
	if err != nil {
		t.Fatalf("notes delete: %v", err)
	}
	requireContains(t, out, "Deleted note for 2024-03-05")

	out, _, err = runCLI(t, []string{"notes", "delete", "2024-03-05"}, env.serverURL, env.configPath)
	if err != nil {
		t.Fatalf("notes delete again: %v", err)
	}
	requireContains(t, out, "Note already deleted or not found")

	out, _, err = runCLI(t, []string{"notes", "show", "2024-03-05"}, env.serverURL, env.configPath)
	if err != nil {
		t.Fatalf("notes show after delete: %v", err)
	}
	requireContains(t, out, "No note for 2024-03-05")
}

func TestNotesSaveProcessAndClassifyFromStdin(t *testing.T) {
	env := setupCLITestEnv(t)

	input := "Yesterday\n- fixed flaky test\nToday\n- pair on release\nBlockers\n- waiting on access"
	_, _, err := runCLIWithInput(t, []string{"notes", "save", "2024-03-06", "--file", "-", "--process", "--classify"},
		env.serverURL, env.configPath, input)
	if err != nil {
		t.Fatalf("notes save --process --classify: %v", err)
	}

	out, _, err := runCLI(t, []string{"notes", "show", "2024-03-06", "--json"}, env.serverURL, env.configPath)
	if err != nil {
		t.Fatalf("notes show: %v", err)
	}
	var note api.Note
	if err := json.Unmarshal([]byte(out), &note); err != nil {
		t.Fatalf("decode note: %v", err)
	}
	if len(note.Yesterday) != 1 || note.Yesterday[0] != "fixed flaky test" {
		t.Fatalf("yesterday = %v", note.Yesterday)
	}
	if len(note.Blockers) != 1 || note.Blockers[0] != "waiting on access" {
		t.Fatalf("blockers = %v", note.Blockers)
	}
	if note.TaskCategory == nil || *note.TaskCategory != "Other" {
		t.Fatalf("expected fallback category, got %v", note.TaskCategory)
	}
	if note.ProseSummary == nil || !strings.HasPrefix(*note.ProseSummary, "Yesterday, work was done on") {
		t.Fatalf("prose = %v", note.ProseSummary)
	}
}

func TestNotesSaveRejectsProcessWithoutText(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"notes", "save", "--process"}, env.serverURL, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "--process and --classify need note text") {
		t.Fatalf("expected text requirement error, got %v", err)
	}
}

func TestNotesInvalidDate(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"notes", "show", "05/03/2024"}, env.serverURL, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "invalid date") {
		t.Fatalf("expected invalid date error, got %v", err)
	}
}

func TestExportToFileAndStdout(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"notes", "save", "2024-03-05", "--text", "x", "--task-summary", "Did a, b"},
		env.serverURL, env.configPath); err != nil {
		t.Fatalf("notes save: %v", err)
	}

	out, _, err := runCLI(t, []string{"export", "--month", "2024-03", "--output", "-"}, env.serverURL, env.configPath)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	want := "Date,Task Category,Task Description,Task Summary\n2024-03-05,,,\"Did a, b\"\n"
	if out != want {
		t.Fatalf("export output = %q, want %q", out, want)
	}

	target := filepath.Join(env.baseDir, "out.csv")
	out, _, err = runCLI(t, []string{"export", "--month", "2024-03", "--output", target}, env.serverURL, env.configPath)
	if err != nil {
		t.Fatalf("export to file: %v", err)
	}
	requireContains(t, out, "Wrote "+target)
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	requireContains(t, string(data), "2024-03-05")
}

func TestProcessAndClassifyCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"process", "--text", "Today\n- write docs"}, env.serverURL, env.configPath)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	requireContains(t, out, "Today:\n  - write docs")

	out, _, err = runCLI(t, []string{"classify", "--text", "reviewed PRs"}, env.serverURL, env.configPath)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	requireContains(t, out, "Category:    Other")
	requireContains(t, out, "Summary:     Work completed for the day")

	_, _, err = runCLI(t, []string{"classify", "--date", "2024-01-01"}, env.serverURL, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "no note for 2024-01-01") {
		t.Fatalf("expected missing note error, got %v", err)
	}
}

func TestTranscribeWithoutKeyFails(t *testing.T) {
	env := setupCLITestEnv(t)
	audio := testsupport.WriteAudio(t, env.baseDir, "memo.webm", 2048)
	_, _, err := runCLI(t, []string{"transcribe", audio}, env.serverURL, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "OpenAI API key is not configured") {
		t.Fatalf("expected missing key error, got %v", err)
	}
}

func TestUnreachableServerHint(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"notes", "show"}, "http://127.0.0.1:1", env.configPath)
	if err == nil || !strings.Contains(err.Error(), "standup serve") {
		t.Fatalf("expected start hint, got %v", err)
	}
}

func TestRenderNoteMarksCompletedActionItems(t *testing.T) {
	out := renderNote(api.Note{
		Date: "2024-03-01",
		ActionItems: api.ActionItemList{
			{ID: "1", Text: "ship it", Completed: true},
			{ID: "2", Text: "tell QA"},
		},
	})
	requireContains(t, out, "  [x] 1. ship it\n")
	requireContains(t, out, "  [ ] 2. tell QA\n")
}
