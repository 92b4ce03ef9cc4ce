package assist

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"standup/internal/notes"
	"standup/internal/services"
)

type stubCompleter struct {
	configured bool
	content    string
	err        error
	calls      int
	lastSystem string
	lastUser   string
}

func (s *stubCompleter) Configured() bool { return s.configured }

func (s *stubCompleter) CompleteJSON(_ context.Context, system, user string) (string, error) {
	s.calls++
	s.lastSystem = system
	s.lastUser = user
	return s.content, s.err
}

func TestProcessRejectsBlankText(t *testing.T) {
	stub := &stubCompleter{configured: true}
	p := NewProcessor(stub, nil)

	_, err := p.Process(context.Background(), "   \n ")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if stub.calls != 0 {
		t.Fatalf("expected no model call, got %d", stub.calls)
	}
}

func TestProcessUsesModelReply(t *testing.T) {
	stub := &stubCompleter{configured: true, content: "```json\n" + `{
		"yesterday": ["fixed login", 42, ""],
		"today": ["write tests"],
		"blockers": "not a list",
		"proseSummary": "All good.",
		"actionItems": [{"text": " email QA "}, {"id": "x", "text": ""}, "junk", {"id": 7, "text": "deploy", "completed": true}]
	}` + "\n```"}
	p := NewProcessor(stub, nil)

	got, err := p.Process(context.Background(), "did stuff")
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if stub.lastSystem != processingPrompt || stub.lastUser != "did stuff" {
		t.Fatalf("unexpected prompts sent: %q / %q", stub.lastSystem, stub.lastUser)
	}
	if !reflect.DeepEqual(got.Yesterday, []string{"fixed login", "42"}) {
		t.Fatalf("yesterday = %#v", got.Yesterday)
	}
	if len(got.Blockers) != 0 || got.Blockers == nil {
		t.Fatalf("expected empty blockers for non-array, got %#v", got.Blockers)
	}
	want := []notes.ActionItem{{ID: "1", Text: "email QA"}, {ID: "7", Text: "deploy", Completed: true}}
	if !reflect.DeepEqual(got.ActionItems, want) {
		t.Fatalf("action items = %#v", got.ActionItems)
	}
	if got.ProseSummary != "All good." || got.FallbackReason != "" {
		t.Fatalf("unexpected result %#v", got)
	}
}

func TestProcessFallsBack(t *testing.T) {
	cases := []struct {
		name   string
		stub   *stubCompleter
		reason string
	}{
		{"no key", &stubCompleter{}, "OpenAI API key is not configured"},
		{"call error", &stubCompleter{configured: true, err: errors.New("boom")}, "boom"},
		{"empty content", &stubCompleter{configured: true, content: "  "}, "No response from AI"},
		{"bad json", &stubCompleter{configured: true, content: "not json at all"}, "decode reply"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewProcessor(tc.stub, nil)
			got, err := p.Process(context.Background(), "Today\n- write docs")
			if err != nil {
				t.Fatalf("Process failed: %v", err)
			}
			if !strings.Contains(got.FallbackReason, tc.reason) {
				t.Fatalf("fallback reason %q does not mention %q", got.FallbackReason, tc.reason)
			}
			if !reflect.DeepEqual(got.Today, []string{"write docs"}) {
				t.Fatalf("today = %#v", got.Today)
			}
		})
	}
}

func TestFallbackProcessSections(t *testing.T) {
	raw := strings.Join([]string{
		"random first line",
		"YESTERDAY:",
		"- fixed the build",
		"• reviewed PRs",
		"",
		"Today",
		"* pair with Sam",
		"Blockers",
		"waiting on access",
	}, "\n")

	got := FallbackProcess(raw)
	if !reflect.DeepEqual(got.Yesterday, []string{"fixed the build", "reviewed PRs"}) {
		t.Fatalf("yesterday = %#v", got.Yesterday)
	}
	if !reflect.DeepEqual(got.Today, []string{"random first line", "pair with Sam"}) {
		t.Fatalf("today = %#v", got.Today)
	}
	if !reflect.DeepEqual(got.Blockers, []string{"waiting on access"}) {
		t.Fatalf("blockers = %#v", got.Blockers)
	}
	wantProse := "Yesterday, work was done on: fixed the build, reviewed PRs.\n\n" +
		"Today's focus will be on: random first line, pair with Sam.\n\n" +
		"Current blockers include: waiting on access."
	if got.ProseSummary != wantProse {
		t.Fatalf("prose = %q", got.ProseSummary)
	}
	if len(got.ActionItems) != 0 || got.ActionItems == nil {
		t.Fatalf("expected empty action items, got %#v", got.ActionItems)
	}
}

func TestFallbackProcessHeadersOnly(t *testing.T) {
	got := FallbackProcess("Yesterday\nToday\nBlockers")
	if got.ProseSummary != emptyProse {
		t.Fatalf("prose = %q", got.ProseSummary)
	}
}

func TestNormalizeActionItemsRejectsNonArray(t *testing.T) {
	if got := NormalizeActionItems(json.RawMessage(`{"id":"1"}`)); len(got) != 0 {
		t.Fatalf("expected no items, got %#v", got)
	}
	if got := NormalizeActionItems(nil); got == nil {
		t.Fatal("expected empty slice for nil input")
	}
}
