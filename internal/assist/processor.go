package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"standup/internal/logging"
	"standup/internal/notes"
	"standup/internal/services"
	"standup/internal/services/llm"
)

const emptyProse = "No structured content could be extracted."

// Completer is the slice of the chat completion client the services need.
type Completer interface {
	Configured() bool
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ProcessedNote is the structured form of a free-form note.
type ProcessedNote struct {
	Yesterday    []string           `json:"yesterday"`
	Today        []string           `json:"today"`
	Blockers     []string           `json:"blockers"`
	ProseSummary string             `json:"proseSummary"`
	ActionItems  []notes.ActionItem `json:"actionItems"`
	// FallbackReason is set when the result came from local heuristics.
	FallbackReason string `json:"-"`
}

// Processor structures raw notes with the model, falling back to keyword
// sectioning when the model cannot be used.
type Processor struct {
	llm    Completer
	logger *slog.Logger
}

// NewProcessor constructs a Processor. A nil client always takes the fallback.
func NewProcessor(client Completer, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Processor{llm: client, logger: logging.NewComponentLogger(logger, "processor")}
}

// Process structures rawText. Only blank input is an error.
func (p *Processor) Process(ctx context.Context, rawText string) (ProcessedNote, error) {
	if strings.TrimSpace(rawText) == "" {
		return ProcessedNote{}, services.Wrap(services.ErrValidation, "processor", "process", "No text provided for processing", nil)
	}
	logger := logging.WithContext(ctx, p.logger)

	if p.llm == nil || !p.llm.Configured() {
		return p.fallback(logger, rawText, "OpenAI API key is not configured"), nil
	}

	content, err := p.llm.CompleteJSON(ctx, processingPrompt, rawText)
	if err != nil {
		return p.fallback(logger, rawText, err.Error()), nil
	}
	if strings.TrimSpace(content) == "" {
		return p.fallback(logger, rawText, "No response from AI"), nil
	}

	var reply struct {
		Yesterday    json.RawMessage `json:"yesterday"`
		Today        json.RawMessage `json:"today"`
		Blockers     json.RawMessage `json:"blockers"`
		ProseSummary json.RawMessage `json:"proseSummary"`
		ActionItems  json.RawMessage `json:"actionItems"`
	}
	if err := llm.DecodeLLMJSON(content, &reply); err != nil {
		return p.fallback(logger, rawText, fmt.Sprintf("decode reply: %v", err)), nil
	}

	var prose string
	if err := json.Unmarshal(reply.ProseSummary, &prose); err != nil {
		prose = ""
	}
	result := ProcessedNote{
		Yesterday:    stringList(reply.Yesterday),
		Today:        stringList(reply.Today),
		Blockers:     stringList(reply.Blockers),
		ProseSummary: prose,
		ActionItems:  NormalizeActionItems(reply.ActionItems),
	}
	logger.Debug("note structured",
		logging.Int("yesterday_count", len(result.Yesterday)),
		logging.Int("today_count", len(result.Today)),
		logging.Int("blocker_count", len(result.Blockers)),
		logging.Int("action_item_count", len(result.ActionItems)),
	)
	return result, nil
}

func (p *Processor) fallback(logger *slog.Logger, rawText, reason string) ProcessedNote {
	attrs := logging.Fallback("note_processing", reason)
	attrs = append(attrs,
		logging.String(logging.FieldErrorHint, "set llm.api_key or check provider status"),
		logging.String(logging.FieldImpact, "note structured by keyword heuristics"),
	)
	logging.WarnWithContext(logger, "using fallback note processing", "process_fallback", attrs...)
	note := FallbackProcess(rawText)
	note.FallbackReason = reason
	return note
}

var bulletPrefix = regexp.MustCompile(`^[-•*]\s*`)

type section int

const (
	sectionNone section = iota
	sectionYesterday
	sectionToday
	sectionBlockers
)

// FallbackProcess splits rawText into sections by keyword. A line that
// mentions a section keyword switches section and is not itself kept.
// Lines before any header land in today.
func FallbackProcess(rawText string) ProcessedNote {
	folder := cases.Fold()
	result := ProcessedNote{
		Yesterday:   []string{},
		Today:       []string{},
		Blockers:    []string{},
		ActionItems: []notes.ActionItem{},
	}

	current := sectionNone
	for _, line := range strings.Split(rawText, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		folded := folder.String(trimmed)
		switch {
		case strings.Contains(folded, "yesterday") || strings.Contains(folded, "did"):
			current = sectionYesterday
			continue
		case strings.Contains(folded, "today") || strings.Contains(folded, "plan") || strings.Contains(folded, "will"):
			current = sectionToday
			continue
		case strings.Contains(folded, "blocker") || strings.Contains(folded, "block") || strings.Contains(folded, "issue"):
			current = sectionBlockers
			continue
		}

		clean := strings.TrimSpace(bulletPrefix.ReplaceAllString(trimmed, ""))
		if clean == "" {
			continue
		}
		switch current {
		case sectionYesterday:
			result.Yesterday = append(result.Yesterday, clean)
		case sectionBlockers:
			result.Blockers = append(result.Blockers, clean)
		default:
			result.Today = append(result.Today, clean)
		}
	}

	result.ProseSummary = fallbackProse(result)
	return result
}

func fallbackProse(n ProcessedNote) string {
	var parts []string
	if len(n.Yesterday) > 0 {
		parts = append(parts, fmt.Sprintf("Yesterday, work was done on: %s.", strings.Join(n.Yesterday, ", ")))
	}
	if len(n.Today) > 0 {
		parts = append(parts, fmt.Sprintf("Today's focus will be on: %s.", strings.Join(n.Today, ", ")))
	}
	if len(n.Blockers) > 0 {
		parts = append(parts, fmt.Sprintf("Current blockers include: %s.", strings.Join(n.Blockers, ", ")))
	}
	if len(parts) == 0 {
		return emptyProse
	}
	return strings.Join(parts, "\n\n")
}

// NormalizeActionItems coerces a model-supplied action item array. Non-object
// entries are skipped and a missing id becomes the 1-based position. Entries
// with empty text are dropped; completed is read by truthiness.
func NormalizeActionItems(raw json.RawMessage) []notes.ActionItem {
	out := []notes.ActionItem{}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return out
	}
	for i, entry := range entries {
		var fields map[string]any
		if err := json.Unmarshal(entry, &fields); err != nil || fields == nil {
			continue
		}
		item := notes.ActionItemFromFields(fields)
		if item.Text == "" {
			continue
		}
		if item.ID == "" {
			item.ID = strconv.Itoa(i + 1)
		}
		out = append(out, item)
	}
	return out
}

// stringList keeps the string entries of a JSON array. Anything that is not
// an array yields an empty list.
func stringList(raw json.RawMessage) []string {
	out := []string{}
	var entries []any
	if err := json.Unmarshal(raw, &entries); err != nil {
		return out
	}
	for _, entry := range entries {
		if value := strings.TrimSpace(scalarString(entry)); value != "" {
			out = append(out, value)
		}
	}
	return out
}

func scalarString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}
