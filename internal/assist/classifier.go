package assist

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"standup/internal/logging"
	"standup/internal/services/llm"
	"standup/internal/taxonomy"
)

const (
	defaultSummary  = "Work completed for the day"
	maxSummaryRunes = 100
)

// ClassificationInput is the note content offered to the classifier.
type ClassificationInput struct {
	Yesterday    []string
	Today        []string
	Blockers     []string
	ProseSummary string
	RawText      string
}

// Empty reports whether the input carries no usable text.
func (in ClassificationInput) Empty() bool {
	return strings.TrimSpace(BuildContext(in)) == ""
}

// Classification is a taxonomy pair plus a one-line summary of the day.
type Classification struct {
	TaskCategory    string `json:"taskCategory"`
	TaskDescription string `json:"taskDescription"`
	TaskSummary     string `json:"taskSummary"`
	FallbackReason  string `json:"-"`
}

// FallbackClassification is returned whenever the model result is unusable.
func FallbackClassification() Classification {
	category, description := taxonomy.Fallback()
	return Classification{TaskCategory: category, TaskDescription: description, TaskSummary: defaultSummary}
}

// Classifier assigns a note to the task taxonomy.
type Classifier struct {
	llm    Completer
	logger *slog.Logger
}

// NewClassifier constructs a Classifier. A nil client always takes the fallback.
func NewClassifier(client Completer, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Classifier{llm: client, logger: logging.NewComponentLogger(logger, "classifier")}
}

// Classify never fails; any problem yields FallbackClassification.
func (c *Classifier) Classify(ctx context.Context, in ClassificationInput) Classification {
	logger := logging.WithContext(ctx, c.logger)

	if c.llm == nil || !c.llm.Configured() {
		return c.fallback(logger, "OpenAI API key is not configured")
	}
	contextText := BuildContext(in)
	if strings.TrimSpace(contextText) == "" {
		return c.fallback(logger, "No content provided for classification")
	}

	content, err := c.llm.CompleteJSON(ctx, classificationPrompt, contextText)
	if err != nil {
		return c.fallback(logger, err.Error())
	}
	if strings.TrimSpace(content) == "" {
		return c.fallback(logger, "No response from AI")
	}

	var reply struct {
		TaskCategory    any `json:"taskCategory"`
		TaskDescription any `json:"taskDescription"`
		TaskSummary     any `json:"taskSummary"`
	}
	if err := llm.DecodeLLMJSON(content, &reply); err != nil {
		return c.fallback(logger, fmt.Sprintf("decode reply: %v", err))
	}

	result := Classification{
		TaskCategory:    strings.TrimSpace(scalarString(reply.TaskCategory)),
		TaskDescription: strings.TrimSpace(scalarString(reply.TaskDescription)),
		TaskSummary:     normalizeSummary(scalarString(reply.TaskSummary)),
	}
	if !taxonomy.DescriptionIsValid(result.TaskCategory, result.TaskDescription) {
		return c.fallback(logger, fmt.Sprintf("Invalid category or description from AI: %q / %q", result.TaskCategory, result.TaskDescription))
	}

	logger.Info("note classified",
		logging.String("task_category", result.TaskCategory),
		logging.String("task_description", result.TaskDescription),
	)
	return result
}

func (c *Classifier) fallback(logger *slog.Logger, reason string) Classification {
	attrs := logging.Fallback("task_classification", reason)
	attrs = append(attrs, logging.String(logging.FieldImpact, "day recorded as Other / Other Task Category"))
	logging.WarnWithContext(logger, "using fallback classification", "classify_fallback", attrs...)
	result := FallbackClassification()
	result.FallbackReason = reason
	return result
}

// BuildContext renders the classifier prompt body. Each list becomes a
// "- " bulleted section; raw text is used only when no other section exists.
func BuildContext(in ClassificationInput) string {
	var parts []string
	addList := func(title string, items []string) {
		kept := make([]string, 0, len(items))
		for _, item := range items {
			if strings.TrimSpace(item) != "" {
				kept = append(kept, item)
			}
		}
		if len(kept) > 0 {
			parts = append(parts, title+":\n- "+strings.Join(kept, "\n- "))
		}
	}
	addList("Yesterday", in.Yesterday)
	addList("Today", in.Today)
	addList("Blockers", in.Blockers)
	if strings.TrimSpace(in.ProseSummary) != "" {
		parts = append(parts, "Summary:\n"+in.ProseSummary)
	}
	if len(parts) == 0 && strings.TrimSpace(in.RawText) != "" {
		parts = append(parts, "Raw notes:\n"+in.RawText)
	}
	return strings.Join(parts, "\n\n")
}

func normalizeSummary(summary string) string {
	summary = strings.Join(strings.Fields(summary), " ")
	if summary == "" {
		return defaultSummary
	}
	if utf8.RuneCountInString(summary) > maxSummaryRunes {
		runes := []rune(summary)
		summary = strings.TrimSpace(string(runes[:maxSummaryRunes]))
	}
	return summary
}
