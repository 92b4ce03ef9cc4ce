package assist

import (
	"encoding/json"
	"fmt"
	"strings"

	"standup/internal/taxonomy"
)

const processingPrompt = `You are an AI assistant that processes daily scrum notes. Given unstructured text about someone's workday, you must:

1. Extract and structure the information into three categories:
   - Yesterday: What was done yesterday (as bullet points)
   - Today: What is planned for today (as bullet points)
   - Blockers: Any blockers or impediments (as bullet points)

2. Generate a presentation-friendly summary:
   - Two short paragraphs of natural prose summarizing the work
   - Suitable for reading aloud in a standup meeting
   - Professional but conversational tone

3. Extract action items:
   - Identify specific tasks or action steps mentioned
   - Each should be actionable and clear

Respond ONLY with valid JSON in this exact format:
{
  "yesterday": ["bullet point 1", "bullet point 2"],
  "today": ["bullet point 1", "bullet point 2"],
  "blockers": ["blocker 1"] or [],
  "proseSummary": "First paragraph about what was accomplished.\n\nSecond paragraph about today's plans and any challenges.",
  "actionItems": [
    {"id": "1", "text": "Action item text", "completed": false}
  ]
}

If a section has no content, use an empty array. Always include all fields.`

const classificationTemplate = `You are an AI assistant that classifies daily work activities into predefined categories.

Given structured daily notes (yesterday, today, blockers) and a prose summary, you must:
1. Determine the PRIMARY Task Category that best describes the day's main work
2. Select the most appropriate Task Description from that category's allowed values
3. Generate a concise, task-oriented single-line summary of what was accomplished

IMPORTANT: You MUST only choose from these exact categories and descriptions:

%s

Rules:
- Choose the category that represents the MAJORITY of the day's work
- If multiple activities are present, pick the most significant one
- If unsure, default to "Other" category with "Other Task Category" description
- The taskSummary should be a brief, action-oriented sentence describing the actual work done (e.g., "Implemented user authentication and fixed login validation bug")
- Keep the taskSummary under %d characters
- Your response must be valid JSON with exact string matches from the allowed values

Respond ONLY with valid JSON in this exact format:
{
  "taskCategory": "exact category name from the list",
  "taskDescription": "exact description from that category's list",
  "taskSummary": "brief task-oriented summary of what was done"
}`

// classificationPrompt embeds the taxonomy in table order.
var classificationPrompt = func() string {
	var b strings.Builder
	b.WriteString("{\n")
	categories := taxonomy.Categories()
	for i, category := range categories {
		name, _ := json.Marshal(category)
		values, _ := json.MarshalIndent(taxonomy.DescriptionsFor(category), "  ", "  ")
		fmt.Fprintf(&b, "  %s: %s", name, values)
		if i < len(categories)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("}")
	return fmt.Sprintf(classificationTemplate, b.String(), maxSummaryRunes)
}()
