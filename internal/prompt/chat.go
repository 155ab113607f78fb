package prompt

import (
	"fmt"
	"strings"

	"github.com/brolli/brolli/internal/model"
)

// BuildChatSystemPrompt extends the sales prompt with the per-turn context:
// the approved FAQ topic and the patent snippets the model may cite.
// Empty lines are dropped from the result.
func BuildChatSystemPrompt(base string, topic model.Topic, snippets []model.Snippet) string {
	id, title := topic.ID, topic.Title
	if id == "" {
		id = model.UnknownTopicID
	}
	if title == "" {
		title = "Unknown"
	}

	parts := []string{
		base,
		"Disclosure (keep it short): AI assistant. Not legal advice.",
		"Response rules:",
		"- Keep answers short and practical (aim 3-8 sentences).",
		"- No URLs or external links.",
		"- If the question matches an approved FAQ topic, prefer that answer.",
		"- If you reference the patent, cite snippetIds like [abs-001].",
		fmt.Sprintf("Approved FAQ topic: %s - %s", id, title),
	}
	if topic.Answer != "" {
		parts = append(parts, "Approved answer:\n"+topic.Answer)
	}
	parts = append(parts, "Canonical patent snippets (cite by snippetId):")
	for _, s := range snippets {
		parts = append(parts, fmt.Sprintf("[%s] (%s) %s", s.ID, s.PageOrSection, s.Text))
	}

	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n")
}
