package article

import (
	"encoding/json"
	"fmt"
	"strings"

	"distill/internal/content"
	"distill/internal/services"
)

type articlePayload struct {
	Title    string           `json:"title"`
	Subtitle *string          `json:"subtitle"`
	Summary  string           `json:"summary"`
	Sections []sectionPayload `json:"sections"`
}

type sectionPayload struct {
	Heading *string `json:"heading"`
	Body    *string `json:"body"`
}

// parseArticle converts raw model output into an Article. The style is always
// taken from the caller, never from the response, because the model is not
// asked to emit it. Malformed JSON and sections missing heading or body fail
// with a parse-tagged error; retrying either would reproduce the same output.
func parseArticle(raw, contentID string, style content.Style, source content.Source) (*content.Article, error) {
	payload := stripCodeFence(strings.TrimSpace(raw))
	if payload == "" {
		return nil, services.Wrap(services.ErrParse, "article", "parse", "empty response", nil)
	}

	var parsed articlePayload
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil, services.Wrap(services.ErrParse, "article", "parse",
			fmt.Sprintf("response snippet: %s", payloadSnippet(payload)), err)
	}

	sections := make([]content.Section, 0, len(parsed.Sections))
	for i, section := range parsed.Sections {
		if section.Heading == nil || section.Body == nil {
			return nil, services.Wrap(services.ErrParse, "article", "parse",
				fmt.Sprintf("section %d missing heading or body", i+1), nil)
		}
		sections = append(sections, content.Section{Heading: *section.Heading, Body: *section.Body})
	}

	title := strings.TrimSpace(parsed.Title)
	if title == "" {
		title = source.Title
	}
	subtitle := ""
	if parsed.Subtitle != nil {
		subtitle = *parsed.Subtitle
	}

	return &content.Article{
		ContentID: contentID,
		Title:     title,
		Subtitle:  subtitle,
		Summary:   parsed.Summary,
		Sections:  sections,
		Style:     style,
		Source:    source,
	}, nil
}

// stripCodeFence removes a surrounding markdown code fence: the first line is
// dropped, and a trailing line containing only the closing fence is dropped.
func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	lines = lines[1:]
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// payloadSnippet condenses a payload into a single log-safe line.
func payloadSnippet(payload string) string {
	trimmed := strings.TrimSpace(payload)
	if trimmed == "" {
		return "<empty>"
	}
	replacer := strings.NewReplacer("\r", " ", "\n", " ", "\t", " ")
	clean := replacer.Replace(trimmed)
	clean = strings.Join(strings.Fields(clean), " ")
	const limit = 160
	runes := []rune(clean)
	if len(runes) > limit {
		clean = string(runes[:limit]) + "..."
	}
	return clean
}
