package article

import (
	"fmt"
	"strings"

	"distill/internal/content"
	"distill/internal/language"
)

const systemPromptTemplate = `You are an expert writer who transforms video and podcast transcripts into well-structured, readable articles. You preserve the key insights, arguments, and information from the original content while making it engaging to read.

Guidelines:
- Preserve direct quotes when they are particularly insightful
- Attribute speakers when speaker information is available
- Generate a descriptive title that captures the essence of the content
- Include a TLDR/summary at the top
- Use clear section headings to organize the content
- Maintain the original tone and voice where appropriate
- Write the article in %s`

const outputFormat = `Respond with a JSON object matching this exact structure:
{
  "title": "A descriptive article title",
  "subtitle": "An optional subtitle or null",
  "summary": "A 2-3 sentence TLDR summary",
  "sections": [
    {
      "heading": "Section Heading",
      "body": "Section content in markdown format"
    }
  ]
}`

const chunkSummaryTemplate = `Summarize this section of a transcript, preserving key points, quotes, and insights. This is part %d of %d of a longer transcript.

Transcript section:
%s

Provide a detailed summary that can later be combined with summaries of other sections.`

const synthesisTemplate = `You have summaries of different sections of a transcript. Synthesize these into a single coherent article.

Source: %s

Section summaries:
%s

%s

%s`

const generationTemplate = `Transform the following transcript into an article.

Source Information:
%s

Style: %s

%s

Transcript:
%s`

var styleInstructions = map[content.Style]string{
	content.StyleDetailed: "Write a comprehensive, detailed article that preserves most of the " +
		"original content. Include all key points, examples, and supporting " +
		"arguments. The article should be thorough enough that a reader would " +
		"not need to watch/listen to the original content.",
	content.StyleConcise: "Write a concise article highlighting the key points and most important " +
		"insights. Aim for approximately 30% of the original content length. " +
		"Focus on the main arguments and conclusions, omitting tangential " +
		"discussion and repetition.",
	content.StyleSummary: "Write an executive summary of 3-5 paragraphs capturing the core message " +
		"and key takeaways. This should give readers a quick understanding of " +
		"what was discussed and the main conclusions.",
	content.StyleBullets: "Create structured bullet-point notes organized by topic. Use nested " +
		"bullets for sub-points. Include key quotes, statistics, and actionable " +
		"insights. This format should be easy to scan and reference later.",
}

// styleInstruction maps a style to its prompt guidance. Unknown styles get
// the detailed guidance so a stale value degrades to the richest output.
func styleInstruction(style content.Style) string {
	if instruction, ok := styleInstructions[style]; ok {
		return instruction
	}
	return styleInstructions[content.StyleDetailed]
}

func systemPrompt(lang string) string {
	return fmt.Sprintf(systemPromptTemplate, language.DisplayName(lang))
}

func sourceInfo(source content.Source) string {
	info := fmt.Sprintf("Title: %s\nType: %s", source.Title, source.Kind)
	if source.PublishedAt != nil {
		info += fmt.Sprintf("\nPublished: %s", source.PublishedAt.Format("2006-01-02"))
	}
	return info
}

// generationPrompt builds the system and user prompts for single-pass
// article generation.
func generationPrompt(transcriptText string, source content.Source, style content.Style, lang string) (string, string) {
	user := fmt.Sprintf(generationTemplate, sourceInfo(source), styleInstruction(style), outputFormat, transcriptText)
	return systemPrompt(lang), user
}

// chunkPrompt builds the prompt for summarizing one transcript chunk.
// Positions are 1-based.
func chunkPrompt(text string, chunkNum, totalChunks int) string {
	return fmt.Sprintf(chunkSummaryTemplate, chunkNum, totalChunks, text)
}

// synthesisPrompt builds the system and user prompts for combining ordered
// chunk summaries into the final article.
func synthesisPrompt(summaries []string, source content.Source, style content.Style, lang string) (string, string) {
	numbered := make([]string, 0, len(summaries))
	for i, summary := range summaries {
		numbered = append(numbered, fmt.Sprintf("--- Section %d ---\n%s", i+1, summary))
	}
	user := fmt.Sprintf(synthesisTemplate, source.Title, strings.Join(numbered, "\n\n"), styleInstruction(style), outputFormat)
	return systemPrompt(lang), user
}
