package output

import (
	"fmt"
	"strings"

	"distill/internal/content"
)

// Markdown renders an article: title, optional subtitle, TLDR blockquote,
// source attribution line, then the sections in order.
func Markdown(article content.Article) string {
	lines := []string{"# " + article.Title}
	if article.Subtitle != "" {
		lines = append(lines, "\n*"+article.Subtitle+"*")
	}
	lines = append(lines, "\n> **TLDR:** "+article.Summary)

	meta := []string{fmt.Sprintf("Source: [%s](%s)", article.Source.Title, article.Source.URL)}
	if article.Source.PublishedAt != nil {
		meta = append(meta, "Published: "+article.Source.PublishedAt.Format("2006-01-02"))
	}
	lines = append(lines, "\n*"+strings.Join(meta, " | ")+"*")

	lines = append(lines, "")
	for _, section := range article.Sections {
		lines = append(lines, "## "+section.Heading, "\n"+section.Body, "")
	}
	return strings.Join(lines, "\n")
}
