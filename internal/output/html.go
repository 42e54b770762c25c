package output

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"distill/internal/content"
)

var markdownConverter = goldmark.New(goldmark.WithExtensions(extension.GFM))

const htmlPage = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        body {
            max-width: 800px;
            margin: 0 auto;
            padding: 2rem;
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
            line-height: 1.6;
            color: #333;
        }
        h1 { border-bottom: 2px solid #333; padding-bottom: 0.5rem; }
        h2 { color: #555; margin-top: 2rem; }
        blockquote {
            border-left: 4px solid #ddd;
            padding-left: 1rem;
            color: #666;
            margin: 1rem 0;
        }
        a { color: #0066cc; }
    </style>
</head>
<body>
%s
</body>
</html>`

// HTML renders the article's markdown into a standalone styled page.
func HTML(article content.Article) (string, error) {
	body, err := htmlBody(article)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(htmlPage, html.EscapeString(article.Title), body), nil
}

func htmlBody(article content.Article) (string, error) {
	var buf bytes.Buffer
	if err := markdownConverter.Convert([]byte(Markdown(article)), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}
