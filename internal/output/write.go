package output

import (
	"fmt"
	"os"
	"path/filepath"

	"distill/internal/content"
)

// Write renders the article in the requested format and writes it under
// dir as baseName plus the format's extension, returning the full path.
func Write(article content.Article, dir, baseName string, format content.Format) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(dir, baseName+format.Extension())

	switch format {
	case content.FormatEPUB:
		if err := EPUB(article, path); err != nil {
			return "", err
		}
	case content.FormatHTML:
		page, err := HTML(article)
		if err != nil {
			return "", err
		}
		if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
			return "", fmt.Errorf("write article: %w", err)
		}
	default:
		if err := os.WriteFile(path, []byte(Markdown(article)), 0o644); err != nil {
			return "", fmt.Errorf("write article: %w", err)
		}
	}
	return path, nil
}
