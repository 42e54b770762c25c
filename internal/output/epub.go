package output

import (
	"fmt"
	"os"

	"github.com/bmaupin/go-epub"

	"distill/internal/content"
)

const epubCSS = `body { font-family: serif; line-height: 1.6; }
h1 { border-bottom: 2px solid #333; padding-bottom: 0.5rem; }
h2 { color: #555; margin-top: 2rem; }
blockquote { border-left: 4px solid #ddd; padding-left: 1rem; color: #666; }
`

// EPUB renders the article into an EPUB file at outputPath. The content
// identifier becomes the book identifier and the source title the author,
// so readers group articles by where they came from.
func EPUB(article content.Article, outputPath string) error {
	body, err := htmlBody(article)
	if err != nil {
		return err
	}

	book := epub.NewEpub(article.Title)
	book.SetIdentifier(article.ContentID)
	book.SetLang("en")
	book.SetAuthor(article.Source.Title)

	// go-epub pulls CSS from a file path, so the stylesheet goes through a
	// temp file that must outlive Write.
	cssFile, err := os.CreateTemp("", "distill-epub-*.css")
	if err != nil {
		return fmt.Errorf("write epub styles: %w", err)
	}
	defer os.Remove(cssFile.Name())
	if _, err := cssFile.WriteString(epubCSS); err != nil {
		cssFile.Close()
		return fmt.Errorf("write epub styles: %w", err)
	}
	if err := cssFile.Close(); err != nil {
		return fmt.Errorf("write epub styles: %w", err)
	}

	cssPath, err := book.AddCSS(cssFile.Name(), "default.css")
	if err != nil {
		return fmt.Errorf("add epub styles: %w", err)
	}
	if _, err := book.AddSection(body, article.Title, "content.xhtml", cssPath); err != nil {
		return fmt.Errorf("add epub content: %w", err)
	}
	if err := book.Write(outputPath); err != nil {
		return fmt.Errorf("write epub: %w", err)
	}
	return nil
}
