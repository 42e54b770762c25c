// Package output renders generated articles to their delivery formats.
//
// Markdown is the base representation; HTML wraps the converted markdown
// in a self-contained styled page, and EPUB packages that same content as
// a book. Write dispatches on format and handles file placement.
package output
