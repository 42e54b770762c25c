// Package language provides language code normalization and display names.
//
// The article prompt builder uses display names for its output-language
// directive, and the podcast subscription tracker normalizes feed language
// tags before recording them. Both operations are consolidated here to avoid
// duplicating the mapping.
package language
