package article

import (
	"iter"
	"strings"
)

// boundaryWindow is how far back from a tentative chunk end the chunker looks
// for a sentence terminator before giving up and cutting mid-sentence.
const boundaryWindow = 1000

// Chunks splits text into an ordered sequence of overlapping windows of at
// most size bytes, preferring to end each window just after a sentence
// terminator (". ") found within the trailing boundaryWindow bytes. Adjacent
// windows share overlap bytes of context. The sequence is lazy and can be
// ranged over more than once.
//
// Text shorter than size yields exactly one chunk equal to the whole input.
// Chunks panics if size < 1 or overlap is negative or not smaller than size.
func Chunks(text string, size, overlap int) iter.Seq[string] {
	if size < 1 {
		panic("article: chunk size must be positive")
	}
	if overlap < 0 || overlap >= size {
		panic("article: overlap must be non-negative and smaller than chunk size")
	}
	return func(yield func(string) bool) {
		cursor := 0
		for cursor < len(text) {
			end := cursor + size
			if end >= len(text) {
				yield(text[cursor:])
				return
			}
			windowStart := end - boundaryWindow
			if windowStart < cursor {
				windowStart = cursor
			}
			if idx := strings.LastIndex(text[windowStart:end], ". "); idx >= 0 {
				if boundary := windowStart + idx; boundary > cursor {
					end = boundary + 1
				}
			}
			if !yield(text[cursor:end]) {
				return
			}
			next := end - overlap
			if next <= cursor {
				// A sentence boundary landed inside the overlap span; skip
				// the overlap for this pair so the cursor keeps advancing.
				next = end
			}
			cursor = next
		}
	}
}
