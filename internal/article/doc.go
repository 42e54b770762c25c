// Package article turns transcripts into structured written articles.
//
// The generator drives a text-completion capability through one of two
// strategies: a single generation call for transcripts that fit the
// single-pass limit, or a chunked run that summarizes overlapping windows
// one at a time and synthesizes the ordered summaries into the final
// article. Prompt construction, response parsing, and the chunker are pure;
// all network behaviour lives behind the Completer interface.
package article
