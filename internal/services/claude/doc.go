// Package claude provides the Anthropic messages client used for article
// generation.
//
// This package is used by:
//   - Article generator: transform transcripts into structured articles
//   - Doctor command: verify the API key with a minimal round trip
//
// # Request Shape
//
// Complete sends a single user message plus an optional system prompt to
// /v1/messages and returns the concatenated text blocks of the response.
// An empty system prompt is omitted from the request body entirely, which
// matters for chunk summarization where no role framing is wanted.
//
// # Configuration
//
// Requires api_key; model, max_tokens, base_url, and timeout fall back to
// defaults. The key is checked before any network activity so a missing
// key surfaces as a configuration error rather than an HTTP 401.
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.Complete: send system/user prompts, receive response text.
// Client.HealthCheck: verify the API key with a one-word request.
//
// # Retry Behaviour
//
// The client retries on HTTP 408/429/5xx, network timeouts, and empty
// response content using the shared retry policy (3 attempts, 2s base
// delay doubling per attempt). A Retry-After header overrides the
// computed backoff. Context cancellation aborts retries immediately.
package claude
