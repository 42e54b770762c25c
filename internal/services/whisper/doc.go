// Package whisper provides audio transcription backends.
//
// Two implementations satisfy Backend:
//   - LocalBackend shells out to the whisper CLI and reads its JSON output
//   - APIBackend uploads to the OpenAI transcription endpoint, splitting
//     files above the 25 MB limit into ten-minute ffmpeg segments whose
//     timestamps are shifted back into one continuous timeline
//
// API uploads share the bounded retry policy used by the other outbound
// clients; local runs are never retried.
package whisper
