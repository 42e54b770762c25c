package article

import (
	"slices"
	"strings"
	"testing"
)

func collectChunks(t *testing.T, text string, size, overlap int) []string {
	t.Helper()
	return slices.Collect(Chunks(text, size, overlap))
}

func TestChunksShortInputSingleChunk(t *testing.T) {
	text := "A short transcript. Nothing to split here."
	chunks := collectChunks(t, text, 1000, 100)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != text {
		t.Fatalf("chunk = %q, want whole input", chunks[0])
	}
}

func TestChunksExactSizeSingleChunk(t *testing.T) {
	text := strings.Repeat("a", 500)
	chunks := collectChunks(t, text, 500, 50)
	if len(chunks) != 1 || chunks[0] != text {
		t.Fatalf("expected single chunk equal to input, got %d chunks", len(chunks))
	}
}

func TestChunksPreferSentenceBoundary(t *testing.T) {
	var b strings.Builder
	for i := 0; b.Len() < 5000; i++ {
		b.WriteString("This is a sentence with a number in it, and that number is ")
		b.WriteString(strings.Repeat("9", 1+i%5))
		b.WriteString(". ")
	}
	text := b.String()

	chunks := collectChunks(t, text, 2000, 200)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks[:len(chunks)-1] {
		if !strings.HasSuffix(chunk, ".") {
			t.Errorf("chunk %d does not end on a sentence boundary: ...%q", i, chunk[len(chunk)-20:])
		}
	}
}

func TestChunksOverlapRoundTrip(t *testing.T) {
	var b strings.Builder
	for i := 0; b.Len() < 25000; i++ {
		b.WriteString("Sentence number ")
		b.WriteString(strings.Repeat("x", i%7))
		b.WriteString(" carries some weight. ")
	}
	text := b.String()

	const overlap = 200
	chunks := collectChunks(t, text, 2000, overlap)
	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 chunks, got %d", len(chunks))
	}

	var rebuilt strings.Builder
	rebuilt.WriteString(chunks[0])
	for _, chunk := range chunks[1:] {
		rebuilt.WriteString(chunk[overlap:])
	}
	if rebuilt.String() != text {
		t.Fatalf("overlap round-trip failed: rebuilt %d bytes, want %d", rebuilt.Len(), len(text))
	}
}

func TestChunksNoBoundaryTerminates(t *testing.T) {
	// No ". " anywhere, so every cut lands mid-run; the cursor must still
	// advance and every chunk must be non-empty.
	text := strings.Repeat("a", 4231)
	chunks := collectChunks(t, text, 100, 10)
	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}
	for i, chunk := range chunks {
		if chunk == "" {
			t.Fatalf("chunk %d is empty", i)
		}
	}
	var rebuilt strings.Builder
	rebuilt.WriteString(chunks[0])
	for _, chunk := range chunks[1:] {
		rebuilt.WriteString(chunk[min(10, len(chunk)):])
	}
	if rebuilt.String() != text {
		t.Fatal("chunks with overlap trimmed do not reconstruct the input")
	}
}

func TestChunksRestartable(t *testing.T) {
	text := strings.Repeat("One more sentence for the pile. ", 400)
	seq := Chunks(text, 1500, 100)
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	if !slices.Equal(first, second) {
		t.Fatalf("ranging twice produced different chunks: %d vs %d", len(first), len(second))
	}
}

func TestChunksInvalidParamsPanic(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
	}{
		{"zero size", 0, 0},
		{"negative overlap", 100, -1},
		{"overlap equals size", 100, 100},
		{"overlap exceeds size", 100, 150},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatalf("Chunks(size=%d, overlap=%d) did not panic", tt.size, tt.overlap)
				}
			}()
			Chunks("text", tt.size, tt.overlap)
		})
	}
}
