package hasher

import (
	"bytes"
	"testing"
)

func TestContentHash(t *testing.T) {
	data := []byte("encoded image bytes")

	full := ContentHash(data, 0)
	if len(full) != 16 {
		t.Fatalf("full hash length: %d", len(full))
	}
	if got := ContentHash(data, 8); got != full[:8] {
		t.Errorf("truncated: got %q, want %q", got, full[:8])
	}
	if got := ContentHash(data, 64); got != full {
		t.Errorf("oversized length should keep full hash, got %q", got)
	}
	if ContentHash([]byte("other"), 0) == full {
		t.Error("different content, same hash")
	}
}

func TestContentHashReader_MatchesBytes(t *testing.T) {
	data := bytes.Repeat([]byte{0x89, 'P', 'N', 'G'}, 1024)
	got, err := ContentHashReader(bytes.NewReader(data), 16)
	if err != nil {
		t.Fatalf("reader: %v", err)
	}
	if want := ContentHash(data, 16); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
