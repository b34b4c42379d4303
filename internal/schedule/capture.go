package schedule

import "strings"

// CaptureBuffer accumulates raw text chunks from one or more partial page
// reads during a single run. Chunks may overlap or repeat; ordering is
// preserved because downstream dedup is last-write-wins on capture order.
type CaptureBuffer struct {
	chunks []string
}

// Add appends one raw capture chunk.
func (b *CaptureBuffer) Add(chunk string) {
	b.chunks = append(b.chunks, chunk)
}

// Chunks returns the captures in the order they were added.
func (b *CaptureBuffer) Chunks() []string {
	return b.chunks
}

// Len reports the number of captured chunks.
func (b *CaptureBuffer) Len() int {
	return len(b.chunks)
}

// NonEmpty reports whether any chunk carries non-whitespace content.
// Zero extracted sessions from a non-empty buffer is the page-format
// warning signal.
func (b *CaptureBuffer) NonEmpty() bool {
	for _, c := range b.chunks {
		if strings.TrimSpace(c) != "" {
			return true
		}
	}
	return false
}
