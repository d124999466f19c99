package ingest

import "strings"

const (
	// DefaultChunkSize is the maximum chunk length in characters.
	DefaultChunkSize = 500

	// DefaultChunkOverlap is the tail of a chunk carried into the next one
	// so sentences cut at a boundary keep some context.
	DefaultChunkOverlap = 50
)

// separators are tried in order: paragraph break, line break, sentence end,
// word boundary, then a hard character cut as last resort.
var separators = []string{"\n\n", "\n", ".", " "}

// Splitter breaks narrative text into bounded chunks at the most natural
// boundary available.
type Splitter struct {
	chunkSize int
	overlap   int
}

// NewSplitter creates a splitter with the default size and overlap.
func NewSplitter() *Splitter {
	return &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}
}

// Split breaks text into chunks of at most chunkSize characters. Pieces are
// produced at the coarsest separator that keeps them under the limit, then
// merged greedily; consecutive chunks share up to overlap characters.
// Whitespace-only input yields no chunks.
func (s *Splitter) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return s.merge(s.pieces(text, separators))
}

// pieces recursively splits text until every piece fits within chunkSize.
func (s *Splitter) pieces(text string, seps []string) []string {
	if len(text) <= s.chunkSize {
		return []string{text}
	}
	if len(seps) == 0 {
		// No boundary left, cut at the character limit.
		var out []string
		for len(text) > s.chunkSize {
			out = append(out, text[:s.chunkSize])
			text = text[s.chunkSize:]
		}
		if text != "" {
			out = append(out, text)
		}
		return out
	}

	parts := strings.SplitAfter(text, seps[0])
	var out []string
	for _, part := range parts {
		if part == "" {
			continue
		}
		if len(part) > s.chunkSize {
			out = append(out, s.pieces(part, seps[1:])...)
		} else {
			out = append(out, part)
		}
	}
	return out
}

// merge packs pieces into chunks up to chunkSize, carrying an overlap tail
// from each flushed chunk into the next when it fits.
func (s *Splitter) merge(pieces []string) []string {
	var chunks []string
	var buf string

	flush := func() {
		if trimmed := strings.TrimSpace(buf); trimmed != "" {
			chunks = append(chunks, trimmed)
		}
	}

	for _, piece := range pieces {
		if buf != "" && len(buf)+len(piece) > s.chunkSize {
			flush()
			tail := ""
			if s.overlap > 0 && len(buf) > s.overlap {
				tail = buf[len(buf)-s.overlap:]
			}
			if len(tail)+len(piece) <= s.chunkSize {
				buf = tail
			} else {
				buf = ""
			}
		}
		buf += piece
	}
	flush()

	return chunks
}
