package docstore

import "strings"

// Chunking parameters. Markdown docs are split preferring section
// boundaries so a chunk usually holds a complete payload example.
const (
	defaultChunkSize = 1000
	defaultOverlap   = 200
)

// separators are tried in order; earlier separators produce more
// coherent chunks.
var separators = []string{"\n## ", "\n### ", "\n\n", "\n", " "}

// splitMarkdown splits a document into chunks of at most size bytes,
// with roughly overlap bytes of context carried between adjacent
// chunks.
func splitMarkdown(text string, size, overlap int) []string {
	if size <= 0 {
		size = defaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = size / 5
	}
	return splitAt(text, size, overlap, 0)
}

func splitAt(text string, size, overlap, sepIdx int) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if len(text) <= size {
		return []string{text}
	}
	if sepIdx >= len(separators) {
		return hardCut(text, size, overlap)
	}

	pieces := splitKeepingSeparator(text, separators[sepIdx])
	if len(pieces) == 1 {
		// Separator not present; fall through to the next one.
		return splitAt(text, size, overlap, sepIdx+1)
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		if strings.TrimSpace(current.String()) != "" {
			chunks = append(chunks, current.String())
		}
		current.Reset()
	}

	for _, piece := range pieces {
		if len(piece) > size {
			flush()
			chunks = append(chunks, splitAt(piece, size, overlap, sepIdx+1)...)
			continue
		}
		if current.Len() > 0 && current.Len()+len(piece) > size {
			tail := overlapTail(current.String(), overlap)
			flush()
			current.WriteString(tail)
		}
		current.WriteString(piece)
	}
	flush()

	return chunks
}

// splitKeepingSeparator splits text on sep, keeping the separator as a
// prefix of each following piece so headers stay attached to their
// sections.
func splitKeepingSeparator(text, sep string) []string {
	parts := strings.Split(text, sep)
	if len(parts) == 1 {
		return parts
	}
	out := make([]string, 0, len(parts))
	for i, part := range parts {
		if i == 0 {
			if part != "" {
				out = append(out, part)
			}
			continue
		}
		out = append(out, sep+part)
	}
	return out
}

// overlapTail returns the last overlap bytes of text, aligned to a
// whitespace boundary when possible.
func overlapTail(text string, overlap int) string {
	if overlap <= 0 || len(text) <= overlap {
		return ""
	}
	tail := text[len(text)-overlap:]
	if idx := strings.IndexAny(tail, " \n"); idx >= 0 && idx+1 < len(tail) {
		tail = tail[idx+1:]
	}
	return tail
}

func hardCut(text string, size, overlap int) []string {
	step := size - overlap
	if step <= 0 {
		step = size
	}
	var out []string
	for start := 0; start < len(text); start += step {
		end := start + size
		if end >= len(text) {
			out = append(out, text[start:])
			break
		}
		out = append(out, text[start:end])
	}
	return out
}
