package chunker

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/praxos-ai/groundwork/internal/core/domain"
)

// Default recursive splitting parameters.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// DefaultSeparators is the coarse-to-fine separator hierarchy:
// paragraph, line, sentence, clause, word, character.
var DefaultSeparators = []string{"\n\n", "\n", ". ", "! ", "? ", ", ", " ", ""}

// Ensure Recursive implements the interface.
var _ Chunker = (*Recursive)(nil)

// Recursive splits text on an ordered separator hierarchy, recursively
// subdividing any piece that still exceeds the budget, then merges adjacent
// small pieces up to the chunk size with a trailing overlap copied from the
// end of the previous chunk. Identical input always yields identical
// chunk boundaries.
type Recursive struct {
	size       int
	overlap    int
	separators []string
}

// NewRecursive creates a recursive chunker from the settings, applying
// defaults for zero values.
func NewRecursive(cfg domain.ChunkingSettings) *Recursive {
	r := &Recursive{
		size:       cfg.Size,
		overlap:    cfg.Overlap,
		separators: cfg.Separators,
	}
	if r.size <= 0 {
		r.size = DefaultChunkSize
	}
	if r.overlap < 0 {
		r.overlap = DefaultChunkOverlap
	}
	if r.overlap >= r.size {
		r.overlap = r.size / 4
	}
	if len(r.separators) == 0 {
		r.separators = DefaultSeparators
	}
	return r
}

// Chunk splits the document content into chunks.
func (r *Recursive) Chunk(_ context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if doc.Content == "" {
		// Empty content produces no chunks
		return nil, nil
	}

	pieces := r.split(doc.Content, 0, r.separators)
	spans := r.assemble(pieces)

	chunks := make([]domain.Chunk, 0, len(spans))
	for i, span := range spans {
		chunks = append(chunks, domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Sequence:   i,
			Content:    doc.Content[span.Start:span.End],
			Span:       span,
		})
	}
	return chunks, nil
}

// step is the maximum piece width. Keeping pieces within size-overlap
// guarantees every assembled chunk, overlap included, fits the budget.
func (r *Recursive) step() int {
	return r.size - r.overlap
}

// split divides text into contiguous pieces no wider than step, trying the
// separators coarsest first. base is the text's offset in the document.
func (r *Recursive) split(text string, base int, seps []string) []piece {
	step := r.step()
	if len(text) <= step {
		return []piece{{base, base + len(text)}}
	}

	for si, sep := range seps {
		if sep == "" {
			return sliceFixed(text, base, step)
		}
		if !strings.Contains(text, sep) {
			continue
		}

		var pieces []piece
		off := 0
		for _, part := range strings.SplitAfter(text, sep) {
			if part == "" {
				continue
			}
			if len(part) <= step {
				pieces = append(pieces, piece{base + off, base + off + len(part)})
			} else {
				pieces = append(pieces, r.split(part, base+off, seps[si+1:])...)
			}
			off += len(part)
		}
		return pieces
	}

	// No separator applies: emit the oversized token as a single piece
	// to guarantee forward progress.
	return []piece{{base, base + len(text)}}
}

// sliceFixed is the character-level fallback: fixed windows of width step.
func sliceFixed(text string, base, step int) []piece {
	var pieces []piece
	for start := 0; start < len(text); start += step {
		end := start + step
		if end > len(text) {
			end = len(text)
		}
		pieces = append(pieces, piece{base + start, base + end})
	}
	return pieces
}

// assemble merges adjacent pieces into chunk spans of at most size
// characters, extending each chunk after the first backwards by up to
// overlap characters into its predecessor.
func (r *Recursive) assemble(pieces []piece) []domain.CharSpan {
	var spans []domain.CharSpan
	prevStart, prevEnd := -1, -1

	i := 0
	for i < len(pieces) {
		start := pieces[i].start
		if prevEnd >= 0 {
			start = prevEnd - r.overlap
			if start < prevStart {
				start = prevStart
			}
		}
		end := pieces[i].end

		// An unsplittable oversized piece becomes its own chunk,
		// without the backward overlap.
		if end-start > r.size {
			start = pieces[i].start
		}

		j := i + 1
		for j < len(pieces) && pieces[j].end-start <= r.size {
			end = pieces[j].end
			j++
		}

		spans = append(spans, domain.CharSpan{Start: start, End: end})
		prevStart, prevEnd = start, end
		i = j
	}
	return spans
}
