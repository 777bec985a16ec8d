package rag

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pitchside-lab/pitchside/pkg/domain/model"
	"github.com/pitchside-lab/pitchside/pkg/domain/types"
)

const (
	// DefaultChunkSize is the target chunk length in characters
	DefaultChunkSize = 1000
	// DefaultChunkOverlap is how many characters consecutive chunks share
	DefaultChunkOverlap = 200
)

// Chunker splits document content into overlapping, boundary-aware slices
// for indexing. Cuts prefer a paragraph break, then a newline, then a
// sentence end, then a word boundary.
type Chunker struct {
	size    int
	overlap int
}

func NewChunker(size, overlap int) *Chunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = DefaultChunkOverlap
	}
	return &Chunker{size: size, overlap: overlap}
}

// Split cuts a document into chunks carrying the parent metadata. Chunk IDs
// are deterministic, so re-splitting the same document yields the same IDs.
func (c *Chunker) Split(doc *model.KnowledgeDocument) []model.Chunk {
	content := strings.TrimSpace(doc.Content)
	if content == "" {
		return nil
	}

	var chunks []model.Chunk
	start := 0
	index := 0

	for start < len(content) {
		end := start + c.size
		if end > len(content) {
			end = len(content)
		}

		if end < len(content) {
			end = start + cutPoint(content[start:end])
		}

		piece := strings.TrimSpace(content[start:end])
		if piece != "" {
			chunks = append(chunks, model.Chunk{
				ID:         chunkID(doc.ID, index),
				DocumentID: doc.ID,
				Index:      index,
				Content:    piece,
				Title:      doc.Title,
				Category:   doc.Category,
				Source:     doc.Source,
			})
			index++
		}

		if end >= len(content) {
			break
		}
		// Overlap with the previous chunk, but always make progress
		next := end - c.overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}

// cutPoint picks where to end a chunk that would otherwise stop mid-text.
// Separators are tried from coarsest to finest; a window containing none of
// them is cut hard at the size limit.
func cutPoint(window string) int {
	if i := strings.LastIndex(window, "\n\n"); i > 0 {
		return i
	}
	if i := strings.LastIndex(window, "\n"); i > 0 {
		return i
	}
	if i := strings.LastIndex(window, ". "); i > 0 {
		return i + 1
	}
	if i := strings.LastIndex(window, " "); i > 0 {
		return i
	}
	return len(window)
}

func chunkID(docID types.DocumentID, index int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d", docID, index)))
	return hex.EncodeToString(sum[:8])
}
