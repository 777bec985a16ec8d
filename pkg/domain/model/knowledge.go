package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/pitchside-lab/pitchside/pkg/domain/types"
)

// EmbeddingDimension is the dimension of the embedding vector.
// Gemini text-embedding-004 uses 768 dimensions.
const EmbeddingDimension = 768

// docIDLength is the length of the hex-encoded content-addressed document ID
const docIDLength = 12

// docIDContentPrefix is how much of the content participates in the ID hash
const docIDContentPrefix = 100

// NewDocumentID derives a content-addressed document ID from title and
// content. The same title and content always yield the same ID, so
// re-ingesting an identical document overwrites rather than duplicates.
func NewDocumentID(title, content string) types.DocumentID {
	prefix := content
	if len(prefix) > docIDContentPrefix {
		prefix = prefix[:docIDContentPrefix]
	}
	sum := sha256.Sum256([]byte(title + "_" + prefix))
	return types.DocumentID(hex.EncodeToString(sum[:])[:docIDLength])
}

// ContentHash returns the hash of a document's full content, used to detect
// content changes across updates.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// KnowledgeDocument is a categorized document in the knowledge base
type KnowledgeDocument struct {
	ID          types.DocumentID  `json:"id"`
	Title       string            `json:"title"`
	Content     string            `json:"content"`
	Category    types.Category    `json:"category"`
	Source      string            `json:"source"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	ContentHash string            `json:"content_hash"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Chunk is a content-bounded slice of a KnowledgeDocument. Chunks are the
// unit stored in the retrieval index and carry their parent's metadata.
type Chunk struct {
	ID         string           `json:"id"`
	DocumentID types.DocumentID `json:"document_id"`
	Index      int              `json:"index"`
	Content    string           `json:"content"`
	Title      string           `json:"title"`
	Category   types.Category   `json:"category"`
	Source     string           `json:"source"`
	Embedding  []float32        `json:"embedding,omitempty"`
}

// ScoredPassage is a retrieval result returned by the index
type ScoredPassage struct {
	Content  string            `json:"content"`
	Source   string            `json:"source"`
	Category types.Category    `json:"category"`
	Score    float64           `json:"score"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// KnowledgeStats summarizes the knowledge store contents
type KnowledgeStats struct {
	TotalDocuments int                    `json:"total_documents"`
	PerCategory    map[types.Category]int `json:"per_category"`
	LastUpdated    *time.Time             `json:"last_updated,omitempty"`
}
