package knowledge

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pitchside-lab/pitchside/pkg/domain/model"
	"github.com/pitchside-lab/pitchside/pkg/domain/types"
	"github.com/pitchside-lab/pitchside/pkg/utils/logging"
)

var (
	ErrDocumentNotFound = goerr.New("document not found")
)

// Store persists knowledge documents as one JSON file per document under a
// per-category directory. It is the source of truth feeding the retrieval
// index; ranked search goes through the index, this store only offers plain
// substring lookup.
type Store struct {
	mu      sync.RWMutex
	baseDir string
}

func NewStore(baseDir string) (*Store, error) {
	for _, category := range types.AllCategories() {
		dir := filepath.Join(baseDir, string(category))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, goerr.Wrap(err, "failed to create category directory", goerr.V("dir", dir))
		}
	}
	return &Store{baseDir: baseDir}, nil
}

// Add stores a document. The ID is content-addressed, so re-adding the same
// title and content overwrites the existing file instead of duplicating it;
// in that case the original creation time is preserved.
func (s *Store) Add(ctx context.Context, title, content string, category types.Category, source string, metadata map[string]string) (*model.KnowledgeDocument, error) {
	if err := category.Validate(); err != nil {
		return nil, err
	}
	if title == "" {
		return nil, goerr.New("document title is required")
	}
	if content == "" {
		return nil, goerr.New("document content is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	doc := &model.KnowledgeDocument{
		ID:          model.NewDocumentID(title, content),
		Title:       title,
		Content:     content,
		Category:    category,
		Source:      source,
		Metadata:    metadata,
		ContentHash: model.ContentHash(content),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if existing, err := s.find(doc.ID, ""); err == nil {
		doc.CreatedAt = existing.CreatedAt
		// Same content under a new category is a re-categorization, not a
		// second document; drop the old file so the ID stays unique.
		if existing.Category != category {
			old := s.docPath(existing.Category, doc.ID)
			if err := os.Remove(old); err != nil {
				return nil, goerr.Wrap(err, "failed to remove re-categorized document", goerr.V("path", old))
			}
		}
	}

	if err := s.write(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Get looks a document up by ID. Category narrows the search when known.
func (s *Store) Get(ctx context.Context, id types.DocumentID, category types.Category) (*model.KnowledgeDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.find(id, category)
}

// List returns all documents, or all documents of one category
func (s *Store) List(ctx context.Context, category types.Category) ([]*model.KnowledgeDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list(ctx, category)
}

// Update replaces a document's content and metadata. The content hash and
// update time are recomputed; creation time and ID are kept, so the caller
// must re-index through the retrieval path afterwards.
func (s *Store) Update(ctx context.Context, id types.DocumentID, content string, metadata map[string]string) (*model.KnowledgeDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.find(id, "")
	if err != nil {
		return nil, err
	}

	if content != "" {
		doc.Content = content
		doc.ContentHash = model.ContentHash(content)
	}
	if metadata != nil {
		if doc.Metadata == nil {
			doc.Metadata = map[string]string{}
		}
		for k, v := range metadata {
			doc.Metadata[k] = v
		}
	}
	doc.UpdatedAt = time.Now().UTC()

	if err := s.write(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Delete removes a document file
func (s *Store) Delete(ctx context.Context, id types.DocumentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.find(id, "")
	if err != nil {
		return err
	}
	path := s.docPath(doc.Category, id)
	if err := os.Remove(path); err != nil {
		return goerr.Wrap(err, "failed to delete document", goerr.V("path", path))
	}
	return nil
}

// Search is a case-insensitive substring match over title and content
func (s *Store) Search(ctx context.Context, query string, category types.Category, limit int) ([]*model.KnowledgeDocument, error) {
	if limit <= 0 {
		limit = 10
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	docs, err := s.list(ctx, category)
	if err != nil {
		return nil, err
	}

	lower := strings.ToLower(query)
	var matched []*model.KnowledgeDocument
	for _, doc := range docs {
		if strings.Contains(strings.ToLower(doc.Content), lower) ||
			strings.Contains(strings.ToLower(doc.Title), lower) {
			matched = append(matched, doc)
			if len(matched) >= limit {
				break
			}
		}
	}
	return matched, nil
}

// Stats summarizes document counts per category and the latest update time
func (s *Store) Stats(ctx context.Context) (*model.KnowledgeStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &model.KnowledgeStats{
		PerCategory: make(map[types.Category]int, len(types.AllCategories())),
	}

	for _, category := range types.AllCategories() {
		docs, err := s.list(ctx, category)
		if err != nil {
			return nil, err
		}
		stats.PerCategory[category] = len(docs)
		stats.TotalDocuments += len(docs)
		for _, doc := range docs {
			if stats.LastUpdated == nil || doc.UpdatedAt.After(*stats.LastUpdated) {
				t := doc.UpdatedAt
				stats.LastUpdated = &t
			}
		}
	}
	return stats, nil
}

func (s *Store) docPath(category types.Category, id types.DocumentID) string {
	return filepath.Join(s.baseDir, string(category), string(id)+".json")
}

func (s *Store) find(id types.DocumentID, category types.Category) (*model.KnowledgeDocument, error) {
	categories := types.AllCategories()
	if category != "" {
		categories = []types.Category{category}
	}

	for _, cat := range categories {
		doc, err := s.read(s.docPath(cat, id))
		if err == nil {
			return doc, nil
		}
	}
	return nil, goerr.Wrap(ErrDocumentNotFound, "no such document", goerr.V("document_id", id))
}

func (s *Store) list(ctx context.Context, category types.Category) ([]*model.KnowledgeDocument, error) {
	categories := types.AllCategories()
	if category != "" {
		if err := category.Validate(); err != nil {
			return nil, err
		}
		categories = []types.Category{category}
	}

	var docs []*model.KnowledgeDocument
	for _, cat := range categories {
		dir := filepath.Join(s.baseDir, string(cat))
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, goerr.Wrap(err, "failed to read category directory", goerr.V("dir", dir))
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
				continue
			}
			doc, err := s.read(filepath.Join(dir, entry.Name()))
			if err != nil {
				// A corrupt file should not take down the whole listing
				logging.From(ctx).Warn("skipping unreadable document",
					"path", filepath.Join(dir, entry.Name()), "error", err)
				continue
			}
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func (s *Store) read(path string) (*model.KnowledgeDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read document", goerr.V("path", path))
	}
	var doc model.KnowledgeDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal document", goerr.V("path", path))
	}
	return &doc, nil
}

func (s *Store) write(doc *model.KnowledgeDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to marshal document", goerr.V("document_id", doc.ID))
	}
	path := s.docPath(doc.Category, doc.ID)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return goerr.Wrap(err, "failed to write document", goerr.V("path", path))
	}
	return nil
}
