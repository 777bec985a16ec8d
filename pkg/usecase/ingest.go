package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pitchside-lab/pitchside/pkg/domain/model"
	"github.com/pitchside-lab/pitchside/pkg/domain/types"
)

// IngestKnowledge stores a document and makes it retrievable in the shared
// namespace.
func (uc *UseCases) IngestKnowledge(ctx context.Context, title, content string, category types.Category, source string, metadata map[string]string) (*model.KnowledgeDocument, error) {
	doc, err := uc.store.Add(ctx, title, content, category, source, metadata)
	if err != nil {
		return nil, err
	}
	if _, err := uc.index.AddDocuments(ctx, types.NamespaceGlobal, []*model.KnowledgeDocument{doc}); err != nil {
		return nil, goerr.Wrap(err, "failed to index document", goerr.V("document_id", doc.ID))
	}
	return doc, nil
}

// GetKnowledge looks a document up by ID
func (uc *UseCases) GetKnowledge(ctx context.Context, id types.DocumentID, category types.Category) (*model.KnowledgeDocument, error) {
	return uc.store.Get(ctx, id, category)
}

// ListKnowledge returns stored documents, optionally narrowed by category
func (uc *UseCases) ListKnowledge(ctx context.Context, category types.Category) ([]*model.KnowledgeDocument, error) {
	return uc.store.List(ctx, category)
}

// SearchKnowledge is a plain substring search over the stored documents.
// Ranked retrieval happens inside the chat pipeline; this is the management
// surface.
func (uc *UseCases) SearchKnowledge(ctx context.Context, query string, category types.Category, limit int) ([]*model.KnowledgeDocument, error) {
	return uc.store.Search(ctx, query, category, limit)
}

// UpdateKnowledge replaces a document's content and re-indexes the shared
// namespace. The index only supports append and rebuild, so an update always
// costs a rebuild.
func (uc *UseCases) UpdateKnowledge(ctx context.Context, id types.DocumentID, content string, metadata map[string]string) (*model.KnowledgeDocument, error) {
	doc, err := uc.store.Update(ctx, id, content, metadata)
	if err != nil {
		return nil, err
	}
	if err := uc.SyncIndex(ctx); err != nil {
		return nil, err
	}
	return doc, nil
}

// DeleteKnowledge removes a document and re-indexes the shared namespace
func (uc *UseCases) DeleteKnowledge(ctx context.Context, id types.DocumentID) error {
	if err := uc.store.Delete(ctx, id); err != nil {
		return err
	}
	return uc.SyncIndex(ctx)
}

// KnowledgeStats summarizes the knowledge store contents
func (uc *UseCases) KnowledgeStats(ctx context.Context) (*model.KnowledgeStats, error) {
	return uc.store.Stats(ctx)
}

// SeedKnowledge loads the sample corpus and rebuilds the shared namespace.
// Safe to run repeatedly; the store deduplicates by content.
func (uc *UseCases) SeedKnowledge(ctx context.Context) (int, error) {
	docs, err := uc.store.Seed(ctx)
	if err != nil {
		return 0, err
	}
	if err := uc.SyncIndex(ctx); err != nil {
		return 0, err
	}
	return len(docs), nil
}

// SyncIndex rebuilds the shared retrieval namespace from the knowledge
// store. Used after updates and deletes, and on startup when no usable
// snapshot exists.
func (uc *UseCases) SyncIndex(ctx context.Context) error {
	docs, err := uc.store.List(ctx, "")
	if err != nil {
		return err
	}
	return uc.index.RebuildNamespace(ctx, types.NamespaceGlobal, docs)
}
