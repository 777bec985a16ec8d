package rag

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/pitchside-lab/pitchside/pkg/domain/model"
	"github.com/pitchside-lab/pitchside/pkg/domain/types"
	"github.com/pitchside-lab/pitchside/pkg/utils/logging"
)

const (
	// DefaultDenseWeight favors the semantic ranker: football terminology has
	// high paraphrase variance, though exact names still benefit from BM25.
	DefaultDenseWeight   = 0.7
	DefaultLexicalWeight = 0.3

	// rrfRankConstant dampens the contribution of lower-ranked hits in
	// reciprocal rank fusion
	rrfRankConstant = 60.0

	// DefaultTopK is the number of passages returned per query
	DefaultTopK = 5
)

// namespaceIndex holds the chunk set of one namespace. Each namespace owns
// its own dense vectors and lexical index, so cross-namespace retrieval is
// structurally impossible rather than filtered.
type namespaceIndex struct {
	chunks  []model.Chunk
	lexical *bm25Index
}

func newNamespaceIndex() *namespaceIndex {
	return &namespaceIndex{lexical: newBM25Index()}
}

// Index is the hybrid retrieval index. Reads may run concurrently; writes
// are serialized by the mutex so a batch add never interleaves with another.
type Index struct {
	mu            sync.RWMutex
	llmClient     gollem.LLMClient
	chunker       *Chunker
	denseWeight   float64
	lexicalWeight float64
	namespaces    map[types.Namespace]*namespaceIndex
	snapshotStore SnapshotStore
}

type Option func(*Index)

// WithWeights overrides the dense/lexical ensemble weights
func WithWeights(dense, lexical float64) Option {
	return func(x *Index) {
		x.denseWeight = dense
		x.lexicalWeight = lexical
	}
}

// WithChunker overrides the default chunking parameters
func WithChunker(chunker *Chunker) Option {
	return func(x *Index) {
		x.chunker = chunker
	}
}

// WithSnapshotStore makes the index flush a snapshot to the store after every
// mutation, so a crash between worker ticks loses nothing.
func WithSnapshotStore(store SnapshotStore) Option {
	return func(x *Index) {
		x.snapshotStore = store
	}
}

func New(llmClient gollem.LLMClient, opts ...Option) *Index {
	x := &Index{
		llmClient:     llmClient,
		chunker:       NewChunker(DefaultChunkSize, DefaultChunkOverlap),
		denseWeight:   DefaultDenseWeight,
		lexicalWeight: DefaultLexicalWeight,
		namespaces:    make(map[types.Namespace]*namespaceIndex),
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// AddDocuments chunks, embeds and indexes documents into a namespace. It
// returns the IDs of the chunks created.
func (x *Index) AddDocuments(ctx context.Context, ns types.Namespace, docs []*model.KnowledgeDocument) ([]string, error) {
	if err := ns.Validate(); err != nil {
		return nil, err
	}

	var chunks []model.Chunk
	for _, doc := range docs {
		chunks = append(chunks, x.chunker.Split(doc)...)
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	embeddings, err := x.llmClient.GenerateEmbedding(ctx, model.EmbeddingDimension, texts)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed chunks", goerr.V("namespace", ns), goerr.V("count", len(chunks)))
	}
	if len(embeddings) != len(chunks) {
		return nil, goerr.New("embedding count mismatch",
			goerr.V("expected", len(chunks)), goerr.V("actual", len(embeddings)))
	}

	for i := range chunks {
		chunks[i].Embedding = toFloat32(embeddings[i])
	}

	x.mu.Lock()
	nsIdx := x.namespace(ns)
	chunkIDs := make([]string, 0, len(chunks))
	for _, c := range chunks {
		nsIdx.chunks = append(nsIdx.chunks, c)
		nsIdx.lexical.add(c.Content)
		chunkIDs = append(chunkIDs, c.ID)
	}
	x.mu.Unlock()

	x.persistAfterWrite(ctx)

	return chunkIDs, nil
}

// persistAfterWrite flushes the index through the configured snapshot store.
// A persistence failure never fails the write itself; the periodic worker
// retries on its next tick.
func (x *Index) persistAfterWrite(ctx context.Context) {
	if x.snapshotStore == nil {
		return
	}
	if err := x.Persist(ctx, x.snapshotStore); err != nil {
		logging.From(ctx).Warn("failed to persist index snapshot", "error", err)
	}
}

// AddText indexes a free-form text artifact, such as a stored betting
// analysis, into a namespace.
func (x *Index) AddText(ctx context.Context, ns types.Namespace, title, content string, category types.Category, source string) error {
	doc := &model.KnowledgeDocument{
		ID:       model.NewDocumentID(title, content),
		Title:    title,
		Content:  content,
		Category: category,
		Source:   source,
	}
	_, err := x.AddDocuments(ctx, ns, []*model.KnowledgeDocument{doc})
	return err
}

// Query retrieves the top passages for a query from one namespace. Dense and
// lexical rankings are combined with weighted reciprocal rank fusion. When
// the query embedding fails, retrieval degrades to lexical-only instead of
// failing the turn; an empty namespace yields an empty result.
func (x *Index) Query(ctx context.Context, ns types.Namespace, query string, k int) ([]model.ScoredPassage, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	var queryVec []float32
	embeddings, err := x.llmClient.GenerateEmbedding(ctx, model.EmbeddingDimension, []string{query})
	if err != nil || len(embeddings) == 0 {
		logging.From(ctx).Warn("query embedding failed, falling back to lexical retrieval",
			"namespace", ns, "error", err)
	} else {
		queryVec = toFloat32(embeddings[0])
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	nsIdx, ok := x.namespaces[ns]
	if !ok || len(nsIdx.chunks) == 0 {
		return nil, nil
	}

	fused := map[int]float64{}

	if queryVec != nil {
		for rank, hit := range denseSearch(nsIdx.chunks, queryVec, k) {
			fused[hit.doc] += x.denseWeight / (rrfRankConstant + float64(rank+1))
		}
	}
	for rank, hit := range nsIdx.lexical.search(query, k) {
		fused[hit.doc] += x.lexicalWeight / (rrfRankConstant + float64(rank+1))
	}

	type ranked struct {
		doc   int
		score float64
	}
	results := make([]ranked, 0, len(fused))
	for doc, score := range fused {
		results = append(results, ranked{doc: doc, score: score})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].doc < results[j].doc
	})
	if len(results) > k {
		results = results[:k]
	}

	passages := make([]model.ScoredPassage, 0, len(results))
	for _, r := range results {
		c := nsIdx.chunks[r.doc]
		passages = append(passages, model.ScoredPassage{
			Content:  c.Content,
			Source:   c.Source,
			Category: c.Category,
			Score:    r.score,
			Metadata: map[string]string{
				"document_id": string(c.DocumentID),
				"title":       c.Title,
			},
		})
	}
	return passages, nil
}

// DeleteChunk is unsupported on the dense index; removing individual chunks
// requires a full namespace rebuild.
func (x *Index) DeleteChunk(ns types.Namespace, chunkID string) error {
	return goerr.Wrap(ErrIndexRebuildRequired, "chunk deletion requires index rebuild",
		goerr.V("namespace", ns), goerr.V("chunk_id", chunkID))
}

// UpdateChunk is unsupported on the dense index, same as DeleteChunk
func (x *Index) UpdateChunk(ns types.Namespace, chunkID string) error {
	return goerr.Wrap(ErrIndexRebuildRequired, "chunk update requires index rebuild",
		goerr.V("namespace", ns), goerr.V("chunk_id", chunkID))
}

// RebuildNamespace drops a namespace and re-indexes it from the given
// documents. This is the supported path for document update and deletion.
func (x *Index) RebuildNamespace(ctx context.Context, ns types.Namespace, docs []*model.KnowledgeDocument) error {
	x.mu.Lock()
	delete(x.namespaces, ns)
	x.mu.Unlock()

	if len(docs) == 0 {
		x.persistAfterWrite(ctx)
		return nil
	}
	_, err := x.AddDocuments(ctx, ns, docs)
	return err
}

// ChunkCount returns how many chunks a namespace holds
func (x *Index) ChunkCount(ns types.Namespace) int {
	x.mu.RLock()
	defer x.mu.RUnlock()

	nsIdx, ok := x.namespaces[ns]
	if !ok {
		return 0
	}
	return len(nsIdx.chunks)
}

// namespace returns the index for ns, creating it if needed. Caller must
// hold the write lock.
func (x *Index) namespace(ns types.Namespace) *namespaceIndex {
	nsIdx, ok := x.namespaces[ns]
	if !ok {
		nsIdx = newNamespaceIndex()
		x.namespaces[ns] = nsIdx
	}
	return nsIdx
}

type denseHit struct {
	doc   int
	score float64
}

func denseSearch(chunks []model.Chunk, queryVec []float32, k int) []denseHit {
	hits := make([]denseHit, 0, len(chunks))
	for i, c := range chunks {
		if len(c.Embedding) == 0 {
			continue
		}
		hits = append(hits, denseHit{doc: i, score: cosineSimilarity(queryVec, c.Embedding)})
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}

	return dot / denom
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}
