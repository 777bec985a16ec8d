package rag

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pitchside-lab/pitchside/pkg/domain/model"
	"github.com/pitchside-lab/pitchside/pkg/domain/types"
	"github.com/pitchside-lab/pitchside/pkg/utils/safe"
)

const snapshotObjectName = "rag_index.json"

// SnapshotStore persists serialized index snapshots
type SnapshotStore interface {
	Save(ctx context.Context, data []byte) error
	Load(ctx context.Context) ([]byte, error)
}

// snapshot is the serialized form of the whole index, embeddings included,
// so a restore needs no re-embedding calls.
type snapshot struct {
	Namespaces map[types.Namespace][]model.Chunk `json:"namespaces"`
}

// Snapshot serializes every namespace of the index
func (x *Index) Snapshot() ([]byte, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	snap := snapshot{Namespaces: make(map[types.Namespace][]model.Chunk, len(x.namespaces))}
	for ns, nsIdx := range x.namespaces {
		snap.Namespaces[ns] = nsIdx.chunks
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal index snapshot")
	}
	return data, nil
}

// Restore replaces the index contents with a snapshot, rebuilding the
// lexical index per namespace.
func (x *Index) Restore(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return goerr.Wrap(err, "failed to unmarshal index snapshot")
	}

	namespaces := make(map[types.Namespace]*namespaceIndex, len(snap.Namespaces))
	for ns, chunks := range snap.Namespaces {
		nsIdx := newNamespaceIndex()
		for _, c := range chunks {
			nsIdx.chunks = append(nsIdx.chunks, c)
			nsIdx.lexical.add(c.Content)
		}
		namespaces[ns] = nsIdx
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	x.namespaces = namespaces
	return nil
}

// Persist writes a snapshot of the index to the store
func (x *Index) Persist(ctx context.Context, store SnapshotStore) error {
	data, err := x.Snapshot()
	if err != nil {
		return err
	}
	return store.Save(ctx, data)
}

// LoadSnapshot restores the index from the store. A missing snapshot leaves
// the index empty and is not an error.
func (x *Index) LoadSnapshot(ctx context.Context, store SnapshotStore) error {
	data, err := store.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrSnapshotNotFound) {
			return nil
		}
		return err
	}
	return x.Restore(data)
}

// DirSnapshotStore keeps snapshots in a local directory
type DirSnapshotStore struct {
	dir string
}

var _ SnapshotStore = &DirSnapshotStore{}

func NewDirSnapshotStore(dir string) *DirSnapshotStore {
	return &DirSnapshotStore{dir: dir}
}

func (s *DirSnapshotStore) path() string {
	return filepath.Join(s.dir, snapshotObjectName)
}

func (s *DirSnapshotStore) Save(ctx context.Context, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return goerr.Wrap(err, "failed to create snapshot directory", goerr.V("dir", s.dir))
	}

	// Write to a temp file first so a crash never leaves a torn snapshot
	tmp := s.path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return goerr.Wrap(err, "failed to write snapshot", goerr.V("path", tmp))
	}
	if err := os.Rename(tmp, s.path()); err != nil {
		return goerr.Wrap(err, "failed to move snapshot into place", goerr.V("path", s.path()))
	}
	return nil
}

func (s *DirSnapshotStore) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(ErrSnapshotNotFound, "no local snapshot", goerr.V("path", s.path()))
		}
		return nil, goerr.Wrap(err, "failed to read snapshot", goerr.V("path", s.path()))
	}
	return data, nil
}

// GCSSnapshotStore keeps snapshots in a Cloud Storage bucket
type GCSSnapshotStore struct {
	client *storage.Client
	bucket string
	prefix string
}

var _ SnapshotStore = &GCSSnapshotStore{}

func NewGCSSnapshotStore(ctx context.Context, bucket, prefix string) (*GCSSnapshotStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.V("bucket", bucket))
	}
	return &GCSSnapshotStore{client: client, bucket: bucket, prefix: prefix}, nil
}

func (s *GCSSnapshotStore) object() string {
	if s.prefix == "" {
		return snapshotObjectName
	}
	return s.prefix + "/" + snapshotObjectName
}

func (s *GCSSnapshotStore) Save(ctx context.Context, data []byte) error {
	w := s.client.Bucket(s.bucket).Object(s.object()).NewWriter(ctx)
	if _, err := w.Write(data); err != nil {
		safe.Close(ctx, w)
		return goerr.Wrap(err, "failed to write snapshot object",
			goerr.V("bucket", s.bucket), goerr.V("object", s.object()))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize snapshot object",
			goerr.V("bucket", s.bucket), goerr.V("object", s.object()))
	}
	return nil
}

func (s *GCSSnapshotStore) Load(ctx context.Context) ([]byte, error) {
	r, err := s.client.Bucket(s.bucket).Object(s.object()).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, goerr.Wrap(ErrSnapshotNotFound, "no snapshot object",
				goerr.V("bucket", s.bucket), goerr.V("object", s.object()))
		}
		return nil, goerr.Wrap(err, "failed to open snapshot object",
			goerr.V("bucket", s.bucket), goerr.V("object", s.object()))
	}
	defer safe.Close(ctx, r)

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read snapshot object",
			goerr.V("bucket", s.bucket), goerr.V("object", s.object()))
	}
	return data, nil
}

// Close releases the underlying storage client
func (s *GCSSnapshotStore) Close() error {
	return s.client.Close()
}
