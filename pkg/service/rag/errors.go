package rag

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrIndexRebuildRequired is returned for chunk-level mutations the
	// dense index cannot apply in place
	ErrIndexRebuildRequired = goerr.New("operation requires index rebuild")

	// ErrSnapshotNotFound is returned when no persisted snapshot exists
	ErrSnapshotNotFound = goerr.New("snapshot not found")
)
