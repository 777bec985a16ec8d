package worker

import (
	"context"
	"time"

	"github.com/pitchside-lab/pitchside/pkg/service/rag"
	"github.com/pitchside-lab/pitchside/pkg/utils/logging"
)

// IndexSnapshotWorker periodically persists the retrieval index so a restart
// can restore it without re-embedding the whole corpus.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - For future horizontal scaling, implement distributed locking or leader election
type IndexSnapshotWorker struct {
	index    *rag.Index
	store    rag.SnapshotStore
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewIndexSnapshotWorker creates a worker that snapshots the index every interval
func NewIndexSnapshotWorker(index *rag.Index, store rag.SnapshotStore, interval time.Duration) *IndexSnapshotWorker {
	return &IndexSnapshotWorker{
		index:    index,
		store:    store,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background snapshot loop. It does not block.
func (w *IndexSnapshotWorker) Start(ctx context.Context) error {
	logging.Default().Info("index snapshot worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop, takes a final snapshot, and waits for completion
func (w *IndexSnapshotWorker) Stop() {
	logging.Default().Info("index snapshot worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("index snapshot worker stopped")
}

func (w *IndexSnapshotWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.snapshot(ctx); err != nil {
				// Log error but continue worker
				logging.Default().Error("index snapshot failed (will retry next interval)",
					"error", err.Error())
			}

		case <-w.stopCh:
			// Final snapshot so a clean shutdown never loses recent additions
			if err := w.snapshot(ctx); err != nil {
				logging.Default().Error("final index snapshot failed", "error", err.Error())
			}
			return

		case <-ctx.Done():
			logging.Default().Info("index snapshot worker context cancelled")
			return
		}
	}
}

func (w *IndexSnapshotWorker) snapshot(ctx context.Context) error {
	startTime := time.Now()

	if err := w.index.Persist(ctx, w.store); err != nil {
		return err
	}

	logging.Default().Info("index snapshot completed",
		"duration", time.Since(startTime).String())
	return nil
}
