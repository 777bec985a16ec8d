package config

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pitchside-lab/pitchside/pkg/service/rag"
	"github.com/pitchside-lab/pitchside/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Snapshot holds CLI flags for retrieval index snapshot persistence
type Snapshot struct {
	dir       string
	gcsBucket string
	gcsPrefix string
	interval  time.Duration
}

// Flags returns CLI flags for snapshot configuration
func (s *Snapshot) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "snapshot-dir",
			Usage:       "Local directory for retrieval index snapshots",
			Value:       "./data",
			Sources:     cli.EnvVars("PITCHSIDE_SNAPSHOT_DIR"),
			Destination: &s.dir,
		},
		&cli.StringFlag{
			Name:        "snapshot-gcs-bucket",
			Usage:       "GCS bucket for retrieval index snapshots (overrides snapshot-dir)",
			Sources:     cli.EnvVars("PITCHSIDE_SNAPSHOT_GCS_BUCKET"),
			Destination: &s.gcsBucket,
		},
		&cli.StringFlag{
			Name:        "snapshot-gcs-prefix",
			Usage:       "Object prefix within the snapshot bucket",
			Sources:     cli.EnvVars("PITCHSIDE_SNAPSHOT_GCS_PREFIX"),
			Destination: &s.gcsPrefix,
		},
		&cli.DurationFlag{
			Name:        "snapshot-interval",
			Usage:       "Interval between periodic index snapshots",
			Value:       10 * time.Minute,
			Sources:     cli.EnvVars("PITCHSIDE_SNAPSHOT_INTERVAL"),
			Destination: &s.interval,
		},
	}
}

// Interval returns the configured snapshot interval
func (s *Snapshot) Interval() time.Duration {
	return s.interval
}

// Configure builds the snapshot store. A bucket selects GCS, otherwise
// snapshots go to the local directory. The returned closer releases the GCS
// client when one was created.
func (s *Snapshot) Configure(ctx context.Context) (rag.SnapshotStore, func(), error) {
	if s.gcsBucket != "" {
		store, err := rag.NewGCSSnapshotStore(ctx, s.gcsBucket, s.gcsPrefix)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to create GCS snapshot store", goerr.V("bucket", s.gcsBucket))
		}
		logging.Default().Info("Using GCS snapshot store", "bucket", s.gcsBucket, "prefix", s.gcsPrefix)
		return store, func() {
			if err := store.Close(); err != nil {
				logging.Default().Error("failed to close GCS snapshot store", "error", err.Error())
			}
		}, nil
	}

	logging.Default().Info("Using local snapshot store", "dir", s.dir)
	return rag.NewDirSnapshotStore(s.dir), func() {}, nil
}
