package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/pitchside-lab/pitchside/pkg/cli/config"
	httpctrl "github.com/pitchside-lab/pitchside/pkg/controller/http"
	"github.com/pitchside-lab/pitchside/pkg/domain/types"
	"github.com/pitchside-lab/pitchside/pkg/service/knowledge"
	"github.com/pitchside-lab/pitchside/pkg/service/rag"
	"github.com/pitchside-lab/pitchside/pkg/service/worker"
	"github.com/pitchside-lab/pitchside/pkg/usecase"
	"github.com/pitchside-lab/pitchside/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var knowledgeDir string
	var appCfg config.AppConfig
	var repoCfg config.Repository
	var geminiCfg config.Gemini
	var snapCfg config.Snapshot

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("PITCHSIDE_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "knowledge-dir",
			Usage:       "Directory for the knowledge document store",
			Value:       "./data/knowledge",
			Sources:     cli.EnvVars("PITCHSIDE_KNOWLEDGE_DIR"),
			Destination: &knowledgeDir,
		},
	}

	// Add shared config flags
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, snapCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load application configuration")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure LLM client")
			}

			store, err := knowledge.NewStore(knowledgeDir)
			if err != nil {
				return goerr.Wrap(err, "failed to open knowledge store")
			}

			snapStore, snapClose, err := snapCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure snapshot store")
			}
			defer snapClose()

			indexOpts := append(cfg.IndexOptions(), rag.WithSnapshotStore(snapStore))
			index := rag.New(llmClient, indexOpts...)
			uc := usecase.New(repo, llmClient, index, store, cfg.UsecaseOptions()...)

			// Restore the index from the last snapshot, falling back to a
			// rebuild from the knowledge store when none is usable.
			if err := index.LoadSnapshot(ctx, snapStore); err != nil {
				logging.Default().Warn("no usable index snapshot, rebuilding", "error", err.Error())
			}
			if index.ChunkCount(types.NamespaceGlobal) == 0 {
				if err := uc.SyncIndex(ctx); err != nil {
					return goerr.Wrap(err, "failed to build retrieval index")
				}
			}
			logging.Default().Info("Retrieval index ready",
				"chunks", index.ChunkCount(types.NamespaceGlobal))

			snapshotWorker := worker.NewIndexSnapshotWorker(index, snapStore, snapCfg.Interval())
			if err := snapshotWorker.Start(ctx); err != nil {
				return goerr.Wrap(err, "failed to start index snapshot worker")
			}

			httpHandler := httpctrl.New(uc)
			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				snapshotWorker.Stop()
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				// Stop the worker first so the final snapshot is taken
				snapshotWorker.Stop()

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
