package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pitchside-lab/pitchside/pkg/service/knowledge"
	"github.com/pitchside-lab/pitchside/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdSeed() *cli.Command {
	var knowledgeDir string

	return &cli.Command{
		Name:  "seed",
		Usage: "Load the sample knowledge corpus into the document store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "knowledge-dir",
				Usage:       "Directory for the knowledge document store",
				Value:       "./data/knowledge",
				Sources:     cli.EnvVars("PITCHSIDE_KNOWLEDGE_DIR"),
				Destination: &knowledgeDir,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			store, err := knowledge.NewStore(knowledgeDir)
			if err != nil {
				return goerr.Wrap(err, "failed to open knowledge store")
			}

			docs, err := store.Seed(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to seed knowledge store")
			}

			// The retrieval index is rebuilt from the store on server start,
			// so seeding needs no LLM credentials.
			logging.Default().Info("Seeded knowledge store",
				"documents", len(docs), "dir", knowledgeDir)
			return nil
		},
	}
}
