package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"

	"github.com/pitchside-lab/pitchside/pkg/cli/config"
	"github.com/pitchside-lab/pitchside/pkg/domain/model"
	"github.com/pitchside-lab/pitchside/pkg/domain/types"
	"github.com/pitchside-lab/pitchside/pkg/service/knowledge"
	"github.com/pitchside-lab/pitchside/pkg/service/rag"
	"github.com/pitchside-lab/pitchside/pkg/usecase"
	"github.com/pitchside-lab/pitchside/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdChat() *cli.Command {
	var userID string
	var knowledgeDir string
	var appCfg config.AppConfig
	var repoCfg config.Repository
	var geminiCfg config.Gemini

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user-id",
			Usage:       "User ID for the conversation",
			Value:       "local",
			Sources:     cli.EnvVars("PITCHSIDE_USER_ID"),
			Destination: &userID,
		},
		&cli.StringFlag{
			Name:        "knowledge-dir",
			Usage:       "Directory for the knowledge document store",
			Value:       "./data/knowledge",
			Sources:     cli.EnvVars("PITCHSIDE_KNOWLEDGE_DIR"),
			Destination: &knowledgeDir,
		},
	}
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)

	return &cli.Command{
		Name:    "chat",
		Aliases: []string{"c"},
		Usage:   "Start an interactive chat session",
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

			index := rag.New(llmClient, cfg.IndexOptions()...)
			uc := usecase.New(repo, llmClient, index, store, cfg.UsecaseOptions()...)

			if err := uc.SyncIndex(ctx); err != nil {
				return goerr.Wrap(err, "failed to build retrieval index")
			}

			return runREPL(ctx, uc, types.UserID(userID))
		},
	}
}

func runREPL(ctx context.Context, uc *usecase.UseCases, userID types.UserID) error {
	promptColor := color.New(color.FgCyan, color.Bold)
	botColor := color.New(color.FgGreen)
	metaColor := color.New(color.FgHiBlack)

	fmt.Println("Type your question, or \"exit\" to quit.")

	var sessionID types.SessionID
	var history []model.Turn

	scanner := bufio.NewScanner(os.Stdin)
	for {
		promptColor.Printf("you> ")
		if !scanner.Scan() {
			break
		}

		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}
		if message == "exit" || message == "quit" {
			break
		}

		result := uc.Chat(ctx, &model.ChatRequest{
			Message:   message,
			UserID:    userID,
			SessionID: sessionID,
			History:   history,
		})

		sessionID = result.SessionID
		history = append(history,
			model.Turn{Role: types.SenderUser, Content: message},
			model.Turn{Role: types.SenderBot, Content: result.Response},
		)

		botColor.Printf("pitchside> %s\n", result.Response)
		if len(result.ContextSources) > 0 {
			metaColor.Printf("  sources: %s\n", strings.Join(result.ContextSources, ", "))
		}
		if len(result.ToolsUsed) > 0 {
			metaColor.Printf("  tools: %s\n", strings.Join(result.ToolsUsed, ", "))
		}
	}

	if err := scanner.Err(); err != nil {
		return goerr.Wrap(err, "failed to read input")
	}
	return nil
}
