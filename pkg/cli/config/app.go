package config

import (
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/pitchside-lab/pitchside/pkg/service/extract"
	"github.com/pitchside-lab/pitchside/pkg/service/rag"
	"github.com/pitchside-lab/pitchside/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// AppConfig carries the tunable parameters of the conversation pipeline and
// the retrieval index, loaded from an optional TOML file.
type AppConfig struct {
	Chat         ChatConfig         `toml:"chat"`
	Retrieval    RetrievalConfig    `toml:"retrieval"`
	Dictionaries DictionariesConfig `toml:"dictionaries"`

	path string
}

// ChatConfig tunes the conversation orchestrator
type ChatConfig struct {
	MinConfidence      float64 `toml:"min_confidence"`
	HistoryWindow      int     `toml:"history_window"`
	GenerateTimeoutSec int     `toml:"generate_timeout_sec"`
}

// RetrievalConfig tunes the hybrid retrieval index
type RetrievalConfig struct {
	DenseWeight   float64 `toml:"dense_weight"`
	LexicalWeight float64 `toml:"lexical_weight"`
	ChunkSize     int     `toml:"chunk_size"`
	ChunkOverlap  int     `toml:"chunk_overlap"`
}

// DictionariesConfig extends the built-in extraction dictionaries. Keys are
// surface forms, values the canonical display name.
type DictionariesConfig struct {
	Teams   map[string]string `toml:"teams"`
	Leagues map[string]string `toml:"leagues"`
}

// DefaultAppConfig returns the built-in tuning parameters
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Chat: ChatConfig{
			MinConfidence:      usecase.DefaultMinConfidence,
			HistoryWindow:      usecase.DefaultHistoryWindow,
			GenerateTimeoutSec: int(usecase.DefaultGenerateTimeout / time.Second),
		},
		Retrieval: RetrievalConfig{
			DenseWeight:   rag.DefaultDenseWeight,
			LexicalWeight: rag.DefaultLexicalWeight,
			ChunkSize:     rag.DefaultChunkSize,
			ChunkOverlap:  rag.DefaultChunkOverlap,
		},
	}
}

// Flags returns CLI flags for application configuration
func (a *AppConfig) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to TOML configuration file for pipeline tuning",
			Sources:     cli.EnvVars("PITCHSIDE_CONFIG"),
			Destination: &a.path,
		},
	}
}

// Configure loads the TOML file when a path is set, otherwise returns the
// defaults.
func (a *AppConfig) Configure() (AppConfig, error) {
	cfg := DefaultAppConfig()
	if a.path == "" {
		return cfg, nil
	}

	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, goerr.Wrap(ErrConfigNotFound, "no such file", goerr.V(ConfigPathKey, a.path))
		}
		return cfg, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, a.path))
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, goerr.Wrap(err, "failed to parse TOML config", goerr.V(ConfigPathKey, a.path))
	}

	if err := cfg.Validate(); err != nil {
		return cfg, goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, a.path))
	}

	return cfg, nil
}

// Validate checks the configuration ranges
func (a *AppConfig) Validate() error {
	if a.Chat.MinConfidence < 0 || a.Chat.MinConfidence >= 1 {
		return goerr.Wrap(ErrInvalidConfig, "min_confidence must be in [0, 1)", goerr.V("min_confidence", a.Chat.MinConfidence))
	}
	if a.Chat.HistoryWindow <= 0 {
		return goerr.Wrap(ErrInvalidConfig, "history_window must be positive", goerr.V("history_window", a.Chat.HistoryWindow))
	}
	if a.Chat.GenerateTimeoutSec <= 0 {
		return goerr.Wrap(ErrInvalidConfig, "generate_timeout_sec must be positive", goerr.V("generate_timeout_sec", a.Chat.GenerateTimeoutSec))
	}
	if a.Retrieval.DenseWeight < 0 || a.Retrieval.LexicalWeight < 0 {
		return goerr.Wrap(ErrInvalidConfig, "retrieval weights must not be negative")
	}
	if a.Retrieval.DenseWeight+a.Retrieval.LexicalWeight == 0 {
		return goerr.Wrap(ErrInvalidConfig, "at least one retrieval weight must be positive")
	}
	if a.Retrieval.ChunkSize <= 0 {
		return goerr.Wrap(ErrInvalidConfig, "chunk_size must be positive", goerr.V("chunk_size", a.Retrieval.ChunkSize))
	}
	if a.Retrieval.ChunkOverlap < 0 || a.Retrieval.ChunkOverlap >= a.Retrieval.ChunkSize {
		return goerr.Wrap(ErrInvalidConfig, "chunk_overlap must be smaller than chunk_size",
			goerr.V("chunk_size", a.Retrieval.ChunkSize), goerr.V("chunk_overlap", a.Retrieval.ChunkOverlap))
	}
	return nil
}

// UsecaseOptions converts the chat tuning into usecase options
func (a *AppConfig) UsecaseOptions() []usecase.Option {
	opts := []usecase.Option{
		usecase.WithMinConfidence(a.Chat.MinConfidence),
		usecase.WithHistoryWindow(a.Chat.HistoryWindow),
		usecase.WithGenerateTimeout(time.Duration(a.Chat.GenerateTimeoutSec) * time.Second),
	}
	if len(a.Dictionaries.Teams) > 0 || len(a.Dictionaries.Leagues) > 0 {
		opts = append(opts, usecase.WithExtractor(extract.New(
			extract.WithTeams(a.Dictionaries.Teams),
			extract.WithLeagues(a.Dictionaries.Leagues),
		)))
	}
	return opts
}

// IndexOptions converts the retrieval tuning into index options
func (a *AppConfig) IndexOptions() []rag.Option {
	return []rag.Option{
		rag.WithWeights(a.Retrieval.DenseWeight, a.Retrieval.LexicalWeight),
		rag.WithChunker(rag.NewChunker(a.Retrieval.ChunkSize, a.Retrieval.ChunkOverlap)),
	}
}
