package usecase

import (
	"time"

	"github.com/m-mizutani/gollem"
	"github.com/pitchside-lab/pitchside/pkg/domain/interfaces"
	"github.com/pitchside-lab/pitchside/pkg/service/extract"
	"github.com/pitchside-lab/pitchside/pkg/service/knowledge"
	"github.com/pitchside-lab/pitchside/pkg/service/rag"
	"github.com/pitchside-lab/pitchside/pkg/service/tools"
)

const (
	// DefaultMinConfidence is the extraction confidence a message must
	// exceed before its preference signals are persisted
	DefaultMinConfidence = 0.1

	// DefaultHistoryWindow is how many recent turns are sent to the model
	DefaultHistoryWindow = 10

	// DefaultGenerateTimeout bounds one generation call
	DefaultGenerateTimeout = 60 * time.Second

	// userContextTopK is the passage budget for the user's personal namespace
	userContextTopK = 3
)

// UseCases wires the conversation pipeline and the knowledge management
// operations on top of the repositories and services.
type UseCases struct {
	repo      interfaces.Repository
	llmClient gollem.LLMClient
	index     *rag.Index
	store     *knowledge.Store
	extractor *extract.Extractor
	executor  *tools.Executor

	minConfidence   float64
	historyWindow   int
	generateTimeout time.Duration
}

type Option func(*UseCases)

// WithMinConfidence overrides the preference persistence threshold
func WithMinConfidence(v float64) Option {
	return func(uc *UseCases) {
		uc.minConfidence = v
	}
}

// WithHistoryWindow overrides how many turns are sent to the model
func WithHistoryWindow(n int) Option {
	return func(uc *UseCases) {
		if n > 0 {
			uc.historyWindow = n
		}
	}
}

// WithGenerateTimeout overrides the generation timeout
func WithGenerateTimeout(d time.Duration) Option {
	return func(uc *UseCases) {
		if d > 0 {
			uc.generateTimeout = d
		}
	}
}

// WithToolExecutor replaces the default stub-backed tool executor
func WithToolExecutor(e *tools.Executor) Option {
	return func(uc *UseCases) {
		uc.executor = e
	}
}

// WithExtractor replaces the default preference extractor, e.g. one carrying
// dictionary extensions from the app config.
func WithExtractor(x *extract.Extractor) Option {
	return func(uc *UseCases) {
		uc.extractor = x
	}
}

func New(repo interfaces.Repository, llmClient gollem.LLMClient, index *rag.Index, store *knowledge.Store, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:            repo,
		llmClient:       llmClient,
		index:           index,
		store:           store,
		extractor:       extract.New(),
		minConfidence:   DefaultMinConfidence,
		historyWindow:   DefaultHistoryWindow,
		generateTimeout: DefaultGenerateTimeout,
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.executor == nil {
		uc.executor = tools.New(tools.NewStubProvider(), uc.extractor, tools.WithIndex(index))
	}

	return uc
}
