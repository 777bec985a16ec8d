package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pitchside-lab/pitchside/pkg/domain/types"
)

// NewSessionID generates a new UUID v7 session ID
func NewSessionID() types.SessionID {
	return types.SessionID(uuid.Must(uuid.NewV7()).String())
}

// ChatSession is a persisted conversation session
type ChatSession struct {
	ID        types.SessionID   `json:"id"`
	UserID    types.UserID      `json:"user_id"`
	Type      types.SessionType `json:"type"`
	CreatedAt time.Time         `json:"created_at"`
}

// ChatMessage is a persisted utterance within a session. Messages are
// retrieved in insertion order per session.
type ChatMessage struct {
	ID        string            `json:"id"`
	SessionID types.SessionID   `json:"session_id"`
	Sender    types.Sender      `json:"sender"`
	Message   string            `json:"message"`
	Type      types.MessageType `json:"type"`
	Metadata  map[string]any    `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// Turn is a role-tagged utterance used as generation input
type Turn struct {
	Role    types.Sender `json:"role"`
	Content string       `json:"content"`
}

// ToolResult is the outcome of a single external tool invocation
type ToolResult struct {
	Tool    string `json:"tool"`
	Result  any    `json:"result"`
	Success bool   `json:"success"`
}

// ChatRequest is one turn of conversation submitted to the orchestrator
type ChatRequest struct {
	Message   string          `json:"message"`
	UserID    types.UserID    `json:"user_id"`
	SessionID types.SessionID `json:"session_id,omitempty"`
	History   []Turn          `json:"history,omitempty"`
}

// ChatResult is the public outcome of one chat turn. The orchestrator always
// produces one, even when internal stages fail.
type ChatResult struct {
	Response       string              `json:"response"`
	QueryCategory  types.QueryCategory `json:"query_category"`
	ContextSources []string            `json:"context_sources"`
	SessionID      types.SessionID     `json:"session_id"`
	Metadata       map[string]any      `json:"metadata"`
	ToolsUsed      []string            `json:"tools_used"`
	Profile        *UserProfile        `json:"profile,omitempty"`
}

// ConversationState is the orchestrator's working record for one turn. It
// lives for exactly one Chat invocation and is owned by the pipeline; each
// stage receives and mutates it without sharing across turns.
type ConversationState struct {
	Messages         []Turn
	UserID           types.UserID
	SessionID        types.SessionID
	Profile          *UserProfile
	Extracted        ExtractedPreferences
	QueryCategory    types.QueryCategory
	NeedsTools       bool
	ToolResults      []ToolResult
	RetrievedContext []ScoredPassage
	SystemPrompt     string
	Response         string
	Metadata         map[string]any
}

// LastUserMessage returns the most recent user utterance, or empty if none
func (s *ConversationState) LastUserMessage() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == types.SenderUser {
			return s.Messages[i].Content
		}
	}
	return ""
}

// RecentTurns returns at most n of the latest turns
func (s *ConversationState) RecentTurns(n int) []Turn {
	if n <= 0 || len(s.Messages) <= n {
		return s.Messages
	}
	return s.Messages[len(s.Messages)-n:]
}

// SuccessfulTools returns the names of tools that ran successfully
func (s *ConversationState) SuccessfulTools() []string {
	names := make([]string, 0, len(s.ToolResults))
	for _, tr := range s.ToolResults {
		if tr.Success {
			names = append(names, tr.Tool)
		}
	}
	return names
}

// ContextSources returns the source attribution of retrieved passages
func (s *ConversationState) ContextSources() []string {
	sources := make([]string, 0, len(s.RetrievedContext))
	for _, p := range s.RetrievedContext {
		sources = append(sources, p.Source)
	}
	return sources
}
