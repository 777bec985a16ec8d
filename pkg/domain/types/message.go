package types

import (
	"github.com/m-mizutani/goerr/v2"
)

// Sender identifies who produced a chat message
type Sender string

const (
	SenderUser   Sender = "user"
	SenderBot    Sender = "bot"
	SenderSystem Sender = "system"
)

// Validate checks if the Sender is valid
func (s Sender) Validate() error {
	switch s {
	case SenderUser, SenderBot, SenderSystem:
		return nil
	}
	return goerr.New("invalid message sender", goerr.V("sender", string(s)))
}

// String returns the string representation of Sender
func (s Sender) String() string {
	return string(s)
}

// MessageType tags a chat message with its role in the conversation flow
type MessageType string

const (
	MessageTypeBettingQuery    MessageType = "betting_query"
	MessageTypeBettingResponse MessageType = "betting_response"
	MessageTypeSystemNote      MessageType = "system_note"
)

// SessionType identifies the kind of chat session
type SessionType string

const (
	SessionTypeBetting SessionType = "betting"
)
