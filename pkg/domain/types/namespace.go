package types

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// UserID identifies a user of the assistant
type UserID string

// Validate checks if the UserID is non-empty
func (u UserID) Validate() error {
	if u == "" {
		return goerr.New("user ID cannot be empty")
	}
	return nil
}

// String returns the string representation of UserID
func (u UserID) String() string {
	return string(u)
}

// SessionID identifies a chat session
type SessionID string

// String returns the string representation of SessionID
func (s SessionID) String() string {
	return string(s)
}

// DocumentID identifies a knowledge document. IDs are content-addressed:
// the same title and content always produce the same ID.
type DocumentID string

// String returns the string representation of DocumentID
func (d DocumentID) String() string {
	return string(d)
}

// Namespace is an isolated retrieval index scope. The shared knowledge base
// lives in NamespaceGlobal; each user's personal artifacts live in a
// namespace derived from their user ID so scopes can never collide.
type Namespace string

const (
	// NamespaceGlobal is the shared knowledge namespace
	NamespaceGlobal Namespace = "global"

	userNamespacePrefix = "user:"
)

// NamespaceForUser returns the personal namespace of the given user
func NamespaceForUser(userID UserID) Namespace {
	return Namespace(userNamespacePrefix + string(userID))
}

// IsUserNamespace reports whether the namespace belongs to a single user
func (n Namespace) IsUserNamespace() bool {
	return strings.HasPrefix(string(n), userNamespacePrefix)
}

// Validate checks if the Namespace is either the global namespace or a
// well-formed user namespace
func (n Namespace) Validate() error {
	if n == NamespaceGlobal {
		return nil
	}
	if n.IsUserNamespace() && len(n) > len(userNamespacePrefix) {
		return nil
	}
	return goerr.New("invalid namespace", goerr.V("namespace", string(n)))
}

// String returns the string representation of Namespace
func (n Namespace) String() string {
	return string(n)
}
