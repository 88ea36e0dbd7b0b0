package domain

import "context"

// ChatMessage is the provider-agnostic wire message sent to a completion
// service: a role tag plus text, nothing else.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is the full payload of one completion call. Messages is
// the assembled list: system instruction first, then the entire conversation
// in original order.
type CompletionRequest struct {
	Model       string
	Messages    []ChatMessage
	Temperature float64
	MaxTokens   int
}

// CompletionClient performs one synchronous call against an external
// completion service and returns the first choice's text. Every failure
// (transport, auth, quota, malformed response) wraps ErrCompletionFailed
// with the underlying description.
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// SessionStore keeps sessions for their in-memory lifetime.
type SessionStore interface {
	CreateSession(session *Session) error
	UpdateSession(session *Session) error
	GetSession(id SessionID) (*Session, error)
}

// MessageStore keeps each session's ordered conversation.
type MessageStore interface {
	AppendMessage(msg *Message) error
	// GetMessagesBySession returns messages in insertion order. A limit of 0
	// returns the whole conversation; a positive limit returns the last N.
	GetMessagesBySession(sessionID SessionID, limit int) ([]*Message, error)
	// ReplaceMessages swaps a session's entire conversation, used by reset.
	ReplaceMessages(sessionID SessionID, msgs []*Message) error
}
