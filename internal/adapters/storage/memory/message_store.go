package memory

import (
	"sync"

	"github.com/PabloGalante/quip-agent/internal/domain"
)

type MessageStore struct {
	mu       sync.RWMutex
	messages map[domain.SessionID][]*domain.Message
}

func NewMessageStore() *MessageStore {
	return &MessageStore{
		messages: make(map[domain.SessionID][]*domain.Message),
	}
}

func (s *MessageStore) AppendMessage(msg *domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages[msg.SessionID] = append(s.messages[msg.SessionID], msg)
	return nil
}

// GetMessagesBySession returns the session transcript in insertion order.
// A limit of 0 returns everything; a positive limit returns the last N.
func (s *MessageStore) GetMessagesBySession(sessionID domain.SessionID, limit int) ([]*domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[sessionID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}

	out := make([]*domain.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

// ReplaceMessages swaps a session's entire transcript. Used by conversation
// reset, which starts the history over with a fresh greeting.
func (s *MessageStore) ReplaceMessages(sessionID domain.SessionID, msgs []*domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	replacement := make([]*domain.Message, len(msgs))
	copy(replacement, msgs)
	s.messages[sessionID] = replacement
	return nil
}
