package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/quip-agent/internal/domain"
	"github.com/PabloGalante/quip-agent/internal/observability"
	"github.com/PabloGalante/quip-agent/internal/prompt"
)

const (
	welcomeText = "Hello! I'm your programming joke bot. Ask me for a joke about any language, framework, or bug!"
	resetText   = "New chat started! What topic should the next joke be about?"
)

type Service struct {
	completions  domain.CompletionClient
	sessionStore domain.SessionStore
	messageStore domain.MessageStore

	// clientFactory builds a per-session client when the session carries
	// its own API key. Nil means every session uses the shared client.
	clientFactory func(apiKey string) domain.CompletionClient

	model     string
	maxTokens int
	now       func() time.Time
}

type Option func(*Service)

// WithModel overrides the model name sent on completion requests.
func WithModel(model string) Option {
	return func(s *Service) { s.model = model }
}

// WithMaxTokens overrides the completion token cap.
func WithMaxTokens(n int) Option {
	return func(s *Service) { s.maxTokens = n }
}

// WithClock injects the time source. Tests use it for stable timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithClientFactory lets sessions that carry their own API key talk through
// a client built for that key instead of the shared one.
func WithClientFactory(f func(apiKey string) domain.CompletionClient) Option {
	return func(s *Service) { s.clientFactory = f }
}

func NewService(
	completions domain.CompletionClient,
	sessionStore domain.SessionStore,
	messageStore domain.MessageStore,
	opts ...Option,
) *Service {
	s := &Service{
		completions:  completions,
		sessionStore: sessionStore,
		messageStore: messageStore,
		model:        "gpt-4",
		maxTokens:    400,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type StartSessionInput struct {
	// Prefs may be nil, in which case the session starts with the defaults.
	Prefs *domain.Preferences

	// APIKey is an optional per-session credential. It is stored on the
	// session and never logged or echoed back.
	APIKey string
}

type StartSessionOutput struct {
	Session  *domain.Session
	Greeting *domain.Message
}

func (s *Service) StartSession(ctx context.Context, in StartSessionInput) (*StartSessionOutput, error) {
	now := s.now()

	prefs := domain.DefaultPreferences()
	if in.Prefs != nil {
		if err := in.Prefs.Validate(); err != nil {
			return nil, err
		}
		prefs = *in.Prefs
	}

	log := observability.LoggerFromContext(ctx).With(
		"style", prefs.Style,
		"topic", prefs.Topic,
	)
	log.Info("starting new session")

	session := &domain.Session{
		ID:        domain.SessionID(uuid.NewString()),
		CreatedAt: now,
		UpdatedAt: now,
		Prefs:     prefs,
		APIKey:    in.APIKey,
	}

	if err := s.sessionStore.CreateSession(session); err != nil {
		log.Error("failed to create session", "error", err)
		return nil, err
	}

	greeting := &domain.Message{
		ID:        domain.MessageID(uuid.NewString()),
		SessionID: session.ID,
		Role:      domain.RoleAssistant,
		Content:   welcomeText,
		CreatedAt: now,
	}

	if err := s.messageStore.AppendMessage(greeting); err != nil {
		log.Error("failed to append greeting", "error", err)
		return nil, err
	}

	log.Info("session started", "session_id", session.ID)

	return &StartSessionOutput{
		Session:  session,
		Greeting: greeting,
	}, nil
}

type SendMessageInput struct {
	SessionID domain.SessionID
	Text      string
}

type SendMessageOutput struct {
	UserMessage      *domain.Message
	AssistantMessage *domain.Message
}

func (s *Service) SendMessage(ctx context.Context, in SendMessageInput) (*SendMessageOutput, error) {
	session, err := s.sessionStore.GetSession(in.SessionID)
	if err != nil {
		return nil, err
	}

	log := observability.LoggerFromContext(ctx).With(
		"session_id", session.ID,
	)
	log.Info("sending message", "text", in.Text)

	return s.completeTurn(ctx, log, session, in.Text)
}

type TellJokeInput struct {
	SessionID domain.SessionID
}

// TellJoke runs a turn with a synthesized request built from the session's
// preferences, exactly as if the user had typed it.
func (s *Service) TellJoke(ctx context.Context, in TellJokeInput) (*SendMessageOutput, error) {
	session, err := s.sessionStore.GetSession(in.SessionID)
	if err != nil {
		return nil, err
	}

	text := prompt.JokeRequestText(session.Prefs.Style, session.Prefs.Topic)

	log := observability.LoggerFromContext(ctx).With(
		"session_id", session.ID,
	)
	log.Info("requesting joke", "text", text)

	return s.completeTurn(ctx, log, session, text)
}

// completeTurn appends the user message, replays the full transcript to the
// model, and appends the reply. The user message is kept even when the
// completion fails, so a later turn resends it as history.
func (s *Service) completeTurn(
	ctx context.Context,
	log *slog.Logger,
	session *domain.Session,
	text string,
) (*SendMessageOutput, error) {
	userMsg := &domain.Message{
		ID:        domain.MessageID(uuid.NewString()),
		SessionID: session.ID,
		Role:      domain.RoleUser,
		Content:   text,
		CreatedAt: s.now(),
	}

	if err := s.messageStore.AppendMessage(userMsg); err != nil {
		log.Error("failed to append user message", "error", err)
		return nil, err
	}

	history, err := s.messageStore.GetMessagesBySession(session.ID, 0)
	if err != nil {
		log.Error("failed to load history", "error", err)
		return nil, err
	}

	system := prompt.BuildSystemPrompt(session.Prefs.Style, session.Prefs.Topic, session.Prefs.Length)

	req := domain.CompletionRequest{
		Model:       s.model,
		Messages:    prompt.BuildRequestMessages(system, history),
		Temperature: session.Prefs.Temperature,
		MaxTokens:   s.maxTokens,
	}

	replyText, err := s.clientFor(session).Complete(ctx, req)
	if err != nil {
		log.Error("completion failed", "error", err)
		if !errors.Is(err, domain.ErrCompletionFailed) {
			err = fmt.Errorf("%w: %v", domain.ErrCompletionFailed, err)
		}
		return nil, err
	}

	assistantMsg := &domain.Message{
		ID:        domain.MessageID(uuid.NewString()),
		SessionID: session.ID,
		Role:      domain.RoleAssistant,
		Content:   replyText,
		CreatedAt: s.now(),
	}

	if err := s.messageStore.AppendMessage(assistantMsg); err != nil {
		log.Error("failed to append assistant message", "error", err)
		return nil, err
	}

	session.UpdatedAt = s.now()
	if err := s.sessionStore.UpdateSession(session); err != nil {
		log.Error("failed to update session", "error", err)
		return nil, err
	}

	log.Info("turn completed")

	return &SendMessageOutput{
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
	}, nil
}

func (s *Service) clientFor(session *domain.Session) domain.CompletionClient {
	if session.APIKey != "" && s.clientFactory != nil {
		return s.clientFactory(session.APIKey)
	}
	return s.completions
}

// ResetConversation wipes the transcript down to a fresh greeting. The
// session and its preferences survive.
func (s *Service) ResetConversation(ctx context.Context, sessionID domain.SessionID) (*domain.Message, error) {
	session, err := s.sessionStore.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	log := observability.LoggerFromContext(ctx).With(
		"session_id", session.ID,
	)
	log.Info("resetting conversation")

	greeting := &domain.Message{
		ID:        domain.MessageID(uuid.NewString()),
		SessionID: session.ID,
		Role:      domain.RoleAssistant,
		Content:   resetText,
		CreatedAt: s.now(),
	}

	if err := s.messageStore.ReplaceMessages(session.ID, []*domain.Message{greeting}); err != nil {
		log.Error("failed to replace messages", "error", err)
		return nil, err
	}

	session.UpdatedAt = s.now()
	if err := s.sessionStore.UpdateSession(session); err != nil {
		log.Error("failed to update session", "error", err)
		return nil, err
	}

	return greeting, nil
}

type UpdatePreferencesInput struct {
	SessionID domain.SessionID
	Prefs     domain.Preferences
}

// UpdatePreferences swaps the session's joke preferences. The transcript is
// untouched; the new preferences apply from the next turn on.
func (s *Service) UpdatePreferences(ctx context.Context, in UpdatePreferencesInput) (*domain.Session, error) {
	if err := in.Prefs.Validate(); err != nil {
		return nil, err
	}

	session, err := s.sessionStore.GetSession(in.SessionID)
	if err != nil {
		return nil, err
	}

	log := observability.LoggerFromContext(ctx).With(
		"session_id", session.ID,
	)
	log.Info("updating preferences", "style", in.Prefs.Style, "topic", in.Prefs.Topic, "length", in.Prefs.Length)

	session.Prefs = in.Prefs
	session.UpdatedAt = s.now()
	if err := s.sessionStore.UpdateSession(session); err != nil {
		log.Error("failed to update session", "error", err)
		return nil, err
	}

	return session, nil
}

func (s *Service) GetSessionTimeline(
	ctx context.Context,
	sessionID domain.SessionID,
	limit int,
) (*domain.Session, []*domain.Message, error) {

	log := observability.LoggerFromContext(ctx).With(
		"session_id", sessionID,
		"limit", limit,
	)

	session, err := s.sessionStore.GetSession(sessionID)
	if err != nil {
		log.Error("failed to get session", "error", err)
		return nil, nil, err
	}

	msgs, err := s.messageStore.GetMessagesBySession(sessionID, limit)
	if err != nil {
		log.Error("failed to get messages", "error", err)
		return nil, nil, err
	}

	log.Info("fetched session timeline", "message_count", len(msgs))

	return session, msgs, nil
}
