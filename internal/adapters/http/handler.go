package httpadapter

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/PabloGalante/quip-agent/internal/app/chat"
	"github.com/PabloGalante/quip-agent/internal/domain"
)

type Handler struct {
	svc *chat.Service
}

func NewHandler(svc *chat.Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the API on the echo instance.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/healthz", h.health)

	e.POST("/sessions", h.createSession)
	e.GET("/sessions/:id", h.getSession)
	e.POST("/sessions/:id/messages", h.sendMessage)
	e.POST("/sessions/:id/joke", h.tellJoke)
	e.POST("/sessions/:id/reset", h.resetConversation)
	e.PUT("/sessions/:id/preferences", h.updatePreferences)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type preferencesPayload struct {
	Style       string  `json:"style"`
	Topic       string  `json:"topic"`
	Length      string  `json:"length"`
	Temperature float64 `json:"temperature"`
}

type createSessionRequest struct {
	Preferences *preferencesPayload `json:"preferences,omitempty"`

	// APIKey is accepted on the way in but never appears in a response.
	APIKey string `json:"api_key,omitempty"`
}

type createSessionResponse struct {
	Session  sessionResponse  `json:"session"`
	Greeting *messageResponse `json:"greeting,omitempty"`
}

type sessionResponse struct {
	ID          string             `json:"id"`
	Preferences preferencesPayload `json:"preferences"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

type messageResponse struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type sendMessageResponse struct {
	UserMessage      messageResponse `json:"user_message"`
	AssistantMessage messageResponse `json:"assistant_message"`
}

type getSessionResponse struct {
	Session  sessionResponse   `json:"session"`
	Messages []messageResponse `json:"messages"`
}

type resetResponse struct {
	Greeting messageResponse `json:"greeting"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (h *Handler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) createSession(c echo.Context) error {
	var req createSessionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}

	in := chat.StartSessionInput{APIKey: req.APIKey}
	if req.Preferences != nil {
		prefs, err := toDomainPreferences(*req.Preferences)
		if err != nil {
			return h.mapError(c, err)
		}
		in.Prefs = &prefs
	}

	out, err := h.svc.StartSession(c.Request().Context(), in)
	if err != nil {
		return h.mapError(c, err)
	}

	greeting := toMessageResponse(out.Greeting)
	return c.JSON(http.StatusCreated, createSessionResponse{
		Session:  toSessionResponse(out.Session),
		Greeting: &greeting,
	})
}

func (h *Handler) getSession(c echo.Context) error {
	session, msgs, err := h.svc.GetSessionTimeline(c.Request().Context(), sessionID(c), 0)
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusOK, getSessionResponse{
		Session:  toSessionResponse(session),
		Messages: toMessagesResponse(msgs),
	})
}

func (h *Handler) sendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}

	if strings.TrimSpace(req.Text) == "" {
		return badRequest(c, "text is required")
	}

	out, err := h.svc.SendMessage(c.Request().Context(), chat.SendMessageInput{
		SessionID: sessionID(c),
		Text:      req.Text,
	})
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusOK, sendMessageResponse{
		UserMessage:      toMessageResponse(out.UserMessage),
		AssistantMessage: toMessageResponse(out.AssistantMessage),
	})
}

func (h *Handler) tellJoke(c echo.Context) error {
	out, err := h.svc.TellJoke(c.Request().Context(), chat.TellJokeInput{
		SessionID: sessionID(c),
	})
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusOK, sendMessageResponse{
		UserMessage:      toMessageResponse(out.UserMessage),
		AssistantMessage: toMessageResponse(out.AssistantMessage),
	})
}

func (h *Handler) resetConversation(c echo.Context) error {
	greeting, err := h.svc.ResetConversation(c.Request().Context(), sessionID(c))
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusOK, resetResponse{
		Greeting: toMessageResponse(greeting),
	})
}

func (h *Handler) updatePreferences(c echo.Context) error {
	var req preferencesPayload
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}

	prefs, err := toDomainPreferences(req)
	if err != nil {
		return h.mapError(c, err)
	}

	session, err := h.svc.UpdatePreferences(c.Request().Context(), chat.UpdatePreferencesInput{
		SessionID: sessionID(c),
		Prefs:     prefs,
	})
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusOK, toSessionResponse(session))
}

// ─────────────────────────────────────────────
// Conversion helpers
// ─────────────────────────────────────────────

func sessionID(c echo.Context) domain.SessionID {
	return domain.SessionID(c.Param("id"))
}

func toDomainPreferences(p preferencesPayload) (domain.Preferences, error) {
	style, err := domain.ParseJokeStyle(p.Style)
	if err != nil {
		return domain.Preferences{}, err
	}

	length, err := domain.ParseJokeLength(p.Length)
	if err != nil {
		return domain.Preferences{}, err
	}

	return domain.Preferences{
		Style:       style,
		Topic:       p.Topic,
		Length:      length,
		Temperature: p.Temperature,
	}, nil
}

func toSessionResponse(s *domain.Session) sessionResponse {
	return sessionResponse{
		ID: string(s.ID),
		Preferences: preferencesPayload{
			Style:       string(s.Prefs.Style),
			Topic:       s.Prefs.Topic,
			Length:      string(s.Prefs.Length),
			Temperature: s.Prefs.Temperature,
		},
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func toMessageResponse(m *domain.Message) messageResponse {
	return messageResponse{
		ID:        string(m.ID),
		SessionID: string(m.SessionID),
		Role:      string(m.Role),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

func toMessagesResponse(msgs []*domain.Message) []messageResponse {
	out := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageResponse(m))
	}
	return out
}

// ─────────────────────────────────────────────
// Error mapping
// ─────────────────────────────────────────────

func (h *Handler) mapError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidPreferences):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrCompletionFailed):
		// Surface the provider's message so the caller can show it.
		return c.JSON(http.StatusBadGateway, errorResponse{Error: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}
