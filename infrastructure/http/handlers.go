package http

import (
	"log/slog"
	"net/http"
	"pair-chat/auth"
	"pair-chat/domain"
	"pair-chat/domain/chat"
	"pair-chat/observability"
	"pair-chat/services"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/samber/lo"
)

type ChatHandler struct {
	chat          services.IChatService
	conversations services.IConversationService
	log           *slog.Logger
}

func NewChatHandler(chat services.IChatService, conversations services.IConversationService, log *slog.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, conversations: conversations, log: log.With(slog.String("handler", "chat"))}
}

// PostMessage handles POST /api/v1/messages
func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	senderID, ok := h.identity(w, r)
	if !ok {
		return
	}
	var req postMessageRequest
	if !decode(w, r, &req) {
		return
	}
	respond(w, r, h.chat.PostMessage(r.Context(), chat.PostMessageCommand{
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
	}), http.StatusCreated)
}

// CreateConversation handles POST /api/v1/conversations
func (h *ChatHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity(w, r)
	if !ok {
		return
	}
	var req createConversationRequest
	if !decode(w, r, &req) {
		return
	}
	if req.ParticipantID == userID {
		badRequest(w, r, domain.MsgSelfConversation)
		return
	}
	respond(w, r, h.conversations.FindOrCreate(r.Context(), userID, req.ParticipantID), http.StatusCreated)
}

// ListConversations handles GET /api/v1/conversations
func (h *ChatHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity(w, r)
	if !ok {
		return
	}
	respond(w, r, h.chat.ListConversations(r.Context(), userID), http.StatusOK)
}

// GetMessages handles GET /api/v1/conversations/{id}/messages
func (h *ChatHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity(w, r)
	if !ok {
		return
	}
	var cursor *string
	if c := r.URL.Query().Get("cursor"); c != "" {
		cursor = lo.ToPtr(c)
	}
	respond(w, r, h.chat.GetMessages(r.Context(), chat.GetMessagesCommand{
		ConversationID: chi.URLParam(r, "id"),
		RequesterID:    userID,
		Cursor:         cursor,
	}), http.StatusOK)
}

// SearchMessages handles GET /api/v1/conversations/{id}/search
func (h *ChatHandler) SearchMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity(w, r)
	if !ok {
		return
	}
	query := r.URL.Query().Get("q")
	if query == "" {
		badRequest(w, r, "query parameter q is required")
		return
	}
	var limit int
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			badRequest(w, r, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	respond(w, r, h.chat.SearchMessages(r.Context(), chat.SearchMessagesCommand{
		ConversationID: chi.URLParam(r, "id"),
		RequesterID:    userID,
		Query:          query,
		Limit:          limit,
	}), http.StatusOK)
}

func (h *ChatHandler) identity(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		renderError(w, r, http.StatusUnauthorized, err.Error())
		return "", false
	}
	return userID, true
}

type AuthHandler struct {
	auth services.IAuthService
	log  *slog.Logger
}

func NewAuthHandler(auth services.IAuthService, log *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log.With(slog.String("handler", "auth"))}
}

// Register handles POST /api/v1/users
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decode(w, r, &req) {
		return
	}
	token, err := h.auth.Register(req.Name, req.Email, req.Password)
	if err != nil {
		renderAccountError(w, r, h.log, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, tokenResponse{Token: token.String()})
}

// Login handles POST /api/v1/sessions
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decode(w, r, &req) {
		return
	}
	token, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		renderAccountError(w, r, h.log, err)
		return
	}
	render.JSON(w, r, tokenResponse{Token: token.String()})
}

type HealthHandler struct {
	stats *observability.StatsCollector
}

func NewHealthHandler(stats *observability.StatsCollector) *HealthHandler {
	return &HealthHandler{stats: stats}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.stats.Collect())
}

// decode reads a JSON body into v and validates it, answering 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		badRequest(w, r, "invalid request body")
		return false
	}
	if err := validate.Struct(v); err != nil {
		badRequest(w, r, validationMessage(err))
		return false
	}
	return true
}
