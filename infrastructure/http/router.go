package http

import (
	"log/slog"
	"net/http"
	"pair-chat/auth"
	"pair-chat/observability"
	"pair-chat/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Dependencies struct {
	Chat          services.IChatService
	Conversations services.IConversationService
	Auth          services.IAuthService
	Tokens        *auth.TokenManager
	Metrics       *observability.Metrics
	Stats         *observability.StatsCollector
	// RateLimitRPS disables the limiter when zero.
	RateLimitRPS float64
	Log          *slog.Logger
}

func NewRouter(deps Dependencies) chi.Router {
	chatHandler := NewChatHandler(deps.Chat, deps.Conversations, deps.Log)
	authHandler := NewAuthHandler(deps.Auth, deps.Log)
	healthHandler := NewHealthHandler(deps.Stats)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(CountRequests(deps.Metrics))
	r.Use(Recoverer(deps.Log))

	r.Get("/health", healthHandler.Health)
	r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		if deps.RateLimitRPS > 0 {
			r.Use(NewRateLimiter(deps.RateLimitRPS, int(deps.RateLimitRPS)+1, deps.Log).Handler)
		}

		r.Post("/users", authHandler.Register)
		r.Post("/sessions", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(Authenticator(deps.Tokens))
			r.Post("/messages", chatHandler.PostMessage)
			r.Post("/conversations", chatHandler.CreateConversation)
			r.Get("/conversations", chatHandler.ListConversations)
			r.Get("/conversations/{id}/messages", chatHandler.GetMessages)
			r.Get("/conversations/{id}/search", chatHandler.SearchMessages)
		})
	})
	return r
}
