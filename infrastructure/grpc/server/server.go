package server

import (
	"log/slog"
	"pair-chat/auth"
	"pair-chat/contract"
	"pair-chat/observability"
	"pair-chat/services"

	grpc3 "github.com/mama165/sdk-go/grpc"
	"google.golang.org/grpc"
)

type Dependencies struct {
	Chat          services.IChatService
	Conversations services.IConversationService
	Auth          services.IAuthService
	Tokens        *auth.TokenManager
	Metrics       *observability.Metrics
	Log           *slog.Logger
}

// New builds a gRPC server exposing the chat and auth services.
func New(deps Dependencies, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(
		grpc3.UnaryLoggingInterceptor(deps.Log),
		MetricsInterceptor(deps.Metrics),
		AuthInterceptor(deps.Tokens),
	))
	s := grpc.NewServer(opts...)
	contract.RegisterChatServiceServer(s, NewChatServer(deps.Log, deps.Chat, deps.Conversations))
	contract.RegisterAuthServiceServer(s, NewAuthServer(deps.Auth, deps.Tokens))
	return s
}
