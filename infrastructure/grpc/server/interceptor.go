package server

import (
	"context"
	"pair-chat/auth"
	"pair-chat/contract"
	"pair-chat/observability"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// Methods that do not require JWT authentication.
var publicMethods = map[string]struct{}{
	contract.AuthService_Login_FullMethodName:    {},
	contract.AuthService_Register_FullMethodName: {},
}

// AuthInterceptor validates the bearer token of every non public call
// and injects the caller's identity into the context.
func AuthInterceptor(tokens *auth.TokenManager) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if isPublicMethod(info.FullMethod) {
			return handler(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "metadata is missing")
		}
		values := md.Get("authorization")
		if len(values) == 0 {
			return nil, status.Error(codes.Unauthenticated, "authorization token is missing")
		}

		claims, err := tokens.ValidateToken(strings.TrimPrefix(values[0], "Bearer "))
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "invalid or expired token")
		}
		return handler(auth.WithIdentity(ctx, claims), req)
	}
}

func isPublicMethod(method string) bool {
	_, ok := publicMethods[method]
	return ok
}

// MetricsInterceptor counts calls by method and status code.
func MetricsInterceptor(metrics *observability.Metrics) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		metrics.Requests.WithLabelValues("grpc", info.FullMethod, status.Code(err).String()).Inc()
		return resp, err
	}
}
