package server

import (
	"context"
	"pair-chat/auth"
	"pair-chat/contract"
	"pair-chat/errors"
	"pair-chat/services"
)

type AuthServer struct {
	authService services.IAuthService
	tokens      *auth.TokenManager
}

// NewAuthServer creates a new gRPC server for authentication.
func NewAuthServer(authService services.IAuthService, tokens *auth.TokenManager) *AuthServer {
	return &AuthServer{authService: authService, tokens: tokens}
}

// Register handles user registration by validating input, hashing password and issuing a token.
func (s *AuthServer) Register(_ context.Context, in *contract.RegisterRequest) (*contract.AuthResponse, error) {
	token, err := s.authService.Register(in.Name, in.Email, in.Password)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return s.response(token)
}

// Login verifies credentials and returns a session token.
func (s *AuthServer) Login(_ context.Context, in *contract.LoginRequest) (*contract.AuthResponse, error) {
	token, err := s.authService.Login(in.Email, in.Password)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return s.response(token)
}

// response reads the user id back from the token the service just signed.
func (s *AuthServer) response(token services.Token) (*contract.AuthResponse, error) {
	claims, err := s.tokens.ValidateToken(token.String())
	if err != nil {
		return nil, errors.MapToGRPCError(errors.ErrTokenGeneration)
	}
	return &contract.AuthResponse{Token: token.String(), UserID: claims.UserID}, nil
}
