package services

import (
	"fmt"
	"log/slog"
	"pair-chat/auth"
	"pair-chat/errors"
	"pair-chat/repositories"
)

type IAuthService interface {
	Login(email, password string) (Token, error)
	Register(name, email, password string) (Token, error)
}

type AuthService struct {
	userRepository repositories.IUserRepository
	tokens         *auth.TokenManager
	log            *slog.Logger
}

type Token string

func (t Token) String() string {
	return string(t)
}

func NewAuthService(repo repositories.IUserRepository, tokens *auth.TokenManager, log *slog.Logger) *AuthService {
	return &AuthService{userRepository: repo, tokens: tokens, log: log}
}

// Register creates an account. name is a free-form display name and may be empty.
func (s *AuthService) Register(name, email, password string) (Token, error) {
	// Validated before any expensive cryptographic operation.
	if err := auth.ValidateRegister(auth.RegisterRequest{Name: name, Email: email, Password: password}); err != nil {
		return "", err
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hashing failed: %w", err)
	}

	userID, err := s.userRepository.CreateUser(repositories.NewUser{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
	})
	if err != nil {
		return "", err
	}

	token, err := s.tokens.GenerateToken(userID, []string{"user"})
	if err != nil {
		s.log.Error("Unable to sign token", "user_id", userID, "error", err)
		return "", errors.ErrTokenGeneration
	}
	s.log.Info("User registered", "user_id", userID)
	return Token(token), nil
}

func (s *AuthService) Login(email, password string) (Token, error) {
	// Unknown email and wrong password share one error to prevent user enumeration.
	user, err := s.userRepository.GetUserByEmail(email)
	if err != nil {
		return "", errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return "", errors.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Roles)
	if err != nil {
		s.log.Error("Unable to sign token", "user_id", user.ID, "error", err)
		return "", errors.ErrTokenGeneration
	}
	return Token(token), nil
}
