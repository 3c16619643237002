package auth

import (
	"context"
	"errors"
	"log/slog"
)

// ErrUnauthorized is returned for rejected credentials or tokens.
var ErrUnauthorized = errors.New("unauthorized")

// UserStore checks credentials and looks up accounts.
type UserStore interface {
	Authenticate(ctx context.Context, username, password string) (User, error)
	Lookup(ctx context.Context, username string) (User, error)
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Service handles logins and token checks.
type Service struct {
	users  UserStore
	tokens *TokenIssuer
}

// NewService creates an auth service.
func NewService(users UserStore, tokens *TokenIssuer) *Service {
	return &Service{users: users, tokens: tokens}
}

// Login verifies credentials and issues an access token.
func (s *Service) Login(ctx context.Context, username, password string) (LoginResult, error) {
	user, err := s.users.Authenticate(ctx, username, password)
	if err != nil {
		slog.Info("login rejected", "username", username, "reason", err.Error())
		return LoginResult{}, ErrUnauthorized
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return LoginResult{}, err
	}

	slog.Info("login succeeded", "user_id", user.ID)
	return LoginResult{Token: token, User: user}, nil
}

// Verify checks a bearer token and returns its claims.
func (s *Service) Verify(token string) (*Claims, error) {
	return s.tokens.Verify(token)
}

// CurrentUser resolves the account behind verified claims.
func (s *Service) CurrentUser(ctx context.Context, claims *Claims) (User, error) {
	user, err := s.users.Lookup(ctx, claims.Username)
	if err != nil || user.ID != claims.UserID {
		return User{}, ErrUnauthorized
	}
	return user, nil
}
