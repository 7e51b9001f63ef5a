package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"booknblock/internal/domain/shared/apperr"
	"booknblock/internal/domain/user"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrPasswordTooShort   = errors.New("auth: password must be at least 8 characters")
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer mints and verifies the bearer tokens the HTTP layer carries.
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
	Verify(token string) (userID string, email string, err error)
}

type Service struct {
	Users     user.Repository
	Passwords PasswordHasher
	Tokens    TokenIssuer
	Logger    *slog.Logger
}

type RegisterParams struct {
	Email    string
	Name     string
	Password string
}

type LoginParams struct {
	Email    string
	Password string
}

type AuthResult struct {
	User  *user.User
	Token string
}

func (s *Service) Register(ctx context.Context, params RegisterParams) (*AuthResult, error) {
	email := user.NormalizeEmail(params.Email)
	if email == "" {
		return nil, apperr.Wrap(apperr.KindInvalidInput, "invalid registration", user.ErrEmailRequired)
	}
	if strings.TrimSpace(params.Name) == "" {
		return nil, apperr.Wrap(apperr.KindInvalidInput, "invalid registration", user.ErrNameRequired)
	}
	if utf8.RuneCountInString(params.Password) < 8 {
		return nil, apperr.Wrap(apperr.KindInvalidInput, "invalid registration", ErrPasswordTooShort)
	}
	if _, err := s.Users.ByEmail(ctx, email); err == nil {
		return nil, apperr.Wrap(apperr.KindConflict, "registration rejected", user.ErrEmailAlreadyUsed)
	} else if !errors.Is(err, user.ErrNotFound) {
		return nil, err
	}

	hash, err := s.Passwords.Hash(params.Password)
	if err != nil {
		return nil, err
	}
	u, err := user.NewUser(user.CreateParams{
		ID:           user.ID(uuid.NewString()),
		Email:        email,
		Name:         params.Name,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Users.Save(ctx, u); err != nil {
		return nil, err
	}
	token, err := s.Tokens.Issue(string(u.ID), u.Email)
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("user registered", "user_id", u.ID, "email", u.Email)
	}
	return &AuthResult{User: u, Token: token}, nil
}

func (s *Service) Login(ctx context.Context, params LoginParams) (*AuthResult, error) {
	email := user.NormalizeEmail(params.Email)
	if email == "" {
		return nil, apperr.Wrap(apperr.KindUnauthorized, "login failed", ErrInvalidCredentials)
	}
	u, err := s.Users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperr.Wrap(apperr.KindUnauthorized, "login failed", ErrInvalidCredentials)
		}
		return nil, err
	}
	if err := s.Passwords.Compare(u.PasswordHash, params.Password); err != nil {
		return nil, apperr.Wrap(apperr.KindUnauthorized, "login failed", ErrInvalidCredentials)
	}
	token, err := s.Tokens.Issue(string(u.ID), u.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: u, Token: token}, nil
}

// Resolve turns a bearer token into the authenticated user. A valid token
// whose backing record vanished still fails: the principal must exist.
func (s *Service) Resolve(ctx context.Context, token string) (*user.User, error) {
	userID, _, err := s.Tokens.Verify(token)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindAuthenticationRequired, "invalid token", err)
	}
	u, err := s.Users.ByID(ctx, user.ID(userID))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperr.AuthenticationRequired("logged user not found in the database")
		}
		return nil, err
	}
	return u, nil
}
