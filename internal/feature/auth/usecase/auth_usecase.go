package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"crypto_backend/internal/feature/auth/domain/entity"
	"crypto_backend/internal/feature/trading/domain"
)

const (
	// maxLoginLength matches the login column width in the ledger.
	maxLoginLength = 20

	// sessionTTL is how long a session stays valid.
	sessionTTL = 7 * 24 * time.Hour

	// tokenBytes is the entropy of a session token (64 hex characters).
	tokenBytes = 32
)

// SessionRepository abstracts the session store.
// Following Go convention: interfaces are defined by the consumer (usecase),
// not the provider (platform/session).
type SessionRepository interface {
	// Create persists a new session until its expiration time.
	Create(ctx context.Context, session *entity.Session) error

	// FindByID retrieves a session by token. Returns ErrSessionNotFound
	// when absent.
	FindByID(ctx context.Context, id string) (*entity.Session, error)

	// Delete removes a session by token.
	Delete(ctx context.Context, id string) error
}

// UserRegistry is the slice of the ledger engine the auth feature consumes:
// users are created on first login with no further credentials.
type UserRegistry interface {
	UserExists(ctx context.Context, login string) (bool, error)
	CreateUser(ctx context.Context, login string) error
}

// AuthUsecase implements login-name sessions.
type AuthUsecase struct {
	users    UserRegistry
	sessions SessionRepository
}

// NewAuthUsecase creates a new AuthUsecase.
func NewAuthUsecase(users UserRegistry, sessions SessionRepository) *AuthUsecase {
	return &AuthUsecase{users: users, sessions: sessions}
}

// newToken generates a random 64-character hex session token.
func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Login starts a session for the given login name, creating the user with
// the initial balance if this is their first login. Returns the session token.
func (u *AuthUsecase) Login(ctx context.Context, login string) (string, error) {
	login = strings.TrimSpace(login)
	if login == "" || len(login) > maxLoginLength {
		return "", ErrInvalidLogin
	}

	exists, err := u.users.UserExists(ctx, login)
	if err != nil {
		return "", err
	}
	if !exists {
		if err := u.users.CreateUser(ctx, login); err != nil {
			// Another request may have created the user between the
			// existence check and the insert; that login is still valid.
			if !errors.Is(err, domain.ErrUserAlreadyExists) {
				return "", err
			}
		}
	}

	token, err := newToken()
	if err != nil {
		return "", err
	}
	now := time.Now()
	session := &entity.Session{
		ID:        token,
		Login:     login,
		CreatedAt: now,
		ExpiresAt: now.Add(sessionTTL),
	}
	if err := u.sessions.Create(ctx, session); err != nil {
		return "", err
	}

	slog.Info("user logged in", "login", login)
	return token, nil
}

// Logout ends the session for the given token. Unknown tokens are not an
// error: the session is gone either way.
func (u *AuthUsecase) Logout(ctx context.Context, token string) error {
	if err := u.sessions.Delete(ctx, token); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}
	slog.Info("session ended")
	return nil
}

// Resolve returns the login name behind a session token.
func (u *AuthUsecase) Resolve(ctx context.Context, token string) (string, error) {
	session, err := u.sessions.FindByID(ctx, token)
	if err != nil {
		return "", err
	}
	if session.IsExpired() {
		return "", ErrSessionExpired
	}
	return session.Login, nil
}
