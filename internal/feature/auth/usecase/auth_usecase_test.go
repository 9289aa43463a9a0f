package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crypto_backend/internal/feature/auth/domain/entity"
	"crypto_backend/internal/feature/trading/domain"
)

// mockUserRegistry is a mock implementation of the UserRegistry interface.
type mockUserRegistry struct {
	UserExistsFunc  func(ctx context.Context, login string) (bool, error)
	CreateUserFunc  func(ctx context.Context, login string) error
	CreateUserCalls int
}

func (m *mockUserRegistry) UserExists(ctx context.Context, login string) (bool, error) {
	if m.UserExistsFunc != nil {
		return m.UserExistsFunc(ctx, login)
	}
	return false, nil
}

func (m *mockUserRegistry) CreateUser(ctx context.Context, login string) error {
	m.CreateUserCalls++
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(ctx, login)
	}
	return nil
}

// mockSessionRepository is an in-memory mock of the SessionRepository interface.
type mockSessionRepository struct {
	CreateFunc func(ctx context.Context, session *entity.Session) error
	sessions   map[string]*entity.Session
}

func newMockSessionRepository() *mockSessionRepository {
	return &mockSessionRepository{sessions: map[string]*entity.Session{}}
}

func (m *mockSessionRepository) Create(ctx context.Context, session *entity.Session) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	m.sessions[session.ID] = session
	return nil
}

func (m *mockSessionRepository) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *mockSessionRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func TestAuthUsecase_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("first login creates the user and a session", func(t *testing.T) {
		users := &mockUserRegistry{}
		sessions := newMockSessionRepository()
		uc := NewAuthUsecase(users, sessions)

		token, err := uc.Login(ctx, "name_1")

		require.NoError(t, err)
		assert.Equal(t, 1, users.CreateUserCalls, "first login must create the user")
		assert.Len(t, token, 64, "token should be a 64-character hex string")

		login, err := uc.Resolve(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "name_1", login)
	})

	t.Run("known user is not created again", func(t *testing.T) {
		users := &mockUserRegistry{
			UserExistsFunc: func(ctx context.Context, login string) (bool, error) {
				return true, nil
			},
		}
		uc := NewAuthUsecase(users, newMockSessionRepository())

		_, err := uc.Login(ctx, "name_1")

		require.NoError(t, err)
		assert.Zero(t, users.CreateUserCalls, "existing user must not be recreated")
	})

	t.Run("concurrent first logins tolerate the duplicate insert", func(t *testing.T) {
		users := &mockUserRegistry{
			CreateUserFunc: func(ctx context.Context, login string) error {
				return domain.ErrUserAlreadyExists
			},
		}
		uc := NewAuthUsecase(users, newMockSessionRepository())

		_, err := uc.Login(ctx, "name_1")

		assert.NoError(t, err, "losing the creation race is still a valid login")
	})

	t.Run("rejects blank and overlong logins", func(t *testing.T) {
		uc := NewAuthUsecase(&mockUserRegistry{}, newMockSessionRepository())

		for _, login := range []string{"", "   ", strings.Repeat("x", 21)} {
			_, err := uc.Login(ctx, login)
			assert.ErrorIs(t, err, ErrInvalidLogin, "login %q should be rejected", login)
		}
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		sessions := newMockSessionRepository()
		uc := NewAuthUsecase(&mockUserRegistry{}, sessions)

		token, err := uc.Login(ctx, "  name_1  ")

		require.NoError(t, err)
		login, err := uc.Resolve(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "name_1", login)
	})

	t.Run("registry failure aborts the login", func(t *testing.T) {
		users := &mockUserRegistry{
			UserExistsFunc: func(ctx context.Context, login string) (bool, error) {
				return false, errors.New("database down")
			},
		}
		uc := NewAuthUsecase(users, newMockSessionRepository())

		_, err := uc.Login(ctx, "name_1")
		assert.Error(t, err)
	})

	t.Run("session store failure aborts the login", func(t *testing.T) {
		sessions := newMockSessionRepository()
		sessions.CreateFunc = func(ctx context.Context, session *entity.Session) error {
			return errors.New("redis down")
		}
		uc := NewAuthUsecase(&mockUserRegistry{}, sessions)

		_, err := uc.Login(ctx, "name_1")
		assert.Error(t, err)
	})
}

func TestAuthUsecase_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown token", func(t *testing.T) {
		uc := NewAuthUsecase(&mockUserRegistry{}, newMockSessionRepository())

		_, err := uc.Resolve(ctx, "missing")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("expired session", func(t *testing.T) {
		sessions := newMockSessionRepository()
		sessions.sessions["stale"] = &entity.Session{
			ID:        "stale",
			Login:     "name_1",
			CreatedAt: time.Now().Add(-8 * 24 * time.Hour),
			ExpiresAt: time.Now().Add(-time.Hour),
		}
		uc := NewAuthUsecase(&mockUserRegistry{}, sessions)

		_, err := uc.Resolve(ctx, "stale")
		assert.ErrorIs(t, err, ErrSessionExpired)
	})
}

func TestAuthUsecase_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the session", func(t *testing.T) {
		sessions := newMockSessionRepository()
		uc := NewAuthUsecase(&mockUserRegistry{}, sessions)

		token, err := uc.Login(ctx, "name_1")
		require.NoError(t, err)

		require.NoError(t, uc.Logout(ctx, token))

		_, err = uc.Resolve(ctx, token)
		assert.ErrorIs(t, err, ErrSessionNotFound, "session must be gone after logout")
	})

	t.Run("unknown token is not an error", func(t *testing.T) {
		uc := NewAuthUsecase(&mockUserRegistry{}, newMockSessionRepository())

		assert.NoError(t, uc.Logout(ctx, "missing"))
	})
}
