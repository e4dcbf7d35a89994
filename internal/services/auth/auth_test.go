package auth

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/vehicle-tracker/internal/lib/password"
	"github.com/magabrotheeeer/vehicle-tracker/internal/lib/session"
	"github.com/magabrotheeeer/vehicle-tracker/internal/models"
)

// MockUserRepository реализует интерфейс auth.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) RegisterUser(ctx context.Context, email, passwordHash string) (string, error) {
	args := m.Called(ctx, email, passwordHash)
	return args.String(0), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestMaker() session.Maker {
	return session.NewMaker("test-secret-key", 12*time.Hour, 720*time.Hour)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("успешная регистрация с нормализацией email", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetUserByEmail", mock.Anything, "user@example.com").
			Return(nil, sql.ErrNoRows)
		repo.On("RegisterUser", mock.Anything, "user@example.com", mock.AnythingOfType("string")).
			Return("uid-1", nil)

		service := New(repo, newTestMaker())

		token, err := service.Register(ctx, "  User@Example.COM  ", "secret1")
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		// Хеш в базе не совпадает с открытым паролем
		hashed := repo.Calls[1].Arguments.String(2)
		assert.NotEqual(t, "secret1", hashed)
		assert.NoError(t, password.CompareHash(hashed, "secret1"))

		repo.AssertExpectations(t)
	})

	t.Run("email без точки или собаки отклоняется", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := New(repo, newTestMaker())

		for _, email := range []string{"not-an-email", "user@host", "user.example.com"} {
			_, err := service.Register(ctx, email, "secret1")
			assert.ErrorIs(t, err, ErrInvalidEmail, "email %q must be rejected", email)
		}
		repo.AssertNotCalled(t, "RegisterUser")
	})

	t.Run("занятый email", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetUserByEmail", mock.Anything, "taken@example.com").
			Return(&models.User{UID: "uid-1", Email: "taken@example.com"}, nil)

		service := New(repo, newTestMaker())

		_, err := service.Register(ctx, "taken@example.com", "secret1")
		assert.ErrorIs(t, err, ErrEmailTaken)
		repo.AssertNotCalled(t, "RegisterUser")
	})

	t.Run("ошибка хранилища пробрасывается", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetUserByEmail", mock.Anything, "user@example.com").
			Return(nil, errors.New("db down"))

		service := New(repo, newTestMaker())

		_, err := service.Register(ctx, "user@example.com", "secret1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrEmailTaken)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	hashed, err := password.GetHash("secret1")
	require.NoError(t, err)

	t.Run("успешный вход", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetUserByEmail", mock.Anything, "user@example.com").
			Return(&models.User{UID: "uid-1", Email: "user@example.com", PasswordHash: hashed}, nil)

		maker := newTestMaker()
		service := New(repo, maker)

		token, err := service.Login(ctx, "User@Example.com", "secret1", true)
		require.NoError(t, err)

		claims, err := maker.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, "uid-1", claims.UserUID)
		assert.Equal(t, "user@example.com", claims.Email)
		assert.True(t, claims.Remember)
	})

	t.Run("неизвестный email и неверный пароль неразличимы", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetUserByEmail", mock.Anything, "ghost@example.com").
			Return(nil, sql.ErrNoRows)
		repo.On("GetUserByEmail", mock.Anything, "user@example.com").
			Return(&models.User{UID: "uid-1", Email: "user@example.com", PasswordHash: hashed}, nil)

		service := New(repo, newTestMaker())

		_, errGhost := service.Login(ctx, "ghost@example.com", "secret1", false)
		_, errWrong := service.Login(ctx, "user@example.com", "wrong-password", false)

		assert.ErrorIs(t, errGhost, ErrInvalidCredentials)
		assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
		assert.Equal(t, errGhost.Error(), errWrong.Error())
	})
}

func TestFoldEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", FoldEmail("  User@EXAMPLE.com "))
	assert.Equal(t, "", FoldEmail("   "))
}
