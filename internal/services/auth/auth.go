// Package auth содержит логику бизнес-уровня для регистрации и входа
// пользователей. Успешные операции возвращают подписанный сессионный
// токен, который обработчик кладёт в cookie.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/magabrotheeeer/vehicle-tracker/internal/lib/password"
	"github.com/magabrotheeeer/vehicle-tracker/internal/lib/session"
	"github.com/magabrotheeeer/vehicle-tracker/internal/models"
	"github.com/magabrotheeeer/vehicle-tracker/internal/storage"
)

// ErrEmailTaken возвращается при попытке повторной регистрации email.
var ErrEmailTaken = errors.New("email already registered")

// ErrInvalidEmail возвращается, когда email не похож на адрес почты.
var ErrInvalidEmail = errors.New("invalid email address")

// ErrInvalidCredentials возвращается при неудачном входе. Несуществующий
// email и неверный пароль неразличимы, чтобы не раскрывать, какие адреса
// зарегистрированы.
var ErrInvalidCredentials = errors.New("invalid email or password")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, email, passwordHash string) (string, error)

	// GetUserByEmail возвращает пользователя по email в нижнем регистре.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Service отвечает за регистрацию, вход и выпуск сессионных токенов.
type Service struct {
	users UserRepository
	maker session.Maker
}

// New создает новый экземпляр Service.
func New(users UserRepository, maker session.Maker) *Service {
	return &Service{
		users: users,
		maker: maker,
	}
}

// FoldEmail нормализует email: обрезает пробелы и приводит к нижнему
// регистру. Применяется и при регистрации, и при входе.
func FoldEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register создает нового пользователя и сразу выпускает сессионный токен.
//
// Email приводится к нижнему регистру до сохранения и проверки на повтор.
// Пустые поля и короткий пароль отсекаются валидацией формы на уровне
// обработчика; здесь проверяется форма адреса и его уникальность.
func (s *Service) Register(ctx context.Context, email, rawPassword string) (string, error) {
	email = FoldEmail(email)
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return "", ErrInvalidEmail
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return "", ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}

	uid, err := s.users.RegisterUser(ctx, email, hashed)
	if err != nil {
		// Гонка двух одновременных регистраций разрешается
		// ограничением уникальности в базе.
		if storage.IsUniqueViolation(err) {
			return "", ErrEmailTaken
		}
		return "", err
	}

	return s.maker.GenerateToken(uid, email, false)
}

// Login проверяет пароль пользователя и выпускает сессионный токен.
// Флаг remember выбирает постоянную сессию на 30 дней.
func (s *Service) Login(ctx context.Context, email, rawPassword string, remember bool) (string, error) {
	email = FoldEmail(email)

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.maker.GenerateToken(user.UID, user.Email, remember)
}
