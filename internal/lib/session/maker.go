// Package session реализует подписанный сессионный токен, который сервис
// носит в cookie. Токен строится на JWT c пользовательскими claim-полями
// и подписывается секретным ключом из конфигурации.
package session

import (
	"time"
)

// Maker описывает интерфейс для генерации и парсинга сессионных токенов.
type Maker interface {
	// GenerateToken создает токен для пользователя. Флаг remember
	// выбирает между коротким сессионным сроком жизни и длинным
	// ("запомнить меня", 30 дней).
	GenerateToken(userUID, email string, remember bool) (string, error)
	// ParseToken возвращает *Claims, если токен корректен и не истёк.
	ParseToken(tokenStr string) (*Claims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и двух сроков жизни токена.
type MakerImpl struct {
	secretKey   string        // Секретный ключ для подписи токенов
	sessionTTL  time.Duration // Срок жизни обычной сессии
	rememberTTL time.Duration // Срок жизни сессии "запомнить меня"
}

// NewMaker создаёт новый экземпляр MakerImpl.
func NewMaker(secretKey string, sessionTTL, rememberTTL time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey:   secretKey,
		sessionTTL:  sessionTTL,
		rememberTTL: rememberTTL,
	}
}
