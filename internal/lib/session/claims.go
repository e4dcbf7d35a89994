package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims описывает пользовательские данные, хранящиеся в сессионном токене.
type Claims struct {
	UserUID              string `json:"uid"`      // Идентификатор пользователя
	Email                string `json:"email"`    // Электронная почта
	Remember             bool   `json:"remember"` // Постоянная сессия на 30 дней
	jwt.RegisteredClaims        // Встроенные стандартные claims JWT (ExpiresAt, IssuedAt и пр.)
}

// GenerateToken создает токен с заданными uid и email, подписывая его
// секретным ключом. Срок жизни зависит от флага remember.
func (m *MakerImpl) GenerateToken(userUID, email string, remember bool) (string, error) {
	ttl := m.sessionTTL
	if remember {
		ttl = m.rememberTTL
	}
	claims := Claims{
		UserUID:  userUID,
		Email:    email,
		Remember: remember,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secretKey))
}

// ParseToken парсит токен, проверяет его подпись и срок действия,
// возвращает Claims, если токен корректен.
func (m *MakerImpl) ParseToken(tokenStr string) (*Claims, error) {
	const op = "session.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(m.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}
