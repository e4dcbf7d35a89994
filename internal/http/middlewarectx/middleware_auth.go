// Package middlewarectx содержит HTTP middleware для проверки сессионных
// токенов и общие ключи контекста запроса.
//
// AuthMiddleware проверяет наличие и валидность сессионной cookie
// и в случае успеха добавляет в контекст идентификатор и email
// пользователя для дальнейшего использования в обработчиках.
//
// Запрос без валидной сессии перенаправляется на страницу входа;
// исходное действие при этом отбрасывается.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/vehicle-tracker/internal/lib/session"
	"github.com/magabrotheeeer/vehicle-tracker/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserUID — ключ для идентификатора пользователя в контексте
	UserUID Key = "user_uid"
	// UserEmail — ключ для email пользователя в контексте
	UserEmail Key = "email"
)

// TokenParser описывает интерфейс проверки сессионного токена.
type TokenParser interface {
	ParseToken(tokenStr string) (*session.Claims, error)
}

// AuthMiddleware возвращает HTTP middleware, который проверяет сессионную
// cookie. Если токен валиден, идентификатор и email пользователя кладутся
// в контекст запроса, иначе запрос перенаправляется на /login.
func AuthMiddleware(parser TokenParser, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AuthMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			cookie, err := r.Cookie(session.CookieName)
			if err != nil {
				log.Info("no session cookie, redirecting to login")
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			claims, err := parser.ParseToken(cookie.Value)
			if err != nil {
				log.Info("invalid or expired session", sl.Err(err))
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), UserUID, claims.UserUID)
			ctx = context.WithValue(ctx, UserEmail, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
