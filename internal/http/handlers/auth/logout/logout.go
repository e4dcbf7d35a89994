// Package logout реализует HTTP-обработчик выхода: сессионная cookie
// затирается, пользователь перенаправляется на страницу входа.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/vehicle-tracker/internal/lib/session"
)

// Handler обрабатывает HTTP-запросы выхода.
type Handler struct {
	log *slog.Logger
}

// New создает новый Handler с переданным логгером.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	h.log.Info("user logged out",
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	http.SetCookie(w, session.ExpiredCookie(session.IsSecureRequest(r)))
	http.Redirect(w, r, "/login", http.StatusFound)
}
