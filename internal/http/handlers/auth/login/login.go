// Package login реализует HTTP-обработчик входа пользователей.
//
// Неудачный вход всегда отвечает одним и тем же сообщением: по ответу
// нельзя отличить незарегистрированный email от неверного пароля.
package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/vehicle-tracker/internal/http/response"
	"github.com/magabrotheeeer/vehicle-tracker/internal/lib/session"
	"github.com/magabrotheeeer/vehicle-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/vehicle-tracker/internal/services/auth"
)

// Request — входные данные формы входа.
type Request struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Remember bool   `json:"remember"`
}

// Service описывает интерфейс бизнес-логики входа.
type Service interface {
	Login(ctx context.Context, email, password string, remember bool) (string, error)
}

// Handler обрабатывает HTTP-запросы входа.
type Handler struct {
	log         *slog.Logger
	service     Service
	validate    *validator.Validate
	rememberTTL time.Duration
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service, rememberTTL time.Duration) *Handler {
	return &Handler{
		log:         log,
		service:     service,
		validate:    validator.New(),
		rememberTTL: rememberTTL,
	}
}

// Show отдаёт описание формы входа.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"form":   "login",
		"fields": []string{"email", "password", "remember"},
	}))
}

// ServeHTTP godoc
// @Summary Вход пользователя
// @Description Аутентифицирует пользователя и устанавливает сессионную cookie. Флаг remember делает сессию постоянной на 30 дней.
// @Tags Auth
// @Accept  x-www-form-urlencoded
// @Produce  json
// @Param email formData string true "Электронная почта"
// @Param password formData string true "Пароль"
// @Param remember formData string false "Запомнить меня"
// @Success 302 "Перенаправление в личный кабинет"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	remember := r.PostFormValue("remember")
	req := Request{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		Remember: remember == "on" || remember == "true" || remember == "1",
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	token, err := h.service.Login(r.Context(), req.Email, req.Password, req.Remember)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			log.Info("login rejected")
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid email or password"))
			return
		}
		log.Error("login failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to log in, please try again"))
		return
	}

	log.Info("login success", slog.String("email", auth.FoldEmail(req.Email)))
	http.SetCookie(w, session.Cookie(token, req.Remember, session.IsSecureRequest(r), h.rememberTTL))
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}
