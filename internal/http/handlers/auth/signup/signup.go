// Package signup реализует HTTP-обработчик регистрации пользователей.
//
// Обработчик принимает поля формы, валидирует их, делегирует регистрацию
// сервису аутентификации и при успехе сразу устанавливает сессионную
// cookie — новый пользователь оказывается залогинен.
package signup

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/vehicle-tracker/internal/http/response"
	"github.com/magabrotheeeer/vehicle-tracker/internal/lib/session"
	"github.com/magabrotheeeer/vehicle-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/vehicle-tracker/internal/services/auth"
)

// Request — входные данные формы регистрации.
type Request struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, email, password string) (string, error)
}

// Handler обрабатывает HTTP-запросы регистрации.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// Show отдаёт описание формы регистрации.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"form":   "signup",
		"fields": []string{"email", "password"},
	}))
}

// ServeHTTP godoc
// @Summary Регистрация пользователя
// @Description Создает учетную запись и сразу устанавливает сессионную cookie.
// @Tags Auth
// @Accept  x-www-form-urlencoded
// @Produce  json
// @Param email formData string true "Электронная почта"
// @Param password formData string true "Пароль, минимум 6 символов"
// @Success 302 "Перенаправление в личный кабинет"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации или занятый email"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /signup [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.signup"

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
	req := Request{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	token, err := h.service.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidEmail):
			log.Info("rejected malformed email")
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("please enter a valid email address"))
		case errors.Is(err, auth.ErrEmailTaken):
			log.Info("email already registered")
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("email already registered"))
		default:
			log.Error("registration failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to register, please try again"))
		}
		return
	}

	log.Info("user registered", slog.String("email", auth.FoldEmail(req.Email)))
	http.SetCookie(w, session.Cookie(token, false, session.IsSecureRequest(r), 0))
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}
