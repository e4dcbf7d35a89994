// Package create реализует HTTP-обработчик добавления автомобиля.
//
// При ошибках валидации ответ содержит список нарушенных правил и эхо
// отправленных значений, чтобы клиент перерисовал форму с прежним вводом.
package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/vehicle-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/vehicle-tracker/internal/http/response"
	"github.com/magabrotheeeer/vehicle-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/vehicle-tracker/internal/lib/validation"
	"github.com/magabrotheeeer/vehicle-tracker/internal/models"
	"github.com/magabrotheeeer/vehicle-tracker/internal/services/vehicle"
)

// Service описывает интерфейс бизнес-логики добавления автомобиля.
type Service interface {
	Create(ctx context.Context, userUID string, form models.VehicleForm) (int, error)
}

// Handler обрабатывает HTTP-запросы добавления автомобиля.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// Show отдаёт описание формы добавления автомобиля.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"form":   "add_vehicle",
		"fields": []string{"brand", "model", "year", "plate_number"},
	}))
}

// ServeHTTP godoc
// @Summary Добавление автомобиля
// @Description Проверяет поля формы и создает автомобиль текущего пользователя. Номер должен быть уникален в пределах владельца.
// @Tags Vehicles
// @Accept  x-www-form-urlencoded
// @Produce  json
// @Param brand formData string true "Марка"
// @Param model formData string true "Модель"
// @Param year formData string true "Год выпуска"
// @Param plate_number formData string true "Регистрационный номер"
// @Success 302 "Перенаправление к списку автомобилей"
// @Failure 422 {object} response.Response "Ошибки валидации или занятый номер"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /add_vehicle [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.vehicle.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	form := models.VehicleForm{
		Brand: r.PostFormValue("brand"),
		Model: r.PostFormValue("model"),
		Year:  r.PostFormValue("year"),
		Plate: r.PostFormValue("plate_number"),
	}

	id, err := h.service.Create(r.Context(), userUID, form)
	if err != nil {
		var verr *validation.Error
		switch {
		case errors.As(err, &verr):
			log.Info("vehicle form rejected", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.FormErrors(verr.Result.Errors, form))
		case errors.Is(err, vehicle.ErrDuplicatePlate):
			log.Info("plate number already in use")
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("a vehicle with this plate number already exists"))
		default:
			log.Error("failed to create vehicle", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to add vehicle, please try again"))
		}
		return
	}

	log.Info("vehicle added", slog.Int("id", id))
	http.Redirect(w, r, "/vehicles", http.StatusFound)
}
