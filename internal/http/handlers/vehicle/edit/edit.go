// Package edit реализует HTTP-обработчик редактирования автомобиля.
package edit

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/vehicle-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/vehicle-tracker/internal/http/response"
	"github.com/magabrotheeeer/vehicle-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/vehicle-tracker/internal/lib/validation"
	"github.com/magabrotheeeer/vehicle-tracker/internal/models"
	"github.com/magabrotheeeer/vehicle-tracker/internal/services/vehicle"
)

// Service описывает интерфейс бизнес-логики редактирования автомобиля.
type Service interface {
	Read(ctx context.Context, userUID string, id int) (*models.Vehicle, []*models.MaintenanceLog, error)
	Update(ctx context.Context, userUID string, id int, form models.VehicleForm) error
}

// Handler обрабатывает HTTP-запросы редактирования автомобиля.
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

// Show отдаёт текущие значения автомобиля для предзаполнения формы.
// Чужой или отсутствующий автомобиль перенаправляет к списку.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.vehicle.edit.show"

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

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Info("invalid vehicle id in path")
		http.Redirect(w, r, "/vehicles", http.StatusFound)
		return
	}

	v, _, err := h.service.Read(r.Context(), userUID, id)
	if err != nil {
		if errors.Is(err, vehicle.ErrNotFound) {
			log.Info("vehicle not found", slog.Int("id", id))
			http.Redirect(w, r, "/vehicles", http.StatusFound)
			return
		}
		log.Error("failed to read vehicle", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to load vehicle"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"form":    "edit_vehicle",
		"vehicle": v,
	}))
}

// ServeHTTP godoc
// @Summary Редактирование автомобиля
// @Description Проверяет поля формы и обновляет автомобиль пользователя. Проверка уникальности номера не учитывает саму обновляемую запись.
// @Tags Vehicles
// @Accept  x-www-form-urlencoded
// @Produce  json
// @Param id path int true "ID автомобиля"
// @Param brand formData string true "Марка"
// @Param model formData string true "Модель"
// @Param year formData string true "Год выпуска"
// @Param plate_number formData string true "Регистрационный номер"
// @Success 302 "Перенаправление к списку автомобилей"
// @Failure 422 {object} response.Response "Ошибки валидации или занятый номер"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /edit_vehicle/{id} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.vehicle.edit"

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

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Info("invalid vehicle id in path")
		http.Redirect(w, r, "/vehicles", http.StatusFound)
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

	if err := h.service.Update(r.Context(), userUID, id, form); err != nil {
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
		case errors.Is(err, vehicle.ErrNotFound):
			log.Info("vehicle not found", slog.Int("id", id))
			http.Redirect(w, r, "/vehicles", http.StatusFound)
		default:
			log.Error("failed to update vehicle", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to update vehicle, please try again"))
		}
		return
	}

	log.Info("vehicle updated", slog.Int("id", id))
	http.Redirect(w, r, "/vehicles", http.StatusFound)
}
