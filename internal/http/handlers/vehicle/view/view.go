// Package view реализует HTTP-обработчик страницы автомобиля с историей
// обслуживания.
package view

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
	"github.com/magabrotheeeer/vehicle-tracker/internal/models"
	"github.com/magabrotheeeer/vehicle-tracker/internal/services/vehicle"
)

// Service описывает интерфейс бизнес-логики просмотра автомобиля.
type Service interface {
	Read(ctx context.Context, userUID string, id int) (*models.Vehicle, []*models.MaintenanceLog, error)
}

// Handler обрабатывает HTTP-запросы просмотра автомобиля.
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

// ServeHTTP godoc
// @Summary Карточка автомобиля
// @Description Возвращает автомобиль пользователя вместе с историей обслуживания, отсортированной по дате по убыванию. Чужой или отсутствующий автомобиль перенаправляет к списку.
// @Tags Vehicles
// @Produce  json
// @Param id path int true "ID автомобиля"
// @Success 200 {object} response.Response
// @Success 302 "Перенаправление к списку автомобилей"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /vehicle/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.vehicle.view"

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

	v, logs, err := h.service.Read(r.Context(), userUID, id)
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
		"vehicle":          v,
		"maintenance_logs": logs,
	}))
}
