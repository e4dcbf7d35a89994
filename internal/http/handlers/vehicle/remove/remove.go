// Package remove реализует HTTP-обработчик удаления автомобиля.
//
// Удаление чужого или отсутствующего автомобиля — штатный исход:
// запрос молча перенаправляется к списку.
package remove

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
	"github.com/magabrotheeeer/vehicle-tracker/internal/services/vehicle"
)

// Service описывает интерфейс бизнес-логики удаления автомобиля.
type Service interface {
	Remove(ctx context.Context, userUID string, id int) error
}

// Handler обрабатывает HTTP-запросы удаления автомобиля.
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
// @Summary Удаление автомобиля
// @Description Удаляет автомобиль пользователя вместе с историей обслуживания.
// @Tags Vehicles
// @Produce  json
// @Param id path int true "ID автомобиля"
// @Success 302 "Перенаправление к списку автомобилей"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /delete_vehicle/{id} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.vehicle.remove"

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

	if err := h.service.Remove(r.Context(), userUID, id); err != nil {
		if errors.Is(err, vehicle.ErrNotFound) {
			log.Info("vehicle already gone", slog.Int("id", id))
			http.Redirect(w, r, "/vehicles", http.StatusFound)
			return
		}
		log.Error("failed to remove vehicle", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to delete vehicle, please try again"))
		return
	}

	log.Info("vehicle removed", slog.Int("id", id))
	http.Redirect(w, r, "/vehicles", http.StatusFound)
}
