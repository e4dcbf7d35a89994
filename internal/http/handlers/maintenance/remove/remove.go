// Package remove реализует HTTP-обработчик удаления записи обслуживания.
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
	"github.com/magabrotheeeer/vehicle-tracker/internal/services/maintenance"
)

// Service описывает интерфейс бизнес-логики удаления записи обслуживания.
type Service interface {
	Remove(ctx context.Context, userUID string, id int) (int, error)
}

// Handler обрабатывает HTTP-запросы удаления записи обслуживания.
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
// @Summary Удаление записи обслуживания
// @Description Удаляет запись обслуживания пользователя и возвращает к карточке родительского автомобиля.
// @Tags Maintenance
// @Produce  json
// @Param id path int true "ID записи обслуживания"
// @Success 302 "Перенаправление к карточке автомобиля"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /delete_maintenance/{id} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.maintenance.remove"

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
		log.Info("invalid maintenance log id in path")
		http.Redirect(w, r, "/vehicles", http.StatusFound)
		return
	}

	vehicleID, err := h.service.Remove(r.Context(), userUID, id)
	if err != nil {
		if errors.Is(err, maintenance.ErrNotFound) {
			log.Info("maintenance log already gone", slog.Int("id", id))
			http.Redirect(w, r, "/vehicles", http.StatusFound)
			return
		}
		log.Error("failed to remove maintenance log", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to delete maintenance record, please try again"))
		return
	}

	log.Info("maintenance log removed",
		slog.Int("id", id), slog.Int("vehicle_id", vehicleID))
	http.Redirect(w, r, "/vehicle/"+strconv.Itoa(vehicleID), http.StatusFound)
}
