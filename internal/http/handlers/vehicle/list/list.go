// Package list реализует HTTP-обработчик списка автомобилей пользователя
// с необязательным поисковым фильтром.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/vehicle-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/vehicle-tracker/internal/http/response"
	"github.com/magabrotheeeer/vehicle-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/vehicle-tracker/internal/models"
)

// Service описывает интерфейс бизнес-логики списка автомобилей.
type Service interface {
	List(ctx context.Context, userUID, search string) ([]*models.Vehicle, models.VehicleStats, error)
}

// Handler обрабатывает HTTP-запросы списка автомобилей.
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
// @Summary Список автомобилей пользователя
// @Description Возвращает автомобили владельца, отсортированные по году по убыванию, вместе со статистикой. Параметр search сужает выборку подстрочным совпадением по марке, модели или номеру без учета регистра.
// @Tags Vehicles
// @Produce  json
// @Param search query string false "Поисковая строка"
// @Success 200 {object} response.Response
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /vehicles [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.vehicle.list"

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

	search := r.URL.Query().Get("search")

	vehicles, stats, err := h.service.List(r.Context(), userUID, search)
	if err != nil {
		log.Error("failed to list vehicles", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to load vehicles"))
		return
	}

	log.Info("listed vehicles",
		slog.Int("count", len(vehicles)), slog.String("search", search))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"vehicles": vehicles,
		"stats":    stats,
		"search":   search,
	}))
}
