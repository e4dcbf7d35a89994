// Package home реализует публичную главную страницу со сводкой
// по всем автомобилям сервиса. Это единственная выборка, которая
// намеренно не ограничена одним пользователем.
package home

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/vehicle-tracker/internal/http/response"
	"github.com/magabrotheeeer/vehicle-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/vehicle-tracker/internal/models"
)

// Service описывает интерфейс получения глобальной статистики.
type Service interface {
	GlobalStats(ctx context.Context) (models.VehicleStats, error)
}

// Handler обрабатывает запросы главной страницы.
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

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.home"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	stats, err := h.service.GlobalStats(r.Context())
	if err != nil {
		log.Error("failed to load stats", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to load stats"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"stats": stats,
	}))
}
