// Package dashboard реализует личный кабинет: агрегаты по автомобилям
// и обслуживанию авторизованного пользователя.
package dashboard

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

// VehicleService описывает интерфейс статистики по автомобилям.
type VehicleService interface {
	UserStats(ctx context.Context, userUID string) (models.VehicleStats, error)
}

// MaintenanceService описывает интерфейс статистики по обслуживанию.
type MaintenanceService interface {
	Stats(ctx context.Context, userUID string) (int, float64, error)
}

// Handler обрабатывает запросы личного кабинета.
type Handler struct {
	log          *slog.Logger
	vehicles     VehicleService
	maintenances MaintenanceService
}

// New создает новый Handler с переданными логгером и сервисами.
func New(log *slog.Logger, vehicles VehicleService, maintenances MaintenanceService) *Handler {
	return &Handler{
		log:          log,
		vehicles:     vehicles,
		maintenances: maintenances,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard"

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

	vehicleStats, err := h.vehicles.UserStats(r.Context(), userUID)
	if err != nil {
		log.Error("failed to load vehicle stats", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to load dashboard"))
		return
	}

	count, cost, err := h.maintenances.Stats(r.Context(), userUID)
	if err != nil {
		log.Error("failed to load maintenance stats", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to load dashboard"))
		return
	}

	email, _ := r.Context().Value(middlewarectx.UserEmail).(string)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"email": email,
		"stats": models.DashboardStats{
			VehicleStats:     vehicleStats,
			MaintenanceCount: count,
			MaintenanceCost:  cost,
		},
	}))
}
