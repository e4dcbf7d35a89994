// Package export реализует HTTP-обработчик выгрузки автомобилей
// пользователя в CSV.
package export

import (
	"context"
	"encoding/csv"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/vehicle-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/vehicle-tracker/internal/http/response"
	"github.com/magabrotheeeer/vehicle-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/vehicle-tracker/internal/models"
)

// Service описывает интерфейс бизнес-логики выгрузки автомобилей.
type Service interface {
	List(ctx context.Context, userUID, search string) ([]*models.Vehicle, models.VehicleStats, error)
}

// Handler обрабатывает HTTP-запросы выгрузки в CSV.
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
// @Summary Выгрузка автомобилей в CSV
// @Description Возвращает все автомобили пользователя файлом CSV с заголовком id,brand,model,year,plate_number,created_at.
// @Tags Vehicles
// @Produce  text/csv
// @Success 200 {string} string "CSV-файл"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /export/csv [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.export"

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

	vehicles, _, err := h.service.List(r.Context(), userUID, "")
	if err != nil {
		log.Error("failed to list vehicles", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to export vehicles"))
		return
	}

	filename := "vehicles_" + time.Now().Format("20060102_150405") + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	cw := csv.NewWriter(w)
	records := [][]string{
		{"id", "brand", "model", "year", "plate_number", "created_at"},
	}
	for _, v := range vehicles {
		createdAt := ""
		if !v.CreatedAt.IsZero() {
			createdAt = v.CreatedAt.Format("2006-01-02 15:04:05")
		}
		records = append(records, []string{
			strconv.Itoa(v.ID),
			v.Brand,
			v.Model,
			strconv.Itoa(v.Year),
			v.PlateNumber,
			createdAt,
		})
	}
	if err := cw.WriteAll(records); err != nil {
		// Заголовки уже отправлены, остаётся только залогировать.
		log.Error("failed to write csv", sl.Err(err))
		return
	}

	log.Info("exported vehicles to csv", slog.Int("count", len(vehicles)))
}
