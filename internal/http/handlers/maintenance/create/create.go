// Package create реализует HTTP-обработчик добавления записи обслуживания.
//
// Принадлежность автомобиля проверяется до валидации полей формы:
// чужой автомобиль перенаправляет к списку без разбора ввода.
package create

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
	"github.com/magabrotheeeer/vehicle-tracker/internal/services/maintenance"
)

// Service описывает интерфейс бизнес-логики добавления записи обслуживания.
type Service interface {
	Vehicle(ctx context.Context, userUID string, vehicleID int) (*models.Vehicle, error)
	Add(ctx context.Context, userUID string, vehicleID int, form models.MaintenanceForm) (int, error)
}

// Handler обрабатывает HTTP-запросы добавления записи обслуживания.
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

// Show отдаёт описание формы добавления записи вместе с автомобилем,
// к которому она относится.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.maintenance.create.show"

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

	vehicleID, err := strconv.Atoi(chi.URLParam(r, "vehicle_id"))
	if err != nil {
		log.Info("invalid vehicle id in path")
		http.Redirect(w, r, "/vehicles", http.StatusFound)
		return
	}

	v, err := h.service.Vehicle(r.Context(), userUID, vehicleID)
	if err != nil {
		if errors.Is(err, maintenance.ErrVehicleNotFound) {
			log.Info("vehicle not found", slog.Int("vehicle_id", vehicleID))
			http.Redirect(w, r, "/vehicles", http.StatusFound)
			return
		}
		log.Error("failed to read vehicle", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to load vehicle"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"form":    "add_maintenance",
		"fields":  []string{"maintenance_type", "description", "cost", "maintenance_date"},
		"vehicle": v,
	}))
}

// ServeHTTP godoc
// @Summary Добавление записи обслуживания
// @Description Проверяет принадлежность автомобиля, валидирует поля формы и создает запись обслуживания.
// @Tags Maintenance
// @Accept  x-www-form-urlencoded
// @Produce  json
// @Param vehicle_id path int true "ID автомобиля"
// @Param maintenance_type formData string true "Вид работ"
// @Param description formData string false "Описание"
// @Param cost formData string false "Стоимость"
// @Param maintenance_date formData string true "Дата обслуживания, формат 2006-01-02"
// @Success 302 "Перенаправление к карточке автомобиля"
// @Failure 422 {object} response.Response "Ошибки валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /add_maintenance/{vehicle_id} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.maintenance.create"

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

	vehicleID, err := strconv.Atoi(chi.URLParam(r, "vehicle_id"))
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
	form := models.MaintenanceForm{
		MaintenanceType: r.PostFormValue("maintenance_type"),
		Description:     r.PostFormValue("description"),
		Cost:            r.PostFormValue("cost"),
		MaintenanceDate: r.PostFormValue("maintenance_date"),
	}

	id, err := h.service.Add(r.Context(), userUID, vehicleID, form)
	if err != nil {
		var verr *validation.Error
		switch {
		case errors.Is(err, maintenance.ErrVehicleNotFound):
			log.Info("vehicle not found", slog.Int("vehicle_id", vehicleID))
			http.Redirect(w, r, "/vehicles", http.StatusFound)
		case errors.As(err, &verr):
			log.Info("maintenance form rejected", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.FormErrors(verr.Result.Errors, form))
		default:
			log.Error("failed to create maintenance log", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to add maintenance record, please try again"))
		}
		return
	}

	log.Info("maintenance log added",
		slog.Int("id", id), slog.Int("vehicle_id", vehicleID))
	http.Redirect(w, r, "/vehicle/"+strconv.Itoa(vehicleID), http.StatusFound)
}
