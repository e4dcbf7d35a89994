// Package maintenance содержит бизнес-логику для записей обслуживания.
// Записи только добавляются и удаляются, операции обновления нет.
package maintenance

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/magabrotheeeer/vehicle-tracker/internal/lib/validation"
	"github.com/magabrotheeeer/vehicle-tracker/internal/models"
)

// ErrNotFound возвращается, когда запись обслуживания не существует
// или принадлежит другому пользователю.
var ErrNotFound = errors.New("maintenance log not found")

// ErrVehicleNotFound возвращается, когда родительский автомобиль
// не существует или принадлежит другому пользователю. Проверяется
// до валидации полей формы.
var ErrVehicleNotFound = errors.New("vehicle not found")

// Repository определяет методы для работы с записями обслуживания в хранилище.
type Repository interface {
	ReadVehicle(ctx context.Context, userUID string, id int) (*models.Vehicle, error)
	CreateMaintenanceLog(ctx context.Context, userUID string, vehicleID int, entry models.MaintenanceLog) (int, error)
	RemoveMaintenanceLog(ctx context.Context, userUID string, id int) (int, error)
	MaintenanceStats(ctx context.Context, userUID string) (int, float64, error)
}

// Service реализует бизнес-логику записей обслуживания.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Vehicle возвращает родительский автомобиль формы добавления записи.
// Отсутствие или чужой автомобиль — ErrVehicleNotFound.
func (s *Service) Vehicle(ctx context.Context, userUID string, vehicleID int) (*models.Vehicle, error) {
	v, err := s.repo.ReadVehicle(ctx, userUID, vehicleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return v, nil
}

// Add проверяет принадлежность автомобиля, валидирует форму и вставляет
// запись обслуживания. Владелец записи выводится из автомобиля внутри
// одной транзакции на уровне хранилища.
func (s *Service) Add(ctx context.Context, userUID string, vehicleID int, form models.MaintenanceForm) (int, error) {
	if _, err := s.Vehicle(ctx, userUID, vehicleID); err != nil {
		return 0, err
	}

	if err := validation.Maintenance(form.MaintenanceType, form.MaintenanceDate, form.Cost).Err(); err != nil {
		return 0, err
	}

	date, err := time.Parse(validation.DateLayout, strings.TrimSpace(form.MaintenanceDate))
	if err != nil {
		// Недостижимо после валидации формы.
		return 0, err
	}

	entry := models.MaintenanceLog{
		VehicleID:       vehicleID,
		MaintenanceType: strings.TrimSpace(form.MaintenanceType),
		MaintenanceDate: date,
	}
	if desc := strings.TrimSpace(form.Description); desc != "" {
		entry.Description = &desc
	}
	if costStr := strings.TrimSpace(form.Cost); costStr != "" {
		cost, err := strconv.ParseFloat(costStr, 64)
		if err != nil {
			return 0, err
		}
		entry.Cost = &cost
	}

	id, err := s.repo.CreateMaintenanceLog(ctx, userUID, vehicleID, entry)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrVehicleNotFound
		}
		return 0, err
	}

	s.log.Info("created maintenance log",
		slog.Int("id", id), slog.Int("vehicle_id", vehicleID))
	return id, nil
}

// Remove удаляет запись обслуживания пользователя и возвращает ID
// родительского автомобиля для возврата на его страницу.
func (s *Service) Remove(ctx context.Context, userUID string, id int) (int, error) {
	vehicleID, err := s.repo.RemoveMaintenanceLog(ctx, userUID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	s.log.Info("removed maintenance log", slog.Int("id", id))
	return vehicleID, nil
}

// Stats возвращает количество записей обслуживания пользователя
// и их суммарную стоимость.
func (s *Service) Stats(ctx context.Context, userUID string) (int, float64, error) {
	return s.repo.MaintenanceStats(ctx, userUID)
}
