// Package vehicle содержит бизнес-логику для управления автомобилями:
// валидацию форм, проверку уникальности номера в пределах владельца
// и агрегирование статистики.
package vehicle

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/magabrotheeeer/vehicle-tracker/internal/lib/validation"
	"github.com/magabrotheeeer/vehicle-tracker/internal/models"
	"github.com/magabrotheeeer/vehicle-tracker/internal/storage"
)

// ErrNotFound возвращается, когда автомобиль не существует или
// принадлежит другому пользователю. Это штатный исход, не сбой.
var ErrNotFound = errors.New("vehicle not found")

// ErrDuplicatePlate возвращается, когда номер уже занят другим
// автомобилем того же пользователя.
var ErrDuplicatePlate = errors.New("plate number already in use")

// Repository определяет методы для работы с автомобилями в хранилище.
type Repository interface {
	CreateVehicle(ctx context.Context, v models.Vehicle) (int, error)
	ReadVehicle(ctx context.Context, userUID string, id int) (*models.Vehicle, error)
	UpdateVehicle(ctx context.Context, v models.Vehicle, id int) (int, error)
	RemoveVehicle(ctx context.Context, userUID string, id int) (int, error)
	ListVehicles(ctx context.Context, userUID, search string) ([]*models.Vehicle, error)
	CountVehiclesByPlate(ctx context.Context, userUID, plate string, excludeID int) (int, error)
	VehicleStats(ctx context.Context, userUID string) (int, *int, *int, error)
	ListMaintenanceLogs(ctx context.Context, userUID string, vehicleID int) ([]*models.MaintenanceLog, error)
}

// Service реализует бизнес-логику работы с автомобилями.
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

// List возвращает автомобили пользователя, отсортированные по году
// по убыванию, вместе со статистикой той же выборки по владельцу.
// Непустой search сужает список до подстрочного совпадения без учёта
// регистра по марке, модели или номеру.
func (s *Service) List(ctx context.Context, userUID, search string) ([]*models.Vehicle, models.VehicleStats, error) {
	vehicles, err := s.repo.ListVehicles(ctx, userUID, strings.TrimSpace(search))
	if err != nil {
		return nil, models.VehicleStats{}, err
	}
	stats, err := s.stats(ctx, userUID)
	if err != nil {
		return nil, models.VehicleStats{}, err
	}
	return vehicles, stats, nil
}

// GlobalStats возвращает агрегаты главной страницы по всем пользователям.
func (s *Service) GlobalStats(ctx context.Context) (models.VehicleStats, error) {
	return s.stats(ctx, "")
}

// UserStats возвращает агрегаты по автомобилям одного пользователя.
func (s *Service) UserStats(ctx context.Context, userUID string) (models.VehicleStats, error) {
	return s.stats(ctx, userUID)
}

func (s *Service) stats(ctx context.Context, userUID string) (models.VehicleStats, error) {
	total, oldest, newest, err := s.repo.VehicleStats(ctx, userUID)
	if err != nil {
		return models.VehicleStats{}, err
	}
	stats := models.VehicleStats{Total: total, Oldest: "N/A", Newest: "N/A"}
	if oldest != nil {
		stats.Oldest = strconv.Itoa(*oldest)
	}
	if newest != nil {
		stats.Newest = strconv.Itoa(*newest)
	}
	return stats, nil
}

// Create проверяет форму, уникальность номера в пределах пользователя
// и вставляет автомобиль. Возвращает ID созданной записи.
func (s *Service) Create(ctx context.Context, userUID string, form models.VehicleForm) (int, error) {
	if err := validation.Vehicle(form.Brand, form.Model, form.Year, form.Plate).Err(); err != nil {
		return 0, err
	}

	entry, err := s.buildEntry(ctx, userUID, form, 0)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.CreateVehicle(ctx, entry)
	if err != nil {
		if storage.IsUniqueViolation(err) {
			return 0, ErrDuplicatePlate
		}
		return 0, err
	}

	s.log.Info("created new vehicle", slog.Int("id", id))
	return id, nil
}

// Read возвращает автомобиль пользователя вместе с историей обслуживания,
// отсортированной по дате по убыванию.
func (s *Service) Read(ctx context.Context, userUID string, id int) (*models.Vehicle, []*models.MaintenanceLog, error) {
	v, err := s.repo.ReadVehicle(ctx, userUID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	logs, err := s.repo.ListMaintenanceLogs(ctx, userUID, id)
	if err != nil {
		return nil, nil, err
	}
	return v, logs, nil
}

// Update проверяет форму и обновляет автомобиль пользователя.
// Проверка уникальности номера не учитывает саму обновляемую строку.
func (s *Service) Update(ctx context.Context, userUID string, id int, form models.VehicleForm) error {
	if err := validation.Vehicle(form.Brand, form.Model, form.Year, form.Plate).Err(); err != nil {
		return err
	}

	entry, err := s.buildEntry(ctx, userUID, form, id)
	if err != nil {
		return err
	}

	rows, err := s.repo.UpdateVehicle(ctx, entry, id)
	if err != nil {
		if storage.IsUniqueViolation(err) {
			return ErrDuplicatePlate
		}
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	s.log.Info("updated vehicle", slog.Int("id", id))
	return nil
}

// Remove удаляет автомобиль пользователя. Записи обслуживания удаляются
// каскадом на уровне базы.
func (s *Service) Remove(ctx context.Context, userUID string, id int) error {
	rows, err := s.repo.RemoveVehicle(ctx, userUID, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	s.log.Info("removed vehicle", slog.Int("id", id))
	return nil
}

// buildEntry собирает доменную запись из провалидированной формы,
// предварительно проверив занятость номера в пределах пользователя.
func (s *Service) buildEntry(ctx context.Context, userUID string, form models.VehicleForm, excludeID int) (models.Vehicle, error) {
	plate := strings.TrimSpace(form.Plate)
	taken, err := s.repo.CountVehiclesByPlate(ctx, userUID, plate, excludeID)
	if err != nil {
		return models.Vehicle{}, err
	}
	if taken > 0 {
		return models.Vehicle{}, ErrDuplicatePlate
	}

	year, err := strconv.Atoi(strings.TrimSpace(form.Year))
	if err != nil {
		// Недостижимо после валидации формы.
		return models.Vehicle{}, err
	}

	return models.Vehicle{
		UserUID:     userUID,
		Brand:       strings.TrimSpace(form.Brand),
		Model:       strings.TrimSpace(form.Model),
		Year:        year,
		PlateNumber: plate,
	}, nil
}
