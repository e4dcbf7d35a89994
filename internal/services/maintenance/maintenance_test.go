package maintenance

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/vehicle-tracker/internal/lib/validation"
	"github.com/magabrotheeeer/vehicle-tracker/internal/models"
)

// MockRepository реализует интерфейс maintenance.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ReadVehicle(ctx context.Context, userUID string, id int) (*models.Vehicle, error) {
	args := m.Called(ctx, userUID, id)
	if res := args.Get(0); res != nil {
		return res.(*models.Vehicle), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) CreateMaintenanceLog(ctx context.Context, userUID string, vehicleID int, entry models.MaintenanceLog) (int, error) {
	args := m.Called(ctx, userUID, vehicleID, entry)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) RemoveMaintenanceLog(ctx context.Context, userUID string, id int) (int, error) {
	args := m.Called(ctx, userUID, id)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) MaintenanceStats(ctx context.Context, userUID string) (int, float64, error) {
	args := m.Called(ctx, userUID)
	return args.Int(0), args.Get(1).(float64), args.Error(2)
}

func newTestService(repo *MockRepository) *Service {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(repo, logger)
}

func TestAdd(t *testing.T) {
	ctx := context.Background()
	const userUID = "uid-1"

	owned := &models.Vehicle{ID: 42, UserUID: userUID, Brand: "Lada"}

	t.Run("успешное добавление с разбором необязательных полей", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("ReadVehicle", mock.Anything, userUID, 42).Return(owned, nil)
		repo.On("CreateMaintenanceLog", mock.Anything, userUID, 42, mock.MatchedBy(func(e models.MaintenanceLog) bool {
			return e.MaintenanceType == "Oil change" &&
				e.Description != nil && *e.Description == "oil and filters" &&
				e.Cost != nil && *e.Cost == 120.50 &&
				e.MaintenanceDate.Equal(time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC))
		})).Return(5, nil)

		service := newTestService(repo)

		id, err := service.Add(ctx, userUID, 42, models.MaintenanceForm{
			MaintenanceType: " Oil change ",
			Description:     " oil and filters ",
			Cost:            "120.50",
			MaintenanceDate: "2026-05-10",
		})
		require.NoError(t, err)
		assert.Equal(t, 5, id)
		repo.AssertExpectations(t)
	})

	t.Run("пустые описание и стоимость остаются nil", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("ReadVehicle", mock.Anything, userUID, 42).Return(owned, nil)
		repo.On("CreateMaintenanceLog", mock.Anything, userUID, 42, mock.MatchedBy(func(e models.MaintenanceLog) bool {
			return e.Description == nil && e.Cost == nil
		})).Return(6, nil)

		service := newTestService(repo)

		_, err := service.Add(ctx, userUID, 42, models.MaintenanceForm{
			MaintenanceType: "Inspection",
			Description:     "   ",
			Cost:            "",
			MaintenanceDate: "2026-05-10",
		})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("чужой автомобиль проверяется до валидации формы", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("ReadVehicle", mock.Anything, userUID, 42).Return(nil, sql.ErrNoRows)

		service := newTestService(repo)

		// Форма заведомо невалидна, но ошибка всё равно про автомобиль
		_, err := service.Add(ctx, userUID, 42, models.MaintenanceForm{})
		assert.ErrorIs(t, err, ErrVehicleNotFound)
		repo.AssertNotCalled(t, "CreateMaintenanceLog")
	})

	t.Run("дата в будущем отклоняется", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("ReadVehicle", mock.Anything, userUID, 42).Return(owned, nil)

		service := newTestService(repo)

		future := time.Now().AddDate(0, 0, 1).Format(validation.DateLayout)
		_, err := service.Add(ctx, userUID, 42, models.MaintenanceForm{
			MaintenanceType: "Oil change",
			MaintenanceDate: future,
		})

		var verr *validation.Error
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Result.Messages(), "Maintenance date cannot be in the future.")
		repo.AssertNotCalled(t, "CreateMaintenanceLog")
	})
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	const userUID = "uid-1"

	t.Run("возвращает автомобиль удалённой записи", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("RemoveMaintenanceLog", mock.Anything, userUID, 5).Return(42, nil)

		service := newTestService(repo)

		vehicleID, err := service.Remove(ctx, userUID, 5)
		require.NoError(t, err)
		assert.Equal(t, 42, vehicleID)
	})

	t.Run("чужая запись переводится в ErrNotFound", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("RemoveMaintenanceLog", mock.Anything, userUID, 5).Return(0, sql.ErrNoRows)

		service := newTestService(repo)

		_, err := service.Remove(ctx, userUID, 5)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStats(t *testing.T) {
	repo := new(MockRepository)
	repo.On("MaintenanceStats", mock.Anything, "uid-1").Return(3, 350.0, nil)

	service := newTestService(repo)

	count, cost, err := service.Stats(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.InDelta(t, 350.0, cost, 0.001)
}
