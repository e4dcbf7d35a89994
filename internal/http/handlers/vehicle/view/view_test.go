package view

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/vehicle-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/vehicle-tracker/internal/models"
	"github.com/magabrotheeeer/vehicle-tracker/internal/services/vehicle"
)

// MockService реализует интерфейс view.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Read(ctx context.Context, userUID string, id int) (*models.Vehicle, []*models.MaintenanceLog, error) {
	args := m.Called(ctx, userUID, id)
	var v *models.Vehicle
	if res := args.Get(0); res != nil {
		v = res.(*models.Vehicle)
	}
	var logs []*models.MaintenanceLog
	if res := args.Get(1); res != nil {
		logs = res.([]*models.MaintenanceLog)
	}
	return v, logs, args.Error(2)
}

func TestViewVehicleHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	const userUID = "4f5c1a32-9f40-4e88-9c2e-0a1b2c3d4e5f"

	tests := []struct {
		name             string
		id               string
		setupMock        func(*MockService)
		expectedStatus   int
		expectedBody     string
		expectedLocation string
	}{
		{
			name: "успешный просмотр с историей обслуживания",
			id:   "42",
			setupMock: func(m *MockService) {
				v := &models.Vehicle{ID: 42, UserUID: userUID, Brand: "Lada", Model: "Vesta", Year: 2021, PlateNumber: "B777OP"}
				desc := "oil and filters"
				logs := []*models.MaintenanceLog{{
					ID: 1, VehicleID: 42, UserUID: userUID,
					MaintenanceType: "Oil change",
					Description:     &desc,
					MaintenanceDate: time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
				}}
				m.On("Read", mock.Anything, userUID, 42).Return(v, logs, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"PlateNumber":"B777OP"`,
		},
		{
			name: "чужой автомобиль перенаправляет к списку",
			id:   "42",
			setupMock: func(m *MockService) {
				m.On("Read", mock.Anything, userUID, 42).Return(nil, nil, vehicle.ErrNotFound)
			},
			expectedStatus:   http.StatusFound,
			expectedLocation: "/vehicles",
		},
		{
			name:             "некорректный id в URL",
			id:               "abc",
			setupMock:        func(_ *MockService) {},
			expectedStatus:   http.StatusFound,
			expectedLocation: "/vehicles",
		},
		{
			name: "ошибка сервиса",
			id:   "42",
			setupMock: func(m *MockService) {
				m.On("Read", mock.Anything, userUID, 42).Return(nil, nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "failed to load vehicle",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/vehicle/"+tt.id, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, middlewarectx.UserUID, userUID)
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}
			if tt.expectedLocation != "" {
				assert.Equal(t, tt.expectedLocation, w.Header().Get("Location"))
			}

			mockService.AssertExpectations(t)
		})
	}
}
