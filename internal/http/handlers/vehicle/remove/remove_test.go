package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/vehicle-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/vehicle-tracker/internal/services/vehicle"
)

// MockService реализует интерфейс remove.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Remove(ctx context.Context, userUID string, id int) error {
	args := m.Called(ctx, userUID, id)
	return args.Error(0)
}

func TestRemoveVehicleHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	const userUID = "4f5c1a32-9f40-4e88-9c2e-0a1b2c3d4e5f"

	tests := []struct {
		name             string
		id               string
		setupMock        func(*MockService)
		expectedStatus   int
		expectedLocation string
		expectedBody     string
	}{
		{
			name: "успешное удаление",
			id:   "42",
			setupMock: func(m *MockService) {
				m.On("Remove", mock.Anything, userUID, 42).Return(nil)
			},
			expectedStatus:   http.StatusFound,
			expectedLocation: "/vehicles",
		},
		{
			name: "чужой автомобиль — тихое перенаправление",
			id:   "42",
			setupMock: func(m *MockService) {
				m.On("Remove", mock.Anything, userUID, 42).Return(vehicle.ErrNotFound)
			},
			expectedStatus:   http.StatusFound,
			expectedLocation: "/vehicles",
		},
		{
			name: "ошибка сервиса",
			id:   "42",
			setupMock: func(m *MockService) {
				m.On("Remove", mock.Anything, userUID, 42).Return(errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "failed to delete vehicle",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/delete_vehicle/"+tt.id, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, middlewarectx.UserUID, userUID)
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedLocation != "" {
				assert.Equal(t, tt.expectedLocation, w.Header().Get("Location"))
			}
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}

			mockService.AssertExpectations(t)
		})
	}
}
