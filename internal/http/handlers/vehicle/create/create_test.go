package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/vehicle-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/vehicle-tracker/internal/lib/validation"
	"github.com/magabrotheeeer/vehicle-tracker/internal/models"
	"github.com/magabrotheeeer/vehicle-tracker/internal/services/vehicle"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, userUID string, form models.VehicleForm) (int, error) {
	args := m.Called(ctx, userUID, form)
	return args.Int(0), args.Error(1)
}

func TestCreateVehicleHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	const userUID = "4f5c1a32-9f40-4e88-9c2e-0a1b2c3d4e5f"

	validForm := url.Values{
		"brand":        {"Toyota"},
		"model":        {"Corolla"},
		"year":         {"2020"},
		"plate_number": {"A123BC"},
	}

	tests := []struct {
		name             string
		form             url.Values
		setupMock        func(*MockService)
		expectedStatus   int
		expectedBody     string
		expectedLocation string
	}{
		{
			name: "успешное добавление",
			form: validForm,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, userUID, models.VehicleForm{
					Brand: "Toyota", Model: "Corolla", Year: "2020", Plate: "A123BC",
				}).Return(7, nil)
			},
			expectedStatus:   http.StatusFound,
			expectedLocation: "/vehicles",
		},
		{
			name: "ошибки валидации с эхом формы",
			form: url.Values{"model": {"X"}, "year": {"abc"}, "plate_number": {"P"}},
			setupMock: func(m *MockService) {
				res := validation.Vehicle("", "X", "abc", "P")
				m.On("Create", mock.Anything, userUID, models.VehicleForm{
					Model: "X", Year: "abc", Plate: "P",
				}).Return(0, res.Err())
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   "Brand is required., Year must be a valid number.",
		},
		{
			name: "занятый номер",
			form: validForm,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, userUID, mock.Anything).
					Return(0, vehicle.ErrDuplicatePlate)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   "a vehicle with this plate number already exists",
		},
		{
			name: "ошибка сервиса без деталей в ответе",
			form: validForm,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, userUID, mock.Anything).
					Return(0, errors.New("pq: connection refused"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "failed to add vehicle, please try again",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/add_vehicle", strings.NewReader(tt.form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, userUID))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}
			if tt.expectedLocation != "" {
				assert.Equal(t, tt.expectedLocation, w.Header().Get("Location"))
			}
			if tt.expectedStatus == http.StatusInternalServerError {
				assert.NotContains(t, w.Body.String(), "connection refused",
					"internal details must not leak to the client")
			}

			mockService.AssertExpectations(t)
		})
	}
}

func TestCreateVehicleHandler_NoUser(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	handler := New(logger, new(MockService))

	req := httptest.NewRequest(http.MethodPost, "/add_vehicle", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}
