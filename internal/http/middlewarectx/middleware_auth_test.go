package middlewarectx_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/vehicle-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/vehicle-tracker/internal/lib/session"
)

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestAuthMiddleware(t *testing.T) {
	maker := session.NewMaker("test-secret-key", 12*time.Hour, 720*time.Hour)
	logger := newNoopLogger()

	validToken, err := maker.GenerateToken("uid-1", "user@example.com", false)
	assert.NoError(t, err)

	foreignMaker := session.NewMaker("other-secret", 12*time.Hour, 720*time.Hour)
	forgedToken, err := foreignMaker.GenerateToken("uid-1", "user@example.com", false)
	assert.NoError(t, err)

	handlerCalled := false

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		assert.Equal(t, "uid-1", r.Context().Value(middlewarectx.UserUID))
		assert.Equal(t, "user@example.com", r.Context().Value(middlewarectx.UserEmail))
		w.WriteHeader(http.StatusOK)
	})

	middleware := middlewarectx.AuthMiddleware(maker, logger)(nextHandler)

	tests := []struct {
		name           string
		cookieValue    string
		noCookie       bool
		wantStatusCode int
		wantLocation   string
		wantCalled     bool
	}{
		{
			name:           "запрос без cookie перенаправляется на вход",
			noCookie:       true,
			wantStatusCode: http.StatusFound,
			wantLocation:   "/login",
			wantCalled:     false,
		},
		{
			name:           "мусор вместо токена",
			cookieValue:    "not-a-jwt",
			wantStatusCode: http.StatusFound,
			wantLocation:   "/login",
			wantCalled:     false,
		},
		{
			name:           "токен с чужой подписью",
			cookieValue:    forgedToken,
			wantStatusCode: http.StatusFound,
			wantLocation:   "/login",
			wantCalled:     false,
		},
		{
			name:           "валидный токен пропускает запрос",
			cookieValue:    validToken,
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled = false

			req := httptest.NewRequest(http.MethodGet, "/vehicles", nil)
			if !tt.noCookie {
				req.AddCookie(&http.Cookie{Name: session.CookieName, Value: tt.cookieValue})
			}

			rec := httptest.NewRecorder()

			middleware.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
			}
			assert.Equal(t, tt.wantCalled, handlerCalled)
		})
	}
}
