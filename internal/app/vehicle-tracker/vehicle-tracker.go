// Package vehicletracker собирает приложение: подключение к базе,
// миграции, сервисы, маршруты и жизненный цикл HTTP-сервера.
package vehicletracker

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/vehicle-tracker/internal/config"
	"github.com/magabrotheeeer/vehicle-tracker/internal/lib/session"
	"github.com/magabrotheeeer/vehicle-tracker/internal/migrations"
	authservice "github.com/magabrotheeeer/vehicle-tracker/internal/services/auth"
	maintenanceservice "github.com/magabrotheeeer/vehicle-tracker/internal/services/maintenance"
	vehicleservice "github.com/magabrotheeeer/vehicle-tracker/internal/services/vehicle"
	"github.com/magabrotheeeer/vehicle-tracker/internal/storage"
)

// App инкапсулирует HTTP-сервер и ресурсы приложения.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
}

// New создает приложение: открывает базу с повторными попытками,
// прогоняет миграции и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.Storage.MigrationsPath); err != nil {
		return nil, err
	}

	maker := session.NewMaker(cfg.Session.SecretKey, cfg.Session.SessionTTL, cfg.Session.RememberTTL)

	authService := authservice.New(db, maker)
	vehicleService := vehicleservice.New(db, logger)
	maintenanceService := maintenanceservice.New(db, logger)

	router := chi.NewRouter()

	RegisterRoutes(router, logger, cfg, maker, authService, vehicleService, maintenanceService)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address(),
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его мягко по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}
