package vehicletracker

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/vehicle-tracker/internal/config"
	"github.com/magabrotheeeer/vehicle-tracker/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/vehicle-tracker/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/vehicle-tracker/internal/http/handlers/auth/signup"
	"github.com/magabrotheeeer/vehicle-tracker/internal/http/handlers/dashboard"
	"github.com/magabrotheeeer/vehicle-tracker/internal/http/handlers/export"
	"github.com/magabrotheeeer/vehicle-tracker/internal/http/handlers/home"
	maintenancecreate "github.com/magabrotheeeer/vehicle-tracker/internal/http/handlers/maintenance/create"
	maintenanceremove "github.com/magabrotheeeer/vehicle-tracker/internal/http/handlers/maintenance/remove"
	"github.com/magabrotheeeer/vehicle-tracker/internal/http/handlers/manifest"
	"github.com/magabrotheeeer/vehicle-tracker/internal/http/handlers/vehicle/create"
	"github.com/magabrotheeeer/vehicle-tracker/internal/http/handlers/vehicle/edit"
	"github.com/magabrotheeeer/vehicle-tracker/internal/http/handlers/vehicle/list"
	"github.com/magabrotheeeer/vehicle-tracker/internal/http/handlers/vehicle/remove"
	"github.com/magabrotheeeer/vehicle-tracker/internal/http/handlers/vehicle/view"
	"github.com/magabrotheeeer/vehicle-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/vehicle-tracker/internal/lib/session"
	authservice "github.com/magabrotheeeer/vehicle-tracker/internal/services/auth"
	maintenanceservice "github.com/magabrotheeeer/vehicle-tracker/internal/services/maintenance"
	vehicleservice "github.com/magabrotheeeer/vehicle-tracker/internal/services/vehicle"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, maker session.Maker, authService *authservice.Service, vehicleService *vehicleservice.Service, maintenanceService *maintenanceservice.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middlewarectx.RecoverMiddleware(logger),
		middleware.URLFormat,
	)

	// Открытые конечные точки
	r.Get("/", home.New(logger, vehicleService).ServeHTTP)
	r.Get("/signup", signup.New(logger, authService).Show)
	r.Post("/signup", signup.New(logger, authService).ServeHTTP)
	r.Get("/login", login.New(logger, authService, cfg.Session.RememberTTL).Show)
	r.Post("/login", login.New(logger, authService, cfg.Session.RememberTTL).ServeHTTP)
	r.Get("/logout", logout.New(logger).ServeHTTP)
	r.Get("/site.webmanifest", manifest.Handler())

	// Группа с проверкой сессионной cookie
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.AuthMiddleware(maker, logger))
		r.Use(middlewarectx.RateLimitMiddleware(logger))
		r.Get("/dashboard", dashboard.New(logger, vehicleService, maintenanceService).ServeHTTP)
		r.Get("/vehicles", list.New(logger, vehicleService).ServeHTTP)
		r.Get("/add_vehicle", create.New(logger, vehicleService).Show)
		r.Post("/add_vehicle", create.New(logger, vehicleService).ServeHTTP)
		r.Get("/vehicle/{id}", view.New(logger, vehicleService).ServeHTTP)
		r.Get("/edit_vehicle/{id}", edit.New(logger, vehicleService).Show)
		r.Post("/edit_vehicle/{id}", edit.New(logger, vehicleService).ServeHTTP)
		r.Post("/delete_vehicle/{id}", remove.New(logger, vehicleService).ServeHTTP)
		r.Get("/add_maintenance/{vehicle_id}", maintenancecreate.New(logger, maintenanceService).Show)
		r.Post("/add_maintenance/{vehicle_id}", maintenancecreate.New(logger, maintenanceService).ServeHTTP)
		r.Post("/delete_maintenance/{id}", maintenanceremove.New(logger, maintenanceService).ServeHTTP)
		r.Get("/export/csv", export.New(logger, vehicleService).ServeHTTP)
	})

	// Любой несуществующий путь уводит к списку автомобилей
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Location", "/vehicles")
		w.WriteHeader(http.StatusNotFound)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
