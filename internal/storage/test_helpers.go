package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/vehicle-tracker/internal/config"
	"github.com/magabrotheeeer/vehicle-tracker/internal/models"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя и возвращает его uid
func (f *TestDataFactory) CreateUser(t *testing.T, email, passwordHash string) string {
	uid := uuid.New().String()
	_, err := f.storage.DB.Exec(`INSERT INTO users (uid, email, password_hash)
		VALUES ($1, $2, $3)`,
		uid, email, passwordHash)
	require.NoError(t, err)
	return uid
}

// CreateVehicle создает тестовый автомобиль и возвращает его id
func (f *TestDataFactory) CreateVehicle(t *testing.T, userUID, brand, model string, year int, plate string) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO vehicles (user_uid, brand, model, year, plate_number)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		userUID, brand, model, year, plate).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateMaintenanceLog создает тестовую запись обслуживания и возвращает её id
func (f *TestDataFactory) CreateMaintenanceLog(t *testing.T, userUID string, vehicleID int,
	maintenanceType string, cost *float64, date time.Time) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO maintenance_logs
		(vehicle_id, user_uid, maintenance_type, cost, maintenance_date)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		vehicleID, userUID, maintenanceType, cost, date).Scan(&id)
	require.NoError(t, err)
	return id
}

// GetTestVehicle возвращает стандартные тестовые данные автомобиля
func GetTestVehicle(userUID string) models.Vehicle {
	return models.Vehicle{
		UserUID:     userUID,
		Brand:       "Toyota",
		Model:       "Corolla",
		Year:        2021,
		PlateNumber: "A123BC",
	}
}

// TestVerification содержит общие функции для проверки результатов тестов
type TestVerification struct {
	storage *Storage
}

// NewTestVerification создает новый объект для проверки результатов
func NewTestVerification(storage *Storage) *TestVerification {
	return &TestVerification{storage: storage}
}

// VerifyVehicleCount проверяет число автомобилей пользователя в БД
func (v *TestVerification) VerifyVehicleCount(t *testing.T, userUID string, expected int) {
	var count int
	err := v.storage.DB.QueryRow("SELECT COUNT(*) FROM vehicles WHERE user_uid = $1", userUID).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, expected, count)
}

// VerifyMaintenanceCount проверяет число записей обслуживания автомобиля в БД
func (v *TestVerification) VerifyMaintenanceCount(t *testing.T, vehicleID, expected int) {
	var count int
	err := v.storage.DB.QueryRow("SELECT COUNT(*) FROM maintenance_logs WHERE vehicle_id = $1", vehicleID).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, expected, count)
}

// setupTestDatabase создает тестовую БД с контейнером PostgreSQL
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "testdb",
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(3 * time.Minute),
	}

	postgresContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start container")

	port, err := postgresContainer.MappedPort(ctx, "5432")
	require.NoError(t, err, "failed to get port")

	cfg := config.Storage{
		Host:           "localhost",
		User:           "testuser",
		Password:       "testpass",
		Name:           "testdb",
		Port:           port.Int(),
		MaxRetries:     10,
		RetryDelay:     time.Second,
		ConnectTimeout: 5 * time.Second,
	}

	storage, err := New(ctx, cfg)
	require.NoError(t, err, "failed to create storage after retries")

	// Создаем таблицы
	_, err = storage.DB.Exec(`
        DROP TABLE IF EXISTS maintenance_logs CASCADE;
        DROP TABLE IF EXISTS vehicles CASCADE;
        DROP TABLE IF EXISTS users CASCADE;

        CREATE EXTENSION IF NOT EXISTS "pgcrypto";

        CREATE TABLE users (
            uid UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            email TEXT NOT NULL UNIQUE,
            password_hash TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );

        CREATE TABLE vehicles (
            id SERIAL PRIMARY KEY,
            user_uid UUID NOT NULL REFERENCES users(uid) ON DELETE CASCADE,
            brand TEXT NOT NULL,
            model TEXT NOT NULL,
            year INT NOT NULL,
            plate_number TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            CONSTRAINT vehicles_user_plate_unique UNIQUE (user_uid, plate_number)
        );

        CREATE TABLE maintenance_logs (
            id SERIAL PRIMARY KEY,
            vehicle_id INT NOT NULL REFERENCES vehicles(id) ON DELETE CASCADE,
            user_uid UUID NOT NULL REFERENCES users(uid) ON DELETE CASCADE,
            maintenance_type TEXT NOT NULL,
            description TEXT,
            cost NUMERIC(10, 2),
            maintenance_date DATE NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );

        CREATE INDEX idx_vehicles_user_uid ON vehicles(user_uid);
        CREATE INDEX idx_maintenance_logs_vehicle_id ON maintenance_logs(vehicle_id);
        CREATE INDEX idx_maintenance_logs_user_uid ON maintenance_logs(user_uid);
    `)
	require.NoError(t, err, "failed to create tables")

	cleanup := func() {
		if storage != nil && storage.DB != nil {
			_ = storage.DB.Close()
		}
		if postgresContainer != nil {
			_ = postgresContainer.Terminate(ctx)
		}
	}

	return storage, cleanup
}
