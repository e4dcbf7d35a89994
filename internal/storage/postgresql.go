// Package storage реализует хранилище данных на основе PostgreSQL
// для учёта автомобилей и записей их обслуживания. Предоставляет методы
// создания, чтения, обновления, удаления и агрегирования записей,
// а также работу с пользователями. Все выборки и мутации, кроме
// глобальной статистики главной страницы, ограничены владельцем.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/vehicle-tracker/internal/config"
	"github.com/magabrotheeeer/vehicle-tracker/internal/models"
)

// ErrConnectFailed возвращается, когда подключение к базе не удалось
// после всех повторных попыток. Исходная ошибка доступна через errors.Unwrap.
var ErrConnectFailed = errors.New("storage connect failed")

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с автомобилями, обслуживанием и пользователями.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL с ограниченным числом повторных
// попыток. Между попытками выдерживается линейная пауза
// RetryDelay * номер попытки. После исчерпания попыток возвращается
// ErrConnectFailed с последней ошибкой внутри.
func New(ctx context.Context, cfg config.Storage) (*Storage, error) {
	const op = "storage.New"

	var lastErr error
	attempts := cfg.MaxRetries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := sql.Open("pgx", cfg.DSN())
		if err != nil {
			lastErr = err
		} else if err = db.PingContext(ctx); err != nil {
			lastErr = err
			_ = db.Close()
		} else {
			return &Storage{DB: db}, nil
		}

		if attempt < attempts {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%s: %w", op, ctx.Err())
			case <-time.After(cfg.RetryDelay * time.Duration(attempt)):
			}
		}
	}
	return nil, fmt.Errorf("%s: %w: %w", op, ErrConnectFailed, lastErr)
}

// IsUniqueViolation сообщает, вызвана ли ошибка нарушением ограничения
// уникальности PostgreSQL.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'vehicles'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table vehicles missing or query error: %w", err)
	}
	return nil
}

// ===== USER METHODS =====

// RegisterUser сохраняет нового пользователя и возвращает его UID.
// Email должен быть приведён к нижнему регистру до вызова.
func (s *Storage) RegisterUser(ctx context.Context, email, passwordHash string) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var newUID string
	query := `INSERT INTO users (email, password_hash)
			  VALUES ($1, $2)
			  RETURNING uid`
	if err := tx.QueryRowContext(ctx, query, email, passwordHash).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByEmail возвращает пользователя по email (в нижнем регистре).
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, password_hash, created_at
			  FROM users
			  WHERE email = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, email)
	if err := row.Scan(&u.UID, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ===== VEHICLE METHODS =====

// CreateVehicle вставляет новый автомобиль и возвращает его ID.
func (s *Storage) CreateVehicle(ctx context.Context, v models.Vehicle) (int, error) {
	const op = "storage.CreateVehicle"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `INSERT INTO vehicles (user_uid, brand, model, year, plate_number)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err = tx.QueryRowContext(ctx, query,
		v.UserUID, v.Brand, v.Model, v.Year, v.PlateNumber).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadVehicle возвращает автомобиль по ID в пределах владельца.
func (s *Storage) ReadVehicle(ctx context.Context, userUID string, id int) (*models.Vehicle, error) {
	const op = "storage.ReadVehicle"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, brand, model, year, plate_number, created_at
			  FROM vehicles
			  WHERE id = $1 AND user_uid = $2`
	row := s.DB.QueryRowContext(ctx, query, id, userUID)

	var result models.Vehicle
	if err := row.Scan(&result.ID, &result.UserUID, &result.Brand, &result.Model,
		&result.Year, &result.PlateNumber, &result.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// UpdateVehicle обновляет автомобиль владельца и возвращает количество
// изменённых строк.
func (s *Storage) UpdateVehicle(ctx context.Context, v models.Vehicle, id int) (int, error) {
	const op = "storage.UpdateVehicle"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `UPDATE vehicles
			  SET brand = $1, model = $2, year = $3, plate_number = $4
			  WHERE id = $5 AND user_uid = $6`
	result, err := tx.ExecContext(ctx, query,
		v.Brand, v.Model, v.Year, v.PlateNumber, id, v.UserUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveVehicle удаляет автомобиль владельца. Зависимые записи
// обслуживания удаляются каскадом на уровне базы.
func (s *Storage) RemoveVehicle(ctx context.Context, userUID string, id int) (int, error) {
	const op = "storage.RemoveVehicle"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `DELETE FROM vehicles WHERE id = $1 AND user_uid = $2`
	result, err := tx.ExecContext(ctx, query, id, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListVehicles возвращает автомобили владельца, отсортированные по году
// выпуска по убыванию. Непустой search сужает выборку до строк, где
// brand, model или plate_number содержат подстроку без учёта регистра.
func (s *Storage) ListVehicles(ctx context.Context, userUID, search string) ([]*models.Vehicle, error) {
	const op = "storage.ListVehicles"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, brand, model, year, plate_number, created_at
			  FROM vehicles
			  WHERE user_uid = $1
			    AND ($2 = '' OR brand ILIKE '%' || $2 || '%'
			         OR model ILIKE '%' || $2 || '%'
			         OR plate_number ILIKE '%' || $2 || '%')
			  ORDER BY year DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID, search)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Vehicle
	for rows.Next() {
		var item models.Vehicle
		if err := rows.Scan(&item.ID, &item.UserUID, &item.Brand, &item.Model,
			&item.Year, &item.PlateNumber, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountVehiclesByPlate считает автомобили владельца с данным номером,
// не учитывая строку excludeID (0 — учитывать все). Используется для
// проверки уникальности номера в пределах пользователя.
func (s *Storage) CountVehiclesByPlate(ctx context.Context, userUID, plate string, excludeID int) (int, error) {
	const op = "storage.CountVehiclesByPlate"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*)
			  FROM vehicles
			  WHERE user_uid = $1 AND plate_number = $2 AND id <> $3`
	var count int
	if err := s.DB.QueryRowContext(ctx, query, userUID, plate, excludeID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// VehicleStats возвращает количество автомобилей и минимальный и
// максимальный год выпуска. Пустой userUID снимает фильтр по владельцу —
// так считается статистика главной страницы по всем пользователям.
func (s *Storage) VehicleStats(ctx context.Context, userUID string) (total int, oldest, newest *int, err error) {
	const op = "storage.VehicleStats"
	select {
	case <-ctx.Done():
		return 0, nil, nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*), MIN(year), MAX(year)
			  FROM vehicles
			  WHERE $1 = '' OR user_uid::text = $1`
	var minYear, maxYear sql.NullInt64
	if err := s.DB.QueryRowContext(ctx, query, userUID).Scan(&total, &minYear, &maxYear); err != nil {
		return 0, nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	if minYear.Valid {
		v := int(minYear.Int64)
		oldest = &v
	}
	if maxYear.Valid {
		v := int(maxYear.Int64)
		newest = &v
	}
	return total, oldest, newest, nil
}

// ===== MAINTENANCE METHODS =====

// CreateMaintenanceLog вставляет запись обслуживания, выводя владельца
// из родительского автомобиля в той же транзакции. Если автомобиль
// не существует или принадлежит другому пользователю, возвращается
// sql.ErrNoRows.
func (s *Storage) CreateMaintenanceLog(ctx context.Context, userUID string, vehicleID int, entry models.MaintenanceLog) (int, error) {
	const op = "storage.CreateMaintenanceLog"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `INSERT INTO maintenance_logs
			      (vehicle_id, user_uid, maintenance_type, description, cost, maintenance_date)
			  SELECT v.id, v.user_uid, $3, $4, $5, $6
			  FROM vehicles v
			  WHERE v.id = $1 AND v.user_uid = $2
			  RETURNING id`
	var newID int
	err = tx.QueryRowContext(ctx, query,
		vehicleID, userUID, entry.MaintenanceType, entry.Description,
		entry.Cost, entry.MaintenanceDate).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListMaintenanceLogs возвращает записи обслуживания автомобиля владельца,
// отсортированные по дате обслуживания по убыванию.
func (s *Storage) ListMaintenanceLogs(ctx context.Context, userUID string, vehicleID int) ([]*models.MaintenanceLog, error) {
	const op = "storage.ListMaintenanceLogs"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, vehicle_id, user_uid, maintenance_type, description,
			      cost, maintenance_date, created_at
			  FROM maintenance_logs
			  WHERE vehicle_id = $1 AND user_uid = $2
			  ORDER BY maintenance_date DESC`
	rows, err := s.DB.QueryContext(ctx, query, vehicleID, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.MaintenanceLog
	for rows.Next() {
		var item models.MaintenanceLog
		if err := rows.Scan(&item.ID, &item.VehicleID, &item.UserUID,
			&item.MaintenanceType, &item.Description, &item.Cost,
			&item.MaintenanceDate, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RemoveMaintenanceLog удаляет запись обслуживания владельца и возвращает
// ID родительского автомобиля. Если записи нет, возвращается sql.ErrNoRows.
func (s *Storage) RemoveMaintenanceLog(ctx context.Context, userUID string, id int) (int, error) {
	const op = "storage.RemoveMaintenanceLog"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `DELETE FROM maintenance_logs
			  WHERE id = $1 AND user_uid = $2
			  RETURNING vehicle_id`
	var vehicleID int
	if err := tx.QueryRowContext(ctx, query, id, userUID).Scan(&vehicleID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return vehicleID, nil
}

// MaintenanceStats возвращает количество записей обслуживания владельца
// и их суммарную стоимость.
func (s *Storage) MaintenanceStats(ctx context.Context, userUID string) (int, float64, error) {
	const op = "storage.MaintenanceStats"
	select {
	case <-ctx.Done():
		return 0, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*), COALESCE(SUM(cost), 0)
			  FROM maintenance_logs
			  WHERE user_uid = $1`
	var count int
	var totalCost float64
	if err := s.DB.QueryRowContext(ctx, query, userUID).Scan(&count, &totalCost); err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, totalCost, nil
}
