package models

import "time"

// MaintenanceLog представляет запись обслуживания автомобиля.
// UserUID дублирует владельца родительского автомобиля и всегда
// выставляется из него в одной транзакции при вставке.
// Записи не редактируются, только добавляются и удаляются.
type MaintenanceLog struct {
	ID              int       // Идентификатор записи
	VehicleID       int       // Обслуживаемый автомобиль
	UserUID         string    // Владелец (совпадает с владельцем автомобиля)
	MaintenanceType string    // Вид обслуживания
	Description     *string   // Описание, необязательное
	Cost            *float64  // Стоимость, необязательная, [0, 999999.99]
	MaintenanceDate time.Time // Дата обслуживания, не позже сегодняшней
	CreatedAt       time.Time // Дата добавления
}

// MaintenanceForm используется для приёма данных формы добавления
// записи обслуживания.
type MaintenanceForm struct {
	MaintenanceType string `json:"maintenance_type"`
	Description     string `json:"description"`
	Cost            string `json:"cost"`
	MaintenanceDate string `json:"maintenance_date"`
}

// DashboardStats агрегаты личного кабинета пользователя.
type DashboardStats struct {
	VehicleStats
	MaintenanceCount int     `json:"maintenance_count"`
	MaintenanceCost  float64 `json:"maintenance_cost"`
}
