// Package models содержит доменные структуры автомобиля,
// а также вспомогательные типы для приёма данных из HTTP-форм.
package models

import "time"

// Vehicle представляет автомобиль, принадлежащий одному пользователю.
// PlateNumber уникален в пределах одного владельца, не глобально.
type Vehicle struct {
	ID          int       // Идентификатор записи
	UserUID     string    // Владелец записи
	Brand       string    // Марка автомобиля
	Model       string    // Модель автомобиля
	Year        int       // Год выпуска, в диапазоне [1900, текущий год + 1]
	PlateNumber string    // Гос. номер
	CreatedAt   time.Time // Дата добавления
}

// VehicleForm используется для приёма данных формы добавления
// или редактирования автомобиля. Все поля приходят строками, чтобы
// их можно было провалидировать и распарсить вручную.
type VehicleForm struct {
	Brand string `json:"brand"`
	Model string `json:"model"`
	Year  string `json:"year"`
	Plate string `json:"plate"`
}

// VehicleStats агрегаты по набору автомобилей. Oldest и Newest
// содержат "N/A", когда записей нет.
type VehicleStats struct {
	Total  int    `json:"total"`
	Oldest string `json:"oldest"`
	Newest string `json:"newest"`
}
