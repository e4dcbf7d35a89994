// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, хэш пароля и дату создания.
// Структура используется в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного владельца автомобилей.
// Email хранится в нижнем регистре и уникален во всей системе.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Email        string    // Электронная почта (в нижнем регистре)
	PasswordHash string    // Хэш пароля пользователя
	CreatedAt    time.Time // Дата регистрации
}
