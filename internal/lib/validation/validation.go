// Package validation содержит чистые функции проверки полей форм
// автомобиля и записи обслуживания. Функции не обращаются к базе
// и возвращают все нарушенные правила в порядке проверки.
package validation

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// DateLayout формат даты обслуживания в формах.
const DateLayout = "2006-01-02"

// MaxCost верхняя граница стоимости обслуживания.
const MaxCost = 999999.99

// FieldError описывает одно нарушенное правило: имя поля и
// человеко-читаемое сообщение.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result итог проверки формы. Пустой список ошибок означает,
// что форма корректна.
type Result struct {
	Errors []FieldError
}

// Valid сообщает, прошла ли форма все проверки.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Messages возвращает тексты ошибок в порядке проверки.
func (r Result) Messages() []string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return msgs
}

func (r *Result) add(field, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message})
}

// Error оборачивает непустой Result в значение ошибки, чтобы слой
// бизнес-логики мог вернуть нарушения одной ошибкой, а обработчик —
// достать их через errors.As.
type Error struct {
	Result Result
}

func (e *Error) Error() string {
	return strings.Join(e.Result.Messages(), "; ")
}

// Err возвращает nil для корректной формы и *Error иначе.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	return &Error{Result: r}
}

// Vehicle проверяет поля формы автомобиля.
//
// Правила: brand и model непустые после обрезки пробелов и не длиннее
// 100 символов; year целое число в диапазоне [1900, текущий год + 1];
// plate непустой и не длиннее 50 символов.
func Vehicle(brand, model, year, plate string) Result {
	var res Result

	brand = strings.TrimSpace(brand)
	if brand == "" {
		res.add("brand", "Brand is required.")
	} else if utf8.RuneCountInString(brand) > 100 {
		res.add("brand", "Brand must be 100 characters or less.")
	}

	model = strings.TrimSpace(model)
	if model == "" {
		res.add("model", "Model is required.")
	} else if utf8.RuneCountInString(model) > 100 {
		res.add("model", "Model must be 100 characters or less.")
	}

	maxYear := time.Now().Year() + 1
	if y, err := strconv.Atoi(strings.TrimSpace(year)); err != nil {
		res.add("year", "Year must be a valid number.")
	} else if y < 1900 || y > maxYear {
		res.add("year", "Year must be between 1900 and "+strconv.Itoa(maxYear)+".")
	}

	plate = strings.TrimSpace(plate)
	if plate == "" {
		res.add("plate", "Plate number is required.")
	} else if utf8.RuneCountInString(plate) > 50 {
		res.add("plate", "Plate number must be 50 characters or less.")
	}

	return res
}

// Maintenance проверяет поля формы записи обслуживания.
//
// Правила: maintenanceType непустой и не длиннее 100 символов;
// date обязательная календарная дата не позже сегодняшней;
// cost необязателен, но если указан — неотрицательное число не больше
// 999999.99.
func Maintenance(maintenanceType, date, cost string) Result {
	var res Result

	maintenanceType = strings.TrimSpace(maintenanceType)
	if maintenanceType == "" {
		res.add("maintenance_type", "Maintenance type is required.")
	} else if utf8.RuneCountInString(maintenanceType) > 100 {
		res.add("maintenance_type", "Maintenance type must be 100 characters or less.")
	}

	date = strings.TrimSpace(date)
	if date == "" {
		res.add("maintenance_date", "Maintenance date is required.")
	} else if d, err := time.Parse(DateLayout, date); err != nil {
		res.add("maintenance_date", "Maintenance date must be a valid date.")
	} else {
		today, _ := time.Parse(DateLayout, time.Now().Format(DateLayout))
		if d.After(today) {
			res.add("maintenance_date", "Maintenance date cannot be in the future.")
		}
	}

	cost = strings.TrimSpace(cost)
	if cost != "" {
		if c, err := strconv.ParseFloat(cost, 64); err != nil {
			res.add("cost", "Cost must be a valid number.")
		} else if c < 0 {
			res.add("cost", "Cost cannot be negative.")
		} else if c > MaxCost {
			res.add("cost", "Cost must not exceed 999999.99.")
		}
	}

	return res
}
