// Package validate настраивает валидатор запросов с правилами фронтенда.
package validate

import (
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/rut"
)

// New возвращает валидатор с тегом rut: строка должна быть корректным RUT.
func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("rut", func(fl validator.FieldLevel) bool {
		return rut.IsValid(fl.Field().String())
	})
	return v
}
