// Package password проверяет пароль администратора по bcrypt-хешу из конфигурации.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrNotConfigured возвращается, если хеш пароля администратора не задан.
var ErrNotConfigured = errors.New("password: admin password is not configured")

// GetHash возвращает bcrypt-хеш пароля. Используется утилитой для заполнения
// ADMIN_PASSWORD_HASH.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// Verify сравнивает введённый пароль с хешем. Пустой хеш запрещает вход.
func Verify(hash, candidate string) error {
	const op = "password.Verify"
	if hash == "" {
		return ErrNotConfigured
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
