package utils

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordCost - хеши дешевле этого не принимаются из конфигурации
const MinPasswordCost = bcrypt.DefaultCost

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("не удалось хешировать пароль: %w", err)
	}
	return string(bytes), nil
}

func ComparePasswords(hashedPassword string, plainPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
}

// CheckPasswordHash проверяет готовый хеш из ADMIN_PASSWORD_HASH до первого входа
func CheckPasswordHash(hash string) error {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return fmt.Errorf("ADMIN_PASSWORD_HASH не является bcrypt-хешем: %w", err)
	}
	if cost < MinPasswordCost {
		return fmt.Errorf("ADMIN_PASSWORD_HASH: стоимость %d меньше допустимой %d", cost, MinPasswordCost)
	}
	return nil
}
