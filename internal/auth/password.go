package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength - минимальная длина пароля при регистрации
const MinPasswordLength = 6

var bcryptCost = bcrypt.DefaultCost

// SetBcryptCost меняет стоимость хеширования (в тестах - bcrypt.MinCost)
func SetBcryptCost(cost int) {
	bcryptCost = cost
}

// HashPassword создает bcrypt хеш пароля
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(bytes), err
}

// CheckPasswordHash проверяет пароль против хеша
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
