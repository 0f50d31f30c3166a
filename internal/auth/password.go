package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost - стоимость bcrypt (2^10 раундов).
const PasswordCost = 10

// HashPassword возвращает соленый bcrypt-хеш пароля.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword сравнивает пароль с хешем средствами bcrypt.
func VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

var dummyHash = sync.OnceValue(func() []byte {
	hash, _ := bcrypt.GenerateFromPassword([]byte("dummy-password"), PasswordCost)
	return hash
})

// BurnPasswordCheck тратит столько же времени, сколько VerifyPassword.
// Вызывается при неизвестном имени пользователя, чтобы ответ не выдавал, существует ли аккаунт.
func BurnPasswordCheck(plaintext string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(plaintext))
}
