// Package tokens генерация capability-токенов для публичных ссылок.
// Токен - это непересекающийся случайный идентификатор, а не аутентификация:
// право дает сам факт владения ссылкой.
package tokens

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// tokenBytes длина токена в байтах до hex-кодирования
const tokenBytes = 32

// New возвращает криптографически случайный hex-токен (64 символа)
func New() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("tokens: read random: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// IsWellFormed проверяет, что строка похожа на токен, выданный New.
// Используется для раннего отсева мусора до похода в БД.
func IsWellFormed(s string) bool {
	if len(s) != tokenBytes*2 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
