// Package session реализует выпуск и проверку сессионных токенов.
//
// Токен — самодостаточная строка вида `base64url(payload).signature`,
// где payload — JSON с хешем идентичности и сроком действия, а подпись —
// HMAC-SHA256 по base64-сегменту. Состояние на сервере не хранится:
// владение корректным непросроченным токеном и есть доказательство
// подтверждённой оплаты.
package session

import (
	"encoding/json"
	"errors"
	"time"
)

// Ошибки проверки токена. Verify не возвращает ничего, кроме них.
var (
	// ErrMalformed — токен не состоит из двух сегментов либо payload не декодируется.
	ErrMalformed = errors.New("malformed session token")
	// ErrBadSignature — подпись не совпадает с пересчитанной.
	ErrBadSignature = errors.New("invalid session token signature")
	// ErrExpired — срок действия токена истёк.
	ErrExpired = errors.New("session token expired")
)

// Payload — содержимое сессионного токена.
type Payload struct {
	IdentityHash string `json:"e"`   // Хеш нормализованного email
	ExpiresAt    int64  `json:"exp"` // Срок действия, unix-миллисекунды
}

// Expired сообщает, истёк ли токен на момент now.
func (p Payload) Expired(now time.Time) bool {
	return now.UnixMilli() > p.ExpiresAt
}

func (p Payload) marshal() ([]byte, error) {
	return json.Marshal(p)
}
