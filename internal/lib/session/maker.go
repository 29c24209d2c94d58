package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const separator = "."

// Maker выпускает и проверяет сессионные токены с заданным секретом и TTL.
type Maker struct {
	secret   string        // Секретный ключ для подписи токенов
	tokenTTL time.Duration // Время жизни выпускаемых токенов
}

// NewMaker создаёт Maker на основе секретного ключа и TTL.
func NewMaker(secret string, ttl time.Duration) *Maker {
	return &Maker{
		secret:   secret,
		tokenTTL: ttl,
	}
}

// Mint выпускает токен для хеша идентичности со сроком действия now + TTL.
func (m *Maker) Mint(identityHash string, now time.Time) (string, error) {
	const op = "session.Mint"

	payload := Payload{
		IdentityHash: identityHash,
		ExpiresAt:    now.Add(m.tokenTTL).UnixMilli(),
	}
	raw, err := payload.marshal()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	data := base64.RawURLEncoding.EncodeToString(raw)
	return data + separator + m.sign(data), nil
}

// Verify проверяет токен и возвращает хеш идентичности из payload.
//
// Функция чистая: не имеет побочных эффектов и завершается только
// значением либо одной из ошибок ErrMalformed, ErrBadSignature, ErrExpired.
// Подпись сверяется до разбора payload и в константное время.
func (m *Maker) Verify(token string, now time.Time) (string, error) {
	parts := strings.Split(token, separator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", ErrMalformed
	}
	data, sig := parts[0], parts[1]

	if !hmac.Equal([]byte(m.sign(data)), []byte(sig)) {
		return "", ErrBadSignature
	}

	raw, err := base64.RawURLEncoding.DecodeString(data)
	if err != nil {
		return "", ErrMalformed
	}
	var payload Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", ErrMalformed
	}
	if payload.Expired(now) {
		return "", ErrExpired
	}
	return payload.IdentityHash, nil
}

// TTL возвращает время жизни выпускаемых токенов.
func (m *Maker) TTL() time.Duration {
	return m.tokenTTL
}

func (m *Maker) sign(data string) string {
	mac := hmac.New(sha256.New, []byte(m.secret))
	mac.Write([]byte(data))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
