// Package identity отвечает за вычисление псевдонимного идентификатора клиента.
//
// HashEmail строит одностороннюю свёртку нормализованного email — именно она
// используется как ключ в хранилище оплат, чтобы исходные адреса нигде не
// сохранялись в открытом виде. ClientAddr извлекает адрес клиента из
// заголовка X-Forwarded-For либо из адреса соединения.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
	"strings"
)

// Unknown — значение идентичности, когда адрес клиента определить не удалось.
const Unknown = "unknown"

// HashEmail возвращает hex-представление SHA-256 от нормализованного email.
// Нормализация: обрезка пробелов и приведение к нижнему регистру.
func HashEmail(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// ClientAddr возвращает адрес клиента для ключей rate limiter.
//
// Берётся первый элемент X-Forwarded-For (до запятой, с обрезкой пробелов),
// затем адрес соединения без порта, иначе — Unknown.
func ClientAddr(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		first := strings.TrimSpace(strings.Split(xf, ",")[0])
		if first != "" {
			return first
		}
	}
	if r.RemoteAddr != "" {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
			return host
		}
		return r.RemoteAddr
	}
	return Unknown
}
