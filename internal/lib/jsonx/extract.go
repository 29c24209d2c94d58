// Package jsonx содержит утилиту для восстановления JSON-объекта из
// произвольного текста. Модель иногда оборачивает ответ в пояснения или
// code fences; Extract вырезает фрагмент от первой '{' до последней '}'
// и пытается разобрать его. Контракт best-effort: функция может вернуть
// ошибку, и вызывающий обязан обработать её как деградацию, а не падение.
package jsonx

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoObject — в тексте не нашлось ничего похожего на JSON-объект.
var ErrNoObject = errors.New("no json object found in text")

// Extract разбирает text как JSON-объект в v. Если текст целиком не является
// валидным JSON, делается вторая попытка по срезу от первой '{' до последней '}'.
func Extract(text string, v any) error {
	if err := json.Unmarshal([]byte(text), v); err == nil {
		return nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return ErrNoObject
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), v); err != nil {
		return ErrNoObject
	}
	return nil
}
