// Package models содержит доменные структуры сервиса: уровни обслуживания,
// запросы и результаты анализа, структуру данных резюме.
package models

// Tier — уровень обслуживания. Определяет и подробность генерации,
// и корзину rate limiter.
type Tier string

const (
	// TierPreview — бесплатный ознакомительный уровень с урезанным выводом.
	TierPreview Tier = "preview"
	// TierFull — полный уровень, доступен после подтверждения оплаты.
	TierFull Tier = "full"
)

// String возвращает строковое представление уровня для ключей и логов.
func (t Tier) String() string {
	return string(t)
}
