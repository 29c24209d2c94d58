// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков. Ошибки всегда возвращаются
// объектом со стабильным полем "error", успешные ответы подтверждения —
// объектом {"ok": true}.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

// ErrorResponse — структура ошибки для Swagger-документации и ответов.
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// OKResponse — подтверждение успешной операции без данных.
type OKResponse struct {
	OK bool `json:"ok" example:"true"`
}

// RateLimitedResponse — ответ 429 с машинно-читаемой подсказкой повтора.
type RateLimitedResponse struct {
	Error             string `json:"error" example:"Too many requests"`
	RetryAfterSeconds int64  `json:"retry_after_seconds" example:"42"`
}

// OK возвращает подтверждение {"ok": true}.
func OK() OKResponse {
	return OKResponse{OK: true}
}

// Error возвращает ответ с ошибкой и переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{Error: msg}
}

// RateLimited возвращает ответ 429 с количеством секунд до сброса окна.
func RateLimited(retryAfterSeconds int64) RateLimitedResponse {
	return RateLimitedResponse{
		Error:             "Too many requests",
		RetryAfterSeconds: retryAfterSeconds,
	}
}

// ValidationError формирует ответ с ошибкой на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s has an unsupported value", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return ErrorResponse{Error: strings.Join(errsMsgs, ", ")}
}
