// Package status реализует HTTP-обработчик статуса сессии.
package status

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

// Gate сообщает, действителен ли сессионный токен запроса.
type Gate interface {
	Unlocked(r *http.Request) bool
}

// Handler отвечает фронтенду, открыта ли сессия.
type Handler struct {
	log  *slog.Logger
	gate Gate
}

// New создаёт обработчик статуса.
func New(log *slog.Logger, gate Gate) *Handler {
	return &Handler{log: log, gate: gate}
}

// Response — статус сессии текущего запроса.
type Response struct {
	Unlocked bool `json:"unlocked"`
}

// ServeHTTP godoc
// @Summary Статус сессии
// @Description Сообщает, предъявил ли запрос действительный сессионный токен. Всегда отвечает 200.
// @Tags Session
// @Produce json
// @Success 200 {object} Response
// @Router /session/status [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// ответ зависит от cookie конкретного браузера, кешировать нельзя
	w.Header().Set("Cache-Control", "no-store")
	render.JSON(w, r, Response{Unlocked: h.gate.Unlocked(r)})
}
