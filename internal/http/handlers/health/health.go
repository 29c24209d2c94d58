// Package health реализует проверку живости сервиса и его хранилища.
package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/resume-optimizer/internal/http/response"
	"github.com/magabrotheeeer/resume-optimizer/internal/lib/sl"
)

// Pinger проверяет доступность хранилища.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler отвечает на probe-запросы.
type Handler struct {
	log   *slog.Logger
	store Pinger
}

// New создаёт обработчик health-check.
func New(log *slog.Logger, store Pinger) *Handler {
	return &Handler{log: log, store: store}
}

// ServeHTTP godoc
// @Summary Проверка живости
// @Description Отвечает 200, если сервис и Redis доступны.
// @Tags Service
// @Produce json
// @Success 200 {object} response.OKResponse
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	if err := h.store.Ping(r.Context()); err != nil {
		h.log.Error("storage ping failed", slog.String("op", op), sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("storage unavailable"))
		return
	}
	render.JSON(w, r, response.OK())
}
