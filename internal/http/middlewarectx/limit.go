// Package middlewarectx содержит HTTP-middleware приложения.
package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/resume-optimizer/internal/http/response"
)

// RateLimitMiddleware — страховочный общий лимитер на весь инстанс.
// Поимённые квоты по уровням обслуживания считает шлюз доступа;
// этот слой только гасит всплески до того, как запрос дойдёт до Redis.
// Лимитер передаётся снаружи, чтобы каждый инстанс приложения владел своим.
func RateLimitMiddleware(log *slog.Logger, limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				log.Warn("instance rate limit exceeded", slog.String("path", r.URL.Path))
				w.WriteHeader(http.StatusTooManyRequests)
				render.JSON(w, r, response.RateLimited(1))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
