// Package resumeoptimizer предоставляет маршруты основного приложения.
package resumeoptimizer

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/resume-optimizer/internal/config"
	"github.com/magabrotheeeer/resume-optimizer/internal/http/handlers/billing/webhook"
	"github.com/magabrotheeeer/resume-optimizer/internal/http/handlers/health"
	"github.com/magabrotheeeer/resume-optimizer/internal/http/handlers/resume/analyze"
	"github.com/magabrotheeeer/resume-optimizer/internal/http/handlers/resume/generate"
	renderhandler "github.com/magabrotheeeer/resume-optimizer/internal/http/handlers/resume/render"
	"github.com/magabrotheeeer/resume-optimizer/internal/http/handlers/session/confirm"
	"github.com/magabrotheeeer/resume-optimizer/internal/http/handlers/session/status"
	"github.com/magabrotheeeer/resume-optimizer/internal/http/middlewarectx"
	"github.com/magabrotheeeer/resume-optimizer/internal/metrics"
	pdfrender "github.com/magabrotheeeer/resume-optimizer/internal/render"
	accessservice "github.com/magabrotheeeer/resume-optimizer/internal/services/access"
	entitlementservice "github.com/magabrotheeeer/resume-optimizer/internal/services/entitlement"
	resumeservice "github.com/magabrotheeeer/resume-optimizer/internal/services/resume"
	sessionservice "github.com/magabrotheeeer/resume-optimizer/internal/services/session"
	"github.com/magabrotheeeer/resume-optimizer/internal/storage"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(
	r chi.Router,
	logger *slog.Logger,
	cfg *config.Config,
	db *storage.Storage,
	registry *prometheus.Registry,
	appMetrics *metrics.Metrics,
	entitlementSvc *entitlementservice.Service,
	sessionSvc *sessionservice.Service,
	resumeSvc *resumeservice.Service,
	gate *accessservice.Gate,
	renderer *pdfrender.Renderer,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Вебхук провайдера: аутентификация подписью, без cookie
		r.Post("/billing/webhook", webhook.New(logger, entitlementSvc, appMetrics, cfg.Webhook.WebhookSecret).ServeHTTP)

		// Подтверждение принимает и GET (редирект со страницы оплаты
		// с query-параметрами), и POST с JSON-телом
		confirmHandler := confirm.New(logger, sessionSvc, cfg.Session, cfg.Env)
		r.Get("/session/confirm", confirmHandler.ServeHTTP)
		r.Post("/session/confirm", confirmHandler.ServeHTTP)
		r.Get("/session/status", status.New(logger, gate).ServeHTTP)

		// Генерация: поимённые квоты считает шлюз доступа, общий
		// лимитер инстанса только страхует от всплесков
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger, rate.NewLimiter(50, 100)))
			r.Post("/resume/analyze", analyze.New(logger, resumeSvc, gate, appMetrics).ServeHTTP)
			r.Post("/resume/generate", generate.New(logger, resumeSvc, gate, appMetrics).ServeHTTP)
			r.Post("/resume/render", renderhandler.New(logger, renderer).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, db).ServeHTTP)
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
