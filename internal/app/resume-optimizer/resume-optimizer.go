// Package resumeoptimizer собирает приложение: хранилище, сервисы,
// HTTP-сервер и его жизненный цикл.
package resumeoptimizer

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/magabrotheeeer/resume-optimizer/internal/config"
	"github.com/magabrotheeeer/resume-optimizer/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/resume-optimizer/internal/lib/session"
	"github.com/magabrotheeeer/resume-optimizer/internal/lib/sl"
	"github.com/magabrotheeeer/resume-optimizer/internal/llm"
	"github.com/magabrotheeeer/resume-optimizer/internal/metrics"
	"github.com/magabrotheeeer/resume-optimizer/internal/render"
	accessservice "github.com/magabrotheeeer/resume-optimizer/internal/services/access"
	entitlementservice "github.com/magabrotheeeer/resume-optimizer/internal/services/entitlement"
	resumeservice "github.com/magabrotheeeer/resume-optimizer/internal/services/resume"
	sessionservice "github.com/magabrotheeeer/resume-optimizer/internal/services/session"
	"github.com/magabrotheeeer/resume-optimizer/internal/storage"
	"github.com/magabrotheeeer/resume-optimizer/internal/storage/repository"
)

// App — собранное приложение с HTTP-сервером и его зависимостями.
type App struct {
	server      *http.Server
	logger      *slog.Logger
	db          *storage.Storage
	closeBroker func()
}

// New подключает хранилище и брокера, собирает сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	// очередь уведомлений опциональна: без брокера сервис работает,
	// события оплат просто не публикуются
	var publisher entitlementservice.Publisher
	closeBroker := func() {}
	if cfg.RabbitMQ.URL != "" {
		p, closer, err := rabbitmq.Connect(cfg.RabbitMQ.URL)
		if err != nil {
			logger.Warn("rabbitmq unavailable, entitlement events will not be published", sl.Err(err))
		} else {
			publisher = p
			closeBroker = closer
		}
	}

	entitlements := repository.NewEntitlementRepository(db.Db)
	limiter := repository.NewRateLimitRepository(db.Db)
	maker := session.NewMaker(cfg.Session.Secret, cfg.Session.TokenTTL)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.New(registry)

	llmClient := llm.NewClient(cfg.OpenAI.APIURL, cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.TimeoutOpenAI)

	entitlementSvc := entitlementservice.New(logger, entitlements, publisher)
	sessionSvc := sessionservice.New(logger, entitlements, maker)
	resumeSvc := resumeservice.New(logger, llmClient)
	gate := accessservice.New(logger, maker, entitlements, limiter, cfg.RateLimits, cfg.Session.CookieName)
	renderer := render.NewRenderer()

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, db, registry, appMetrics, entitlementSvc, sessionSvc, resumeSvc, gate, renderer)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:      srv,
		logger:      logger,
		db:          db,
		closeBroker: closeBroker,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.closeBroker()
		if closeErr := a.db.Close(); closeErr != nil {
			a.logger.Error("failed to close storage", sl.Err(closeErr))
		}
		return err
	}
}
