// Package generate реализует HTTP-обработчик генерации данных резюме
// из структурированного профиля.
package generate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/resume-optimizer/internal/http/response"
	"github.com/magabrotheeeer/resume-optimizer/internal/lib/sl"
	"github.com/magabrotheeeer/resume-optimizer/internal/llm"
	"github.com/magabrotheeeer/resume-optimizer/internal/metrics"
	"github.com/magabrotheeeer/resume-optimizer/internal/models"
	"github.com/magabrotheeeer/resume-optimizer/internal/services/access"
	"github.com/magabrotheeeer/resume-optimizer/internal/services/resume"
)

// Service описывает бизнес-логику генерации.
type Service interface {
	Generate(ctx context.Context, req models.GenerateRequest, preview bool) (*models.GenerateResult, error)
}

// Gate — шлюз доступа: уровень обслуживания и квота.
type Gate interface {
	Resolve(r *http.Request, requestedPreview bool) access.Decision
	Admit(ctx context.Context, d access.Decision) (time.Duration, error)
}

// Handler обрабатывает запросы генерации резюме.
type Handler struct {
	log      *slog.Logger
	service  Service
	gate     Gate
	metrics  *metrics.Metrics
	validate *validator.Validate
}

// New создаёт обработчик генерации.
func New(log *slog.Logger, service Service, gate Gate, m *metrics.Metrics) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		gate:     gate,
		metrics:  m,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Сгенерировать данные резюме из профиля
// @Description Дополняет структурированный профиль сводкой, навыками и highlights ролей. Без действительного сессионного токена генерация идёт в усечённом объёме preview.
// @Tags Resume
// @Accept json
// @Produce json
// @Param request body models.GenerateRequest true "Структурированный профиль"
// @Success 200 {object} models.GenerateResult
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или профиль не передан"
// @Failure 429 {object} response.RateLimitedResponse "Квота исчерпана"
// @Failure 502 {object} response.ErrorResponse "Ошибка провайдера модели"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка"
// @Router /resume/generate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.resume.generate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	d := h.gate.Resolve(r, req.Preview)
	log = log.With(slog.String("tier", d.Tier.String()))

	retryAfter, err := h.gate.Admit(r.Context(), d)
	if errors.Is(err, access.ErrRateLimited) {
		h.metrics.RateLimited.WithLabelValues(d.Tier.String()).Inc()
		retrySec := int64(retryAfter / time.Second)
		log.Info("request rate limited", slog.Int64("retry_after_seconds", retrySec))
		w.Header().Set("Retry-After", fmt.Sprintf("%d", retrySec))
		w.WriteHeader(http.StatusTooManyRequests)
		render.JSON(w, r, response.RateLimited(retrySec))
		return
	}
	if err != nil {
		log.Error("failed to check rate limit", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}
	h.metrics.GenerationRequests.WithLabelValues("generate", d.Tier.String()).Inc()

	result, err := h.service.Generate(r.Context(), req, d.Tier == models.TierPreview)
	if err != nil {
		var apiErr *llm.APIError
		switch {
		case errors.As(err, &apiErr):
			log.Error("model provider error", slog.Int("status", apiErr.StatusCode))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("upstream model error"))
		case errors.Is(err, resume.ErrBadModelOutput):
			log.Error("model returned unusable output")
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("model did not return valid JSON"))
		default:
			log.Error("failed to generate resume", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to generate resume"))
		}
		return
	}

	log.Info("resume generated")
	render.JSON(w, r, result)
}
