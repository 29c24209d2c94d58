// Package webhook реализует HTTP-обработчик событий платёжного провайдера.
//
// Подпись X-Signature (hex HMAC-SHA256 от сырого тела) проверяется
// сравнением постоянного времени до любого разбора JSON. Неподписанные
// или подделанные доставки отклоняются 401, аутентичные — подтверждаются
// 200 независимо от типа события и читаемости тела, чтобы провайдер
// не ретраил то, что повтор не исправит.
package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/resume-optimizer/internal/http/response"
	"github.com/magabrotheeeer/resume-optimizer/internal/lib/sl"
	"github.com/magabrotheeeer/resume-optimizer/internal/metrics"
	"github.com/magabrotheeeer/resume-optimizer/internal/services/entitlement"
)

// SignatureHeader — заголовок подписи провайдера.
const SignatureHeader = "X-Signature"

// Service описывает обработку аутентифицированного события.
type Service interface {
	Process(ctx context.Context, evt entitlement.Event) (string, error)
}

// Handler принимает и аутентифицирует доставки вебхука.
type Handler struct {
	log           *slog.Logger
	service       Service
	metrics       *metrics.Metrics
	webhookSecret string
}

// New создаёт обработчик вебхука.
func New(log *slog.Logger, service Service, m *metrics.Metrics, secret string) *Handler {
	return &Handler{
		log:           log,
		service:       service,
		metrics:       m,
		webhookSecret: secret,
	}
}

// flexString принимает строку или число: провайдер шлёт идентификаторы
// заказов в обоих видах.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type payload struct {
	Meta struct {
		EventName string `json:"event_name"`
		Event     string `json:"event"`
	} `json:"meta"`
	EventName string `json:"event_name"`
	Event     string `json:"event"`
	Data      struct {
		Attributes struct {
			OrderNumber   flexString `json:"order_number"`
			Identifier    flexString `json:"identifier"`
			ID            flexString `json:"id"`
			OrderID       flexString `json:"order_id"`
			UserEmail     string     `json:"user_email"`
			CustomerEmail string     `json:"customer_email"`
			Email         string     `json:"email"`
		} `json:"attributes"`
	} `json:"data"`
}

// eventName достаёт имя события из первого заполненного поля.
func (p *payload) eventName() string {
	for _, name := range []string{p.Meta.EventName, p.Meta.Event, p.EventName, p.Event} {
		if name != "" {
			return name
		}
	}
	return ""
}

func (p *payload) orderID() string {
	attrs := p.Data.Attributes
	for _, id := range []flexString{attrs.OrderNumber, attrs.Identifier, attrs.ID, attrs.OrderID} {
		if id != "" {
			return string(id)
		}
	}
	return ""
}

func (p *payload) email() string {
	attrs := p.Data.Attributes
	for _, email := range []string{attrs.UserEmail, attrs.CustomerEmail, attrs.Email} {
		if email != "" {
			return email
		}
	}
	return ""
}

// verifySignature сравнивает hex HMAC-SHA256 от тела с подписью из заголовка.
func (h *Handler) verifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(h.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ServeHTTP godoc
// @Summary Вебхук платёжного провайдера
// @Description Принимает события order_created и order_refunded, подписанные HMAC-SHA256 в заголовке X-Signature. Остальные события подтверждаются без обработки.
// @Tags Billing
// @Accept json
// @Produce json
// @Param X-Signature header string true "hex HMAC-SHA256 от тела запроса"
// @Success 200 {object} response.OKResponse "Событие принято"
// @Failure 400 {object} response.ErrorResponse "Не удалось прочитать тело запроса"
// @Failure 401 {object} response.ErrorResponse "Неверная подпись"
// @Failure 500 {object} response.ErrorResponse "Секрет не сконфигурирован или сбой хранилища"
// @Router /billing/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.webhook"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if h.webhookSecret == "" {
		log.Error("webhook secret is not configured")
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("webhook secret missing"))
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	defer r.Body.Close()

	signature := strings.TrimSpace(r.Header.Get(SignatureHeader))
	if signature == "" || !h.verifySignature(body, signature) {
		log.Error("invalid or missing webhook signature")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid signature"))
		return
	}

	// Подпись сошлась, значит тело прислал провайдер. Нечитаемый JSON
	// подтверждаем как no-op: ретраи той же доставки его не исправят.
	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		log.Warn("authentic webhook payload is not valid JSON", sl.Err(err))
		h.metrics.WebhookEvents.WithLabelValues("unparseable", entitlement.OutcomeIgnored).Inc()
		render.JSON(w, r, response.OK())
		return
	}

	evt := entitlement.Event{
		Name:    p.eventName(),
		OrderID: p.orderID(),
		Email:   p.email(),
	}

	outcome, err := h.service.Process(r.Context(), evt)
	if err != nil {
		log.Error("failed to process webhook event", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to process event"))
		return
	}
	h.metrics.WebhookEvents.WithLabelValues(evt.Name, outcome).Inc()

	log.Info("webhook processed",
		slog.String("event", evt.Name),
		slog.String("outcome", outcome),
		slog.String("order_id", evt.OrderID))
	render.JSON(w, r, response.OK())
}
