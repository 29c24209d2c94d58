// Package entitlement реализует бизнес-логику обработки событий платёжного
// провайдера: грант доступа по покупке, отзыв по возврату. Подпись события
// проверяет HTTP-слой; сюда событие попадает уже аутентифицированным.
package entitlement

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/resume-optimizer/internal/lib/identity"
	"github.com/magabrotheeeer/resume-optimizer/internal/lib/sl"
)

// Имена событий провайдера, которые меняют состояние реестра.
const (
	EventOrderCreated  = "order_created"
	EventOrderRefunded = "order_refunded"
)

// Исходы обработки события; используются в метриках и логах.
const (
	OutcomeGranted = "granted"
	OutcomeRevoked = "revoked"
	OutcomeSkipped = "skipped"
	OutcomeIgnored = "ignored"
)

// Ledger описывает мутации реестра оплат.
type Ledger interface {
	Grant(ctx context.Context, identityHash, orderID string) error
	Revoke(ctx context.Context, identityHash, orderID string) error
}

// Publisher публикует уведомления об изменении прав. Может быть nil.
type Publisher interface {
	Publish(message any) error
}

// Event — аутентифицированное событие провайдера после разбора.
type Event struct {
	Name    string
	OrderID string
	Email   string
}

// Notification — сообщение для очереди уведомлений.
type Notification struct {
	EventID      string `json:"event_id"`
	Event        string `json:"event"`
	IdentityHash string `json:"identity_hash"`
	OrderID      string `json:"order_id,omitempty"`
	OccurredAt   string `json:"occurred_at"`
}

// Service обрабатывает события провайдера и мутирует реестр.
type Service struct {
	log       *slog.Logger
	ledger    Ledger
	publisher Publisher
}

// New создаёт сервис. publisher может быть nil — тогда уведомления не шлются.
func New(log *slog.Logger, ledger Ledger, publisher Publisher) *Service {
	return &Service{
		log:       log,
		ledger:    ledger,
		publisher: publisher,
	}
}

// Process применяет событие к реестру и возвращает исход.
//
// Обработка идемпотентна: повтор того же purchase-события не меняет
// состояние, возврат по никогда не гранченной идентичности — безвредный
// no-op. Событие без email принимается как no-op, чтобы провайдер не
// ретраил аутентичные, но неполные доставки.
func (s *Service) Process(ctx context.Context, evt Event) (string, error) {
	const op = "services.entitlement.Process"
	log := s.log.With(slog.String("op", op), slog.String("event", evt.Name))

	if evt.Email == "" {
		log.Info("event without email accepted as no-op")
		return OutcomeSkipped, nil
	}

	hash := identity.HashEmail(evt.Email)
	log = log.With(slog.String("identity_hash", hash))

	switch evt.Name {
	case EventOrderCreated:
		if err := s.ledger.Grant(ctx, hash, evt.OrderID); err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		s.notify(log, evt, hash)
		log.Info("entitlement granted", slog.String("order_id", evt.OrderID))
		return OutcomeGranted, nil

	case EventOrderRefunded:
		if err := s.ledger.Revoke(ctx, hash, evt.OrderID); err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		s.notify(log, evt, hash)
		log.Info("entitlement revoked", slog.String("order_id", evt.OrderID))
		return OutcomeRevoked, nil

	default:
		log.Info("ignored webhook event")
		return OutcomeIgnored, nil
	}
}

// notify шлёт уведомление в очередь; ошибка публикации не валит обработку,
// изменение реестра первично.
func (s *Service) notify(log *slog.Logger, evt Event, hash string) {
	if s.publisher == nil {
		return
	}
	msg := Notification{
		EventID:      uuid.NewString(),
		Event:        evt.Name,
		IdentityHash: hash,
		OrderID:      evt.OrderID,
		OccurredAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.publisher.Publish(msg); err != nil {
		log.Error("failed to publish entitlement notification", sl.Err(err))
	}
}
