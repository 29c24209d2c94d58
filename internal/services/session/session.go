// Package session реализует бизнес-логику подтверждения оплаты и выпуска
// сессионных токенов. Реестр оплат сервис только читает.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/resume-optimizer/internal/lib/identity"
)

// Ошибки подтверждения; обработчик транслирует их в 401.
var (
	// ErrNotPaid — идентичность не числится оплаченной.
	ErrNotPaid = errors.New("identity is not paid")
	// ErrOrderMismatch — заказ проиндексирован на другую идентичность.
	ErrOrderMismatch = errors.New("order is mapped to another identity")
)

// Ledger описывает чтения реестра оплат.
type Ledger interface {
	IsPaid(ctx context.Context, identityHash string) (bool, error)
	LookupOrder(ctx context.Context, orderID string) (string, error)
}

// TokenMinter выпускает сессионные токены.
type TokenMinter interface {
	Mint(identityHash string, now time.Time) (string, error)
}

// Service подтверждает оплату и выпускает токены.
type Service struct {
	log    *slog.Logger
	ledger Ledger
	tokens TokenMinter
}

// New создаёт сервис подтверждения.
func New(log *slog.Logger, ledger Ledger, tokens TokenMinter) *Service {
	return &Service{
		log:    log,
		ledger: ledger,
		tokens: tokens,
	}
}

// Confirm проверяет оплату и выпускает сессионный токен.
//
// Если передан orderID и реестр знает этот заказ, его идентичность обязана
// совпасть с хешем email. Неизвестный заказ не считается ошибкой: вебхук
// мог ещё не проиндексировать его, и решает проверка самого email.
// Любая ошибка хранилища означает отказ (fail closed).
func (s *Service) Confirm(ctx context.Context, email, orderID string) (string, error) {
	const op = "services.session.Confirm"

	hash := identity.HashEmail(email)

	if orderID != "" {
		saved, err := s.ledger.LookupOrder(ctx, orderID)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		if saved != "" && saved != hash {
			return "", ErrOrderMismatch
		}
	}

	paid, err := s.ledger.IsPaid(ctx, hash)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if !paid {
		return "", ErrNotPaid
	}

	token, err := s.tokens.Mint(hash, time.Now())
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("session token issued", slog.String("op", op), slog.String("identity_hash", hash))
	return token, nil
}
