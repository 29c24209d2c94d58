// Package repository реализует операции поверх общего Redis-хранилища:
// реестр оплат (грант/отзыв/проверка), индекс заказов для идемпотентной
// обработки повторов вебхука и счётчики rate limiter.
package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// EntitlementRepository хранит факты оплаты, ключом служит хеш email.
// Сырые адреса в хранилище не попадают.
type EntitlementRepository struct {
	db *redis.Client
}

// NewEntitlementRepository создаёт репозиторий поверх клиента Redis.
func NewEntitlementRepository(db *redis.Client) *EntitlementRepository {
	return &EntitlementRepository{db: db}
}

func paidEmailKey(identityHash string) string {
	return "paid:email:" + identityHash
}

func grantedAtKey(identityHash string) string {
	return "paid:email:" + identityHash + ":ts"
}

func paidOrderKey(orderID string) string {
	return "paid:order:" + orderID
}

func revokedKey(identityHash string) string {
	return "revoked:email:" + identityHash
}

// Grant отмечает идентичность как оплаченную и, если передан orderID,
// записывает обратный индекс заказ -> хеш. Повторный грант той же
// идентичности лишь перезаписывает отметку времени. Маркер отзыва
// снимается: новая покупка возвращает полный доступ.
func (r *EntitlementRepository) Grant(ctx context.Context, identityHash, orderID string) error {
	const op = "repository.entitlement.Grant"

	pipe := r.db.TxPipeline()
	pipe.Set(ctx, paidEmailKey(identityHash), "1", 0)
	pipe.Set(ctx, grantedAtKey(identityHash), strconv.FormatInt(time.Now().UnixMilli(), 10), 0)
	pipe.Del(ctx, revokedKey(identityHash))
	if orderID != "" {
		pipe.Set(ctx, paidOrderKey(orderID), identityHash, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Revoke снимает факт оплаты и ставит маркер отзыва, который гасит уже
// выпущенные токены. Отзыв никогда не гранченной идентичности — no-op.
func (r *EntitlementRepository) Revoke(ctx context.Context, identityHash, orderID string) error {
	const op = "repository.entitlement.Revoke"

	pipe := r.db.TxPipeline()
	pipe.Del(ctx, paidEmailKey(identityHash))
	pipe.Del(ctx, grantedAtKey(identityHash))
	pipe.Set(ctx, revokedKey(identityHash), "1", 0)
	if orderID != "" {
		pipe.Del(ctx, paidOrderKey(orderID))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// IsPaid сообщает, числится ли идентичность оплаченной. Чистое чтение.
func (r *EntitlementRepository) IsPaid(ctx context.Context, identityHash string) (bool, error) {
	const op = "repository.entitlement.IsPaid"

	val, err := r.db.Get(ctx, paidEmailKey(identityHash)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return val == "1", nil
}

// IsRevoked сообщает, отозвана ли идентичность возвратом платежа.
func (r *EntitlementRepository) IsRevoked(ctx context.Context, identityHash string) (bool, error) {
	const op = "repository.entitlement.IsRevoked"

	val, err := r.db.Get(ctx, revokedKey(identityHash)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return val == "1", nil
}

// LookupOrder возвращает хеш идентичности по номеру заказа.
// Для неизвестного заказа возвращается пустая строка без ошибки:
// вебхук мог ещё не успеть проиндексировать заказ.
func (r *EntitlementRepository) LookupOrder(ctx context.Context, orderID string) (string, error) {
	const op = "repository.entitlement.LookupOrder"

	val, err := r.db.Get(ctx, paidOrderKey(orderID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return val, nil
}
