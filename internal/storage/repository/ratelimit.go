package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitRepository считает запросы в фиксированном окне по ключу
// (идентичность, уровень). Инкремент — одиночная атомарная операция INCR,
// поэтому конкурентные запросы одного клиента не теряют обновлений.
type RateLimitRepository struct {
	db *redis.Client
}

// NewRateLimitRepository создаёт репозиторий поверх клиента Redis.
func NewRateLimitRepository(db *redis.Client) *RateLimitRepository {
	return &RateLimitRepository{db: db}
}

// CounterKey строит ключ счётчика для пары (уровень, идентичность).
func CounterKey(tier, clientID string) string {
	return "rl:" + tier + ":" + clientID
}

// Allow инкрементирует счётчик окна и сообщает, допущен ли запрос,
// вместе с моментом сброса окна. Первый инкремент заводит TTL окна;
// просроченный ключ Redis удаляет сам, что и обнуляет счётчик.
func (r *RateLimitRepository) Allow(ctx context.Context, key string, maxRequests int, window time.Duration) (bool, time.Time, error) {
	const op = "repository.ratelimit.Allow"

	count, err := r.db.Incr(ctx, key).Result()
	if err != nil {
		return false, time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	if count == 1 {
		if err := r.db.PExpire(ctx, key, window).Err(); err != nil {
			return false, time.Time{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	ttl, err := r.db.PTTL(ctx, key).Result()
	if err != nil {
		return false, time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	if ttl < 0 {
		// ключ пережил рестарт без TTL: заводим окно заново
		if err := r.db.PExpire(ctx, key, window).Err(); err != nil {
			return false, time.Time{}, fmt.Errorf("%s: %w", op, err)
		}
		ttl = window
	}

	return count <= int64(maxRequests), time.Now().Add(ttl), nil
}
