package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRateLimitRepo(t *testing.T) (*RateLimitRepository, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRateLimitRepository(client), mr
}

func TestRateLimitRepository_WindowBehavior(t *testing.T) {
	ctx := context.Background()
	repo, mr := setupRateLimitRepo(t)

	key := CounterKey("full", "203.0.113.7")
	const max = 3
	window := time.Minute

	// первые три запроса в окне проходят
	for i := 0; i < max; i++ {
		admitted, resetAt, err := repo.Allow(ctx, key, max, window)
		require.NoError(t, err)
		assert.True(t, admitted, "request %d must be admitted", i+1)
		assert.True(t, resetAt.After(time.Now()))
	}

	// четвёртый в том же окне отклоняется, reset в будущем
	admitted, resetAt, err := repo.Allow(ctx, key, max, window)
	require.NoError(t, err)
	assert.False(t, admitted)
	assert.True(t, resetAt.After(time.Now()))

	// после истечения окна счётчик начинается заново
	mr.FastForward(window + time.Second)

	admitted, _, err = repo.Allow(ctx, key, max, window)
	require.NoError(t, err)
	assert.True(t, admitted)
}

func TestRateLimitRepository_IndependentKeys(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRateLimitRepo(t)

	const max = 1
	window := time.Minute

	admitted, _, err := repo.Allow(ctx, CounterKey("full", "1.2.3.4"), max, window)
	require.NoError(t, err)
	assert.True(t, admitted)

	// исчерпание full-уровня не трогает preview-счётчик того же клиента
	admitted, _, err = repo.Allow(ctx, CounterKey("full", "1.2.3.4"), max, window)
	require.NoError(t, err)
	assert.False(t, admitted)

	admitted, _, err = repo.Allow(ctx, CounterKey("preview", "1.2.3.4"), max, window)
	require.NoError(t, err)
	assert.True(t, admitted)

	// и не трогает другого клиента
	admitted, _, err = repo.Allow(ctx, CounterKey("full", "5.6.7.8"), max, window)
	require.NoError(t, err)
	assert.True(t, admitted)
}

func TestRateLimitRepository_KeyWithoutTTLGetsWindow(t *testing.T) {
	ctx := context.Background()
	repo, mr := setupRateLimitRepo(t)

	key := CounterKey("full", "203.0.113.7")
	// имитация счётчика, потерявшего TTL
	require.NoError(t, mr.Set(key, "1"))

	admitted, resetAt, err := repo.Allow(ctx, key, 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, admitted)
	assert.True(t, resetAt.After(time.Now()))
	assert.Greater(t, mr.TTL(key), time.Duration(0))
}

func TestRateLimitRepository_StoreUnavailable(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	repo := NewRateLimitRepository(client)

	mr.Close()

	admitted, _, err := repo.Allow(ctx, CounterKey("full", "1.2.3.4"), 3, time.Minute)
	assert.Error(t, err)
	assert.False(t, admitted)
}
