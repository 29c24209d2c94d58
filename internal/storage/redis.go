// Package storage инкапсулирует подключение к общему Redis-хранилищу.
//
// В нём живут две семьи ключей оплат (paid:email:<hash>, paid:order:<id>),
// маркеры отзыва и счётчики rate limiter. Хранилище общее для всех
// экземпляров сервиса — это обязательное условие корректности квот при
// горизонтальном масштабировании.
package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/resume-optimizer/internal/config"
)

// Storage инкапсулирует клиент Redis.
type Storage struct {
	Db *redis.Client
}

// New создаёт подключение к Redis и проверяет его доступность.
func New(ctx context.Context, cfg config.RedisConnection) (*Storage, error) {
	const op = "storage.New"

	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Storage{Db: db}, nil
}

// Ping проверяет доступность хранилища.
func (s *Storage) Ping(ctx context.Context) error {
	return s.Db.Ping(ctx).Err()
}

// Close закрывает подключение к Redis.
func (s *Storage) Close() error {
	return s.Db.Close()
}
