// Package db предоставляет подключения к внешним хранилищам координатора.
// Из хранилищ координатору нужен только Redis — в нём живут счётчики
// rate limiter. Состояние саг хранят downstream сервисы, своей базы
// у координатора нет.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis создаёт клиент Redis и проверяет соединение.
func ConnectRedis(addr, password string, database int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       database,
	})

	// Проверяем подключение
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ошибка ping Redis: %w", err)
	}

	return client, nil
}
