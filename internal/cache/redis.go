package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StatusCache хранит статусы обработанных файлов; используется обработчиком
// очереди для защиты от повторной доставки (at-least-once)
type StatusCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStatusCache(host string, port int, password string, db int, ttl time.Duration) (*StatusCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &StatusCache{client: client, ttl: ttl}, nil
}

func (c *StatusCache) Close() error {
	return c.client.Close()
}

// GetFileStatus возвращает статус файла или пустую строку, если его нет
func (c *StatusCache) GetFileStatus(ctx context.Context, fileID string) (string, error) {
	key := fmt.Sprintf("processed:%s", fileID)

	status, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get file status from Redis: %w", err)
	}

	return status, nil
}

func (c *StatusCache) SetFileStatus(ctx context.Context, fileID, status string) error {
	key := fmt.Sprintf("processed:%s", fileID)

	if err := c.client.Set(ctx, key, status, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set file status in Redis: %w", err)
	}

	return nil
}

func (c *StatusCache) DeleteFileStatus(ctx context.Context, fileID string) error {
	key := fmt.Sprintf("processed:%s", fileID)

	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete file status from Redis: %w", err)
	}

	return nil
}
