package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/garantias-api/internal/application/dto"
)

// RedisReportCache guarda los reportes de analítica serializados en JSON con TTL.
type RedisReportCache struct {
	client *redis.Client
}

// NewRedisReportCache crea el cliente Redis. No verifica la conexión; usar Ping.
func NewRedisReportCache(addr string, password string, db int) *RedisReportCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisReportCache{client: client}
}

// Ping verifica que Redis responda.
func (c *RedisReportCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close cierra el cliente.
func (c *RedisReportCache) Close() error {
	return c.client.Close()
}

// Get devuelve el reporte cacheado; ok es false si la clave no existe o expiró.
func (c *RedisReportCache) Get(ctx context.Context, key string) (*dto.FailureAnalyticsDTO, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var report dto.FailureAnalyticsDTO
	if err := json.Unmarshal([]byte(val), &report); err != nil {
		return nil, false, err
	}
	return &report, true, nil
}

// Set guarda el reporte bajo key durante ttl.
func (c *RedisReportCache) Set(ctx context.Context, key string, value *dto.FailureAnalyticsDTO, ttl time.Duration) error {
	if value == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}
