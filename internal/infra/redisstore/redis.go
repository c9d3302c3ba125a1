// Package redisstore guarda em Redis o estado efêmero compartilhado entre
// réplicas: tokens revogados e o cache do catálogo.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/studio-scheduler/internal/domain/account"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/instrument"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

const (
	denylistPrefix = "studio:revoked:"
	catalogKey     = "studio:catalog:all"
)

// NewClient conecta e faz um PING para falhar cedo.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// ======================================================
// Token denylist
// ======================================================

type TokenDenylist struct {
	client redis.Cmdable
}

func NewTokenDenylist(client redis.Cmdable) *TokenDenylist {
	return &TokenDenylist{client: client}
}

func (d *TokenDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, denylistPrefix+jti, 1, ttl).Err()
}

func (d *TokenDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := d.client.Exists(ctx, denylistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ======================================================
// Catalog cache
// ======================================================

type CatalogCache struct {
	client redis.Cmdable
}

func NewCatalogCache(client redis.Cmdable) *CatalogCache {
	return &CatalogCache{client: client}
}

func (c *CatalogCache) Get(ctx context.Context) ([]models.Instrument, bool, error) {
	raw, err := c.client.Get(ctx, catalogKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var items []models.Instrument
	if err := json.Unmarshal(raw, &items); err != nil {
		// entrada corrompida conta como miss
		return nil, false, nil
	}
	return items, true, nil
}

func (c *CatalogCache) Set(ctx context.Context, items []models.Instrument, ttl time.Duration) error {
	if items == nil {
		items = []models.Instrument{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, catalogKey, raw, ttl).Err()
}

func (c *CatalogCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, catalogKey).Err()
}

var (
	_ account.Denylist = (*TokenDenylist)(nil)
	_ instrument.Cache = (*CatalogCache)(nil)
)
