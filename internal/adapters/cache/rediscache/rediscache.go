package rediscache

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/soleindustrial/plm/internal/domain"
)

// Cache guarda el último snapshot JSON de cada colección bajo la clave
// cache:<colección>, sin expiración: un snapshot viejo es mejor que ninguno
// cuando el record store no responde.
type Cache struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Cache { return &Cache{rdb: rdb} }

func (c *Cache) Get(ctx context.Context, collection string) ([]byte, error) {
	raw, err := c.rdb.Get(ctx, "cache:"+collection).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	return raw, err
}

func (c *Cache) Set(ctx context.Context, collection string, data []byte) error {
	return c.rdb.Set(ctx, "cache:"+collection, data, 0).Err()
}
