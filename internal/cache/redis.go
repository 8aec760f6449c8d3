package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/airline-reservation/config"
	"github.com/Domenick1991/airline-reservation/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client    redis.Cmdable
	searchTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, searchTTL time.Duration) *RedisCache {
	return NewRedisCacheWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		searchTTL,
	)
}

func NewRedisCacheWithClient(client redis.Cmdable, searchTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, searchTTL: searchTTL}
}

// GetSearch returns nil, nil on a cache miss.
func (c *RedisCache) GetSearch(ctx context.Context, q domain.FlightSearch) ([]domain.Flight, error) {
	data, err := c.client.Get(ctx, searchKey(q)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var flights []domain.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) SetSearch(ctx context.Context, q domain.FlightSearch, flights []domain.Flight) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, searchKey(q), payload, c.searchTTL).Err()
}

// ErrLockNotHeld is returned by Unlock when the lock expired or was taken by
// another holder.
var ErrLockNotHeld = errors.New("lock not held")

// releaseLock deletes the key only while it still holds the caller's token.
var releaseLock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// TryLock takes a named lock for ttl and returns the token that owns it. An
// empty token means another holder has the lock.
func (c *RedisCache) TryLock(ctx context.Context, name string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	ok, err := c.client.SetNX(ctx, lockKey(name), token, ttl).Result()
	if err != nil || !ok {
		return "", err
	}
	return token, nil
}

// Unlock releases the lock if token still owns it.
func (c *RedisCache) Unlock(ctx context.Context, name, token string) error {
	deleted, err := releaseLock.Run(ctx, c.client, []string{lockKey(name)}, token).Int()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return fmt.Errorf("%s: %w", name, ErrLockNotHeld)
	}
	return nil
}

func searchKey(q domain.FlightSearch) string {
	return fmt.Sprintf("cache:flights:%s:%s:%s:%s",
		strings.ToUpper(q.From), strings.ToUpper(q.To), q.TravelType, q.Date)
}

func lockKey(name string) string {
	return "lock:" + name
}
