package orders

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(addr string) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})
	return &RedisCache{client: client}
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return v, err
}

func (r *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

// CachedSource serves recent books from Cache and fills it from Source on a miss.
// Cache failures are logged and fall through to Source.
type CachedSource struct {
	Source Source
	Cache  Cache
	TTL    time.Duration
	Logger *zap.SugaredLogger
}

func cacheKey(address string) string { return "orders:" + address }

func (s *CachedSource) GetOrders(ctx context.Context, address string) (*Book, error) {
	key := cacheKey(address)

	raw, err := s.Cache.Get(ctx, key)
	switch {
	case err == nil:
		var book Book
		if jerr := json.Unmarshal([]byte(raw), &book); jerr == nil {
			return &book, nil
		}
		s.Logger.Warnw("cache_entry_corrupt", "address", address)
	case !errors.Is(err, ErrCacheMiss):
		s.Logger.Warnw("cache_get_failed", "address", address, "err", err)
	}

	book, err := s.Source.GetOrders(ctx, address)
	if err != nil {
		return nil, err
	}

	if data, jerr := json.Marshal(book); jerr == nil {
		if serr := s.Cache.Set(ctx, key, string(data), s.TTL); serr != nil {
			s.Logger.Warnw("cache_set_failed", "address", address, "err", serr)
		}
	}
	return book, nil
}
