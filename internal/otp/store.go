package otp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/redis/go-redis/v9"
)

// MemoryStore keeps deadlines in process. Suitable for a single instance.
type MemoryStore struct {
	cache *ttlcache.Cache[string, time.Time]
}

func NewMemoryStore() *MemoryStore {
	cache := ttlcache.New(
		ttlcache.WithTTL[string, time.Time](ResendCooldown),
		ttlcache.WithDisableTouchOnHit[string, time.Time](),
	)
	go cache.Start()

	return &MemoryStore{cache: cache}
}

func (s *MemoryStore) SetDeadline(_ context.Context, flowID string, deadline time.Time, ttl time.Duration) error {
	s.cache.Set(flowID, deadline, ttl)
	return nil
}

func (s *MemoryStore) Deadline(_ context.Context, flowID string) (time.Time, bool, error) {
	item := s.cache.Get(flowID)
	if item == nil {
		return time.Time{}, false, nil
	}
	return item.Value(), true, nil
}

func (s *MemoryStore) Delete(_ context.Context, flowID string) error {
	s.cache.Delete(flowID)
	return nil
}

// Close stops the cleanup goroutine.
func (s *MemoryStore) Close() error {
	s.cache.Stop()
	return nil
}

const redisPrefix = "vasamilk:otp-cooldown:"

// RedisStore shares deadlines between console instances.
type RedisStore struct {
	redis redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{redis: client}
}

func redisKey(flowID string) string { return redisPrefix + flowID }

func (s *RedisStore) SetDeadline(ctx context.Context, flowID string, deadline time.Time, ttl time.Duration) error {
	if err := s.redis.Set(ctx, redisKey(flowID), deadline.UnixMilli(), ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Deadline(ctx context.Context, flowID string) (time.Time, bool, error) {
	v, err := s.redis.Get(ctx, redisKey(flowID)).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("redis get: %w", err)
	}
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("corrupt cooldown %q: %w", v, err)
	}
	return time.UnixMilli(ms), true, nil
}

func (s *RedisStore) Delete(ctx context.Context, flowID string) error {
	if err := s.redis.Del(ctx, redisKey(flowID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
