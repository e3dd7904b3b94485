package services

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// CodeStore keeps short lived one-time codes and attempt counters
type CodeStore interface {
	Save(ctx context.Context, key, code string, ttl time.Duration) error
	// Get returns "" when the key is missing or expired
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keys ...string) error
	// Attempt increments the counter for key and returns the new count. The
	// window starts at the first attempt.
	Attempt(ctx context.Context, key string, window time.Duration) (int64, error)
}

type RedisCodeStore struct {
	client *redis.Client
}

func NewRedisCodeStore(client *redis.Client) *RedisCodeStore {
	return &RedisCodeStore{client: client}
}

func (s *RedisCodeStore) Save(ctx context.Context, key, code string, ttl time.Duration) error {
	return s.client.Set(ctx, key, code, ttl).Err()
}

func (s *RedisCodeStore) Get(ctx context.Context, key string) (string, error) {
	code, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return code, err
}

func (s *RedisCodeStore) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

func (s *RedisCodeStore) Attempt(ctx context.Context, key string, window time.Duration) (int64, error) {
	attempts, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if attempts == 1 {
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, err
		}
	}
	return attempts, nil
}

// LocalCodeStore is the single instance fallback when Redis is not configured
type LocalCodeStore struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]*codeEntry
}

type codeEntry struct {
	value     string
	count     int64
	expiresAt time.Time
}

func NewLocalCodeStore() *LocalCodeStore {
	return &LocalCodeStore{now: time.Now, entries: make(map[string]*codeEntry)}
}

// live returns the entry for key, dropping it when expired. Callers hold mu.
func (s *LocalCodeStore) live(key string) *codeEntry {
	e, ok := s.entries[key]
	if !ok {
		return nil
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return nil
	}
	return e
}

func (s *LocalCodeStore) Save(_ context.Context, key, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = &codeEntry{value: code, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *LocalCodeStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e := s.live(key); e != nil {
		return e.value, nil
	}
	return "", nil
}

func (s *LocalCodeStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}

func (s *LocalCodeStore) Attempt(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.live(key)
	if e == nil {
		e = &codeEntry{expiresAt: s.now().Add(window)}
		s.entries[key] = e
	}
	e.count++
	return e.count, nil
}
