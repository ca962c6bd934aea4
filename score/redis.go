package score

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// KeyPrefix namespaces best scores per profile
	KeyPrefix = "simon:best:"

	defaultRedisTimeout = 2 * time.Second
	maxTxRetries        = 3
)

// RedisOptions configures a RedisStore
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Profile  string
	Timeout  time.Duration
}

// RedisStore shares one best score between sessions
// SetBest only ever raises the stored value
type RedisStore struct {
	client  *redis.Client
	key     string
	timeout time.Duration
}

// NewRedisStore creates a store; no connection is made until first use
func NewRedisStore(opts RedisOptions) *RedisStore {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultRedisTimeout
	}
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		MaxRetries:   1,
	})
	return &RedisStore{client: client, key: Key(opts.Profile), timeout: timeout}
}

// Key returns the redis key holding a profile's best score
func Key(profile string) string {
	if profile == "" {
		profile = "default"
	}
	return KeyPrefix + profile
}

// Ping verifies the server is reachable
func (s *RedisStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.client.Ping(ctx).Err()
}

// GetBest implements Store
func (s *RedisStore) GetBest() int {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	v, err := s.client.Get(ctx, s.key).Int()
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// SetBest implements Store using an optimistic WATCH transaction
func (s *RedisStore) SetBest(best int) error {
	if best < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidScore, best)
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	raise := func(tx *redis.Tx) error {
		cur, err := readInt(ctx, tx, s.key)
		if err != nil {
			return err
		}
		if best <= cur {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.key, best, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, raise, s.key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("redis set best: %w", err)
		}
		return nil
	}
	return fmt.Errorf("redis set best: %w", redis.TxFailedErr)
}

// Close releases the connection pool
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// readInt reads key as an int; missing or malformed values read as 0
func readInt(ctx context.Context, tx *redis.Tx, key string) (int, error) {
	cur, err := tx.Get(ctx, key).Int()
	if err == nil {
		return max(cur, 0), nil
	}
	var numErr *strconv.NumError
	if errors.Is(err, redis.Nil) || errors.As(err, &numErr) {
		return 0, nil
	}
	return 0, err
}
