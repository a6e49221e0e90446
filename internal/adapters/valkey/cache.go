package valkey

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/valkey-io/valkey-go"
)

// ErrMiss is returned by Get when the key is not cached.
var ErrMiss = errors.New("cache miss")

// Cache implements ports.CacheService using Valkey (Redis-compatible).
// Calls go through a circuit breaker so a slow or down Valkey fails fast
// instead of adding latency to every request.
type Cache struct {
	client  valkey.Client
	prefix  string
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// New creates a new Valkey cache client. Keys are namespaced with prefix.
func New(addr, prefix string) (*Cache, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("valkey connect: %w", err)
	}
	return newCache(client, prefix), nil
}

func newCache(client valkey.Client, prefix string) *Cache {
	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "valkey",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrMiss)
		},
	})
	return &Cache{client: client, prefix: prefix, breaker: breaker}
}

// Get retrieves a value by key.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	return c.breaker.Execute(func() ([]byte, error) {
		b, err := c.client.Do(ctx, c.client.B().Get().Key(c.prefix+key).Build()).AsBytes()
		if valkey.IsValkeyNil(err) {
			return nil, ErrMiss
		}
		return b, err
	})
}

// Set stores a value with a TTL in seconds.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	_, err := c.breaker.Execute(func() ([]byte, error) {
		return nil, c.client.Do(ctx,
			c.client.B().Set().Key(c.prefix+key).Value(valkey.BinaryString(value)).Ex(time.Duration(ttlSeconds)*time.Second).Build(),
		).Error()
	})
	return err
}

// Delete removes a key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	_, err := c.breaker.Execute(func() ([]byte, error) {
		return nil, c.client.Do(ctx, c.client.B().Del().Key(c.prefix+key).Build()).Error()
	})
	return err
}

// Ping checks connectivity, bypassing the breaker.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Do(ctx, c.client.B().Ping().Build()).Error()
}

// Close releases the client.
func (c *Cache) Close() {
	c.client.Close()
}
