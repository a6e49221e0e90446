package valkey

import (
	"context"
	"time"

	"github.com/karlseguin/ccache/v3"

	"github.com/samirrijal/dongne/internal/core/ports"
	"github.com/samirrijal/dongne/internal/pkg/metrics"
)

// Tiered is a two-level cache: an in-process LRU in front of an optional
// remote cache. Remote hits are copied into the local tier.
type Tiered struct {
	local    *ccache.Cache[[]byte]
	remote   ports.CacheService
	localTTL time.Duration
}

// NewTiered creates a Tiered cache holding up to maxItems locally for at most
// localTTL. remote may be nil for a local-only cache.
func NewTiered(remote ports.CacheService, maxItems int64, localTTL time.Duration) *Tiered {
	return &Tiered{
		local:    ccache.New(ccache.Configure[[]byte]().MaxSize(maxItems)),
		remote:   remote,
		localTTL: localTTL,
	}
}

// Get returns the local value if fresh, otherwise asks the remote tier.
func (t *Tiered) Get(ctx context.Context, key string) ([]byte, error) {
	if item := t.local.Get(key); item != nil && !item.Expired() {
		metrics.CacheHits.WithLabelValues("local").Inc()
		return item.Value(), nil
	}
	if t.remote == nil {
		metrics.CacheMisses.Inc()
		return nil, ErrMiss
	}

	b, err := t.remote.Get(ctx, key)
	if err != nil {
		metrics.CacheMisses.Inc()
		return nil, err
	}
	metrics.CacheHits.WithLabelValues("remote").Inc()
	t.local.Set(key, b, t.localTTL)
	return b, nil
}

// Set writes both tiers. The local entry never outlives ttlSeconds.
func (t *Tiered) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	t.local.Set(key, value, t.ttl(ttlSeconds))
	if t.remote == nil {
		return nil
	}
	return t.remote.Set(ctx, key, value, ttlSeconds)
}

// Delete removes key from both tiers.
func (t *Tiered) Delete(ctx context.Context, key string) error {
	t.local.Delete(key)
	if t.remote == nil {
		return nil
	}
	return t.remote.Delete(ctx, key)
}

// Close stops the local tier's background worker.
func (t *Tiered) Close() {
	t.local.Stop()
}

func (t *Tiered) ttl(ttlSeconds int) time.Duration {
	d := time.Duration(ttlSeconds) * time.Second
	if t.localTTL > 0 && t.localTTL < d {
		return t.localTTL
	}
	return d
}
