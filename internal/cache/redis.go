package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"pixelbook/internal/catalog/jikan"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

// PopularFeed caches the reshaped popular-volumes listing. Import and detail
// lookups never go through here, only the browse feed does.
type PopularFeed struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPopularFeed connects to redis at the given URL. Returns nil on an empty
// URL so callers can wire the feed as optional.
func NewPopularFeed(url, password string, ttl time.Duration) (*PopularFeed, error) {
	if url == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &PopularFeed{client: client, ttl: ttl}, nil
}

func (f *PopularFeed) key(page, limit int) string {
	return fmt.Sprintf("popular:%d:%d", page, limit)
}

// Get returns the cached feed page or ErrCacheMiss. A nil receiver always
// misses, so callers do not need to guard against a disabled cache.
func (f *PopularFeed) Get(ctx context.Context, page, limit int) ([]jikan.VolumeSummary, error) {
	if f == nil {
		return nil, ErrCacheMiss
	}

	raw, err := f.client.Get(ctx, f.key(page, limit)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("get popular feed: %w", err)
	}

	var feed []jikan.VolumeSummary
	if err := json.Unmarshal(raw, &feed); err != nil {
		return nil, fmt.Errorf("decode popular feed: %w", err)
	}
	return feed, nil
}

// Set stores a feed page best-effort. The TTL is jittered so pages do not
// all expire in the same instant.
func (f *PopularFeed) Set(ctx context.Context, page, limit int, feed []jikan.VolumeSummary) error {
	if f == nil {
		return nil
	}

	raw, err := json.Marshal(feed)
	if err != nil {
		return fmt.Errorf("encode popular feed: %w", err)
	}

	ttl := f.ttl + time.Duration(rand.Int63n(int64(f.ttl/10)+1))
	if err := f.client.Set(ctx, f.key(page, limit), raw, ttl).Err(); err != nil {
		return fmt.Errorf("set popular feed: %w", err)
	}
	return nil
}

// Close releases the underlying connection.
func (f *PopularFeed) Close() error {
	if f == nil {
		return nil
	}
	return f.client.Close()
}
