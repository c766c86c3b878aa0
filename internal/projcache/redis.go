package projcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"resume-editor/resume/render"
)

const redisKeyPrefix = "projcache:"

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

// Redis stores projections as JSON strings with a TTL.
type Redis struct {
	client redis.UniversalClient
	opts   Options
}

// NewRedis wraps an existing client.
func NewRedis(client redis.UniversalClient, opts Options) *Redis {
	return &Redis{client: client, opts: opts}
}

func redisKey(key Key) string {
	return redisKeyPrefix + key.String()
}

// Get returns a cached projection.
func (r *Redis) Get(ctx context.Context, key Key) (render.RenderableDocument, bool, error) {
	raw, err := r.client.Get(ctx, redisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return render.RenderableDocument{}, false, nil
		}
		return render.RenderableDocument{}, false, fmt.Errorf("redis get: %w", err)
	}
	var doc render.RenderableDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return render.RenderableDocument{}, false, fmt.Errorf("decode cached projection: %w", err)
	}
	return doc, true, nil
}

// Set stores a projection.
func (r *Redis) Set(ctx context.Context, key Key, doc render.RenderableDocument) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode projection: %w", err)
	}
	if err := r.client.Set(ctx, redisKey(key), raw, r.opts.TTL).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Invalidate drops every entry of a resume.
func (r *Redis) Invalidate(ctx context.Context, resumeID string) error {
	pattern := redisKeyPrefix + resumeID + ":*"
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

var _ Cache = (*Redis)(nil)
