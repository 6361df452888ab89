package statestore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	backend "github.com/redis/go-redis/v9"
)

// RedisConfig configures the Redis-backed store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Redis implements Store over a flat Redis keyspace. Each leaf path is a key
// (slashes become colons) holding a JSON value; node reads assemble children
// by prefix scan. Meant for local deployments and tests.
type Redis struct {
	client *backend.Client
	prefix string
}

func NewRedis(cfg RedisConfig) *Redis {
	client := backend.NewClient(&backend.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewRedisFromClient(client, cfg.Prefix)
}

// NewRedisFromClient wraps an existing client, e.g. one pointed at miniredis.
func NewRedisFromClient(client *backend.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "agrihub:"
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) key(path string) string {
	return r.prefix + strings.ReplaceAll(strings.Trim(path, "/"), "/", ":")
}

func (r *Redis) Get(ctx context.Context, path string) (any, error) {
	node := map[string]any{}
	found := false

	val, err := r.client.Get(ctx, r.key(path)).Result()
	switch {
	case err == backend.Nil:
		// fall through to children
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	default:
		var decoded any
		if uerr := json.Unmarshal([]byte(val), &decoded); uerr != nil {
			return nil, fmt.Errorf("%w: decode %s: %v", ErrRead, path, uerr)
		}
		m, ok := decoded.(map[string]any)
		if !ok {
			return decoded, nil
		}
		node = m
		found = true
	}

	childPrefix := r.key(path) + ":"
	iter := r.client.Scan(ctx, 0, childPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		k := iter.Val()
		raw, gerr := r.client.Get(ctx, k).Result()
		if gerr == backend.Nil {
			continue
		}
		if gerr != nil {
			return nil, fmt.Errorf("%w: %v", ErrRead, gerr)
		}
		var child any
		if uerr := json.Unmarshal([]byte(raw), &child); uerr != nil {
			return nil, fmt.Errorf("%w: decode %s: %v", ErrRead, k, uerr)
		}
		insert(node, strings.Split(strings.TrimPrefix(k, childPrefix), ":"), child)
		found = true
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}

	if !found {
		return nil, nil
	}
	return node, nil
}

func (r *Redis) Set(ctx context.Context, path string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %v", ErrWrite, path, err)
	}
	if err := r.client.Set(ctx, r.key(path), data, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// insert places a child value into the node map, creating intermediate maps
// for nested segments.
func insert(node map[string]any, segments []string, value any) {
	for len(segments) > 1 {
		next, ok := node[segments[0]].(map[string]any)
		if !ok {
			next = map[string]any{}
			node[segments[0]] = next
		}
		node = next
		segments = segments[1:]
	}
	node[segments[0]] = value
}
