package fonts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "fonts:rules:"

// RedisRegistry shares injected rules between instances. Each marker owns
// one Redis list; Swap rewrites it inside MULTI/EXEC.
type RedisRegistry struct {
	rdb *redis.Client
}

func NewRedisRegistry(rdb *redis.Client) *RedisRegistry {
	return &RedisRegistry{rdb: rdb}
}

func (r *RedisRegistry) key(marker string) string {
	return redisKeyPrefix + marker
}

func (r *RedisRegistry) Swap(ctx context.Context, marker string, rules []Rule) error {
	values := make([]interface{}, 0, len(rules))
	for _, rule := range rules {
		b, err := json.Marshal(rule)
		if err != nil {
			return fmt.Errorf("failed to encode font rule: %w", err)
		}
		values = append(values, b)
	}

	key := r.key(marker)
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(values) > 0 {
			pipe.RPush(ctx, key, values...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to swap font rules in redis: %w", err)
	}
	return nil
}

func (r *RedisRegistry) Rules(ctx context.Context, marker string) ([]Rule, error) {
	raw, err := r.rdb.LRange(ctx, r.key(marker), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read font rules from redis: %w", err)
	}
	rules := make([]Rule, 0, len(raw))
	for _, item := range raw {
		var rule Rule
		if err := json.Unmarshal([]byte(item), &rule); err != nil {
			return nil, fmt.Errorf("failed to decode font rule: %w", err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}
