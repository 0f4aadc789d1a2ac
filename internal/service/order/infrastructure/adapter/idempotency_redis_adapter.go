package adapter

import (
	"context"
	"time"

	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"

	"freshcart/internal/pkg/redis"
)

const (
	idemKeyPrefix = "freshcart:order:idem:"

	// pendingMarker 表示键已被占用但订单还没创建完。
	// 真正的订单号是 UUID，不会与它撞车。
	pendingMarker = "__pending__"

	completeScriptName = "idem_complete"
	releaseScriptName  = "idem_release"
)

// completeScript 只在键仍是占位值时才绑定订单号。
// 普通 SET 会把已完成的绑定覆盖掉（比如迟到的重试），必须原子地先比对再写。
const completeScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
end
return 0
`

// releaseScript 只删除仍处于占位状态的键，已绑定订单号的键不受影响。
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

// RedisIdempotencyStore 用 Redis 实现幂等键存储。
// 键的生命周期: SETNX 占位 -> 订单创建成功后绑定订单号 / 失败后释放，
// 后两步走 Lua 脚本保证比对与写入的原子性。
type RedisIdempotencyStore struct {
	client *redis.Client
}

func NewRedisIdempotencyStore(client *redis.Client) (*RedisIdempotencyStore, error) {
	if err := client.LoadScriptFromContent(completeScriptName, completeScript); err != nil {
		return nil, err
	}
	if err := client.LoadScriptFromContent(releaseScriptName, releaseScript); err != nil {
		return nil, err
	}
	return &RedisIdempotencyStore{client: client}, nil
}

func (s *RedisIdempotencyStore) Claim(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	rdb := s.client.GetClient()
	redisKey := idemKeyPrefix + key

	ok, err := rdb.SetNX(ctx, redisKey, pendingMarker, ttl).Result()
	if err != nil {
		return "", false, errors.Wrap(err, "claim idempotency key")
	}
	if ok {
		return "", true, nil
	}

	// 键已存在：要么是正在处理中的请求，要么是已完成的请求
	val, err := rdb.Get(ctx, redisKey).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			// 占位键恰好在 SETNX 和 GET 之间过期/被释放，视为在途
			return "", false, nil
		}
		return "", false, errors.Wrap(err, "read idempotency key")
	}
	if val == pendingMarker {
		return "", false, nil
	}
	return val, false, nil
}

func (s *RedisIdempotencyStore) Complete(ctx context.Context, key, orderID string, ttl time.Duration) error {
	_, err := s.client.RunScript(ctx, completeScriptName,
		[]string{idemKeyPrefix + key}, pendingMarker, orderID, ttl.Milliseconds())
	return errors.Wrap(err, "complete idempotency key")
}

func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	_, err := s.client.RunScript(ctx, releaseScriptName,
		[]string{idemKeyPrefix + key}, pendingMarker)
	return errors.Wrap(err, "release idempotency key")
}
