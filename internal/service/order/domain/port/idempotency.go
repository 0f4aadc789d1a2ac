package port

import (
	"context"
	"time"
)

// IdempotencyStore 是幂等键存储的出站端口。
//
// 用法约定:
//  1. Claim 尝试占用一个键；返回已绑定的订单号表示这是重放，
//     直接返回历史订单即可。
//  2. 占用成功后创建订单，成功则 Complete 绑定订单号，
//     失败则 Release 释放键让客户端重试。
type IdempotencyStore interface {
	// Claim 返回 (已绑定的订单ID, 是否抢到了键)。
	// 键被占用但还没绑定订单号时返回 ("", false)。
	Claim(ctx context.Context, key string, ttl time.Duration) (orderID string, claimed bool, err error)

	Complete(ctx context.Context, key, orderID string, ttl time.Duration) error

	Release(ctx context.Context, key string) error
}
