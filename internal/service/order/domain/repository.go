package domain

import "context"

// OrderRepository 定义了订单聚合的持久化接口。
// 它位于领域层，但由基础设施层实现。
type OrderRepository interface {
	// Create 在一个事务里持久化订单并按行条件减扣库存。
	// 要么订单和所有减扣一起提交，要么什么都不落库：
	//   - 任何一行输掉 "stock >= quantity" 的竞争 → 整个事务回滚，
	//     返回 ErrStockConflict（可重试）或带原因的 UnavailableError；
	//   - 存储故障 → 原样返回，保证无半成品状态。
	Create(ctx context.Context, order *Order) error

	// FindByID 根据 ID 查找订单。
	FindByID(ctx context.Context, id string) (*Order, error)

	// FindByTrackingID 根据追踪号查找订单。
	FindByTrackingID(ctx context.Context, trackingID string) (*Order, error)

	// FindByUser 返回某用户的全部订单，按创建时间倒序。
	FindByUser(ctx context.Context, userID string) ([]*Order, error)

	// UpdateStatus 条件更新状态（WHERE status = expected），
	// 防止并发流转互相覆盖；竞争失败返回 ErrStatusConflict。
	UpdateStatus(ctx context.Context, id string, expected, next Status) error
}
