package domain

import "context"

// ItemRepository 定义了商品聚合的持久化接口。
// 它位于领域层，但由基础设施层实现。
type ItemRepository interface {
	Save(ctx context.Context, item *Item) error

	// Update 只写入可编辑的基础属性（名称、分类、价格、描述、图片）。
	// 库存永远不从这里流过：卖出走 DecrementStock，补货走 IncrementStock，
	// 否则 read-modify-write 会把并发减扣覆盖回去。
	Update(ctx context.Context, item *Item) error

	FindByID(ctx context.Context, id string) (*Item, error)

	// FindAll 按分类过滤（空串表示不过滤），只返回 active 的商品。
	FindAll(ctx context.Context, category Category) ([]*Item, error)

	// DecrementStock 原子地执行 "stock = stock - quantity WHERE stock >= quantity"。
	// 库存不足或商品不可购买时返回 ErrInsufficientStock / ErrItemNotFound，
	// 绝不把库存减成负数。
	DecrementStock(ctx context.Context, id string, quantity int) error

	// IncrementStock 是 DecrementStock 的逆操作，用于回补/补货。
	IncrementStock(ctx context.Context, id string, quantity int) error

	// Deactivate 软删除：下架商品而不破坏历史订单的引用。
	Deactivate(ctx context.Context, id string) error
}
