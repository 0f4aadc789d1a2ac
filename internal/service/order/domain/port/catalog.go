package port

import (
	"context"

	catalog "freshcart/internal/service/catalog/domain"
)

// CatalogService 是商品目录的出站端口。
// 订单核心只通过它读商品快照；库存的写入全部发生在
// OrderRepository.Create 的事务里，这里不暴露减扣。
type CatalogService interface {
	// GetItem 读取单个商品的当前快照。
	GetItem(ctx context.Context, id string) (*catalog.Item, error)
}
