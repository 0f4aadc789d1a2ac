package adapter

import (
	"context"

	catalog "freshcart/internal/service/catalog/domain"
)

// CatalogAdapter 用商品仓储实现订单侧的目录出站端口。
// 两个服务共享一个数据库实例，这里走进程内调用而不是 HTTP，
// 保证校验读到的是和减扣事务同一份数据。
type CatalogAdapter struct {
	items catalog.ItemRepository
}

func NewCatalogAdapter(items catalog.ItemRepository) *CatalogAdapter {
	return &CatalogAdapter{items: items}
}

func (a *CatalogAdapter) GetItem(ctx context.Context, id string) (*catalog.Item, error) {
	return a.items.FindByID(ctx, id)
}
