package application

import (
	"context"
	"errors"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	catalog "freshcart/internal/service/catalog/domain"
	"freshcart/internal/service/order/domain"
	"freshcart/internal/service/order/domain/port"
)

// maxConcurrentLookups 限制一次校验并发读目录的 goroutine 数。
const maxConcurrentLookups = 8

// ValidationResult 汇总一次校验的产出：无法满足的行，
// 以及按 ID 索引的商品快照（供后续定价复用，避免二次读目录）。
type ValidationResult struct {
	Unsatisfiable []domain.UnsatisfiableLine
	Items         map[string]*catalog.Item
}

// AllAvailable 整单是否可满足。
func (r *ValidationResult) AllAvailable() bool {
	return len(r.Unsatisfiable) == 0
}

// StockValidator 对购物车行做只读的可满足性校验。
// 它是咨询性的：目录状态在校验与提交之间可能变化，
// 最终裁决权在仓储层提交事务里的条件减扣。
type StockValidator struct {
	catalog port.CatalogService
}

func NewStockValidator(catalogSvc port.CatalogService) *StockValidator {
	return &StockValidator{catalog: catalogSvc}
}

// Validate 逐行解析商品并分类。没有副作用，可重复调用；
// 不在第一条失败行短路，把所有问题一次性收集齐。
// 调用方保证行已规范化且 quantity >= 1。
func (v *StockValidator) Validate(ctx context.Context, lines []CartLine) (*ValidationResult, error) {
	result := &ValidationResult{
		Items: make(map[string]*catalog.Item, len(lines)),
	}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)

	for _, line := range lines {
		g.Go(func() error {
			item, err := v.catalog.GetItem(gctx, line.ItemID)
			if err != nil {
				if !errors.Is(err, catalog.ErrItemNotFound) {
					// 基础设施故障要原样上抛，不能误报成 "商品不存在"
					return err
				}
				mu.Lock()
				result.Unsatisfiable = append(result.Unsatisfiable, domain.UnsatisfiableLine{
					ItemID:    line.ItemID,
					Reason:    domain.ReasonNotFound,
					Requested: line.Quantity,
				})
				mu.Unlock()
				return nil
			}

			mu.Lock()
			defer mu.Unlock()
			result.Items[line.ItemID] = item

			switch item.CanFulfill(line.Quantity) {
			case nil:
			case catalog.ErrItemInactive:
				result.Unsatisfiable = append(result.Unsatisfiable, domain.UnsatisfiableLine{
					ItemID:    line.ItemID,
					Reason:    domain.ReasonInactive,
					Requested: line.Quantity,
					Available: item.Stock,
				})
			default:
				result.Unsatisfiable = append(result.Unsatisfiable, domain.UnsatisfiableLine{
					ItemID:    line.ItemID,
					Reason:    domain.ReasonInsufficientStock,
					Requested: line.Quantity,
					Available: item.Stock,
				})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// 并发收集导致顺序不稳定；排序让重复调用的结果逐字节一致
	sort.Slice(result.Unsatisfiable, func(i, j int) bool {
		return result.Unsatisfiable[i].ItemID < result.Unsatisfiable[j].ItemID
	})
	return result, nil
}
