package infrastructure

import (
	"context"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	cataloginfra "freshcart/internal/service/catalog/infrastructure"
	"freshcart/internal/service/order/domain"
)

// mysqlDuplicateEntry MySQL 唯一键冲突错误码
const mysqlDuplicateEntry = 1062

// GormOrderRepository 是 domain.OrderRepository 的 GORM 实现。
// 订单写入与库存减扣必须落在同一个数据库事务里，整单要么全部生效要么全部回滚。
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create 在单个事务内完成：逐行对 items 表做条件减扣，然后插入订单与订单行。
// 减扣条件是 active 且 stock >= quantity，由数据库裁决并发竞争 ——
// 任何一行影响行数为 0 都会让整个事务回滚，绝不超卖、绝不留下半个订单。
func (r *GormOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, line := range order.Lines {
			res := tx.Model(&cataloginfra.ItemModel{}).
				Where("id = ? AND active = ? AND stock >= ?", line.ItemID, true, line.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", line.Quantity))
			if res.Error != nil {
				return errors.Wrap(res.Error, "decrement stock")
			}
			if res.RowsAffected == 0 {
				// 校验到提交之间商品被抢购/下架/删除了，
				// 具体原因留给应用层重新校验后分类
				return errors.Wrapf(domain.ErrStockConflict, "item %s", line.ItemID)
			}
		}

		model := FromDomainOrder(order)
		if err := tx.Create(model).Error; err != nil {
			var mysqlErr *gomysql.MySQLError
			if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
				return domain.ErrTrackingIDTaken
			}
			return errors.Wrap(err, "insert order")
		}
		return nil
	})
	return err
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var model OrderModel
	err := r.db.WithContext(ctx).Preload("Lines").First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, errors.Wrap(err, "find order by id")
	}
	return ToDomainOrder(&model), nil
}

func (r *GormOrderRepository) FindByTrackingID(ctx context.Context, trackingID string) (*domain.Order, error) {
	var model OrderModel
	err := r.db.WithContext(ctx).Preload("Lines").First(&model, "tracking_id = ?", trackingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, errors.Wrap(err, "find order by tracking id")
	}
	return ToDomainOrder(&model), nil
}

// FindByUser 按创建时间倒序返回用户的全部订单，最新的在最前面。
func (r *GormOrderRepository) FindByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	var models []OrderModel
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "find orders by user")
	}
	orders := make([]*domain.Order, 0, len(models))
	for i := range models {
		orders = append(orders, ToDomainOrder(&models[i]))
	}
	return orders, nil
}

// UpdateStatus 条件更新：只有当前状态仍是 expected 时才会写入 next。
// 两个并发的流转请求只有一个能赢，输家拿到 ErrStatusConflict。
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, id string, expected, next domain.Status) error {
	res := r.db.WithContext(ctx).Model(&OrderModel{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(map[string]interface{}{
			"status":     next,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return errors.Wrap(res.Error, "update order status")
	}
	if res.RowsAffected == 0 {
		// 区分 "订单不存在" 和 "状态被并发修改"
		var count int64
		if err := r.db.WithContext(ctx).Model(&OrderModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return errors.Wrap(err, "recheck order existence")
		}
		if count == 0 {
			return domain.ErrOrderNotFound
		}
		return domain.ErrStatusConflict
	}
	return nil
}
