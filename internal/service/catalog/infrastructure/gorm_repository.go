package infrastructure

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"freshcart/internal/service/catalog/domain"
)

// GormItemRepository 是 ItemRepository 的 GORM 实现
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository 创建一个新的 GORM 仓储实例
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

func (r *GormItemRepository) Save(ctx context.Context, item *domain.Item) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	model := FromDomainItem(item)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return errors.Wrap(err, "failed to save item")
	}
	return nil
}

// Update 用显式列清单写入基础属性，stock 列绝不出现在 SET 里。
// 与订单事务里的条件减扣并发时，减扣结果不会被这里覆盖。
func (r *GormItemRepository) Update(ctx context.Context, item *domain.Item) error {
	item.UpdatedAt = time.Now()
	model := FromDomainItem(item)
	err := r.db.WithContext(ctx).
		Model(&ItemModel{}).
		Where("id = ?", item.ID).
		Select("name", "category", "price", "description", "image_url", "updated_at").
		Updates(model).Error
	if err != nil {
		return errors.Wrap(err, "failed to update item")
	}
	return nil
}

func (r *GormItemRepository) FindByID(ctx context.Context, id string) (*domain.Item, error) {
	var model ItemModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, errors.Wrap(err, "failed to query item")
	}
	return ToDomainItem(&model), nil
}

func (r *GormItemRepository) FindAll(ctx context.Context, category domain.Category) ([]*domain.Item, error) {
	var models []ItemModel
	q := r.db.WithContext(ctx).Where("active = ?", true)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if err := q.Order("name asc").Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list items")
	}
	items := make([]*domain.Item, 0, len(models))
	for i := range models {
		items = append(items, ToDomainItem(&models[i]))
	}
	return items, nil
}

// DecrementStock 用一条条件 UPDATE 实现 compare-and-swap 减库存。
// WHERE stock >= ? 保证并发请求下库存永远不会被减成负数：
// 两个请求争抢同一份库存时，数据库行锁串行化二者，后到者影响行数为 0。
func (r *GormItemRepository) DecrementStock(ctx context.Context, id string, quantity int) error {
	res := r.db.WithContext(ctx).
		Model(&ItemModel{}).
		Where("id = ? AND active = ? AND stock >= ?", id, true, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to decrement stock")
	}
	if res.RowsAffected == 0 {
		// 区分 "商品不存在/下架" 和 "库存不足"
		var model ItemModel
		err := r.db.WithContext(ctx).Select("id", "active").Where("id = ?", id).First(&model).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrItemNotFound
		}
		if err == nil && !model.Active {
			return domain.ErrItemInactive
		}
		return domain.ErrInsufficientStock
	}
	return nil
}

func (r *GormItemRepository) IncrementStock(ctx context.Context, id string, quantity int) error {
	res := r.db.WithContext(ctx).
		Model(&ItemModel{}).
		Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity))
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to increment stock")
	}
	if res.RowsAffected == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *GormItemRepository) Deactivate(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Model(&ItemModel{}).
		Where("id = ?", id).
		Update("active", false)
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to deactivate item")
	}
	if res.RowsAffected == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}
