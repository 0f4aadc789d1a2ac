package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrItemNotFound      = errors.New("item not found")
	ErrItemInactive      = errors.New("item is not active")
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidItem 客户端可修复的入参错误，接口层据此映射 4xx。
	ErrInvalidItem = errors.New("invalid item")
)

// Category 是商品的固定分类。
type Category string

const (
	CategoryFruit     Category = "Fruit"
	CategoryVegetable Category = "Vegetable"
	CategoryNonVeg    Category = "Non-veg"
	CategoryBreads    Category = "Breads"
	CategoryDairy     Category = "Dairy"
	CategoryBeverages Category = "Beverages"
)

var allCategories = []Category{
	CategoryFruit, CategoryVegetable, CategoryNonVeg,
	CategoryBreads, CategoryDairy, CategoryBeverages,
}

// ParseCategory 校验并规范化分类取值。
func ParseCategory(s string) (Category, error) {
	for _, c := range allCategories {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrInvalidItem, s)
}

// Item 是商品目录的聚合根。
// 库存字段只能通过仓储的条件减扣/回补操作变更，实体本身不提供 setter。
type Item struct {
	ID          string
	Name        string
	Category    Category
	Price       float64
	Stock       int
	Description string
	ImageURL    string
	Rating      float64
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewItem 是商品的工厂函数，承担创建时的不变量检查。
func NewItem(name string, category Category, price float64, stock int) (*Item, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidItem)
	}
	if price < 0 {
		return nil, fmt.Errorf("%w: price must be >= 0", ErrInvalidItem)
	}
	if stock < 0 {
		return nil, fmt.Errorf("%w: stock must be >= 0", ErrInvalidItem)
	}
	if _, err := ParseCategory(string(category)); err != nil {
		return nil, err
	}
	now := time.Now()
	return &Item{
		Name:      name,
		Category:  category,
		Price:     price,
		Stock:     stock,
		Rating:    4.5,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// CanFulfill 判断商品在当前快照下能否满足请求数量。
// 这是一个只读检查；真正的防超卖由仓储层的条件减扣保证。
func (i *Item) CanFulfill(quantity int) error {
	if !i.Active {
		return ErrItemInactive
	}
	if i.Stock < quantity {
		return ErrInsufficientStock
	}
	return nil
}
