package infrastructure

import (
	"time"

	"freshcart/internal/service/order/domain"
)

// OrderModel 对应数据库中的 orders 表
type OrderModel struct {
	ID            string               `gorm:"primaryKey;size:36"`
	UserID        string               `gorm:"size:64;index;not null"`
	Subtotal      float64              `gorm:"type:decimal(10,2);not null"`
	DeliveryFee   float64              `gorm:"type:decimal(10,2);not null"`
	Total         float64              `gorm:"type:decimal(10,2);not null"`
	Status        domain.Status        `gorm:"size:32;index;not null"`
	AddrStreet    string               `gorm:"size:255"`
	AddrCity      string               `gorm:"size:128"`
	AddrState     string               `gorm:"size:128"`
	AddrZipCode   string               `gorm:"size:32"`
	AddrFull      string               `gorm:"size:512;not null"`
	PaymentMethod domain.PaymentMethod `gorm:"size:32;not null"`
	PaymentStatus domain.PaymentStatus `gorm:"size:16;not null"`
	Notes         string               `gorm:"type:text"`
	TrackingID    string               `gorm:"size:32;uniqueIndex:uq_orders_tracking_id;not null"`
	EstimatedAt   time.Time
	CreatedAt     time.Time `gorm:"index"`
	UpdatedAt     time.Time

	// 订单行随订单一次性写入，之后不可变
	Lines []OrderLineModel `gorm:"foreignKey:OrderID"`
}

// TableName 指定 GORM 应该使用的表名
func (OrderModel) TableName() string {
	return "orders"
}

// OrderLineModel 对应数据库中的 order_lines 表，
// name/price 是下单时刻的冻结快照，不关联目录的当前值。
type OrderLineModel struct {
	ID       uint    `gorm:"primaryKey;autoIncrement"`
	OrderID  string  `gorm:"size:36;index;not null"`
	ItemID   string  `gorm:"size:36;not null"`
	Name     string  `gorm:"size:255;not null"`
	Price    float64 `gorm:"type:decimal(10,2);not null"`
	Quantity int     `gorm:"not null"`
}

// TableName 指定 GORM 应该使用的表名
func (OrderLineModel) TableName() string {
	return "order_lines"
}
