package infrastructure

import (
	"time"

	"freshcart/internal/service/catalog/domain"
)

// ItemModel 对应数据库中的 items 表
type ItemModel struct {
	ID          string          `gorm:"primaryKey;size:36"`
	Name        string          `gorm:"size:255;not null"`
	Category    domain.Category `gorm:"size:32;index;not null"`
	Price       float64         `gorm:"type:decimal(10,2);not null"`
	Stock       int             `gorm:"not null;default:0"`
	Description string          `gorm:"type:text"`
	ImageURL    string          `gorm:"size:512"`
	Rating      float64         `gorm:"type:decimal(3,1);default:4.5"`
	Active      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName 指定 GORM 应该使用的表名
func (ItemModel) TableName() string {
	return "items"
}
