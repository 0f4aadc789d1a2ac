package application

import (
	"time"

	"freshcart/internal/service/catalog/domain"
)

// UpsertItemRequest 是新增/修改商品用例的输入数据。
// 可选字段用指针区分 "没传" 和 "传了零值"，
// 部分更新时省略的字段保持原值，不会被 JSON 零值误清。
type UpsertItemRequest struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Price       *float64 `json:"price"`
	Stock       int      `json:"stock"`
	Description *string  `json:"description,omitempty"`
	ImageURL    *string  `json:"imageUrl,omitempty"`
}

// RestockRequest 是补货用例的输入数据
type RestockRequest struct {
	Quantity int `json:"quantity"`
}

// ItemResponse 是商品在接口层的展示形态
type ItemResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Rating      float64   `json:"rating"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ToItemResponse 从领域模型转换为应用层响应DTO
func ToItemResponse(item *domain.Item) *ItemResponse {
	if item == nil {
		return nil
	}
	return &ItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Category:    string(item.Category),
		Price:       item.Price,
		Stock:       item.Stock,
		Description: item.Description,
		ImageURL:    item.ImageURL,
		Rating:      item.Rating,
		Active:      item.Active,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}
