package infrastructure

import (
	"freshcart/internal/service/catalog/domain"
)

// ToDomainItem 将数据库模型转换为领域模型
func ToDomainItem(model *ItemModel) *domain.Item {
	if model == nil {
		return nil
	}
	return &domain.Item{
		ID:          model.ID,
		Name:        model.Name,
		Category:    model.Category,
		Price:       model.Price,
		Stock:       model.Stock,
		Description: model.Description,
		ImageURL:    model.ImageURL,
		Rating:      model.Rating,
		Active:      model.Active,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// FromDomainItem 将领域模型转换为数据库模型
func FromDomainItem(dmn *domain.Item) *ItemModel {
	if dmn == nil {
		return nil
	}
	return &ItemModel{
		ID:          dmn.ID,
		Name:        dmn.Name,
		Category:    dmn.Category,
		Price:       dmn.Price,
		Stock:       dmn.Stock,
		Description: dmn.Description,
		ImageURL:    dmn.ImageURL,
		Rating:      dmn.Rating,
		Active:      dmn.Active,
		CreatedAt:   dmn.CreatedAt,
		UpdatedAt:   dmn.UpdatedAt,
	}
}
